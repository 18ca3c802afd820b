// evalforge runs a prompt eval suite: load, execute the cartesian
// product of providers x prompts x tests, report aggregate results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/evalforge/evalforge/pkg/api"
	"github.com/evalforge/evalforge/pkg/cache"
	"github.com/evalforge/evalforge/pkg/config"
	"github.com/evalforge/evalforge/pkg/eval"
	"github.com/evalforge/evalforge/pkg/progress"
	"github.com/evalforge/evalforge/pkg/provider"
	"github.com/evalforge/evalforge/pkg/scheduler"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Exit codes per §6.4.
const (
	exitOK          = 0
	exitTestFailure = 100
	exitConfigError = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "."), "directory to load .env from")
	suitePath := flag.String("suite", getEnv("SUITE_FILE", "suite.yaml"), "path to the eval suite YAML file")
	serve := flag.Bool("serve", false, "start the HTTP/WebSocket API instead of running once")
	httpPort := flag.String("port", getEnv("HTTP_PORT", "8080"), "port for -serve")
	redisAddr := flag.String("redis-addr", getEnv("REDIS_ADDR", ""), "Redis address for response caching (empty uses an in-memory cache)")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: could not load %s: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	if *serve {
		return runServer(*httpPort, *redisAddr)
	}
	return runOnce(*suitePath, *redisAddr)
}

func runServer(httpPort, redisAddr string) int {
	log.Printf("Starting evalforge API on :%s", httpPort)

	c := buildCache(redisAddr)
	factory := func(cfg eval.ProviderConfig) (provider.Provider, error) {
		return buildProvider(cfg)
	}
	newRunner := func() *eval.Runner {
		r := eval.NewRunner()
		r.Cache = c
		return r
	}

	server := api.NewServer(factory, newRunner)
	if err := http.ListenAndServe(":"+httpPort, server.Handler()); err != nil {
		log.Printf("server stopped: %v", err)
		return exitConfigError
	}
	return exitOK
}

func runOnce(suitePath, redisAddr string) int {
	ctx := context.Background()
	log := slog.With("component", "cmd", "suite_path", suitePath)

	suite, err := config.Initialize(ctx, suitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evalforge: %v\n", err)
		return exitConfigError
	}

	providers := make([]provider.Provider, len(suite.Providers))
	for i, pc := range suite.Providers {
		p, err := buildProvider(pc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "evalforge: %v\n", err)
			return exitConfigError
		}
		providers[i] = p
	}

	runner := eval.NewRunner()
	runner.Cache = buildCache(redisAddr)
	if !suite.Options.CacheEnabled {
		runner.Cache = cache.NoopCache{}
	}
	runner.MaxRetries = suite.Options.MaxRetries
	runner.Timeout = time.Duration(suite.Options.Timeout) * time.Millisecond

	sched := scheduler.NewScheduler(runner)

	mach := progress.New()
	total := len(suite.Providers) * len(suite.Prompts) * len(suite.Tests)
	mach.Dispatch(progress.Event{Type: progress.EventInit, TotalWork: total})
	mach.Dispatch(progress.Event{Type: progress.EventStart})

	results := sched.Run(ctx, *suite, providers, func(res eval.TestResult) {
		mach.Dispatch(progress.Event{
			Type:     progress.EventProgress,
			Provider: res.WorkItem.Provider.ID(),
			Passed:   res.Error == nil && res.Grading.Pass,
		})
		mach.Dispatch(progress.Event{Type: progress.EventTick})
	})
	mach.Dispatch(progress.Event{Type: progress.EventComplete})

	failed := 0
	for _, r := range results {
		if r.Error != nil || !r.Grading.Pass {
			failed++
		}
	}

	log.Info("run finished", "total", len(results), "failed", failed)
	fmt.Printf("%d/%d passed\n", len(results)-failed, len(results))

	if failed > 0 {
		return exitTestFailure
	}
	return exitOK
}

func buildCache(redisAddr string) cache.Cache {
	if redisAddr == "" {
		return cache.NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	return cache.NewRedisCache(client, "evalforge", time.Hour)
}

// buildProvider constructs a Provider from a suite's provider config.
// "http" dials an HTTP endpoint given in Options["url"]; anything else
// falls back to an echo stub, which is enough to exercise the pipeline
// without a live vendor integration (left to callers embedding pkg/eval
// as a library).
func buildProvider(cfg eval.ProviderConfig) (provider.Provider, error) {
	switch cfg.Type {
	case "http":
		url, _ := cfg.Options["url"].(string)
		if url == "" {
			return nil, fmt.Errorf("provider %s: type http requires options.url", cfg.ID)
		}
		return provider.NewHTTPAdapter(cfg.ID, url, nil), nil
	default:
		return provider.NewEchoStub(cfg.ID), nil
	}
}

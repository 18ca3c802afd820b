package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/evalforge/evalforge/pkg/cache"
	"github.com/evalforge/evalforge/pkg/config"
	"github.com/evalforge/evalforge/pkg/eval"
	"github.com/evalforge/evalforge/pkg/progress"
	"github.com/evalforge/evalforge/pkg/provider"
	"github.com/evalforge/evalforge/pkg/scheduler"
	"github.com/evalforge/evalforge/pkg/version"
)

// ProviderFactory builds a concrete provider.Provider from a ProviderConfig
// parsed out of a suite file. Concrete provider construction is a host
// concern (A4) — the server never knows which vendor SDKs, if any, a
// factory wires up.
type ProviderFactory func(cfg eval.ProviderConfig) (provider.Provider, error)

// Server hosts the HTTP/WebSocket front door over the engine.
type Server struct {
	router          *gin.Engine
	providerFactory ProviderFactory
	newRunner       func() *eval.Runner

	mu   sync.RWMutex
	runs map[string]*Run
}

// NewServer builds a Server. newRunner, if nil, defaults to a Runner
// backed by an in-memory cache.
func NewServer(providerFactory ProviderFactory, newRunner func() *eval.Runner) *Server {
	if newRunner == nil {
		newRunner = func() *eval.Runner {
			r := eval.NewRunner()
			r.Cache = cache.NewMemoryCache()
			return r
		}
	}
	s := &Server{
		providerFactory: providerFactory,
		newRunner:       newRunner,
		runs:            make(map[string]*Run),
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the server's http.Handler, ready to pass to http.Serve.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.POST("/runs", s.handleStartRun)
	r.GET("/runs/:id", s.handleGetRun)
	r.GET("/runs/:id/stream", s.handleStreamRun)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": version.Full()})
}

type startRunRequest struct {
	SuitePath string `json:"suitePath" binding:"required"`
}

func (s *Server) handleStartRun(c *gin.Context) {
	var req startRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suite, err := config.Initialize(c.Request.Context(), req.SuitePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	providers := make([]provider.Provider, len(suite.Providers))
	for i, pc := range suite.Providers {
		p, err := s.providerFactory(pc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		providers[i] = p
	}

	run := newRun(uuid.New().String(), *suite)
	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	go s.execute(run, providers)

	c.JSON(http.StatusAccepted, gin.H{"id": run.ID})
}

func (s *Server) execute(run *Run, providers []provider.Provider) {
	log := slog.With("component", "api", "run_id", run.ID)

	total := len(run.Suite.Providers) * len(run.Suite.Prompts) * len(run.Suite.Tests)
	run.Progress.Dispatch(progress.Event{Type: progress.EventInit, TotalWork: total})
	run.Progress.Dispatch(progress.Event{Type: progress.EventStart})

	runner := s.newRunner()
	if !run.Suite.Options.CacheEnabled {
		runner.Cache = cache.NoopCache{}
	}
	sched := scheduler.NewScheduler(runner)

	results := sched.Run(context.Background(), run.Suite, providers, func(res eval.TestResult) {
		run.Progress.Dispatch(progress.Event{
			Type:     progress.EventProgress,
			Provider: res.WorkItem.Provider.ID(),
			Passed:   res.Error == nil && res.Grading.Pass,
		})
		run.Progress.Dispatch(progress.Event{Type: progress.EventTick})
	})

	run.finish(results, nil)
	run.Progress.Dispatch(progress.Event{Type: progress.EventComplete})
	log.Info("run finished", "results", len(results))
}

func (s *Server) getRun(id string) (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	return run, ok
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, ok := s.getRun(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       run.ID,
		"status":   run.Status(),
		"progress": run.Progress.Snapshot(),
		"results":  summarize(run),
	})
}

func summarize(run *Run) []gin.H {
	results := run.Results()
	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		out = append(out, gin.H{
			"provider": r.WorkItem.Provider.ID(),
			"test":     r.WorkItem.TestIndex,
			"pass":     r.Grading.Pass,
			"score":    r.Grading.Score,
			"error":    errString(r.Error),
		})
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package resolvers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileResolverReadsAndRenders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello, {{name}}!"), 0o644))

	f := FileResolver{BaseDir: dir}
	out, err := f.Resolve(context.Background(), "file://prompt.txt", map[string]any{"name": "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", out)
}

func TestFileResolverMissingFile(t *testing.T) {
	f := FileResolver{BaseDir: t.TempDir()}
	_, err := f.Resolve(context.Background(), "file://does-not-exist.txt", nil)
	assert.Error(t, err)
}

func TestRegistryDispatchesByScheme(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p.txt"), []byte("static prompt"), 0o644))

	r := NewRegistry()
	r.Register("file", FileResolver{BaseDir: dir})

	out, err := r.Resolve(context.Background(), "file://p.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "static prompt", out)
}

func TestRegistryPassesThroughInlineStrings(t *testing.T) {
	r := NewRegistry()
	out, err := r.Resolve(context.Background(), "a plain inline prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "a plain inline prompt", out)
}

func TestRegistryUnknownSchemeErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(context.Background(), "s3://bucket/key", nil)
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestBedrockResolverRequiresFetch(t *testing.T) {
	b := BedrockResolver{}
	_, err := b.Resolve(context.Background(), "bedrock://arn:aws:bedrock:prompt/abc", nil)
	assert.Error(t, err)
}

func TestBedrockResolverRendersFetchedTemplate(t *testing.T) {
	b := BedrockResolver{Fetch: func(ctx context.Context, promptArn, version string) (string, error) {
		assert.Equal(t, "arn:aws:bedrock:prompt/abc", promptArn)
		assert.Equal(t, "2", version)
		return "Summarize: {{topic}}", nil
	}}
	out, err := b.Resolve(context.Background(), "bedrock://arn:aws:bedrock:prompt/abc:2", map[string]any{"topic": "Go"})
	require.NoError(t, err)
	assert.Equal(t, "Summarize: Go", out)
}

package resolvers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evalforge/evalforge/pkg/render"
)

// FileResolver resolves file:// references relative to BaseDir, then
// substitutes {{var}} placeholders against the caller's vars — the same
// grammar the prompt/metric renderer uses (§4.4/§4.9).
type FileResolver struct {
	BaseDir string
}

func (f FileResolver) Resolve(ctx context.Context, uri string, vars map[string]any) (string, error) {
	path := strings.TrimPrefix(uri, "file://")
	if !filepath.IsAbs(path) && f.BaseDir != "" {
		path = filepath.Join(f.BaseDir, path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", uri, err)
	}
	return render.String(string(b), vars), nil
}

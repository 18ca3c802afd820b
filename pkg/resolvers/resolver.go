// Package resolvers implements the integration glue (C9) that turns a
// prompt or test-data URI into concrete text: file:// for local prompt
// files and fixtures, plus huggingface://, langfuse://, and bedrock://
// for pulling prompt/test content from external stores.
package resolvers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedScheme is returned when no Resolver is registered for a
// URI's scheme.
var ErrUnsupportedScheme = errors.New("unsupported resolver scheme")

// Resolver turns one URI into resolved text, substituting vars where the
// underlying source supports templating (§4.9).
type Resolver interface {
	Resolve(ctx context.Context, uri string, vars map[string]any) (string, error)
}

// Registry dispatches a URI to the Resolver registered for its scheme.
type Registry struct {
	resolvers map[string]Resolver
}

// NewRegistry returns an empty Registry; callers register the schemes
// they need (file, huggingface, langfuse, bedrock, ...).
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register installs resolver for scheme (without the "://" suffix).
func (r *Registry) Register(scheme string, resolver Resolver) {
	r.resolvers[scheme] = resolver
}

// Resolve dispatches uri to its scheme's Resolver. A uri with no "://"
// separator is returned unchanged — the common case of an inline prompt
// string rather than a reference.
func (r *Registry) Resolve(ctx context.Context, uri string, vars map[string]any) (string, error) {
	scheme, ok := schemeOf(uri)
	if !ok {
		return uri, nil
	}
	resolver, ok := r.resolvers[scheme]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
	return resolver.Resolve(ctx, uri, vars)
}

func schemeOf(uri string) (string, bool) {
	idx := strings.Index(uri, "://")
	if idx < 0 {
		return "", false
	}
	return uri[:idx], true
}

// Package loader turns discovered test files into test cases.
//
// Go test files register their suites in a Registry when their package is
// linked into the binary; declarative command suites are read from YAML.
// A Mux routes each discovered path to the loader owning its suffix.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"ntr/internal/domain"
)

// Loader loads the test cases contributed by one file
type Loader interface {
	Load(ctx context.Context, path string) ([]domain.TestCase, error)
	Suffixes() []string
}

type route struct {
	suffix string
	loader Loader
}

// Mux dispatches a path to the loader with the longest matching suffix
type Mux struct {
	routes []route
}

// NewMux creates a Mux over loaders. Later loaders win on identical suffixes.
func NewMux(loaders ...Loader) *Mux {
	bySuffix := make(map[string]Loader)
	for _, l := range loaders {
		for _, s := range l.Suffixes() {
			bySuffix[s] = l
		}
	}

	m := &Mux{}
	for s, l := range bySuffix {
		m.routes = append(m.routes, route{suffix: s, loader: l})
	}
	sort.Slice(m.routes, func(i, j int) bool {
		if len(m.routes[i].suffix) != len(m.routes[j].suffix) {
			return len(m.routes[i].suffix) > len(m.routes[j].suffix)
		}
		return m.routes[i].suffix < m.routes[j].suffix
	})
	return m
}

// Suffixes returns every suffix handled by the mux
func (m *Mux) Suffixes() []string {
	suffixes := make([]string, len(m.routes))
	for i, r := range m.routes {
		suffixes[i] = r.suffix
	}
	return suffixes
}

// Load delegates to the loader owning path
func (m *Mux) Load(ctx context.Context, path string) ([]domain.TestCase, error) {
	base := filepath.Base(path)
	for _, r := range m.routes {
		if strings.HasSuffix(base, r.suffix) {
			return r.loader.Load(ctx, path)
		}
	}
	return nil, fmt.Errorf("no loader for %s", path)
}

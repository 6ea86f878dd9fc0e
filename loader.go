package dashpages

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/agnivade/levenshtein"
)

// Loader is handed to each Module's Load function. It gives access to the
// startup context, to the dependencies passed to Load and to the pages loaded
// before the current one.
type Loader struct {
	ctx    context.Context
	deps   depRegistry
	pages  []*Page
	names  []string
	module string
}

// Load loads the named modules from catalog, in order, and returns the
// resulting registry. deps are made available to modules by type, see
// Dependency.
//
// Loading stops at the first failure; the error is a *ModuleLoadError.
func Load(ctx context.Context, catalog Catalog, names []string, deps ...any) (*Registry, error) {
	l := &Loader{ctx: ctx, deps: make(depRegistry, len(deps)), names: names}
	for _, d := range deps {
		if err := l.deps.add(d); err != nil {
			return nil, fmt.Errorf("dashpages: %w", err)
		}
	}
	reg := newRegistry()
	for _, name := range names {
		m, ok := catalog.lookup(name)
		if !ok {
			return nil, &ModuleLoadError{Module: name, Err: notFound(name, catalog.Names())}
		}
		if m.Load == nil {
			return nil, &ModuleLoadError{Module: name, Err: errors.New("module has no Load function")}
		}
		if err := ctx.Err(); err != nil {
			return nil, &ModuleLoadError{Module: name, Err: err}
		}
		l.module = name
		page, err := m.Load(l)
		if err != nil {
			return nil, &ModuleLoadError{Module: name, Err: err}
		}
		if page == nil {
			return nil, &ModuleLoadError{Module: name, Err: errors.New("module returned no page")}
		}
		if err := reg.add(page); err != nil {
			return nil, &ModuleLoadError{Module: name, Err: err}
		}
		l.pages = append(l.pages, page)
	}
	return reg, nil
}

// Context returns the context Load was called with.
func (l *Loader) Context() context.Context {
	return l.ctx
}

// Module returns the name of the module being loaded.
func (l *Loader) Module() string {
	return l.module
}

// Page returns a page loaded earlier. The referenced module must come first
// in the configured order: a page configured later fails with ErrLoadOrder,
// one not configured at all with ErrUnknownPage.
func (l *Loader) Page(name string) (*Page, error) {
	for _, p := range l.pages {
		if p.Name == name {
			return p, nil
		}
	}
	if slices.Contains(l.names, name) {
		return nil, fmt.Errorf("page %q is referenced by %q: %w", name, l.module, ErrLoadOrder)
	}
	return nil, fmt.Errorf("page %q is not configured: %w", name, ErrUnknownPage)
}

// Dependency returns the dependency of type T passed to Load.
func Dependency[T any](l *Loader) (T, error) {
	var zero T
	typ := reflect.TypeFor[T]()
	v, ok := l.deps.get(typ)
	if !ok {
		return zero, fmt.Errorf("no dependency of type %s", typ)
	}
	return v.Interface().(T), nil
}

func notFound(name string, known []string) error {
	if s := closest(name, known); s != "" {
		return fmt.Errorf("no such module (did you mean %q?): %w", s, ErrUnknownPage)
	}
	return fmt.Errorf("no such module: %w", ErrUnknownPage)
}

// closest returns the known name nearest to name, if it is close enough to be
// a plausible typo.
func closest(name string, known []string) string {
	best, bestDist := "", len(name)/2+1
	for _, k := range known {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

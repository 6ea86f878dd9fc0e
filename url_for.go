package dashpages

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jackielii/ctxkey"
)

var registryCtx = ctxkey.New[*Registry]("dashpages.registry", nil)

// WithRegistry attaches reg to ctx for URLFor.
func WithRegistry(ctx context.Context, reg *Registry) context.Context {
	return registryCtx.WithValue(ctx, reg)
}

// URLFor returns the path of the registered page called name. Optional
// key/value pairs are added as query parameters:
//
//	URLFor(ctx, "complex-page")        // /dash/complex-page
//	URLFor(ctx, "page-2", "tab", "b")  // /dash/page-2?tab=b
//
// The registry is taken from ctx; Server handlers and Server.Middleware put it
// there.
func URLFor(ctx context.Context, name string, query ...string) (string, error) {
	reg := registryCtx.Value(ctx)
	if reg == nil {
		return "", errors.New("urlfor: registry not found in context")
	}
	p, ok := reg.Lookup(name)
	if !ok {
		if s := closest(name, reg.Names()); s != "" {
			return "", fmt.Errorf("urlfor: page %q (did you mean %q?): %w", name, s, ErrUnknownPage)
		}
		return "", fmt.Errorf("urlfor: page %q: %w", name, ErrUnknownPage)
	}
	if p.Shell {
		return "", fmt.Errorf("urlfor: page %q is the shell and has no path", name)
	}
	if len(query)%2 != 0 {
		return "", fmt.Errorf("urlfor: odd number of query arguments: %v", query)
	}
	path := PagePath(p.Name)
	if len(query) == 0 {
		return path, nil
	}
	q := make(url.Values, len(query)/2)
	for i := 0; i < len(query); i += 2 {
		q.Add(query[i], query[i+1])
	}
	return path + "?" + q.Encode(), nil
}

package dashpages

import (
	"net/http"
)

// Router registers the handlers of a Server. Patterns use the http.ServeMux
// syntax, including trailing wildcards such as "/dash/{page...}".
type Router interface {
	HandleMethod(method, pattern string, handler http.Handler)
}

type stdRouter struct {
	router *http.ServeMux
}

// NewRouter wraps an http.ServeMux. A nil mux means http.DefaultServeMux.
//
//	mux := http.NewServeMux()
//	err := dashpages.New(app).Mount(dashpages.NewRouter(mux))
func NewRouter(router *http.ServeMux) *stdRouter {
	if router == nil {
		router = http.DefaultServeMux
	}
	return &stdRouter{router: router}
}

func (r *stdRouter) HandleMethod(method, pattern string, handler http.Handler) {
	if method != "" {
		pattern = method + " " + pattern
	}
	r.router.Handle(pattern, handler)
}

func (r *stdRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

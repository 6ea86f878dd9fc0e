package dashpages

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
)

type chiRouter struct {
	router chi.Router
}

// NewChiRouter adapts a chi router.
func NewChiRouter(r chi.Router) *chiRouter {
	return &chiRouter{router: r}
}

var restWildcard = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\.\.\.\}$`)

// HandleMethod translates a trailing "{name...}" wildcard into chi's "*".
func (r *chiRouter) HandleMethod(method, pattern string, handler http.Handler) {
	pattern = restWildcard.ReplaceAllString(pattern, "*")
	if method == "" {
		r.router.Handle(pattern, handler)
	} else {
		r.router.Method(method, pattern, handler)
	}
}

func (r *chiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

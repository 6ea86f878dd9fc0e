package dashpages

import (
	"fmt"
	"net/http"
	"strings"
)

// routeRecorder is a Router that only records what is registered.
type routeRecorder struct {
	routes []string
}

func (p *routeRecorder) HandleMethod(method, pattern string, _ http.Handler) {
	p.routes = append(p.routes, strings.TrimSpace(method+" "+pattern))
}

var _ Router = (*routeRecorder)(nil)

// PrintRoutes lists the routes Mount registers followed by the path of every
// page the dispatcher can route to.
func (s *Server) PrintRoutes() string {
	rec := &routeRecorder{}
	if err := s.Mount(rec); err != nil {
		return err.Error()
	}
	var sb strings.Builder
	for _, r := range rec.routes {
		sb.WriteString(r + "\n")
	}
	for _, p := range s.app.Dispatcher().pages {
		fmt.Fprintf(&sb, "  %s -> %s\n", PagePath(p.Name), p.Name)
	}
	return sb.String()
}

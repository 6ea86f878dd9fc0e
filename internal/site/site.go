// Package site serves the pages rendered outside the dashboard.
package site

import (
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/ui"
)

// Title is the title of the index page.
const Title = "Platonic-Dash Demo"

// MysteryItems are the values page2 picks from.
var MysteryItems = []string{"A", "B", "C"}

type Site struct {
	// Dashboards are the page names the index links to, in order.
	Dashboards []string
	// Page2Loads counts page2 views. It may be nil.
	Page2Loads prometheus.Counter
	// Choose returns a number in [0, n). It defaults to rand.IntN.
	Choose func(n int) int
	Logger *slog.Logger
}

// Mount registers the site routes. The dashboard registry must be in the
// request context, see dashpages.Server.Middleware.
func (s *Site) Mount(r dashpages.Router, mw func(http.Handler) http.Handler) {
	index := mw(http.HandlerFunc(s.Index))
	r.HandleMethod(http.MethodGet, "/", index)
	r.HandleMethod(http.MethodGet, "/index", index)
	r.HandleMethod(http.MethodGet, "/page2", mw(http.HandlerFunc(s.Page2)))
}

func (s *Site) Index(w http.ResponseWriter, r *http.Request) {
	items := make([]*ui.Node, 0, len(s.Dashboards)+2)
	for _, name := range s.Dashboards {
		href, err := dashpages.URLFor(r.Context(), name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		items = append(items, ui.Li(ui.A("Dashboard: "+name, href)))
	}
	items = append(items,
		ui.Li(ui.A("Dashboard index", "/dash")),
		ui.Li(ui.A("A page rendered by the server", "/page2")),
	)
	s.write(w, r, Title, ui.Div(
		ui.H1(Title),
		ui.P(ui.Text("Server rendered pages next to a reactive dashboard.")),
		ui.Ul(items...),
	))
}

func (s *Site) Page2(w http.ResponseWriter, r *http.Request) {
	if s.Page2Loads != nil {
		s.Page2Loads.Inc()
	}
	choose := s.Choose
	if choose == nil {
		choose = rand.IntN
	}
	item := MysteryItems[choose(len(MysteryItems))]
	s.write(w, r, "Page 2", ui.Div(
		ui.H1("Page 2"),
		ui.P(ui.Text("The mystery item is: "), element("strong", item)),
		ui.A("Back to index", "/index"),
	))
}

func element(tag, text string) *ui.Node {
	return &ui.Node{Kind: ui.KindElement, Tag: tag, Children: []*ui.Node{ui.Text(text)}}
}

func (s *Site) write(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	doc := ui.Document{Title: title, Body: body}
	templ.Handler(doc, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.fail(w, r, err)
		})
	})).ServeHTTP(w, r)
}

func (s *Site) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(r.Context(), "Render page failed", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

package dashpages

import (
	"github.com/jackielii/dashpages/ui"
)

// PathPrefix is the URL prefix under which pages are served.
const PathPrefix = "/dash/"

// PagePath returns the path a page named name is served at.
func PagePath(name string) string {
	return PathPrefix + name
}

// Dispatcher maps a URL path to the layout to show in the shell's content
// slot. It is stateless apart from the registry it was built from.
type Dispatcher struct {
	pages     []*Page
	index     *ui.Node
	homeLabel string
	homeHref  string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHomeLink sets the trailing link of the index layout, which leads out of
// the dashboard.
func WithHomeLink(label, href string) DispatcherOption {
	return func(d *Dispatcher) {
		d.homeLabel, d.homeHref = label, href
	}
}

// NewDispatcher builds a dispatcher over the registry's non-shell pages.
func NewDispatcher(reg *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{homeLabel: "Back to home", homeHref: "/"}
	for _, opt := range opts {
		opt(d)
	}
	for _, p := range reg.Pages() {
		if !p.Shell {
			d.pages = append(d.pages, p)
		}
	}
	d.index = d.buildIndex()
	return d
}

// Resolve returns the layout of the page served at path, or the index layout
// when no page matches.
func (d *Dispatcher) Resolve(path string) *ui.Node {
	if p, ok := d.Match(path); ok {
		return p.Layout
	}
	return d.index
}

// Match returns the page served at path.
func (d *Dispatcher) Match(path string) (*Page, bool) {
	for _, p := range d.pages {
		if path == PagePath(p.Name) {
			return p, true
		}
	}
	return nil, false
}

// Index returns the default layout, linking to every page.
func (d *Dispatcher) Index() *ui.Node {
	return d.index
}

func (d *Dispatcher) buildIndex() *ui.Node {
	children := make([]*ui.Node, 0, 2*len(d.pages)+1)
	for _, p := range d.pages {
		label := p.Title
		if label == "" {
			label = p.Name
		}
		children = append(children, ui.Link("Go to "+label, PagePath(p.Name)), ui.Br())
	}
	children = append(children, ui.A(d.homeLabel, d.homeHref))
	return ui.Div(children...)
}

package dashpages

import (
	"fmt"
	"strings"

	"github.com/jackielii/dashpages/ui"
)

// Page is what a page module contributes to the application. It is built once
// while loading and must not be modified afterwards.
type Page struct {
	// Name is the routable name; the page is served at PagePath(Name).
	Name  string
	Title string
	// Layout is the page's element tree.
	Layout *ui.Node
	// IDs is the page's ID map. Other modules may use it to bind callbacks to
	// this page's elements.
	IDs *IDMap
	// Shell marks the page whose layout is the application's root layout.
	// The dispatcher never routes to a shell page.
	Shell bool
	// InitCallbacks registers the page's callbacks. It may be nil.
	InitCallbacks func(app *App) error
}

func (p *Page) validate() error {
	if p.Name == "" {
		return fmt.Errorf("page has no name")
	}
	if strings.Contains(p.Name, "/") {
		return fmt.Errorf("page name %q contains /", p.Name)
	}
	if p.Layout == nil {
		return fmt.Errorf("page %s has no layout", p.Name)
	}
	return nil
}

func (p *Page) String() string {
	var sb strings.Builder
	sb.WriteString("Page{")
	sb.WriteString("\n  name: " + p.Name)
	sb.WriteString("\n  title: " + p.Title)
	if p.Shell {
		sb.WriteString("\n  shell: true")
	} else {
		sb.WriteString("\n  path: " + PagePath(p.Name))
	}
	if p.IDs != nil {
		sb.WriteString("\n  namespace: " + p.IDs.Namespace())
		for _, name := range p.IDs.Names() {
			sb.WriteString("\n  id: " + name + " -> " + p.IDs.Get(name))
		}
	}
	sb.WriteString("\n}")
	return sb.String()
}

// Module is one entry of the page registration table.
type Module struct {
	Name string
	Load func(l *Loader) (*Page, error)
}

// Catalog is the table of page modules an application can be configured with.
type Catalog []Module

func (c Catalog) lookup(name string) (Module, bool) {
	for _, m := range c {
		if m.Name == name {
			return m, true
		}
	}
	return Module{}, false
}

// Names lists the module names in table order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, m := range c {
		names[i] = m.Name
	}
	return names
}

package dashpages

import (
	"fmt"
	"strings"
)

// Registry is the ordered set of loaded pages. It is built once by Load (or
// NewRegistry) and is read-only afterwards.
type Registry struct {
	pages      []*Page
	byName     map[string]*Page
	namespaces map[string]string // namespace -> page name
	shell      *Page
}

func newRegistry() *Registry {
	return &Registry{
		byName:     make(map[string]*Page),
		namespaces: make(map[string]string),
	}
}

// NewRegistry builds a registry from already constructed pages, in order.
func NewRegistry(pages ...*Page) (*Registry, error) {
	reg := newRegistry()
	for _, p := range pages {
		if err := reg.add(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (r *Registry) add(p *Page) error {
	if err := p.validate(); err != nil {
		return err
	}
	if _, ok := r.byName[p.Name]; ok {
		return fmt.Errorf("page %s: %w", p.Name, ErrDuplicatePage)
	}
	if p.IDs != nil {
		if other, ok := r.namespaces[p.IDs.Namespace()]; ok {
			return fmt.Errorf("page %s: namespace %s used by page %s: %w",
				p.Name, p.IDs.Namespace(), other, ErrNamespaceCollision)
		}
	}
	if p.Shell && r.shell != nil {
		return fmt.Errorf("pages %s and %s: %w", r.shell.Name, p.Name, ErrMultipleShells)
	}

	r.pages = append(r.pages, p)
	r.byName[p.Name] = p
	if p.IDs != nil {
		r.namespaces[p.IDs.Namespace()] = p.Name
	}
	if p.Shell {
		r.shell = p
	}
	return nil
}

// Pages returns the pages in load order.
func (r *Registry) Pages() []*Page {
	return append([]*Page(nil), r.pages...)
}

// Lookup returns the page with the given name.
func (r *Registry) Lookup(name string) (*Page, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Shell returns the shell page, if one is registered.
func (r *Registry) Shell() (*Page, bool) {
	return r.shell, r.shell != nil
}

// Names returns the page names in load order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.pages))
	for i, p := range r.pages {
		names[i] = p.Name
	}
	return names
}

// InitCallbacks calls every page's InitCallbacks in load order.
func (r *Registry) InitCallbacks(app *App) error {
	for _, p := range r.pages {
		if p.InitCallbacks == nil {
			continue
		}
		if err := p.InitCallbacks(app); err != nil {
			return fmt.Errorf("init callbacks of page %s: %w", p.Name, err)
		}
	}
	return nil
}

func (r *Registry) String() string {
	var sb strings.Builder
	sb.WriteString("Registry{")
	for i, p := range r.pages {
		fmt.Fprintf(&sb, "\n  page %d:", i+1)
		for _, line := range strings.SplitAfter(p.String(), "\n") {
			sb.WriteString("  " + line)
		}
	}
	sb.WriteString("\n}")
	return sb.String()
}

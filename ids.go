package dashpages

import (
	"fmt"
	"maps"
	"net/url"
	"runtime"
	"slices"
	"strings"
)

// IDSeparator joins a short name and its namespace.
const IDSeparator = "--"

// namespaceReplacer strips the characters element IDs may not contain.
// Package paths use "/" between elements and "." inside domain names.
var namespaceReplacer = strings.NewReplacer("/", "_", ".", "_")

// IDMap maps the short names used inside one page module to element IDs that
// are unique across the whole application.
//
// An IDMap is immutable and safe for concurrent use.
type IDMap struct {
	namespace string
	ids       map[string]string
}

// InitIDs returns an IDMap whose namespace is the import path of the calling
// function's package, so two packages can use the same short names without
// their element IDs colliding.
//
// It fails with a *ResolutionError when the caller's package cannot be
// determined.
func InitIDs(names ...string) (*IDMap, error) {
	ns, err := callerPackage(2)
	if err != nil {
		return nil, err
	}
	return NewIDs(ns, names...), nil
}

// MustInitIDs is like InitIDs but panics on failure. It is meant for package
// level variables:
//
//	var ids = dashpages.MustInitIDs("url", "page-content")
func MustInitIDs(names ...string) *IDMap {
	ns, err := callerPackage(2)
	if err != nil {
		panic(err)
	}
	return NewIDs(ns, names...)
}

// NewIDs returns an IDMap using an explicit namespace.
//
// Explicit namespaces are not checked for uniqueness here; two modules that
// pick the same namespace are rejected when their pages are added to a
// Registry.
func NewIDs(namespace string, names ...string) *IDMap {
	m := &IDMap{
		namespace: SanitizeNamespace(namespace),
		ids:       make(map[string]string, len(names)),
	}
	for _, name := range names {
		m.ids[name] = name + IDSeparator + m.namespace
	}
	return m
}

// SanitizeNamespace replaces every hierarchy separator in ns with "_".
func SanitizeNamespace(ns string) string {
	return namespaceReplacer.Replace(ns)
}

// Namespace returns the sanitized namespace shared by all IDs in m.
func (m *IDMap) Namespace() string {
	return m.namespace
}

// Get returns the element ID for a short name. Asking for a name that was
// never declared is a programming error and panics.
func (m *IDMap) Get(name string) string {
	id, ok := m.ids[name]
	if !ok {
		panic(fmt.Sprintf("dashpages: id %q not declared in namespace %s", name, m.namespace))
	}
	return id
}

// Lookup returns the element ID for a short name and whether it was declared.
func (m *IDMap) Lookup(name string) (string, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// Names returns the declared short names, sorted.
func (m *IDMap) Names() []string {
	return slices.Sorted(maps.Keys(m.ids))
}

// Map returns a copy of the short name to element ID mapping.
func (m *IDMap) Map() map[string]string {
	return maps.Clone(m.ids)
}

// callerPackage returns the import path of the package of the function skip
// frames above callerPackage.
func callerPackage(skip int) (string, error) {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "", &ResolutionError{Reason: "no caller frame"}
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", &ResolutionError{PC: pc, Reason: "no function for caller frame"}
	}
	pkg := packageOf(fn.Name())
	if pkg == "" {
		return "", &ResolutionError{PC: pc, Func: fn.Name(), Reason: "cannot derive package from function name"}
	}
	return pkg, nil
}

// packageOf extracts the package path from a fully qualified function name
// such as "example.com/a/b.(*T).Method" or "example.com/a/b.init.0". The
// linker percent-encodes dots in the last path element, as in
// "gopkg.in/yaml%2ev3", so the result is unescaped.
func packageOf(funcName string) string {
	slash := strings.LastIndex(funcName, "/")
	dot := strings.Index(funcName[slash+1:], ".")
	if dot <= 0 {
		return ""
	}
	pkg := funcName[:slash+1+dot]
	if unescaped, err := url.PathUnescape(pkg); err == nil {
		return unescaped
	}
	return pkg
}

package dashpages

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/jackielii/dashpages/ui"
)

// Paths served by a mounted Server, besides the pages themselves.
const (
	UpdatePath = "/_dash/update"
	AssetPath  = "/_dash/assets/dash.js"
)

// Default client libraries loaded by every dashboard document.
var DefaultScripts = []string{
	"https://unpkg.com/htmx.org@2.0.4",
	"https://cdn.plot.ly/plotly-2.35.2.min.js",
}

//go:embed assets/dash.js
var clientScript []byte

type middlewareFunc = func(http.Handler) http.Handler

// Server exposes an App over HTTP.
type Server struct {
	app         *App
	title       string
	scripts     []string
	styles      []string
	onError     func(http.ResponseWriter, *http.Request, error)
	middlewares []middlewareFunc
	logger      *slog.Logger
}

type Option func(*Server)

func New(app *App, options ...Option) *Server {
	s := &Server{
		app:     app,
		title:   "Dash",
		scripts: DefaultScripts,
		logger:  slog.Default(),
	}
	s.onError = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func WithErrorHandler(onError func(http.ResponseWriter, *http.Request, error)) Option {
	return func(s *Server) {
		s.onError = onError
	}
}

// WithMiddlewares wraps every handler of the server. The last middleware is
// the outermost.
func WithMiddlewares(middlewares ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, middlewares...)
	}
}

func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithScripts replaces DefaultScripts.
func WithScripts(scripts ...string) Option {
	return func(s *Server) {
		s.scripts = scripts
	}
}

func WithStyles(styles ...string) Option {
	return func(s *Server) {
		s.styles = styles
	}
}

func WithServerLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// Mount registers the dashboard routes on router. It fails with ErrNoShell when
// the app has no root layout.
func (s *Server) Mount(router Router) error {
	if s.app.Layout() == nil {
		return fmt.Errorf("dashpages: mount: %w", ErrNoShell)
	}
	page := s.wrap(http.HandlerFunc(s.servePage))
	router.HandleMethod(http.MethodGet, strings.TrimSuffix(PathPrefix, "/"), page)
	router.HandleMethod(http.MethodGet, PathPrefix+"{page...}", page)
	router.HandleMethod(http.MethodPost, UpdatePath, s.wrap(http.HandlerFunc(s.serveUpdate)))
	router.HandleMethod(http.MethodGet, AssetPath, s.wrap(http.HandlerFunc(serveClientScript)))
	return nil
}

// Middleware puts the app's registry in the request context so handlers
// outside the dashboard can use URLFor.
func (s *Server) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRegistry(r.Context(), s.app.Registry())))
	})
}

func (s *Server) wrap(h http.Handler) http.Handler {
	h = s.Middleware(h)
	for _, mw := range s.middlewares {
		h = mw(h)
	}
	return h
}

func (s *Server) document(body templ.Component) ui.Document {
	return ui.Document{
		Title:   s.title,
		Scripts: append(append([]string(nil), s.scripts...), AssetPath),
		Styles:  s.styles,
		Body:    body,
	}
}

// servePage renders the root layout with the outputs of the initial load.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := s.app.Prime(ctx, r.URL, nil)
	if err != nil {
		s.onError(w, r, fmt.Errorf("prime %s: %w", r.URL.Path, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render(ui.WithState(ctx, st), w, s.document(s.app.Layout())); err != nil {
		s.onError(w, r, fmt.Errorf("render %s: %w", r.URL.Path, err))
	}
}

// UpdateRequest is a decoded POST to UpdatePath.
type UpdateRequest struct {
	Event Event
	// State holds the current values the client sent along.
	State ui.State
	// URL is the page location of the client, if it sent one.
	URL *url.URL
}

// ParseUpdate decodes an update request. The form fields are _id, _prop and
// _value for the changed property, state.<id>.<prop> for every other known
// value and _url for the page location. _id defaults to the htmx trigger.
func ParseUpdate(r *http.Request) (*UpdateRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	form := r.PostForm
	id := form.Get("_id")
	if id == "" {
		id = triggerID(r)
	}
	prop := form.Get("_prop")
	if id == "" || prop == "" {
		return nil, errors.New("missing _id or _prop")
	}

	req := &UpdateRequest{
		Event: Event{Prop: ui.Prop{ID: id, Property: prop}, Value: form.Get("_value")},
		State: make(ui.State),
	}
	for key, values := range form {
		rest, ok := strings.CutPrefix(key, "state.")
		if !ok || len(values) == 0 {
			continue
		}
		sid, sprop, ok := strings.Cut(rest, ".")
		if !ok || sid == "" || sprop == "" {
			return nil, fmt.Errorf("malformed state key %q", key)
		}
		req.State[ui.Prop{ID: sid, Property: sprop}] = values[0]
	}

	raw := form.Get("_url")
	if raw == "" {
		raw = r.Header.Get("HX-Current-URL")
	}
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse _url: %w", err)
		}
		req.URL = u
	}
	return req, nil
}

func (s *Server) serveUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := ParseUpdate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	updates, err := s.app.Dispatch(ctx, req.Event, req.State)
	if err != nil {
		s.onError(w, r, fmt.Errorf("dispatch %s: %w", req.Event.Prop, err))
		return
	}
	s.logger.DebugContext(ctx, "Dispatched event", "prop", req.Event.Prop.String(), "updates", len(updates))

	if !isHTMX(r) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"updates": propUpdates(updates)}); err != nil {
			s.logger.WarnContext(ctx, "Write update response", "error", err)
		}
		return
	}

	swaps, props, st, err := s.expand(ctx, req, updates)
	if err != nil {
		s.onError(w, r, err)
		return
	}
	bw := newBuffered(w)
	if err := writeHTMX(ui.WithState(ctx, st), bw, swaps, props); err != nil {
		bw.discard()
		for _, h := range []string{"HX-Reswap", "HX-Trigger"} {
			w.Header().Del(h)
		}
		s.onError(w, r, fmt.Errorf("render update: %w", err))
		return
	}
	if err := bw.close(); err != nil {
		s.logger.WarnContext(ctx, "Write update response", "error", err)
	}
}

// expand splits updates into children swaps and property updates. Content
// swapped in gets its own initial outputs, computed with App.Expand and
// rendered as part of the swap.
func (s *Server) expand(ctx context.Context, req *UpdateRequest, updates []Update) (templ.Component, []Update, ui.State, error) {
	st := req.State.Clone()
	for _, u := range updates {
		st[u.Prop] = u.Value
	}
	var (
		swapIDs []string
		props   []Update
	)
	for _, u := range updates {
		if u.Prop.Property != "children" {
			props = append(props, u)
			continue
		}
		swapIDs = append(swapIDs, u.Prop.ID)
		root := childrenNode(u.Value)
		if root == nil {
			continue
		}
		out, err := s.app.Expand(ctx, root, req.URL, st)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("expand %s: %w", u.Prop, err)
		}
		inside := root.IDs()
		for p, v := range out {
			if !slices.Contains(inside, p.ID) {
				props = append(props, Update{Prop: p, Value: v})
			}
		}
		maps.Copy(st, out)
	}

	swaps := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, id := range swapIDs {
			oob := ui.Div().WithID(id).With("hx-swap-oob", "innerHTML")
			if err := oob.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	return swaps, props, st, nil
}

// childrenNode wraps a children value in a node so that it can be walked.
func childrenNode(v any) *ui.Node {
	switch v := v.(type) {
	case *ui.Node:
		return v
	case []*ui.Node:
		return ui.Div(v...)
	default:
		return nil
	}
}

func serveClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(clientScript)
}

package dashpages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"

	"github.com/jackielii/dashpages/ui"
)

// App is the callback runtime: it owns the root layout and every registered
// callback.
//
// Callbacks are registered while the app is built (from the pages'
// InitCallbacks); afterwards an App is read-only and safe for concurrent use.
type App struct {
	registry       *Registry
	dispatcher     *Dispatcher
	dispatcherOpts []DispatcherOption
	layout         *ui.Node
	bindings       []*binding
	outputs        map[ui.Prop]*binding
	memo           *Memo
	logger         *slog.Logger
}

type AppOption func(*App)

// WithMemo enables memoization for callbacks that ask for it.
func WithMemo(m *Memo) AppOption {
	return func(a *App) {
		a.memo = m
	}
}

func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = l
	}
}

// WithDispatcherOptions configures the app's Dispatcher.
func WithDispatcherOptions(opts ...DispatcherOption) AppOption {
	return func(a *App) {
		a.dispatcherOpts = append(a.dispatcherOpts, opts...)
	}
}

// WithLayout sets the root layout instead of the shell page's layout.
func WithLayout(n *ui.Node) AppOption {
	return func(a *App) {
		a.layout = n
	}
}

// NewApp builds the app for reg and runs every page's InitCallbacks.
func NewApp(reg *Registry, opts ...AppOption) (*App, error) {
	a := &App{
		registry: reg,
		outputs:  make(map[ui.Prop]*binding),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.dispatcher = NewDispatcher(reg, a.dispatcherOpts...)
	if a.layout == nil {
		if shell, ok := reg.Shell(); ok {
			a.layout = shell.Layout
		}
	}
	if err := reg.InitCallbacks(a); err != nil {
		return nil, fmt.Errorf("dashpages: %w", err)
	}
	return a, nil
}

func (a *App) Registry() *Registry     { return a.registry }
func (a *App) Dispatcher() *Dispatcher { return a.dispatcher }

// Layout returns the root layout, or nil when the registry has no shell page.
func (a *App) Layout() *ui.Node { return a.layout }

// Callback registers cb. An output property can be bound by one callback only.
func (a *App) Callback(cb Callback) error {
	switch {
	case cb.Fn == nil:
		return errors.New("dashpages: callback has no function")
	case len(cb.Output) == 0:
		return errors.New("dashpages: callback has no output")
	case len(cb.Input) == 0:
		return errors.New("dashpages: callback has no input")
	}
	for _, o := range cb.Output {
		if other, ok := a.outputs[o]; ok {
			return fmt.Errorf("dashpages: %s bound by %s: %w", o, other.id, ErrDuplicateOutput)
		}
	}
	b := newBinding(cb)
	a.bindings = append(a.bindings, b)
	for _, o := range cb.Output {
		a.outputs[o] = b
	}
	a.logger.Debug("Registered callback", "binding", b.id, "inputs", len(cb.Input), "states", len(cb.State))
	return nil
}

// Dispatch fires, in registration order, every callback that declares ev.Prop
// as an input. Other input values and all state values are read from st.
// Callbacks returning ErrPreventUpdate contribute no updates.
func (a *App) Dispatch(ctx context.Context, ev Event, st ui.State) ([]Update, error) {
	known := st.Clone()
	known[ev.Prop] = ev.Value
	var updates []Update
	for _, b := range a.bindings {
		if !b.hasInput(ev.Prop) {
			continue
		}
		out, err := a.run(ctx, b, known)
		if errors.Is(err, ErrPreventUpdate) {
			a.logger.DebugContext(ctx, "Callback prevented update", "binding", b.id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("callback %s: %w", b.id, err)
		}
		for i, p := range b.cb.Output {
			updates = append(updates, Update{Prop: p, Value: out[i]})
		}
	}
	return updates, nil
}

// Prime computes the outputs of an initial page load at loc.
//
// Each callback fires at most once, as soon as all its inputs and states are
// known in the root layout, including content produced by callbacks that
// already fired. The returned state holds the outputs and seed.
func (a *App) Prime(ctx context.Context, loc *url.URL, seed ui.State) (ui.State, error) {
	out, err := a.settle(ctx, a.layout, loc, seed, false)
	if err != nil {
		return nil, err
	}
	st := seed.Clone()
	maps.Copy(st, out)
	return st, nil
}

// Expand computes the initial outputs of root, a subtree newly inserted into a
// page that already holds the values in page. Only callbacks with an input
// inside root fire. The returned state holds the outputs only.
func (a *App) Expand(ctx context.Context, root *ui.Node, loc *url.URL, page ui.State) (ui.State, error) {
	return a.settle(ctx, root, loc, page, true)
}

func (a *App) settle(ctx context.Context, root *ui.Node, loc *url.URL, base ui.State, scoped bool) (ui.State, error) {
	out := make(ui.State)
	fired := make([]bool, len(a.bindings))
	for {
		local := ui.Collect(root, out, loc)
		known := base.Clone()
		maps.Copy(known, local)
		progress := false
		for i, b := range a.bindings {
			if fired[i] || !b.ready(known) || (scoped && !b.anyInput(local)) {
				continue
			}
			fired[i], progress = true, true
			res, err := a.run(ctx, b, known)
			if errors.Is(err, ErrPreventUpdate) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("callback %s: %w", b.id, err)
			}
			for j, p := range b.cb.Output {
				out[p] = res[j]
				known[p] = res[j]
			}
		}
		if !progress {
			return out, nil
		}
	}
}

func (a *App) run(ctx context.Context, b *binding, known ui.State) ([]any, error) {
	args := b.args(known)
	call := func() ([]any, error) {
		return b.cb.Fn(ctx, args)
	}
	var (
		out []any
		err error
	)
	if key, ok := memoKey(b, args); ok && a.memo != nil {
		out, err = a.memo.Do(ctx, key, b.cb.Memoize, call)
	} else {
		out, err = call()
	}
	if err != nil {
		return nil, err
	}
	if len(out) != len(b.cb.Output) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrOutputArity, len(out), len(b.cb.Output))
	}
	return out, nil
}

// memoKey identifies a callback invocation: the binding plus its serialized
// arguments.
func memoKey(b *binding, args Args) (string, bool) {
	if b.cb.Memoize <= 0 {
		return "", false
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", false
	}
	return b.id + ":" + string(raw), true
}

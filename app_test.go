package dashpages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackielii/dashpages/ui"
)

// multiPageApp builds two content pages and a shell routing between them. The
// shell also binds page-2's radios, a binding across modules.
func multiPageApp(t *testing.T, opts ...AppOption) (*App, *IDMap, *IDMap) {
	t.Helper()
	shellIDs := NewIDs("test/shell", "url", "page-content")
	twoIDs := NewIDs("test/two", "radios", "content")

	one := &Page{Name: "page-1", Layout: ui.Div(ui.H3("one"))}
	two := &Page{
		Name: "page-2",
		IDs:  twoIDs,
		Layout: ui.Div(
			ui.RadioItems(twoIDs.Get("radios"), []ui.Option{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}}, "a"),
			ui.Div().WithID(twoIDs.Get("content")),
		),
	}
	shell := &Page{
		Name:   "multipage",
		Shell:  true,
		IDs:    shellIDs,
		Layout: ui.Div(ui.Location(shellIDs.Get("url")), ui.Div().WithID(shellIDs.Get("page-content"))),
	}
	shell.InitCallbacks = func(app *App) error {
		d := app.Dispatcher()
		if err := app.Callback(Callback{
			Output: []ui.Prop{Output(shellIDs.Get("page-content"), "children")},
			Input:  []ui.Prop{Input(shellIDs.Get("url"), "pathname")},
			Fn: Single(func(ctx context.Context, args Args) (any, error) {
				return d.Resolve(args.String(0)), nil
			}),
		}); err != nil {
			return err
		}
		return app.Callback(Callback{
			Output: []ui.Prop{Output(twoIDs.Get("content"), "children")},
			Input:  []ui.Prop{Input(twoIDs.Get("radios"), "value")},
			Fn: Single(func(ctx context.Context, args Args) (any, error) {
				return fmt.Sprintf("You have selected %q", args.String(0)), nil
			}),
		})
	}
	reg, err := NewRegistry(one, two, shell)
	require.NoError(t, err)
	app, err := NewApp(reg, opts...)
	require.NoError(t, err)
	return app, shellIDs, twoIDs
}

func TestAppLayoutIsShell(t *testing.T) {
	app, _, _ := multiPageApp(t)
	shell, _ := app.Registry().Shell()
	assert.Same(t, shell.Layout, app.Layout())
}

func TestDispatchRoutesPathname(t *testing.T) {
	app, shellIDs, _ := multiPageApp(t)
	page1, _ := app.Registry().Lookup("page-1")

	updates, err := app.Dispatch(context.Background(), Event{
		Prop:  Input(shellIDs.Get("url"), "pathname"),
		Value: "/dash/page-1",
	}, nil)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, Output(shellIDs.Get("page-content"), "children"), updates[0].Prop)
	assert.Same(t, page1.Layout, updates[0].Value)

	updates, err = app.Dispatch(context.Background(), Event{
		Prop:  Input(shellIDs.Get("url"), "pathname"),
		Value: "/unknown",
	}, nil)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Same(t, app.Dispatcher().Index(), updates[0].Value)
}

func TestDispatchFiresOnlyDeclaredInput(t *testing.T) {
	app, shellIDs, twoIDs := multiPageApp(t)

	updates, err := app.Dispatch(context.Background(), Event{
		Prop:  Input(twoIDs.Get("radios"), "value"),
		Value: "b",
	}, ui.State{Input(shellIDs.Get("url"), "pathname"): "/dash/page-2"})
	require.NoError(t, err)
	want := []Update{{Prop: Output(twoIDs.Get("content"), "children"), Value: `You have selected "b"`}}
	if diff := cmp.Diff(want, updates); diff != "" {
		t.Errorf("updates mismatch (-want +got):\n%s", diff)
	}

	updates, err = app.Dispatch(context.Background(), Event{Prop: Input("nobody", "value"), Value: "x"}, nil)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestDispatchStatesDoNotTrigger(t *testing.T) {
	reg, err := NewRegistry(&Page{Name: "p", Layout: ui.Div()})
	require.NoError(t, err)
	app, err := NewApp(reg)
	require.NoError(t, err)
	var calls int
	require.NoError(t, app.Callback(Callback{
		Output: []ui.Prop{Output("out", "children")},
		Input:  []ui.Prop{Input("in", "value")},
		State:  []ui.Prop{State("st", "value")},
		Fn: func(ctx context.Context, args Args) ([]any, error) {
			calls++
			return []any{args.String(0) + "/" + args.String(1)}, nil
		},
	}))

	updates, err := app.Dispatch(context.Background(), Event{Prop: Input("st", "value"), Value: "s2"}, nil)
	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.Equal(t, 0, calls)

	updates, err = app.Dispatch(context.Background(), Event{Prop: Input("in", "value"), Value: "i"},
		ui.State{State("st", "value"): "s"})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "i/s", updates[0].Value)
}

func TestDispatchPreventUpdate(t *testing.T) {
	reg, err := NewRegistry(&Page{Name: "p", Layout: ui.Div()})
	require.NoError(t, err)
	app, err := NewApp(reg)
	require.NoError(t, err)
	require.NoError(t, app.Callback(Callback{
		Output: []ui.Prop{Output("a", "children")},
		Input:  []ui.Prop{Input("in", "value")},
		Fn: func(context.Context, Args) ([]any, error) {
			return nil, fmt.Errorf("not now: %w", ErrPreventUpdate)
		},
	}))
	require.NoError(t, app.Callback(Callback{
		Output: []ui.Prop{Output("b", "children")},
		Input:  []ui.Prop{Input("in", "value")},
		Fn:     Single(func(context.Context, Args) (any, error) { return "b", nil }),
	}))

	updates, err := app.Dispatch(context.Background(), Event{Prop: Input("in", "value"), Value: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Update{{Prop: Output("b", "children"), Value: "b"}}, updates)
}

func TestDispatchErrors(t *testing.T) {
	reg, err := NewRegistry(&Page{Name: "p", Layout: ui.Div()})
	require.NoError(t, err)
	app, err := NewApp(reg)
	require.NoError(t, err)
	boom := errors.New("boom")
	require.NoError(t, app.Callback(Callback{
		Output: []ui.Prop{Output("a", "children"), Output("a", "title")},
		Input:  []ui.Prop{Input("arity", "value")},
		Fn:     Single(func(context.Context, Args) (any, error) { return "only one", nil }),
	}))
	require.NoError(t, app.Callback(Callback{
		Output: []ui.Prop{Output("b", "children")},
		Input:  []ui.Prop{Input("fail", "value")},
		Fn:     func(context.Context, Args) ([]any, error) { return nil, boom },
	}))

	_, err = app.Dispatch(context.Background(), Event{Prop: Input("arity", "value")}, nil)
	assert.ErrorIs(t, err, ErrOutputArity)
	_, err = app.Dispatch(context.Background(), Event{Prop: Input("fail", "value")}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "b.children")
}

func TestCallbackValidation(t *testing.T) {
	reg, err := NewRegistry(&Page{Name: "p", Layout: ui.Div()})
	require.NoError(t, err)
	app, err := NewApp(reg)
	require.NoError(t, err)
	fn := Single(func(context.Context, Args) (any, error) { return nil, nil })

	assert.Error(t, app.Callback(Callback{Output: []ui.Prop{Output("a", "x")}, Input: []ui.Prop{Input("b", "y")}}))
	assert.Error(t, app.Callback(Callback{Input: []ui.Prop{Input("b", "y")}, Fn: fn}))
	assert.Error(t, app.Callback(Callback{Output: []ui.Prop{Output("a", "x")}, Fn: fn}))

	require.NoError(t, app.Callback(Callback{Output: []ui.Prop{Output("a", "x")}, Input: []ui.Prop{Input("b", "y")}, Fn: fn}))
	err = app.Callback(Callback{Output: []ui.Prop{Output("a", "x")}, Input: []ui.Prop{Input("c", "y")}, Fn: fn})
	assert.ErrorIs(t, err, ErrDuplicateOutput)
}

func TestNewAppInitCallbacksError(t *testing.T) {
	boom := errors.New("boom")
	reg, err := NewRegistry(&Page{Name: "p", Layout: ui.Div(), InitCallbacks: func(*App) error { return boom }})
	require.NoError(t, err)
	_, err = NewApp(reg)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "page p")
}

func TestPrimeResolvesContentAndNestedCallbacks(t *testing.T) {
	app, shellIDs, twoIDs := multiPageApp(t)
	page2, _ := app.Registry().Lookup("page-2")

	st, err := app.Prime(context.Background(), &url.URL{Path: "/dash/page-2"}, nil)
	require.NoError(t, err)
	assert.Same(t, page2.Layout, st[Output(shellIDs.Get("page-content"), "children")])
	// page-2's binding fires once its radios appear in the content.
	assert.Equal(t, `You have selected "a"`, st[Output(twoIDs.Get("content"), "children")])
}

func TestPrimeSkipsCallbacksWithoutInputs(t *testing.T) {
	app, shellIDs, twoIDs := multiPageApp(t)
	st, err := app.Prime(context.Background(), &url.URL{Path: "/dash/page-1"}, nil)
	require.NoError(t, err)
	assert.Contains(t, st, Output(shellIDs.Get("page-content"), "children"))
	assert.NotContains(t, st, Output(twoIDs.Get("content"), "children"))
}

func TestExpandOnlyFiresCallbacksInsideSubtree(t *testing.T) {
	app, shellIDs, twoIDs := multiPageApp(t)
	page2, _ := app.Registry().Lookup("page-2")

	page := ui.State{Input(shellIDs.Get("url"), "pathname"): "/dash/page-2"}
	out, err := app.Expand(context.Background(), page2.Layout, &url.URL{Path: "/dash/page-2"}, page)
	require.NoError(t, err)
	want := ui.State{Output(twoIDs.Get("content"), "children"): `You have selected "a"`}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchMemoized(t *testing.T) {
	clock := clockwork.NewFakeClock()
	memo := NewMemo(NewMemoryStore(clock))
	reg, err := NewRegistry(&Page{Name: "p", Layout: ui.Div()})
	require.NoError(t, err)
	app, err := NewApp(reg, WithMemo(memo))
	require.NoError(t, err)

	var calls atomic.Int32
	require.NoError(t, app.Callback(Callback{
		Output:  []ui.Prop{Output("out", "children")},
		Input:   []ui.Prop{Input("in", "value")},
		Memoize: time.Minute,
		Fn: Single(func(ctx context.Context, args Args) (any, error) {
			calls.Add(1)
			return strings.ToUpper(args.String(0)), nil
		}),
	}))

	ev := Event{Prop: Input("in", "value"), Value: "x"}
	for range 3 {
		updates, err := app.Dispatch(context.Background(), ev, nil)
		require.NoError(t, err)
		assert.Equal(t, "X", updates[0].Value)
	}
	assert.EqualValues(t, 1, calls.Load())

	_, err = app.Dispatch(context.Background(), Event{Prop: ev.Prop, Value: "y"}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())

	clock.Advance(time.Minute)
	_, err = app.Dispatch(context.Background(), ev, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestArgs(t *testing.T) {
	args := Args{"1952", 1957.0, 3, nil, "x"}
	assert.Equal(t, "1952", args.String(0))
	assert.Equal(t, "1957", args.String(1))
	assert.Equal(t, "3", args.String(2))
	assert.Equal(t, "", args.String(3))
	assert.Equal(t, "", args.String(10))

	for i, want := range []int{1952, 1957, 3} {
		got, err := args.Int(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := args.Int(4)
	assert.Error(t, err)
	_, err = args.Int(3)
	assert.Error(t, err)
	_, err = args.Int(10)
	assert.Error(t, err)

	f, err := Args{" 1968.37 "}.Float(0)
	require.NoError(t, err)
	assert.InDelta(t, 1968.37, f, 1e-9)
	for i, want := range []float64{1952, 1957, 3} {
		got, err := args.Float(i)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0)
	}
	_, err = args.Float(4)
	assert.Error(t, err)
	_, err = args.Float(3)
	assert.Error(t, err)
}

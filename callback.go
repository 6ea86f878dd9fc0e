package dashpages

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jackielii/dashpages/ui"
)

// Output, Input and State address a property of an element in a Callback.
func Output(id, property string) ui.Prop { return ui.Prop{ID: id, Property: property} }
func Input(id, property string) ui.Prop  { return ui.Prop{ID: id, Property: property} }
func State(id, property string) ui.Prop  { return ui.Prop{ID: id, Property: property} }

// Callback binds input and state properties to output properties.
//
// Fn runs whenever one of the Input properties changes. State properties are
// read but never trigger Fn. Fn receives the input values followed by the
// state values, and returns one value per Output, or ErrPreventUpdate to
// leave the outputs unchanged.
type Callback struct {
	Output []ui.Prop
	Input  []ui.Prop
	State  []ui.Prop
	// Memoize reuses a result for identical arguments for this long. Zero
	// disables memoization.
	Memoize time.Duration
	Fn      func(ctx context.Context, args Args) ([]any, error)
}

// Single adapts a function with one output to Callback.Fn.
func Single(fn func(ctx context.Context, args Args) (any, error)) func(context.Context, Args) ([]any, error) {
	return func(ctx context.Context, args Args) ([]any, error) {
		v, err := fn(ctx, args)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
}

// Args are the values a callback is invoked with: inputs first, then states.
// Values set in a layout keep their Go type; values posted by the browser
// arrive as strings.
type Args []any

// String returns argument i formatted as a string; a missing or nil argument
// is the empty string.
func (a Args) String(i int) string {
	if i >= len(a) || a[i] == nil {
		return ""
	}
	switch v := a[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns argument i as an int.
func (a Args) Int(i int) (int, error) {
	if i >= len(a) {
		return 0, fmt.Errorf("argument %d missing", i)
	}
	switch v := a[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("argument %d: %w", i, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("argument %d: unsupported type %T", i, v)
	}
}

// Float returns argument i as a float64.
func (a Args) Float(i int) (float64, error) {
	if i >= len(a) {
		return 0, fmt.Errorf("argument %d missing", i)
	}
	switch v := a[i].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("argument %d: %w", i, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("argument %d: unsupported type %T", i, v)
	}
}

// Event is a change of one property, reported by the browser.
type Event struct {
	Prop  ui.Prop
	Value any
}

// Update is a new value for an output property.
type Update struct {
	Prop  ui.Prop
	Value any
}

type binding struct {
	id string
	cb Callback
}

func newBinding(cb Callback) *binding {
	parts := make([]string, len(cb.Output))
	for i, o := range cb.Output {
		parts[i] = o.String()
	}
	return &binding{id: strings.Join(parts, "|"), cb: cb}
}

func (b *binding) hasInput(p ui.Prop) bool {
	return slices.Contains(b.cb.Input, p)
}

func (b *binding) anyInput(st ui.State) bool {
	for _, p := range b.cb.Input {
		if _, ok := st[p]; ok {
			return true
		}
	}
	return false
}

// ready reports whether every input and state of b has a known value.
func (b *binding) ready(known ui.State) bool {
	for _, p := range b.cb.Input {
		if _, ok := known[p]; !ok {
			return false
		}
	}
	for _, p := range b.cb.State {
		if _, ok := known[p]; !ok {
			return false
		}
	}
	return true
}

func (b *binding) args(known ui.State) Args {
	args := make(Args, 0, len(b.cb.Input)+len(b.cb.State))
	for _, p := range b.cb.Input {
		args = append(args, known[p])
	}
	for _, p := range b.cb.State {
		args = append(args, known[p])
	}
	return args
}

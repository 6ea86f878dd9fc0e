package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/jackielii/ctxkey"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var stateCtx = ctxkey.New[State]("ui.state", nil)

// WithState attaches the current property values to ctx for rendering.
func WithState(ctx context.Context, s State) context.Context {
	return stateCtx.WithValue(ctx, s)
}

// StateFrom returns the State attached to ctx, or nil.
func StateFrom(ctx context.Context) State {
	return stateCtx.Value(ctx)
}

var voidElements = map[string]bool{"br": true, "hr": true, "img": true, "input": true}

var markdownPolicy = bluemonday.UGCPolicy()

// Render implements templ.Component.
func (n *Node) Render(ctx context.Context, w io.Writer) error {
	r := &renderer{ctx: ctx, w: w, state: StateFrom(ctx)}
	r.node(n)
	return r.err
}

type renderer struct {
	ctx   context.Context
	w     io.Writer
	state State
	err   error
}

func (r *renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

func (r *renderer) attr(name, value string) {
	r.write(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (r *renderer) jsonAttr(name string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("ui: marshal %s: %w", name, err)
		}
		return
	}
	r.attr(name, string(b))
}

func (r *renderer) boolAttr(name string, on bool) {
	if on {
		r.write(" " + name)
	}
}

// prop returns the current value: the state wins over the static tree.
func (r *renderer) prop(n *Node, name string) any {
	if n.ID != "" {
		if v, ok := r.state[Prop{ID: n.ID, Property: name}]; ok {
			return v
		}
	}
	return n.Props[name]
}

func (r *renderer) open(tag string, n *Node) {
	r.write("<" + tag)
	if n.ID != "" {
		r.attr("id", n.ID)
	}
}

func (r *renderer) children(n *Node) {
	if n.ID != "" {
		if v, ok := r.state[Prop{ID: n.ID, Property: "children"}]; ok {
			r.value(v)
			return
		}
	}
	for _, c := range n.Children {
		r.node(c)
	}
}

// value renders a dynamic children value.
func (r *renderer) value(v any) {
	switch v := v.(type) {
	case nil:
	case *Node:
		r.node(v)
	case []*Node:
		for _, c := range v {
			r.node(c)
		}
	case string:
		r.write(templ.EscapeString(v))
	case templ.Component:
		if r.err == nil {
			r.err = v.Render(r.ctx, r.w)
		}
	default:
		r.write(templ.EscapeString(fmt.Sprint(v)))
	}
}

func (r *renderer) node(n *Node) {
	if n == nil || r.err != nil {
		return
	}
	switch n.Kind {
	case KindText:
		r.write(templ.EscapeString(toString(n.Props["text"])))
	case KindElement:
		r.element(n)
	case KindLocation:
		r.open("div", n)
		r.attr("data-dash-kind", string(KindLocation))
		if hash := toString(r.prop(n, "hash")); hash != "" {
			r.attr("data-hash", hash)
		}
		r.write(" hidden></div>")
	case KindLink:
		r.open("a", n)
		r.attr("href", toString(r.prop(n, "href")))
		r.write(" data-dash-link>")
		r.children(n)
		r.write("</a>")
	case KindGraph:
		r.open("div", n)
		r.attr("class", "dash-graph")
		r.attr("data-dash-kind", string(KindGraph))
		if fig := r.prop(n, "figure"); fig != nil {
			r.jsonAttr("data-figure", fig)
		}
		r.write("></div>")
	case KindSlider:
		r.slider(n)
	case KindDropdown:
		r.dropdown(n)
	case KindRadioItems:
		r.radioItems(n)
	case KindMarkdown:
		r.markdown(n)
	default:
		if r.err == nil {
			r.err = fmt.Errorf("ui: unknown node kind %q", n.Kind)
		}
	}
}

func (r *renderer) element(n *Node) {
	r.open(n.Tag, n)
	for _, k := range slices.Sorted(maps.Keys(n.Props)) {
		v := r.prop(n, k)
		switch v := v.(type) {
		case bool:
			r.boolAttr(k, v)
		case nil:
		default:
			r.attr(k, toString(v))
		}
	}
	r.write(">")
	if voidElements[n.Tag] {
		return
	}
	r.children(n)
	r.write("</" + n.Tag + ">")
}

func (r *renderer) slider(n *Node) {
	marks, _ := r.prop(n, "marks").(map[string]string)
	r.write(`<div class="dash-slider">`)
	r.open("input", n)
	r.attr("type", "range")
	r.attr("data-dash-kind", string(KindSlider))
	r.attr("data-dash-prop", "value")
	r.attr("min", toString(r.prop(n, "min")))
	r.attr("max", toString(r.prop(n, "max")))
	if step := r.prop(n, "step"); step != nil {
		r.attr("step", toString(step))
	} else {
		r.attr("step", "any")
		r.jsonAttr("data-marks", slices.Sorted(maps.Keys(marks)))
	}
	r.attr("value", toString(r.prop(n, "value")))
	if len(marks) > 0 && n.ID != "" {
		r.attr("list", n.ID+"-marks")
	}
	r.boolAttr("disabled", toBool(r.prop(n, "disabled")))
	r.write(">")
	if len(marks) > 0 && n.ID != "" {
		r.write(`<datalist id="` + templ.EscapeString(n.ID+"-marks") + `">`)
		for _, k := range slices.Sorted(maps.Keys(marks)) {
			r.write("<option")
			r.attr("value", k)
			r.attr("label", marks[k])
			r.write("></option>")
		}
		r.write("</datalist>")
	}
	r.write("</div>")
}

func (r *renderer) dropdown(n *Node) {
	options, _ := r.prop(n, "options").([]Option)
	value := toString(r.prop(n, "value"))
	r.open("select", n)
	r.attr("data-dash-kind", string(KindDropdown))
	r.attr("data-dash-prop", "value")
	r.boolAttr("disabled", toBool(r.prop(n, "disabled")))
	r.write(">")
	for _, o := range options {
		r.write("<option")
		r.attr("value", o.Value)
		r.boolAttr("selected", o.Value == value)
		r.write(">" + templ.EscapeString(o.Label) + "</option>")
	}
	r.write("</select>")
}

func (r *renderer) radioItems(n *Node) {
	options, _ := r.prop(n, "options").([]Option)
	value := toString(r.prop(n, "value"))
	r.open("div", n)
	r.attr("data-dash-kind", string(KindRadioItems))
	r.attr("data-dash-prop", "value")
	r.write(">")
	for _, o := range options {
		r.write("<label><input type=\"radio\"")
		r.attr("name", n.ID)
		r.attr("value", o.Value)
		r.boolAttr("checked", o.Value == value)
		r.write("> " + templ.EscapeString(o.Label) + "</label>")
	}
	r.write("</div>")
}

func (r *renderer) markdown(n *Node) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(toString(r.prop(n, "source"))), &buf); err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("ui: markdown: %w", err)
		}
		return
	}
	r.open("div", n)
	r.attr("class", "dash-markdown")
	r.write(">")
	r.write(string(markdownPolicy.SanitizeBytes(buf.Bytes())))
	r.write("</div>")
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func toBool(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

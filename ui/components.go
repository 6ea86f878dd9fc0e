package ui

// Option is an entry of a Dropdown or RadioItems.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func element(tag string, children []*Node) *Node {
	return &Node{Kind: KindElement, Tag: tag, Children: children}
}

func Div(children ...*Node) *Node { return element("div", children) }
func P(children ...*Node) *Node   { return element("p", children) }
func Ul(children ...*Node) *Node  { return element("ul", children) }
func Li(children ...*Node) *Node  { return element("li", children) }
func Br() *Node                   { return element("br", nil) }

func H1(text string) *Node { return element("h1", []*Node{Text(text)}) }
func H3(text string) *Node { return element("h3", []*Node{Text(text)}) }

// Text is an escaped text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Props: map[string]any{"text": s}}
}

// A is a plain anchor; following it leaves the dashboard.
func A(label, href string) *Node {
	return element("a", []*Node{Text(label)}).With("href", href)
}

// Link navigates inside the dashboard without a full page load.
func Link(label, href string) *Node {
	return &Node{Kind: KindLink, Props: map[string]any{"href": href}, Children: []*Node{Text(label)}}
}

// Location exposes the browser location as the pathname, search and hash
// properties of element id.
func Location(id string) *Node {
	return &Node{Kind: KindLocation, ID: id}
}

// Graph renders its figure property with plotly on the client.
func Graph(id string) *Node {
	return &Node{Kind: KindGraph, ID: id}
}

// SliderOpts configures a Slider. A nil Step restricts the slider to Marks.
type SliderOpts struct {
	Min   float64
	Max   float64
	Value any
	Step  *float64
	Marks map[string]string
}

func Slider(id string, o SliderOpts) *Node {
	n := &Node{Kind: KindSlider, ID: id}
	n.With("min", o.Min).
		With("max", o.Max).
		With("value", o.Value).
		With("marks", o.Marks).
		With("disabled", false)
	if o.Step != nil {
		n.With("step", *o.Step)
	}
	return n
}

func Dropdown(id string, options []Option, value string) *Node {
	return (&Node{Kind: KindDropdown, ID: id}).
		With("options", options).
		With("value", value).
		With("disabled", false)
}

func RadioItems(id string, options []Option, value string) *Node {
	return (&Node{Kind: KindRadioItems, ID: id}).
		With("options", options).
		With("value", value)
}

// Markdown renders source as sanitized HTML.
func Markdown(source string) *Node {
	return &Node{Kind: KindMarkdown, Props: map[string]any{"source": source}}
}

package ui

// Figure is a plotly figure: traces plus a layout object.
type Figure struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout,omitempty"`
}

// Trace is one plotly trace. Only the fields the dashboards use are modelled.
type Trace struct {
	Type    string         `json:"type"`
	Name    string         `json:"name,omitempty"`
	Mode    string         `json:"mode,omitempty"`
	X       []any          `json:"x"`
	Y       []any          `json:"y"`
	Text    []string       `json:"text,omitempty"`
	Opacity float64        `json:"opacity,omitempty"`
	Marker  map[string]any `json:"marker,omitempty"`
}

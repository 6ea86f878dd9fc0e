// Package complexpage displays a scatter plot, a slider which picks the year
// shown on the plot through the URL hash, and a dropdown which locks the
// plot.
package complexpage

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/internal/gapminder"
	"github.com/jackielii/dashpages/internal/pages/deps"
	"github.com/jackielii/dashpages/ui"
)

const Name = "complex-page"

const (
	Editable   = "editable"
	Uneditable = "uneditable"
)

var ids = dashpages.MustInitIDs("scatter-plot", "year-slider", "url", "dropdown")

func Module() dashpages.Module {
	return dashpages.Module{Name: Name, Load: load}
}

func load(l *dashpages.Loader) (*dashpages.Page, error) {
	src, err := dashpages.Dependency[deps.DataSource](l)
	if err != nil {
		return nil, err
	}
	settings, _ := dashpages.Dependency[deps.Settings](l)
	ds, err := src.Dataset(l.Context())
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	years := ds.Years()
	if len(years) == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}

	marks := make(map[string]string, len(years))
	for _, y := range years {
		marks[strconv.Itoa(y)] = strconv.Itoa(y)
	}

	layout := ui.Div(
		ui.Location(ids.Get("url")),
		// Empty until the figure callback fires on load.
		ui.Graph(ids.Get("scatter-plot")),
		ui.Slider(ids.Get("year-slider"), ui.SliderOpts{
			Min:   float64(years[0]),
			Max:   float64(years[len(years)-1]),
			Value: years[0],
			Marks: marks,
		}),
		ui.Dropdown(ids.Get("dropdown"), []ui.Option{
			{Label: "Editable", Value: Editable},
			{Label: "Uneditable", Value: Uneditable},
		}, Editable),
	)

	return &dashpages.Page{
		Name:          Name,
		Title:         "Page 3",
		Layout:        layout,
		IDs:           ids,
		InitCallbacks: initCallbacks(ds, years, settings),
	}, nil
}

func initCallbacks(ds *gapminder.Dataset, years []int, settings deps.Settings) func(*dashpages.App) error {
	return func(app *dashpages.App) error {
		// The locked dropdown freezes the slider.
		if err := app.Callback(dashpages.Callback{
			Output: []ui.Prop{dashpages.Output(ids.Get("year-slider"), "disabled")},
			Input:  []ui.Prop{dashpages.Input(ids.Get("dropdown"), "value")},
			Fn: dashpages.Single(func(_ context.Context, args dashpages.Args) (any, error) {
				return args.String(0) == Uneditable, nil
			}),
		}); err != nil {
			return err
		}

		if err := app.Callback(dashpages.Callback{
			Output:  []ui.Prop{dashpages.Output(ids.Get("url"), "hash")},
			Input:   []ui.Prop{dashpages.Input(ids.Get("year-slider"), "value")},
			Memoize: settings.MemoWindow,
			Fn: dashpages.Single(func(_ context.Context, args dashpages.Args) (any, error) {
				v, err := args.Float(0)
				if err != nil {
					return nil, dashpages.ErrPreventUpdate
				}
				return "#" + strconv.Itoa(nearestYear(years, v)), nil
			}),
		}); err != nil {
			return err
		}

		return app.Callback(dashpages.Callback{
			Output:  []ui.Prop{dashpages.Output(ids.Get("scatter-plot"), "figure")},
			Input:   []ui.Prop{dashpages.Input(ids.Get("url"), "hash")},
			State:   []ui.Prop{dashpages.State(ids.Get("dropdown"), "value")},
			Memoize: settings.MemoWindow,
			Fn: dashpages.Single(func(_ context.Context, args dashpages.Args) (any, error) {
				if args.String(1) == Uneditable {
					return nil, dashpages.ErrPreventUpdate
				}
				v, err := strconv.ParseFloat(strings.TrimPrefix(args.String(0), "#"), 64)
				if err != nil || math.IsNaN(v) {
					return nil, dashpages.ErrPreventUpdate
				}
				return Figure(ds.ByYear(nearestYear(years, v))), nil
			}),
		})
	}
}

// nearestYear snaps v to the closest of the sorted years; the slider only
// stops on marks.
func nearestYear(years []int, v float64) int {
	best := years[0]
	for _, y := range years[1:] {
		if math.Abs(float64(y)-v) < math.Abs(float64(best)-v) {
			best = y
		}
	}
	return best
}

// Figure plots life expectancy against GDP per capita, one WebGL scatter
// trace per continent.
func Figure(rows []gapminder.Row) ui.Figure {
	var traces []ui.Trace
	for _, c := range gapminder.Continents(rows) {
		t := ui.Trace{
			Type:    "scattergl",
			Name:    c,
			Mode:    "markers",
			Opacity: 0.7,
			Marker: map[string]any{
				"size": 15,
				"line": map[string]any{"width": 0.5, "color": "white"},
			},
		}
		for _, r := range rows {
			if r.Continent != c {
				continue
			}
			t.X = append(t.X, r.GDPPercap)
			t.Y = append(t.Y, r.LifeExp)
			t.Text = append(t.Text, r.Country)
		}
		traces = append(traces, t)
	}
	return ui.Figure{
		Data: traces,
		Layout: map[string]any{
			"xaxis":     map[string]any{"type": "log", "title": "GDP Per Capita"},
			"yaxis":     map[string]any{"title": "Life Expectancy", "range": []any{20, 90}},
			"margin":    map[string]any{"l": 40, "b": 40, "t": 10, "r": 10},
			"legend":    map[string]any{"x": 0, "y": 1},
			"hovermode": "closest",
		},
	}
}

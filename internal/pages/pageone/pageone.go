// Package pageone shows the mean life expectancy per continent for a chosen
// year.
package pageone

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/internal/gapminder"
	"github.com/jackielii/dashpages/internal/pages/deps"
	"github.com/jackielii/dashpages/ui"
)

const Name = "page-1"

var ids = dashpages.MustInitIDs("year", "life-exp")

const intro = `Life expectancy by continent, from the
[gapminder](https://www.gapminder.org/data/) five year dataset.

Pick a year to update the chart.`

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
	latest := strconv.Itoa(years[len(years)-1])

	options := make([]ui.Option, len(years))
	for i, y := range years {
		options[i] = ui.Option{Label: strconv.Itoa(y), Value: strconv.Itoa(y)}
	}

	layout := ui.Div(
		ui.H3("Page 1"),
		ui.Markdown(intro),
		ui.Dropdown(ids.Get("year"), options, latest),
		ui.Graph(ids.Get("life-exp")),
		ui.Br(),
		ui.Link("Go to Page 2", dashpages.PagePath("page-2")),
		ui.Br(),
		ui.Link("Go back to home", "/dash"),
	)

	return &dashpages.Page{
		Name:   Name,
		Title:  "Page 1",
		Layout: layout,
		IDs:    ids,
		InitCallbacks: func(app *dashpages.App) error {
			return app.Callback(dashpages.Callback{
				Output:  []ui.Prop{dashpages.Output(ids.Get("life-exp"), "figure")},
				Input:   []ui.Prop{dashpages.Input(ids.Get("year"), "value")},
				Memoize: settings.MemoWindow,
				Fn: dashpages.Single(func(_ context.Context, args dashpages.Args) (any, error) {
					year, err := args.Int(0)
					if err != nil {
						return nil, dashpages.ErrPreventUpdate
					}
					return Figure(ds.ByYear(year)), nil
				}),
			})
		},
	}, nil
}

// Figure is a bar chart of the mean life expectancy of rows per continent.
func Figure(rows []gapminder.Row) ui.Figure {
	mean := gapminder.MeanLifeExp(rows)
	bars := ui.Trace{Type: "bar", Name: "Life Expectancy"}
	for _, c := range gapminder.Continents(rows) {
		bars.X = append(bars.X, c)
		bars.Y = append(bars.Y, mean[c])
	}
	return ui.Figure{
		Data: []ui.Trace{bars},
		Layout: map[string]any{
			"yaxis":  map[string]any{"title": "Mean Life Expectancy", "range": []any{0, 90}},
			"margin": map[string]any{"l": 40, "b": 40, "t": 10, "r": 10},
		},
	}
}

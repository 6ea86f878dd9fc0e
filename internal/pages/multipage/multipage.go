// Package multipage is the shell of the dashboard: it holds the location and
// the slot the current page is drawn into.
package multipage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/internal/pages/deps"
	"github.com/jackielii/dashpages/internal/pages/pagetwo"
	"github.com/jackielii/dashpages/ui"
)

const Name = "multipage"

var ids = dashpages.MustInitIDs("url", "page-content")

func Module() dashpages.Module {
	return dashpages.Module{Name: Name, Load: load}
}

func load(l *dashpages.Loader) (*dashpages.Page, error) {
	settings, _ := dashpages.Dependency[deps.Settings](l)

	// page-2 leaves its content to this module, through its exported IDs. It
	// is optional, but when configured it must be loaded first.
	var pageTwo *dashpages.IDMap
	switch p, err := l.Page(pagetwo.Name); {
	case err == nil:
		pageTwo = p.IDs
	case !errors.Is(err, dashpages.ErrUnknownPage):
		return nil, err
	}

	return &dashpages.Page{
		Name:  Name,
		Title: "Platonic-Dash",
		Shell: true,
		Layout: ui.Div(
			ui.Location(ids.Get("url")),
			ui.Div().WithID(ids.Get("page-content")),
		),
		IDs: ids,
		InitCallbacks: func(app *dashpages.App) error {
			dispatcher := app.Dispatcher()
			if err := app.Callback(dashpages.Callback{
				Output:  []ui.Prop{dashpages.Output(ids.Get("page-content"), "children")},
				Input:   []ui.Prop{dashpages.Input(ids.Get("url"), "pathname")},
				Memoize: settings.MemoWindow,
				Fn: dashpages.Single(func(_ context.Context, args dashpages.Args) (any, error) {
					return dispatcher.Resolve(args.String(0)), nil
				}),
			}); err != nil {
				return err
			}
			if pageTwo == nil {
				return nil
			}
			return app.Callback(dashpages.Callback{
				Output:  []ui.Prop{dashpages.Output(pageTwo.Get("page-content"), "children")},
				Input:   []ui.Prop{dashpages.Input(pageTwo.Get("radios"), "value")},
				Memoize: settings.MemoWindow,
				Fn: dashpages.Single(func(_ context.Context, args dashpages.Args) (any, error) {
					return fmt.Sprintf("You have selected \"%s\"", args.String(0)), nil
				}),
			})
		},
	}, nil
}

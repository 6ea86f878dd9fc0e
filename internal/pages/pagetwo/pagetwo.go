// Package pagetwo lays out a set of radio items. Its content is filled in by
// a callback of the multipage shell, bound through this page's IDs.
package pagetwo

import (
	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/ui"
)

const Name = "page-2"

var ids = dashpages.MustInitIDs("radios", "page-content")

func Module() dashpages.Module {
	return dashpages.Module{Name: Name, Load: load}
}

func load(*dashpages.Loader) (*dashpages.Page, error) {
	colors := []ui.Option{
		{Label: "Orange", Value: "Orange"},
		{Label: "Blue", Value: "Blue"},
		{Label: "Red", Value: "Red"},
	}
	return &dashpages.Page{
		Name:  Name,
		Title: "Page 2",
		Layout: ui.Div(
			ui.H1("Page 2"),
			ui.RadioItems(ids.Get("radios"), colors, "Orange"),
			ui.Div().WithID(ids.Get("page-content")),
			ui.Br(),
			ui.Link("Go to Page 1", dashpages.PagePath("page-1")),
			ui.Br(),
			ui.Link("Go back to home", "/dash"),
		),
		IDs: ids,
	}, nil
}

// Package dashpages builds multi-page dashboards from page modules.
//
// Each page module declares its element IDs with [InitIDs] (or [NewIDs]),
// builds a [ui.Node] layout and optionally registers callbacks. The modules
// named in the configuration are loaded in order by [Load] into a [Registry].
// An [App] wires the callbacks, a [Dispatcher] maps URL paths to page layouts,
// and a [Server] serves everything over HTTP with htmx:
//
//	reg, err := dashpages.Load(ctx, catalog, cfg.Pages, data)
//	app, err := dashpages.NewApp(reg, dashpages.WithMemo(memo))
//	err = dashpages.New(app).Mount(dashpages.NewChiRouter(r))
package dashpages

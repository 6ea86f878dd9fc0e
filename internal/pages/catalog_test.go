package pages_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/internal/gapminder"
	"github.com/jackielii/dashpages/internal/pages"
	"github.com/jackielii/dashpages/internal/pages/complexpage"
	"github.com/jackielii/dashpages/internal/pages/deps"
	"github.com/jackielii/dashpages/internal/pages/pageone"
	"github.com/jackielii/dashpages/ui"
)

const sample = `country,year,pop,continent,lifeExp,gdpPercap
Afghanistan,1952,8425333,Asia,28.801,779.4453145
Albania,1952,1282697,Europe,55.23,1601.056136
Algeria,1952,9279525,Africa,43.077,2449.008185
Afghanistan,1957,9240934,Asia,30.332,820.8530296
Albania,1957,1476505,Europe,59.28,1942.284244
`

var defaultPages = []string{"page-1", "page-2", "complex-page", "multipage"}

func dataset(t *testing.T) *gapminder.Dataset {
	t.Helper()
	ds, err := gapminder.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	return ds
}

func newApp(t *testing.T, names []string, opts ...dashpages.AppOption) (*dashpages.App, *gapminder.Dataset) {
	t.Helper()
	ds := dataset(t)
	reg, err := dashpages.Load(context.Background(), pages.Catalog(), names,
		deps.Static{Data: ds}, deps.Settings{MemoWindow: time.Minute})
	require.NoError(t, err)
	app, err := dashpages.NewApp(reg, opts...)
	require.NoError(t, err)
	return app, ds
}

func id(t *testing.T, app *dashpages.App, page, name string) string {
	t.Helper()
	p, ok := app.Registry().Lookup(page)
	require.True(t, ok, "page %s not loaded", page)
	return p.IDs.Get(name)
}

func loc(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCatalogNames(t *testing.T) {
	assert.Equal(t, defaultPages, pages.Catalog().Names())
}

func TestPageNamespaces(t *testing.T) {
	app, _ := newApp(t, defaultPages)

	// Short names repeat across packages but element IDs do not.
	assert.Equal(t, "page-content--github_com_jackielii_dashpages_internal_pages_pagetwo", id(t, app, "page-2", "page-content"))
	assert.Equal(t, "page-content--github_com_jackielii_dashpages_internal_pages_multipage", id(t, app, "multipage", "page-content"))
	assert.Equal(t, "url--github_com_jackielii_dashpages_internal_pages_complexpage", id(t, app, "complex-page", "url"))

	shell, ok := app.Registry().Shell()
	require.True(t, ok)
	assert.Equal(t, "multipage", shell.Name)
	assert.Same(t, shell.Layout, app.Layout())
}

func TestPrimeIndex(t *testing.T) {
	app, _ := newApp(t, defaultPages)

	st, err := app.Prime(context.Background(), loc(t, "/dash/zzz"), nil)
	require.NoError(t, err)
	got, _ := st.Get(id(t, app, "multipage", "page-content"), "children")
	assert.Same(t, app.Dispatcher().Index(), got)

	var hrefs []string
	for n := range app.Dispatcher().Index().All() {
		if n.Kind == ui.KindLink {
			href, _ := n.Prop("href")
			hrefs = append(hrefs, href.(string))
		}
	}
	assert.Equal(t, []string{"/dash/page-1", "/dash/page-2", "/dash/complex-page"}, hrefs)
}

func TestPrimePageOne(t *testing.T) {
	app, ds := newApp(t, defaultPages)

	st, err := app.Prime(context.Background(), loc(t, "/dash/page-1"), nil)
	require.NoError(t, err)
	fig, ok := st.Get(id(t, app, "page-1", "life-exp"), "figure")
	require.True(t, ok)
	if diff := cmp.Diff(pageone.Figure(ds.ByYear(1957)), fig); diff != "" {
		t.Errorf("figure mismatch (-want +got):\n%s", diff)
	}
}

func TestPageTwoBoundFromShell(t *testing.T) {
	app, _ := newApp(t, defaultPages)
	content := id(t, app, "page-2", "page-content")
	radios := id(t, app, "page-2", "radios")

	st, err := app.Prime(context.Background(), loc(t, "/dash/page-2"), nil)
	require.NoError(t, err)
	got, _ := st.Get(content, "children")
	assert.Equal(t, `You have selected "Orange"`, got)

	updates, err := app.Dispatch(context.Background(), dashpages.Event{Prop: ui.Prop{ID: radios, Property: "value"}, Value: "Blue"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []dashpages.Update{{Prop: ui.Prop{ID: content, Property: "children"}, Value: `You have selected "Blue"`}}, updates)
}

func TestShellBeforePageTwo(t *testing.T) {
	_, err := dashpages.Load(context.Background(), pages.Catalog(), []string{"multipage", "page-2"},
		deps.Static{Data: dataset(t)})
	var loadErr *dashpages.ModuleLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "multipage", loadErr.Module)
	assert.ErrorIs(t, err, dashpages.ErrLoadOrder)
}

func TestShellWithoutPageTwo(t *testing.T) {
	app, _ := newApp(t, []string{"page-1", "multipage"})
	_, ok := app.Registry().Lookup("page-2")
	assert.False(t, ok)
}

func TestPageTwoSelectionIsNotEscaped(t *testing.T) {
	app, _ := newApp(t, defaultPages)
	content := id(t, app, "page-2", "page-content")
	radios := id(t, app, "page-2", "radios")

	updates, err := app.Dispatch(context.Background(), dashpages.Event{Prop: ui.Prop{ID: radios, Property: "value"}, Value: `Sky "blue"`}, nil)
	require.NoError(t, err)
	assert.Equal(t, []dashpages.Update{{Prop: ui.Prop{ID: content, Property: "children"}, Value: `You have selected "Sky "blue""`}}, updates)
}

func TestComplexPage(t *testing.T) {
	app, ds := newApp(t, defaultPages)
	ctx := context.Background()
	hash := ui.Prop{ID: id(t, app, "complex-page", "url"), Property: "hash"}
	figure := ui.Prop{ID: id(t, app, "complex-page", "scatter-plot"), Property: "figure"}
	slider := ui.Prop{ID: id(t, app, "complex-page", "year-slider"), Property: "value"}
	disabled := ui.Prop{ID: slider.ID, Property: "disabled"}
	dropdown := ui.Prop{ID: id(t, app, "complex-page", "dropdown"), Property: "value"}

	t.Run("initial load", func(t *testing.T) {
		st, err := app.Prime(ctx, loc(t, "/dash/complex-page#1957"), nil)
		require.NoError(t, err)
		assert.Equal(t, "#1952", st[hash])
		assert.Equal(t, false, st[disabled])
		if diff := cmp.Diff(complexpage.Figure(ds.ByYear(1952)), st[figure]); diff != "" {
			t.Errorf("figure mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("slide", func(t *testing.T) {
		updates, err := app.Dispatch(ctx, dashpages.Event{Prop: slider, Value: "1957"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []dashpages.Update{{Prop: hash, Value: "#1957"}}, updates)
	})

	t.Run("slide between marks", func(t *testing.T) {
		updates, err := app.Dispatch(ctx, dashpages.Event{Prop: slider, Value: "1955.4"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []dashpages.Update{{Prop: hash, Value: "#1957"}}, updates)
	})

	t.Run("hash between marks", func(t *testing.T) {
		updates, err := app.Dispatch(ctx, dashpages.Event{Prop: hash, Value: "#1953.9"}, ui.State{dropdown: complexpage.Editable})
		require.NoError(t, err)
		require.Len(t, updates, 1)
		if diff := cmp.Diff(complexpage.Figure(ds.ByYear(1952)), updates[0].Value); diff != "" {
			t.Errorf("figure mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("hash change", func(t *testing.T) {
		updates, err := app.Dispatch(ctx, dashpages.Event{Prop: hash, Value: "#1957"}, ui.State{dropdown: complexpage.Editable})
		require.NoError(t, err)
		require.Len(t, updates, 1)
		assert.Equal(t, figure, updates[0].Prop)
		fig := updates[0].Value.(ui.Figure)
		require.Len(t, fig.Data, 2)
		assert.Equal(t, "Asia", fig.Data[0].Name)
		assert.Equal(t, []any{820.8530296}, fig.Data[0].X)
		assert.Equal(t, []string{"Albania"}, fig.Data[1].Text)
	})

	t.Run("locked", func(t *testing.T) {
		updates, err := app.Dispatch(ctx, dashpages.Event{Prop: dropdown, Value: complexpage.Uneditable}, nil)
		require.NoError(t, err)
		assert.Equal(t, []dashpages.Update{{Prop: disabled, Value: true}}, updates)

		updates, err = app.Dispatch(ctx, dashpages.Event{Prop: hash, Value: "#1957"}, ui.State{dropdown: complexpage.Uneditable})
		require.NoError(t, err)
		assert.Empty(t, updates)
	})

	t.Run("hash is not a year", func(t *testing.T) {
		updates, err := app.Dispatch(ctx, dashpages.Event{Prop: hash, Value: "#about"}, ui.State{dropdown: complexpage.Editable})
		require.NoError(t, err)
		assert.Empty(t, updates)
	})
}

type counter struct{ hits, misses int }

func (c *counter) MemoHit()  { c.hits++ }
func (c *counter) MemoMiss() { c.misses++ }

func TestShellDispatchIsMemoized(t *testing.T) {
	obs := &counter{}
	memo := dashpages.NewMemo(dashpages.NewMemoryStore(clockwork.NewFakeClock()), dashpages.WithMemoObserver(obs))
	app, _ := newApp(t, defaultPages, dashpages.WithMemo(memo))
	pathname := ui.Prop{ID: id(t, app, "multipage", "url"), Property: "pathname"}

	for range 2 {
		updates, err := app.Dispatch(context.Background(), dashpages.Event{Prop: pathname, Value: "/dash/page-2"}, nil)
		require.NoError(t, err)
		require.Len(t, updates, 1)
		p, _ := app.Registry().Lookup("page-2")
		assert.Same(t, p.Layout, updates[0].Value)
	}
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 1, obs.misses)
}

func TestLoadRequiresDataSource(t *testing.T) {
	_, err := dashpages.Load(context.Background(), pages.Catalog(), []string{"complex-page"})
	var loadErr *dashpages.ModuleLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "complex-page", loadErr.Module)
}

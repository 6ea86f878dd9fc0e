// Package deps declares what the page modules expect to find among the
// dependencies passed to dashpages.Load.
package deps

import (
	"context"
	"time"

	"github.com/jackielii/dashpages/internal/gapminder"
)

// DataSource provides the gapminder dataset. *gapminder.Loader satisfies it.
type DataSource interface {
	Dataset(ctx context.Context) (*gapminder.Dataset, error)
}

// Settings tune the page callbacks.
type Settings struct {
	// MemoWindow is how long memoized callback results are reused.
	MemoWindow time.Duration
}

// Static is a DataSource over an already parsed dataset.
type Static struct {
	Data *gapminder.Dataset
}

func (s Static) Dataset(context.Context) (*gapminder.Dataset, error) {
	return s.Data, nil
}

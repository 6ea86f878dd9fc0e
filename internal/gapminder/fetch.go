package gapminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackielii/dashpages/internal/retry"
)

// DefaultURL is where plotly publishes the dataset.
const DefaultURL = "https://raw.githubusercontent.com/plotly/datasets/master/gapminderDataFiveYear.csv"

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

// Loader downloads and parses the dataset once; later calls reuse the result.
type Loader struct {
	URL    string
	Client *http.Client
	Policy retry.Policy
	Logger *slog.Logger

	once sync.Once
	ds   *Dataset
	err  error
}

func NewLoader(url string, timeout time.Duration, attempts int) *Loader {
	return &Loader{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Policy: retry.Policy{
			MaxAttempts:      attempts,
			InitialBackoff:   500 * time.Millisecond,
			RateLimitBackoff: 5 * time.Second,
		},
		Logger: slog.Default(),
	}
}

// Dataset returns the dataset, fetching it on the first call.
func (l *Loader) Dataset(ctx context.Context) (*Dataset, error) {
	l.once.Do(func() {
		l.ds, l.err = l.fetch(ctx)
	})
	return l.ds, l.err
}

func (l *Loader) fetch(ctx context.Context) (*Dataset, error) {
	p := l.Policy
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		l.Logger.WarnContext(ctx, "Fetching gapminder data failed, retrying",
			"url", l.URL, "attempt", attempt, "backoff", backoff, "error", err)
	}
	start := time.Now()
	ds, err := retry.Do(ctx, p, classifier(ctx), l.get)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", l.URL, err)
	}
	l.Logger.InfoContext(ctx, "Loaded gapminder data", "rows", len(ds.Rows), "duration", time.Since(start))
	return ds, nil
}

func (l *Loader) get(ctx context.Context) (*Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	return Parse(resp.Body)
}

// classifier stops on malformed content, on statuses that will not change,
// and once ctx is done. A per-attempt client timeout is retried.
func classifier(ctx context.Context) retry.Classify {
	return func(err error) retry.Action {
		if ctx.Err() != nil || errors.Is(err, errMalformed) {
			return retry.Stop
		}
		var se *statusError
		if !errors.As(err, &se) {
			// Network failures, timeouts and truncated bodies.
			return retry.Retry
		}
		switch {
		case se.code == http.StatusTooManyRequests:
			return retry.After
		case se.code >= 500:
			return retry.Retry
		default:
			return retry.Stop
		}
	}
}

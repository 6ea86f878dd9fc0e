package dashpages

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a-h/templ"
)

func Test_newBuffered(t *testing.T) {
	r := http.NewServeMux()
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		bw := newBuffered(w)
		_, _ = bw.Write([]byte("Hello, World!"))
		// headers can still be set after writing to the buffer
		w.Header().Add("X-test", "test")
		_ = bw.close()
	})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "Hello, World!" {
		t.Errorf("expected body %q, got %q", "Hello, World!", rec.Body.String())
	}
	if rec.Header().Get("X-test") != "test" {
		t.Errorf("expected header X-test to be 'test', got %q", rec.Header().Get("X-test"))
	}
}

func TestBufferedWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	bw := newBuffered(rec)

	bw.WriteHeader(http.StatusCreated)
	if rec.Code != http.StatusOK {
		t.Errorf("expected recorder to still have default status %d, got %d", http.StatusOK, rec.Code)
	}

	_, _ = bw.Write([]byte("test"))
	_ = bw.close()

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status %d after close, got %d", http.StatusCreated, rec.Code)
	}
}

func TestBufferedUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	bw := newBuffered(rec)
	defer bw.discard()

	if bw.Unwrap() != rec {
		t.Errorf("expected Unwrap to return original ResponseWriter, got %v", bw.Unwrap())
	}

	rc := http.NewResponseController(bw)
	if err := rc.Flush(); err != nil {
		t.Errorf("expected Flush to work through Unwrap, got error: %v", err)
	}
	err := rc.SetWriteDeadline(time.Now().Add(time.Second))
	if !errors.Is(err, http.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for SetWriteDeadline, got %v", err)
	}
}

func TestRenderDropsPartialOutput(t *testing.T) {
	boom := errors.New("boom")
	c := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<div>half")
		return boom
	})
	rec := httptest.NewRecorder()
	err := render(context.Background(), rec, c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

package dashpages

import (
	"bytes"
	"context"
	"net/http"
	"sync"

	"github.com/a-h/templ"
)

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func releaseBuffer(b *bytes.Buffer) {
	b.Reset()
	bufferPool.Put(b)
}

// buffered holds the body and status of a response until close, so that a
// render error can still be answered with an error page.
type buffered struct {
	http.ResponseWriter
	buf    *bytes.Buffer
	status int
}

func newBuffered(w http.ResponseWriter) *buffered {
	return &buffered{ResponseWriter: w, buf: getBuffer()}
}

func (w *buffered) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *buffered) WriteHeader(status int) {
	w.status = status
}

func (w *buffered) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// discard drops the buffered response.
func (w *buffered) discard() {
	releaseBuffer(w.buf)
}

func (w *buffered) close() error {
	defer releaseBuffer(w.buf)
	if w.status != 0 {
		w.ResponseWriter.WriteHeader(w.status)
	}
	_, err := w.ResponseWriter.Write(w.buf.Bytes())
	return err
}

// render writes c to w only if it renders completely.
func render(ctx context.Context, w http.ResponseWriter, c templ.Component) error {
	bw := newBuffered(w)
	if err := c.Render(ctx, bw); err != nil {
		bw.discard()
		return err
	}
	return bw.close()
}

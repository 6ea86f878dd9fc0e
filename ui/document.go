package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Document wraps Body in a complete html page.
type Document struct {
	Title   string
	Scripts []string
	Styles  []string
	Body    templ.Component
}

func (d Document) Render(ctx context.Context, w io.Writer) error {
	r := &renderer{ctx: ctx, w: w}
	r.write("<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\">")
	r.write("<title>" + templ.EscapeString(d.Title) + "</title>")
	for _, href := range d.Styles {
		r.write(`<link rel="stylesheet"`)
		r.attr("href", href)
		r.write(">")
	}
	for _, src := range d.Scripts {
		r.write("<script")
		r.attr("src", src)
		r.write(" defer></script>")
	}
	r.write("</head><body>")
	if r.err == nil && d.Body != nil {
		r.err = d.Body.Render(ctx, w)
	}
	r.write("</body></html>")
	return r.err
}

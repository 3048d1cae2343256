package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"runclub/internal/pages"
	"runclub/internal/render"
	appweb "runclub/web"
)

// RenderPage writes what GET /<id> would serve, without a running server.
func RenderPage(ctx context.Context, w io.Writer, set *pages.Set, id pages.ID) error {
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, string(id)+".html", newPageData(string(id))); err != nil {
		return fmt.Errorf("execute %s template: %w", id, err)
	}
	doc, err := render.Parse(&buf)
	if err != nil {
		return err
	}
	if err := set.Load(ctx, id, doc); err != nil {
		return err
	}
	return doc.Render(w)
}

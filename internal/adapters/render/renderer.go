// Package render turns workshop content into the public HTML page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	texttemplate "text/template"

	"workshopsite/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Static returns the stylesheet and other assets referenced by the page, rooted
// so that "style.css" is at the top level.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

type pageView struct {
	W            *domain.Workshop
	BuildID      string
	DraftComment template.HTML
}

type pageRenderer struct {
	page    *template.Template
	drafts  *template.Template
	comment *texttemplate.Template
}

// NewPageRenderer parses the embedded templates once. It fails only if the
// embedded templates are malformed.
func NewPageRenderer() (domain.PageRenderer, error) {
	page, err := template.New("page.html").Funcs(template.FuncMap{
		"materialURL": func(domain.ScheduleSlot) string { return "" },
	}).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	drafts, err := template.ParseFS(templateFS, "templates/drafts.html")
	if err != nil {
		return nil, fmt.Errorf("parse drafts template: %w", err)
	}
	comment, err := texttemplate.ParseFS(templateFS, "templates/drafts_comment.txt")
	if err != nil {
		return nil, fmt.Errorf("parse drafts comment template: %w", err)
	}
	return &pageRenderer{page: page, drafts: drafts, comment: comment}, nil
}

// Render executes the page template. Draft content never appears as markup;
// with IncludeDraftComments it is kept as an HTML comment block.
func (r *pageRenderer) Render(w *domain.Workshop, opts domain.RenderOptions) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("render: workshop is nil")
	}
	t, err := r.page.Clone()
	if err != nil {
		return nil, err
	}
	t.Funcs(template.FuncMap{"materialURL": w.MaterialURL})

	view := pageView{W: w, BuildID: opts.BuildID}
	if opts.IncludeDraftComments && !w.Drafts.Empty() {
		c, err := r.draftComment(w.Drafts)
		if err != nil {
			return nil, err
		}
		view.DraftComment = c
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderDrafts renders the draft blocks as a standalone preview page.
func (r *pageRenderer) RenderDrafts(w *domain.Workshop) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("render: workshop is nil")
	}
	var buf bytes.Buffer
	if err := r.drafts.Execute(&buf, w); err != nil {
		return nil, fmt.Errorf("render drafts: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pageRenderer) draftComment(d domain.Drafts) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.comment.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render drafts comment: %w", err)
	}
	body := commentEscaper.Replace(strings.TrimSpace(buf.String()))
	return template.HTML("<!-- drafts (not published)\n" + body + "\n-->"), nil
}

// Every sequence that ends or nests an HTML comment ("-->", "--!>", "<!--")
// needs an angle bracket, so escaping both keeps draft text inside the block.
var commentEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

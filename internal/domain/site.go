package domain

import (
	"context"
	"time"
)

// RenderOptions controls page rendering.
type RenderOptions struct {
	BuildID string
	// IncludeDraftComments emits draft blocks as an HTML comment, never as markup.
	IncludeDraftComments bool
}

// PageRenderer turns workshop content into HTML.
type PageRenderer interface {
	Render(w *Workshop, opts RenderOptions) ([]byte, error)
	RenderDrafts(w *Workshop) ([]byte, error)
}

// ValidationReport is the outcome of checking a workshop against its content rules.
type ValidationReport struct {
	Slug   string  `json:"slug"`
	Issues []Issue `json:"issues"`
}

// OK reports whether no issues were found.
func (r ValidationReport) OK() bool {
	return len(r.Issues) == 0
}

// Err returns a *ValidationError when the report has issues.
func (r ValidationReport) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Issues: r.Issues}
}

// BuildResult describes a completed static build.
type BuildResult struct {
	BuildID string    `json:"build_id"`
	OutDir  string    `json:"out_dir"`
	Files   []string  `json:"files"`
	BuiltAt time.Time `json:"built_at"`
}

// SiteService loads, validates and renders workshop pages.
type SiteService interface {
	Workshop(ctx context.Context, slug string) (*Workshop, error)
	Validate(ctx context.Context, slug string) (ValidationReport, error)
	Page(ctx context.Context, slug string) ([]byte, error)
	Drafts(ctx context.Context, slug string) ([]byte, error)
	Build(ctx context.Context, slug, outDir string) (*BuildResult, error)
}

package domain

import (
	"context"
	"time"
)

// Link is an outbound URL found in workshop content.
type Link struct {
	URL   string `json:"url"`
	Field string `json:"field"`
}

// LinkStatus is the result of probing a link.
type LinkStatus struct {
	URL        string    `json:"url"`
	Field      string    `json:"field"`
	StatusCode int       `json:"status_code"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// LinkChecker probes outbound links.
type LinkChecker interface {
	Check(ctx context.Context, links []Link) ([]LinkStatus, error)
}

// LinkStatusCache stores recent link statuses keyed by URL.
type LinkStatusCache interface {
	Get(ctx context.Context, url string) (*LinkStatus, error)
	Set(ctx context.Context, status LinkStatus) error
}

// LinkReport groups the statuses of one check run.
type LinkReport struct {
	RunID    string       `json:"run_id"`
	Slug     string       `json:"slug"`
	Statuses []LinkStatus `json:"statuses"`
}

// Broken returns the statuses that failed.
func (r LinkReport) Broken() []LinkStatus {
	var out []LinkStatus
	for _, s := range r.Statuses {
		if !s.OK {
			out = append(out, s)
		}
	}
	return out
}

// LinkService runs link checks for a workshop.
type LinkService interface {
	CheckLinks(ctx context.Context, slug string) (*LinkReport, error)
	Cached(ctx context.Context, slug string) (*LinkReport, error)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"workshopsite/internal/adapters/linkcheck"
	"workshopsite/internal/domain"
)

type linkService struct {
	repo    domain.WorkshopRepository
	checker domain.LinkChecker
	cache   domain.LinkStatusCache
	logger  *slog.Logger
	timeout time.Duration
}

// NewLinkService returns a LinkService. cache may be nil, in which case Cached
// reports every link as unchecked.
func NewLinkService(repo domain.WorkshopRepository, checker domain.LinkChecker, cache domain.LinkStatusCache, logger *slog.Logger, timeout time.Duration) domain.LinkService {
	return &linkService{repo: repo, checker: checker, cache: cache, logger: logger, timeout: timeout}
}

func (s *linkService) CheckLinks(ctx context.Context, slug string) (*domain.LinkReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	w, err := s.repo.Get(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get workshop %q: %w", slug, err)
	}
	runID := uuid.NewString()
	links := linkcheck.Collect(w)
	s.logger.Info("link check started", "slug", slug, "run_id", runID, "links", len(links))
	statuses, err := s.checker.Check(ctx, links)
	if err != nil {
		return nil, fmt.Errorf("check links: %w", err)
	}
	report := &domain.LinkReport{RunID: runID, Slug: slug, Statuses: statuses}
	s.logger.Info("link check finished", "slug", slug, "run_id", runID, "broken", len(report.Broken()))
	return report, nil
}

// Cached returns the last known status of every link without probing.
func (s *linkService) Cached(ctx context.Context, slug string) (*domain.LinkReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	w, err := s.repo.Get(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get workshop %q: %w", slug, err)
	}
	links := linkcheck.Collect(w)
	report := &domain.LinkReport{Slug: slug, Statuses: make([]domain.LinkStatus, 0, len(links))}
	for _, l := range links {
		status := domain.LinkStatus{URL: l.URL, Field: l.Field}
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, l.URL)
			if err != nil {
				return nil, fmt.Errorf("read link cache: %w", err)
			}
			if cached != nil {
				status = *cached
				status.Field = l.Field
			}
		}
		report.Statuses = append(report.Statuses, status)
	}
	return report, nil
}

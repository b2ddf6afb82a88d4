package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"workshopsite/internal/domain"
	"workshopsite/internal/validation"
)

type announcementService struct {
	repo           domain.WorkshopRepository
	mailer         domain.Mailer
	renderer       domain.EmailTemplateRenderer
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAnnouncementService returns an AnnouncementService that renders the
// "announcement" email template and sends it through mailer.
func NewAnnouncementService(repo domain.WorkshopRepository, mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger, timeout time.Duration) domain.AnnouncementService {
	return &announcementService{
		repo:           repo,
		mailer:         mailer,
		renderer:       renderer,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Announce renders once and sends to each recipient. Invalid addresses and send
// failures are reported per recipient; the call fails only if nothing could be
// attempted.
func (s *announcementService) Announce(ctx context.Context, slug, pageURL string, recipients []string) (*domain.AnnouncementResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(recipients) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	w, err := s.repo.Get(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get workshop %q: %w", slug, err)
	}
	if err := validation.Report(w).Err(); err != nil {
		return nil, err
	}
	subject, htmlBody, textBody, err := s.renderer.Render("announcement", &domain.AnnouncementEmailData{Workshop: w, PageURL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to render announcement template: %w", err)
	}

	result := &domain.AnnouncementResult{Failed: map[string]string{}}
	seen := make(map[string]struct{}, len(recipients))
	for _, raw := range recipients {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		to := strings.TrimSpace(strings.ToLower(raw))
		if _, dup := seen[to]; dup || to == "" {
			continue
		}
		seen[to] = struct{}{}
		if _, err := mail.ParseAddress(to); err != nil {
			result.Failed[to] = "invalid email address"
			continue
		}
		if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
			s.logger.Warn("announcement not sent", "to", to, "err", err)
			result.Failed[to] = err.Error()
			continue
		}
		result.Sent++
	}
	s.logger.Info("announcement sent", "slug", slug, "sent", result.Sent, "failed", len(result.Failed))
	return result, nil
}

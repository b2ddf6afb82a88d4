package linkcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"workshopsite/internal/domain"
)

// Config tunes the HTTP checker.
type Config struct {
	Concurrency    int
	RequestsPerSec float64
	Timeout        time.Duration
	UserAgent      string
	// CacheTTL of zero disables caching.
	CacheTTL time.Duration
}

// DefaultConfig returns conservative settings suitable for third-party hosts.
func DefaultConfig() Config {
	return Config{
		Concurrency:    4,
		RequestsPerSec: 5,
		Timeout:        10 * time.Second,
		UserAgent:      "workshopsite-linkcheck/1.0",
		CacheTTL:       6 * time.Hour,
	}
}

type httpChecker struct {
	client  *http.Client
	limiter *rate.Limiter
	cache   domain.LinkStatusCache
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewHTTPChecker returns a LinkChecker that probes links with HEAD (GET when the
// server rejects HEAD). cache may be nil.
func NewHTTPChecker(client *http.Client, cache domain.LinkStatusCache, cfg Config, logger *slog.Logger) domain.LinkChecker {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &httpChecker{
		client:  client,
		limiter: rate.NewLimiter(limit, cfg.Concurrency),
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Check probes links concurrently and returns statuses in input order. A
// failing link is reported in its status; only context cancellation is an error.
func (c *httpChecker) Check(ctx context.Context, links []domain.Link) ([]domain.LinkStatus, error) {
	out := make([]domain.LinkStatus, len(links))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i, link := range links {
		g.Go(func() error {
			status, err := c.checkOne(ctx, link)
			if err != nil {
				return err
			}
			out[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpChecker) checkOne(ctx context.Context, link domain.Link) (domain.LinkStatus, error) {
	if c.cache != nil && c.cfg.CacheTTL > 0 {
		cached, err := c.cache.Get(ctx, link.URL)
		if err != nil {
			c.logger.Warn("link cache read failed", "url", link.URL, "err", err)
		} else if cached != nil && c.now().Sub(cached.CheckedAt) < c.cfg.CacheTTL {
			cached.Field = link.Field
			return *cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.LinkStatus{}, err
	}
	status := domain.LinkStatus{URL: link.URL, Field: link.Field, CheckedAt: c.now().UTC()}
	code, err := c.probe(ctx, http.MethodHead, link.URL)
	if err == nil && (code == http.StatusMethodNotAllowed || code == http.StatusNotImplemented) {
		code, err = c.probe(ctx, http.MethodGet, link.URL)
	}
	if ctx.Err() != nil {
		return domain.LinkStatus{}, ctx.Err()
	}
	status.StatusCode = code
	if err != nil {
		status.Error = err.Error()
	} else {
		status.OK = code >= 200 && code < 400
	}
	c.logger.Debug("link checked", "url", link.URL, "status", code, "ok", status.OK)

	if c.cache != nil && c.cfg.CacheTTL > 0 {
		if err := c.cache.Set(ctx, status); err != nil {
			c.logger.Warn("link cache write failed", "url", link.URL, "err", err)
		}
	}
	return status, nil
}

func (c *httpChecker) probe(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

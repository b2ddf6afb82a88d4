package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"workshopsite/config"
	"workshopsite/internal/adapters/linkcheck"
	"workshopsite/internal/adapters/redis"
	"workshopsite/internal/adapters/render"
	"workshopsite/internal/content"
	"workshopsite/internal/domain"
	"workshopsite/internal/repository/postgres"
	"workshopsite/internal/services"
)

// linkCheckTimeout bounds a whole check-links run; individual probes use
// LINKCHECK_TIMEOUT.
const linkCheckTimeout = 5 * time.Minute

// App holds configuration and lazily opened connections shared by commands.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	db      *sql.DB
	redis   *goredis.Client
	closers []func() error
}

// Close releases every connection opened by the app.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}

// DB opens the Postgres connection on first use.
func (a *App) DB(ctx context.Context) (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := sql.Open("postgres", a.Config.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db.Close)
	return db, nil
}

// Redis connects to REDIS_URL on first use. It returns nil when no URL is set.
func (a *App) Redis(ctx context.Context) (*goredis.Client, error) {
	if a.redis != nil || a.Config.RedisURL == "" {
		return a.redis, nil
	}
	client, err := redis.NewClient(ctx, a.Config.RedisURL, a.Logger)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.closers = append(a.closers, client.Close)
	return client, nil
}

// Repository returns the content store selected by CONTENT_SOURCE.
func (a *App) Repository(ctx context.Context) (domain.WorkshopRepository, error) {
	if a.Config.Source == config.SourceDB {
		db, err := a.DB(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewWorkshopRepository(db), nil
	}
	return content.NewFileRepository(a.Config.ContentDir), nil
}

// Assets maps build output prefixes to their sources: the embedded stylesheet
// and, when present, the content directory's img/ folder.
func (a *App) Assets() map[string]fs.FS {
	assets := map[string]fs.FS{"static": render.Static()}
	if img := a.imageDir(); img != nil {
		assets["img"] = img
	}
	return assets
}

func (a *App) imageDir() fs.FS {
	dir := filepath.Join(a.Config.ContentDir, "img")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}

func (a *App) SiteService(ctx context.Context) (domain.SiteService, error) {
	repo, err := a.Repository(ctx)
	if err != nil {
		return nil, err
	}
	renderer, err := render.NewPageRenderer()
	if err != nil {
		return nil, err
	}
	return services.NewSiteService(repo, renderer, a.Assets(), a.Logger, a.Config.ServiceTimeout), nil
}

// LinkCache is Redis when REDIS_URL is set, otherwise an in-process cache.
func (a *App) LinkCache(ctx context.Context) (domain.LinkStatusCache, error) {
	client, err := a.Redis(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return linkcheck.NewMemoryCache(), nil
	}
	return linkcheck.NewRedisCache(client, a.Config.LinkCheck.CacheTTL), nil
}

func (a *App) LinkService(ctx context.Context, checker domain.LinkChecker) (domain.LinkService, domain.LinkStatusCache, error) {
	repo, err := a.Repository(ctx)
	if err != nil {
		return nil, nil, err
	}
	cache, err := a.LinkCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	if checker == nil {
		checker = linkcheck.NewHTTPChecker(nil, cache, a.linkCheckConfig(), a.Logger)
	}
	return services.NewLinkService(repo, checker, cache, a.Logger, linkCheckTimeout), cache, nil
}

func (a *App) linkCheckConfig() linkcheck.Config {
	c := a.Config.LinkCheck
	return linkcheck.Config{
		Concurrency:    c.Concurrency,
		RequestsPerSec: c.RequestsPerSec,
		Timeout:        c.Timeout,
		UserAgent:      c.UserAgent,
		CacheTTL:       c.CacheTTL,
	}
}

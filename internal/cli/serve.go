package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"workshopsite/config"
	"workshopsite/internal/adapters/auth"
	"workshopsite/internal/adapters/redis"
	"workshopsite/internal/adapters/render"
	delivery "workshopsite/internal/delivery/http"
	"workshopsite/internal/delivery/http/controllers"
	"workshopsite/internal/domain"
	"workshopsite/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(app *App) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = app.Config.Port
			}
			handler, err := newHandler(cmd.Context(), app)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       2 * time.Minute,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, app, srv)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from PORT)")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, app *App, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("starting server", "addr", srv.Addr, "slug", app.Config.Slug, "source", app.Config.Source)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	app.Logger.Info("server stopped")
	return nil
}

func newHandler(ctx context.Context, app *App) (http.Handler, error) {
	cfg := app.Config
	site, err := app.SiteService(ctx)
	if err != nil {
		return nil, err
	}
	links, _, err := app.LinkService(ctx, nil)
	if err != nil {
		return nil, err
	}

	hasher := auth.NewBcryptHasher(0)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.Slug)
	editor := domain.Editor{Email: cfg.EditorEmail, PasswordHash: cfg.EditorPasswordHash}
	if editor.PasswordHash == "" {
		app.Logger.Warn("EDITOR_PASSWORD_HASH is not set, draft preview is disabled")
	}
	authSvc := services.NewEditorAuthService(editor, hasher, issuer, cfg.TokenExpiry)

	checks := map[string]controllers.HealthCheck{}
	if cfg.Source == config.SourceDB {
		db, err := app.DB(ctx)
		if err != nil {
			return nil, err
		}
		checks["postgres"] = db.PingContext
	}
	if client, err := app.Redis(ctx); err != nil {
		return nil, err
	} else if client != nil {
		checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, client) }
	}

	return delivery.NewRouter(delivery.RouterDeps{
		Logger:         app.Logger,
		Site:           controllers.NewSiteController(app.Logger, site, cfg.Slug),
		Links:          controllers.NewLinkController(app.Logger, links, cfg.Slug),
		Auth:           controllers.NewAuthController(app.Logger, authSvc),
		Health:         controllers.NewHealthController(checks),
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret, cfg.Slug),
		Static:         render.Static(),
		Assets:         app.imageDir(),
		RequestTimeout: cfg.RequestTimeout,
	}), nil
}

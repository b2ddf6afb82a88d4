package http

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "workshopsite/docs"
	"workshopsite/internal/delivery/http/controllers"
	"workshopsite/internal/delivery/http/middleware"
	"workshopsite/internal/domain"
)

// RouterDeps are the controllers and collaborators the router mounts.
type RouterDeps struct {
	Logger   *slog.Logger
	Site     *controllers.SiteController
	Links    *controllers.LinkController
	Auth     *controllers.AuthController
	Health   *controllers.HealthController
	Verifier domain.TokenVerifier
	// Static is served under /static/. The page links its stylesheet there.
	Static fs.FS
	// Assets is served under /img/ for the header image.
	Assets         fs.FS
	RequestTimeout time.Duration
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(d.Logger))
	r.Use(chimw.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	// Site
	r.Get("/", d.Site.Page)
	if d.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(d.Static)))
	}
	if d.Assets != nil {
		r.Handle("/img/*", http.StripPrefix("/img/", http.FileServerFS(d.Assets)))
	}
	r.Get("/healthz", d.Health.Healthz)

	// API
	r.Route("/api", func(r chi.Router) {
		r.Get("/workshop", d.Site.Workshop)
		r.Get("/validation", d.Site.Validation)
		r.Get("/links", d.Links.Links)
		r.With(middleware.RequireAuth(d.Verifier, d.Logger)).Post("/links/check", d.Links.Check)
	})

	// Auth
	r.Post("/auth/token", d.Auth.Token)
	r.With(middleware.RequireAuth(d.Verifier, d.Logger)).Get("/drafts", d.Site.Drafts)

	// Swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"workshopsite/internal/domain"
	"workshopsite/internal/validation"
)

// siteExport is the machine-readable companion of index.html. Drafts are left out.
type siteExport struct {
	BuildID    string             `json:"build_id"`
	Slug       string             `json:"slug"`
	Title      string             `json:"title"`
	Date       string             `json:"date"`
	Location   string             `json:"location"`
	Organizers []domain.Organizer `json:"organizers"`
	Schedule   []domain.Session   `json:"schedule"`
	Papers     []domain.Paper     `json:"papers"`
	Image      domain.ImageCredit `json:"image"`
}

type siteService struct {
	repo           domain.WorkshopRepository
	renderer       domain.PageRenderer
	assets         map[string]fs.FS
	logger         *slog.Logger
	contextTimeout time.Duration
	newBuildID     func() (string, error)
	now            func() time.Time
}

// NewSiteService returns a SiteService. assets maps an output directory prefix
// ("static", "img", "" for the root) to the files Build copies there.
func NewSiteService(repo domain.WorkshopRepository, renderer domain.PageRenderer, assets map[string]fs.FS, logger *slog.Logger, timeout time.Duration) domain.SiteService {
	return &siteService{
		repo:           repo,
		renderer:       renderer,
		assets:         assets,
		logger:         logger,
		contextTimeout: timeout,
		newBuildID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
		now: time.Now,
	}
}

func (s *siteService) Workshop(ctx context.Context, slug string) (*domain.Workshop, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	w, err := s.repo.Get(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get workshop %q: %w", slug, err)
	}
	return w, nil
}

func (s *siteService) Validate(ctx context.Context, slug string) (domain.ValidationReport, error) {
	w, err := s.Workshop(ctx, slug)
	if err != nil {
		return domain.ValidationReport{}, err
	}
	return validation.Report(w), nil
}

// Page renders the public page. Invalid content is refused so that a broken
// page is never served.
func (s *siteService) Page(ctx context.Context, slug string) ([]byte, error) {
	w, err := s.validWorkshop(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(w, domain.RenderOptions{})
}

func (s *siteService) Drafts(ctx context.Context, slug string) ([]byte, error) {
	w, err := s.Workshop(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderDrafts(w)
}

// Build validates and renders the page, then writes index.html, workshop.json
// and static assets to outDir. Nothing is written when validation fails.
func (s *siteService) Build(ctx context.Context, slug, outDir string) (*domain.BuildResult, error) {
	w, err := s.validWorkshop(ctx, slug)
	if err != nil {
		return nil, err
	}
	buildID, err := s.newBuildID()
	if err != nil {
		return nil, fmt.Errorf("generate build id: %w", err)
	}
	page, err := s.renderer.Render(w, domain.RenderOptions{BuildID: buildID, IncludeDraftComments: true})
	if err != nil {
		return nil, err
	}
	export, err := json.MarshalIndent(siteExport{
		BuildID:    buildID,
		Slug:       w.Slug,
		Title:      w.Title,
		Date:       w.Date,
		Location:   w.Location,
		Organizers: w.Organizers,
		Schedule:   w.Schedule,
		Papers:     w.Papers,
		Image:      w.Image,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	result := &domain.BuildResult{BuildID: buildID, OutDir: outDir, BuiltAt: s.now().UTC()}
	write := func(name string, data []byte) error {
		dst := filepath.Join(outDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		result.Files = append(result.Files, name)
		return nil
	}
	if err := write("index.html", page); err != nil {
		return nil, err
	}
	if err := write("workshop.json", export); err != nil {
		return nil, err
	}
	prefixes := make([]string, 0, len(s.assets))
	for p := range s.assets {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		fsys := s.assets[prefix]
		err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			return write(path.Join(prefix, p), data)
		})
		if err != nil {
			return nil, fmt.Errorf("copy assets %q: %w", prefix, err)
		}
	}
	s.logger.Info("site built", "slug", slug, "build_id", buildID, "out_dir", outDir, "files", len(result.Files))
	return result, nil
}

func (s *siteService) validWorkshop(ctx context.Context, slug string) (*domain.Workshop, error) {
	w, err := s.Workshop(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := validation.Report(w).Err(); err != nil {
		return nil, err
	}
	return w, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopsite/internal/adapters/render"
	"workshopsite/internal/content"
	"workshopsite/internal/domain"
)

// testLogger is a no-op logger so tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeWorkshopRepo is an in-memory WorkshopRepository for tests.
type fakeWorkshopRepo struct {
	bySlug map[string]*domain.Workshop
	getErr error
}

func newFakeWorkshopRepo(ws ...*domain.Workshop) *fakeWorkshopRepo {
	f := &fakeWorkshopRepo{bySlug: make(map[string]*domain.Workshop)}
	for _, w := range ws {
		f.bySlug[w.Slug] = w
	}
	return f
}

func (f *fakeWorkshopRepo) Get(ctx context.Context, slug string) (*domain.Workshop, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if w, ok := f.bySlug[slug]; ok {
		return w, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeWorkshopRepo) Save(ctx context.Context, w *domain.Workshop) error {
	f.bySlug[w.Slug] = w
	return nil
}

func (f *fakeWorkshopRepo) List(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(f.bySlug))
	for slug := range f.bySlug {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out, nil
}

func loadFixture(t *testing.T) *domain.Workshop {
	t.Helper()
	w, err := content.Load(filepath.Join("testdata", "pn-workshop.yaml"))
	require.NoError(t, err)
	return w
}

func newTestSiteService(t *testing.T, repo domain.WorkshopRepository, assets map[string]fs.FS) *siteService {
	t.Helper()
	renderer, err := render.NewPageRenderer()
	require.NoError(t, err)
	svc := NewSiteService(repo, renderer, assets, testLogger, 5*time.Second).(*siteService)
	svc.newBuildID = func() (string, error) { return "build-123", nil }
	return svc
}

func TestSiteService_Build(t *testing.T) {
	repo := newFakeWorkshopRepo(loadFixture(t))
	assets := map[string]fs.FS{
		"static": render.Static(),
		"img":    fstest.MapFS{"header.jpg": {Data: []byte("jpeg")}},
	}
	svc := newTestSiteService(t, repo, assets)
	out := t.TempDir()

	res, err := svc.Build(context.Background(), "pn-workshop", out)
	require.NoError(t, err)
	assert.Equal(t, "build-123", res.BuildID)
	assert.Equal(t, []string{"index.html", "workshop.json", "img/header.jpg", "static/style.css"}, res.Files)

	page, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `content="build-123"`)
	assert.Contains(t, string(page), "<!-- drafts (not published)")

	raw, err := os.ReadFile(filepath.Join(out, "workshop.json"))
	require.NoError(t, err)
	var export map[string]any
	require.NoError(t, json.Unmarshal(raw, &export))
	assert.Equal(t, "build-123", export["build_id"])
	assert.Len(t, export["papers"], 5)
	assert.NotContains(t, export, "drafts")

	img, err := os.ReadFile(filepath.Join(out, "img", "header.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(img))
}

func TestSiteService_BuildRefusesInvalidContent(t *testing.T) {
	w := loadFixture(t)
	w.Papers[0], w.Papers[1] = w.Papers[1], w.Papers[0]
	svc := newTestSiteService(t, newFakeWorkshopRepo(w), nil)
	out := filepath.Join(t.TempDir(), "site")

	_, err := svc.Build(context.Background(), "pn-workshop", out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidContent))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "papers[1]", verr.Issues[0].Field)

	_, statErr := os.Stat(out)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "nothing written")
}

func TestSiteService_NotFound(t *testing.T) {
	svc := newTestSiteService(t, newFakeWorkshopRepo(), nil)
	_, err := svc.Page(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.Validate(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSiteService_ValidateAndPage(t *testing.T) {
	w := loadFixture(t)
	svc := newTestSiteService(t, newFakeWorkshopRepo(w), nil)

	report, err := svc.Validate(context.Background(), "pn-workshop")
	require.NoError(t, err)
	assert.True(t, report.OK())

	page, err := svc.Page(context.Background(), "pn-workshop")
	require.NoError(t, err)
	assert.Contains(t, string(page), "Opening Remarks")
	assert.NotContains(t, string(page), "drafts (not published)")

	drafts, err := svc.Drafts(context.Background(), "pn-workshop")
	require.NoError(t, err)
	assert.Contains(t, string(drafts), "Call for Papers")

	w.Schedule[0].Slots[1].Start = w.Schedule[0].Slots[0].Start
	report, err = svc.Validate(context.Background(), "pn-workshop")
	require.NoError(t, err)
	assert.False(t, report.OK())
	_, err = svc.Page(context.Background(), "pn-workshop")
	assert.True(t, errors.Is(err, domain.ErrInvalidContent))
}

package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"workshopsite/internal/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

type fileRepository struct {
	dir string
}

// NewFileRepository returns a WorkshopRepository over a directory of content
// files named "<slug>.yaml", "<slug>.yml" or "<slug>.json".
func NewFileRepository(dir string) domain.WorkshopRepository {
	return &fileRepository{dir: dir}
}

func (r *fileRepository) Get(ctx context.Context, slug string) (*domain.Workshop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if slug == "" || strings.ContainsAny(slug, `/\`) {
		return nil, domain.ErrNotFound
	}
	for _, ext := range extensions {
		path := filepath.Join(r.dir, slug+ext)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		w, err := Load(path)
		if err != nil {
			return nil, err
		}
		w.Slug = slug
		w.UpdatedAt = info.ModTime().UTC()
		return w, nil
	}
	return nil, domain.ErrNotFound
}

// Save writes the workshop as YAML through a temp file so readers never see a
// partial document.
func (r *fileRepository) Save(ctx context.Context, w *domain.Workshop) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.Slug == "" {
		return fmt.Errorf("workshop slug is required")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.dir, "."+w.Slug+"-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := EncodeYAML(tmp, w); err != nil {
		tmp.Close()
		return fmt.Errorf("encode workshop: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(r.dir, w.Slug+".yaml"))
}

func (r *fileRepository) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, known := range extensions {
			if ext != known {
				continue
			}
			slug := strings.TrimSuffix(e.Name(), ext)
			if _, ok := seen[slug]; !ok {
				seen[slug] = struct{}{}
				out = append(out, slug)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

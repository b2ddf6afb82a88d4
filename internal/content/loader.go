// Package content reads and writes workshop content files.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"workshopsite/internal/domain"
)

// Load reads a YAML or JSON content file. The format is chosen by extension.
func Load(path string) (*domain.Workshop, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w *domain.Workshop
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		w, err = DecodeYAML(bytes.NewReader(raw))
	case ".json":
		w, err = DecodeJSON(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unsupported content format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if w.Slug == "" {
		w.Slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return w, nil
}

// DecodeYAML decodes a workshop document, rejecting unknown fields.
func DecodeYAML(r io.Reader) (*domain.Workshop, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var w domain.Workshop
	if err := dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}
	if err := normalize(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

// DecodeJSON decodes a workshop document, rejecting unknown fields.
func DecodeJSON(r io.Reader) (*domain.Workshop, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var w domain.Workshop
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}
	if err := normalize(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

// EncodeYAML writes w in the same layout DecodeYAML reads.
func EncodeYAML(out io.Writer, w *domain.Workshop) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(w); err != nil {
		return err
	}
	return enc.Close()
}

// normalize expands the "time: HH:MM-HH:MM" shorthand into start and end.
func normalize(w *domain.Workshop) error {
	for i := range w.Schedule {
		for j := range w.Schedule[i].Slots {
			slot := &w.Schedule[i].Slots[j]
			if slot.Time == "" {
				continue
			}
			start, end, err := domain.ParseTimeRange(slot.Time)
			if err != nil {
				return fmt.Errorf("schedule[%d].slots[%d]: %w", i, j, err)
			}
			slot.Start, slot.End, slot.Time = start, end, ""
		}
	}
	return nil
}

// Package remote downloads workshop content published at a URL, such as a raw
// file in a shared repository.
package remote

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"workshopsite/internal/content"
	"workshopsite/internal/domain"
)

// maxContentBytes bounds a downloaded content document.
const maxContentBytes = 4 << 20

type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher that GETs content documents over HTTP.
func NewHTTPFetcher(client *http.Client) domain.ContentFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &httpFetcher{client: client}
}

// Fetch downloads and decodes a YAML or JSON document. JSON is chosen by a
// JSON content type or a .json path; anything else is read as YAML.
func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) (*domain.Workshop, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("content url %q must be absolute http(s)", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, text/plain;q=0.5")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content url returned status: %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxContentBytes)
	var w *domain.Workshop
	if isJSON(resp.Header.Get("Content-Type"), u.Path) {
		w, err = content.DecodeJSON(body)
	} else {
		w, err = content.DecodeYAML(body)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	if w.Slug == "" {
		w.Slug = strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	}
	return w, nil
}

func isJSON(contentType, urlPath string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json")) {
		return true
	}
	return strings.EqualFold(path.Ext(urlPath), ".json")
}

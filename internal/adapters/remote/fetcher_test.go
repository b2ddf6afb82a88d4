package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentServer(t *testing.T) *httptest.Server {
	t.Helper()
	yamlDoc, err := os.ReadFile(filepath.Join("..", "..", "content", "testdata", "pn-workshop.yaml"))
	require.NoError(t, err)
	jsonDoc, err := os.ReadFile(filepath.Join("..", "..", "content", "testdata", "pn-workshop.json"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/raw/pn-workshop.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(yamlDoc)
	})
	mux.HandleFunc("/api/content", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jsonDoc)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := newContentServer(t)
	f := NewHTTPFetcher(srv.Client())

	w, err := f.Fetch(context.Background(), srv.URL+"/raw/pn-workshop.yaml")
	require.NoError(t, err)
	assert.Equal(t, "pn-workshop", w.Slug)
	assert.NotEmpty(t, w.Papers)

	w, err = f.Fetch(context.Background(), srv.URL+"/api/content")
	require.NoError(t, err)
	assert.Equal(t, "JSON Workshop", w.Title)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	srv := newContentServer(t)
	f := NewHTTPFetcher(srv.Client())

	_, err := f.Fetch(context.Background(), srv.URL+"/missing.yaml")
	assert.ErrorContains(t, err, "status: 404")

	_, err = f.Fetch(context.Background(), "ftp://example.org/pn-workshop.yaml")
	assert.ErrorContains(t, err, "must be absolute http(s)")

	_, err = f.Fetch(context.Background(), "content/pn-workshop.yaml")
	assert.Error(t, err)
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("application/json; charset=utf-8", "/x"))
	assert.True(t, isJSON("application/vnd.workshop+json", "/x"))
	assert.True(t, isJSON("", "/a/b.JSON"))
	assert.False(t, isJSON("text/plain", "/a/b.yaml"))
}

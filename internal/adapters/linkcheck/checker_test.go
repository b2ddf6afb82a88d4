package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshopsite/internal/domain"
)

func newTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/get-only", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RequestsPerSec = 0
	cfg.Timeout = 2 * time.Second
	return cfg
}

func TestHTTPChecker_Check(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	checker := NewHTTPChecker(srv.Client(), nil, testConfig(), nil)

	links := []domain.Link{
		{URL: srv.URL + "/ok", Field: "organizers[0].url"},
		{URL: srv.URL + "/get-only", Field: "papers[0].url"},
		{URL: srv.URL + "/moved", Field: "papers[1].url"},
		{URL: srv.URL + "/missing", Field: "papers[2].url"},
		{URL: "http://127.0.0.1:1/unreachable", Field: "image.author_url"},
	}
	statuses, err := checker.Check(context.Background(), links)
	require.NoError(t, err)
	require.Len(t, statuses, len(links))

	for i, s := range statuses {
		assert.Equal(t, links[i].URL, s.URL)
		assert.Equal(t, links[i].Field, s.Field)
		assert.False(t, s.CheckedAt.IsZero())
	}
	assert.True(t, statuses[0].OK)
	assert.Equal(t, http.StatusOK, statuses[0].StatusCode)
	assert.True(t, statuses[1].OK, "GET fallback after 405")
	assert.True(t, statuses[2].OK, "redirect followed")
	assert.False(t, statuses[3].OK)
	assert.Equal(t, http.StatusNotFound, statuses[3].StatusCode)
	assert.False(t, statuses[4].OK)
	assert.NotEmpty(t, statuses[4].Error)
}

func TestHTTPChecker_UsesCache(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	cache := NewMemoryCache()
	checker := NewHTTPChecker(srv.Client(), cache, testConfig(), nil)

	links := []domain.Link{{URL: srv.URL + "/ok", Field: "a"}}
	_, err := checker.Check(context.Background(), links)
	require.NoError(t, err)
	require.Equal(t, int64(1), hits.Load())

	links[0].Field = "b"
	statuses, err := checker.Check(context.Background(), links)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load(), "second check served from cache")
	assert.Equal(t, "b", statuses[0].Field)
	assert.True(t, statuses[0].OK)
}

func TestHTTPChecker_ExpiredCacheEntry(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	cache := NewMemoryCache()
	url := srv.URL + "/ok"
	require.NoError(t, cache.Set(context.Background(), domain.LinkStatus{
		URL: url, OK: false, CheckedAt: time.Now().Add(-48 * time.Hour),
	}))
	checker := NewHTTPChecker(srv.Client(), cache, testConfig(), nil)

	statuses, err := checker.Check(context.Background(), []domain.Link{{URL: url}})
	require.NoError(t, err)
	assert.True(t, statuses[0].OK)
	assert.Equal(t, int64(1), hits.Load())
}

func TestHTTPChecker_Cancelled(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	checker := NewHTTPChecker(srv.Client(), nil, testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := checker.Check(ctx, []domain.Link{{URL: srv.URL + "/ok"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryCache_Miss(t *testing.T) {
	s, err := NewMemoryCache().Get(context.Background(), "https://example.org")
	require.NoError(t, err)
	assert.Nil(t, s)
}

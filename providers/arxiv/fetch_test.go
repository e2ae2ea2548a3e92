package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"research-desk/config"
)

func newTestFetcher(t *testing.T, h http.HandlerFunc) *Fetcher {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewFetcher(&config.Config{ArxivBaseURL: srv.URL, HTTPTimeout: 5 * time.Second}, zap.NewNop())
}

func TestFetcher_Search(t *testing.T) {
	var got url.Values
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(sampleFeed))
	})

	papers, err := f.Search(context.Background(), "all:transformers", 2)
	require.NoError(t, err)
	assert.Len(t, papers, 2)

	assert.Equal(t, "all:transformers", got.Get("search_query"))
	assert.Equal(t, "0", got.Get("start"))
	assert.Equal(t, "2", got.Get("max_results"))
	assert.Equal(t, "submittedDate", got.Get("sortBy"))
	assert.Equal(t, "descending", got.Get("sortOrder"))
}

func TestFetcher_SearchUpstreamError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := f.Search(context.Background(), "all:x", 5)
	assert.Error(t, err)
}

func TestFetcher_SearchGarbageIsEmpty(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not xml at all"))
	})

	papers, err := f.Search(context.Background(), "all:x", 5)
	require.NoError(t, err)
	assert.Empty(t, papers)
}

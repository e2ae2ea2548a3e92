package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-desk/config"
)

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

func TestS3Store_PutAndDelete(t *testing.T) {
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := NewS3Client(ctx, &config.Config{
		S3Endpoint:  srv.URL,
		S3Region:    "us-east-1",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	})
	require.NoError(t, err)
	store := NewS3Store(client, "papers")

	require.NoError(t, store.Put(ctx, "pdfs/Attention.pdf", []byte("%PDF-1.4"), "application/pdf"))
	require.NoError(t, store.Delete(ctx, "pdfs/Attention.pdf"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/papers/pdfs/Attention.pdf", reqs[0].path)
	assert.Equal(t, "application/pdf", reqs[0].contentType)
	assert.Contains(t, reqs[0].body, "%PDF-1.4")
	assert.Equal(t, http.MethodDelete, reqs[1].method)
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	objects := []Object{
		{Key: "snapshots/a.json.gz", LastModified: base},
		{Key: "snapshots/c.json.gz", LastModified: base.Add(2 * time.Hour)},
		{Key: "snapshots/b.json.gz", LastModified: base.Add(time.Hour)},
	}
	SortNewestFirst(objects)
	assert.Equal(t, "snapshots/c.json.gz", objects[0].Key)
	assert.Equal(t, "snapshots/b.json.gz", objects[1].Key)
	assert.Equal(t, "snapshots/a.json.gz", objects[2].Key)
}

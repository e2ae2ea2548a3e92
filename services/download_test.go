package services

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/services/mocks"
)

var pdfBytes = []byte("%PDF-1.7 fake document")

func tarGz(t *testing.T, files map[string][]byte, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, name := range order {
		data := files[name]
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(data)), Typeflag: tar.TypeReg}))
		_, err := tw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func pdfServer(t *testing.T) *httptest.Server {
	t.Helper()
	bundle := tarGz(t, map[string][]byte{
		"src/main.tex":   []byte(`\documentclass{article}`),
		"src/figure.png": []byte("png"),
		"paper.pdf":      pdfBytes,
	}, "src/main.tex", "src/figure.png", "paper.pdf")
	sourceOnly := tarGz(t, map[string][]byte{"main.tex": []byte("tex")}, "main.tex")

	mux := http.NewServeMux()
	mux.HandleFunc("/pdf/1234", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdfBytes)
	})
	mux.HandleFunc("/src/1234.tar.gz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bundle)
	})
	mux.HandleFunc("/e-print/1234", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-gzip")
		_, _ = w.Write(bundle)
	})
	mux.HandleFunc("/src/empty.tgz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(sourceOnly)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newDownloadService(mirror ObjectStore) *DownloadService {
	return NewDownloadService(&config.Config{HTTPTimeout: 5 * time.Second}, mirror, zap.NewNop())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Attention Is All You Need.pdf", Filename("Attention: Is All You Need?"))
	assert.Equal(t, "a_b-c.pdf", Filename("a_b-c/é"))
	assert.Equal(t, strings.Repeat("x", maxFilenameLength)+".pdf", Filename(strings.Repeat("x", 200)))
}

func TestDownload_Fetch(t *testing.T) {
	srv := pdfServer(t)
	svc := newDownloadService(nil)
	ctx := context.Background()

	cases := []struct {
		name string
		path string
	}{
		{"plain pdf", "/pdf/1234"},
		{"tar.gz by suffix", "/src/1234.tar.gz"},
		{"gzip by content type", "/e-print/1234"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := svc.Fetch(ctx, srv.URL+tc.path, "My Paper")
			require.NoError(t, err)
			assert.Equal(t, "My Paper.pdf", d.Filename)
			assert.Equal(t, pdfBytes, d.Data)
		})
	}

	d, err := svc.Fetch(ctx, srv.URL+"/pdf/1234", "")
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", d.Filename)
}

func TestDownload_Errors(t *testing.T) {
	srv := pdfServer(t)
	svc := newDownloadService(nil)
	ctx := context.Background()

	_, err := svc.Fetch(ctx, " ", "x")
	requireValidation(t, err, "URL is required")
	_, err = svc.Fetch(ctx, "file:///etc/passwd", "x")
	requireValidation(t, err, "URL must be an absolute http(s) URL")

	for _, path := range []string{"/missing", "/src/empty.tgz"} {
		_, err = svc.Fetch(ctx, srv.URL+path, "x")
		var ue *UpstreamError
		require.ErrorAs(t, err, &ue, path)
		assert.Equal(t, "Failed to download PDF", ue.Message)
	}
	_, err = svc.Fetch(ctx, srv.URL+"/src/empty.tgz", "x")
	assert.ErrorIs(t, err, errNoPDFInArchive)
}

func TestDownload_SizeLimit(t *testing.T) {
	srv := pdfServer(t)
	svc := newDownloadService(nil)
	ctx := context.Background()

	svc.maxSize = int64(len(pdfBytes))
	d, err := svc.Fetch(ctx, srv.URL+"/pdf/1234", "x")
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, d.Data)

	svc.maxSize = int64(len(pdfBytes)) - 1
	for _, path := range []string{"/pdf/1234", "/src/1234.tar.gz"} {
		_, err = svc.Fetch(ctx, srv.URL+path, "x")
		var ue *UpstreamError
		require.ErrorAs(t, err, &ue, path)
		assert.Equal(t, "Failed to download PDF", ue.Message)
		assert.ErrorIs(t, err, errTooLarge, path)
	}
}

func TestDownload_Mirror(t *testing.T) {
	srv := pdfServer(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockObjectStore(ctrl)
	svc := newDownloadService(store)
	ctx := context.Background()

	store.EXPECT().Put(gomock.Any(), "pdfs/Mirrored.pdf", pdfBytes, "application/pdf").Return(nil)
	_, err := svc.Fetch(ctx, srv.URL+"/pdf/1234", "Mirrored")
	require.NoError(t, err)

	store.EXPECT().Put(gomock.Any(), "pdfs/Broken.pdf", gomock.Any(), gomock.Any()).Return(errors.New("bucket gone"))
	d, err := svc.Fetch(ctx, srv.URL+"/pdf/1234", "Broken")
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, d.Data)
}

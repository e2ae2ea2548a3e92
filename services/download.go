package services

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/providers"
)

const (
	maxFilenameLength = 80
	maxDownloadSize   = 100 << 20
)

var (
	errNoPDFInArchive = errors.New("archive contains no pdf")
	errTooLarge       = errors.New("download exceeds size limit")
	filenameStrip     = regexp.MustCompile(`[^A-Za-z0-9 _-]`)
)

// Download is a fetched PDF ready to serve.
type Download struct {
	Filename string
	Data     []byte
}

// DownloadService proxies PDF downloads and optionally mirrors them to object storage.
type DownloadService struct {
	http    *http.Client
	mirror  ObjectStore
	maxSize int64
	logger  *zap.Logger
}

// NewDownloadService builds the service; mirror may be nil.
func NewDownloadService(cfg *config.Config, mirror ObjectStore, logger *zap.Logger) *DownloadService {
	return &DownloadService{
		http:    providers.NewHTTPClient(cfg.HTTPTimeout),
		mirror:  mirror,
		maxSize: maxDownloadSize,
		logger:  logger.With(zap.String("service", "download")),
	}
}

// Filename derives an attachment name from a paper title.
func Filename(title string) string {
	name := filenameStrip.ReplaceAllString(title, "")
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	return name + ".pdf"
}

// Fetch downloads link. A .tar.gz or .tgz bundle is unpacked and its first
// PDF member returned.
func (s *DownloadService) Fetch(ctx context.Context, link, title string) (*Download, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, invalid("URL is required")
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalid("URL must be an absolute http(s) URL")
	}
	if strings.TrimSpace(title) == "" {
		title = "paper"
	}
	log := s.logger.With(zap.String("url", link))

	data, err := s.downloadResource(ctx, link, log)
	if err != nil {
		return nil, &UpstreamError{Message: "Failed to download PDF", Err: err}
	}

	d := &Download{Filename: Filename(title), Data: data}
	if s.mirror != nil {
		key := "pdfs/" + d.Filename
		if err := s.mirror.Put(ctx, key, data, "application/pdf"); err != nil {
			log.Warn("PDF mirror upload failed", zap.String("key", key), zap.Error(err))
		} else {
			log.Debug("PDF mirrored", zap.String("key", key))
		}
	}
	return d, nil
}

func (s *DownloadService) downloadResource(ctx context.Context, link string, log *zap.Logger) (data []byte, err error) {
	defer func() { providers.Observe("pdf", err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	if isArchive(link, resp.Header.Get("Content-Type")) {
		log.Debug("Tar.gz bundle detected, extracting")
		return extractPDF(resp.Body, s.maxSize, log)
	}
	return readLimited(resp.Body, s.maxSize)
}

// readLimited reads all of r and fails instead of truncating past limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}

func isArchive(link, contentType string) bool {
	path := strings.ToLower(link)
	if u, err := url.Parse(link); err == nil {
		path = strings.ToLower(u.Path)
	}
	if strings.HasSuffix(path, ".tar.gz") || strings.HasSuffix(path, ".tgz") {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "gzip") || strings.Contains(ct, "x-tar")
}

func extractPDF(r io.Reader, limit int64, log *zap.Logger) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil, errNoPDFInArchive
		}
		if err != nil {
			return nil, err
		}
		if header.Typeflag == tar.TypeReg && strings.HasSuffix(strings.ToLower(header.Name), ".pdf") {
			log.Debug("PDF found in bundle", zap.String("member", header.Name))
			return readLimited(tr, limit)
		}
	}
}

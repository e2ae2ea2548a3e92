package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"research-desk/models"
)

// Provider is implemented by every paper search backend (arXiv today).
type Provider interface {
	// Search runs a free-text query and returns at most maxResults papers, newest first.
	Search(ctx context.Context, query string, maxResults int) ([]models.ArxivPaper, error)

	// Name returns the provider's unique name (e.g. "arxiv").
	Name() string
}

// UpstreamRequests counts outbound calls per upstream and outcome.
var UpstreamRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "research_desk_upstream_requests_total",
		Help: "Outbound requests to external APIs, by upstream and outcome.",
	},
	[]string{"upstream", "outcome"},
)

// Observe records the outcome of one outbound call.
func Observe(upstream string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(upstream, outcome).Inc()
}

// UserAgentTransport sets a fixed User-Agent header on every request.
type UserAgentTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.UserAgent)
	base := t.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewHTTPClient returns the client shared by one provider.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &UserAgentTransport{
			Transport: http.DefaultTransport,
			UserAgent: "research-desk/1.0",
		},
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"research-desk/models"
)

type stubProvider struct {
	papers []models.ArxivPaper
	err    error
	calls  []string
	limits []int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(_ context.Context, query string, maxResults int) ([]models.ArxivPaper, error) {
	p.calls = append(p.calls, query)
	p.limits = append(p.limits, maxResults)
	return p.papers, p.err
}

func papersN(n int) []models.ArxivPaper {
	out := make([]models.ArxivPaper, n)
	for i := range out {
		out[i] = models.ArxivPaper{ID: string(rune('a' + i%26))}
	}
	return out
}

func TestSearch_Modes(t *testing.T) {
	cases := []struct {
		name      string
		req       SearchRequest
		wantQuery string
		wantLimit int
	}{
		{"query", SearchRequest{Query: " graph neural nets "}, "all:graph neural nets", defaultQueryLimit},
		{"keywords", SearchRequest{Keywords: "adhd, memory ,,sleep"}, "all:adhd OR memory OR sleep", defaultKeywordLimit},
		{"keywords win over query", SearchRequest{Query: "x", Keywords: "y"}, "all:y", defaultKeywordLimit},
		{"explicit limit", SearchRequest{Query: "x", Limit: "5"}, "all:x", 5},
		{"limit capped", SearchRequest{Query: "x", Limit: "5000"}, "all:x", maxSearchLimit},
		{"bad limit", SearchRequest{Query: "x", Limit: "many"}, "all:x", defaultQueryLimit},
		{"zero limit", SearchRequest{Keywords: "x", Limit: "0"}, "all:x", defaultKeywordLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &stubProvider{papers: []models.ArxivPaper{}}
			_, err := NewSearchService(p, zap.NewNop()).Search(context.Background(), tc.req)
			require.NoError(t, err)
			assert.Equal(t, []string{tc.wantQuery}, p.calls)
			assert.Equal(t, []int{tc.wantLimit}, p.limits)
		})
	}
}

func TestSearch_EmptyKeywordListSkipsProvider(t *testing.T) {
	p := &stubProvider{}
	papers, err := NewSearchService(p, zap.NewNop()).Search(context.Background(), SearchRequest{Keywords: " , ,"})
	require.NoError(t, err)
	assert.Equal(t, []models.ArxivPaper{}, papers)
	assert.Empty(t, p.calls)
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	p := &stubProvider{papers: papersN(10)}
	papers, err := NewSearchService(p, zap.NewNop()).Search(context.Background(), SearchRequest{Query: "x", Limit: "3"})
	require.NoError(t, err)
	assert.Len(t, papers, 3)
	assert.Equal(t, "a", papers[0].ID)
}

func TestSearch_Errors(t *testing.T) {
	svc := NewSearchService(&stubProvider{}, zap.NewNop())
	_, err := svc.Search(context.Background(), SearchRequest{Query: "  "})
	requireValidation(t, err, "Query or keywords required")

	boom := errors.New("connection reset")
	_, err = NewSearchService(&stubProvider{err: boom}, zap.NewNop()).Search(context.Background(), SearchRequest{Query: "x"})
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Failed to search arXiv", ue.Message)
	assert.ErrorIs(t, err, boom)
}

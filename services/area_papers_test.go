package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"research-desk/models"
	"research-desk/services/mocks"
)

type AreaPaperServiceTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	source *mocks.MockAreaPaperSource
	cache  *mocks.MockCache
	svc    *AreaPaperService
	ctx    context.Context
}

func (s *AreaPaperServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.source = mocks.NewMockAreaPaperSource(s.ctrl)
	s.cache = mocks.NewMockCache(s.ctrl)
	s.svc = NewAreaPaperService(s.source, s.cache, time.Hour, zap.NewNop())
	s.ctx = context.Background()
}

var samplePapers = []models.TopicPaper{
	{ID: "n8n-1", Title: "Working memory in ADHD", Authors: "A. B."},
}

func (s *AreaPaperServiceTestSuite) TestMissFetchesAndCaches() {
	key := CacheKey("ADHD", "2024-01-01", "")
	raw, _ := json.Marshal(samplePapers)

	s.source.EXPECT().Configured().Return(true)
	s.cache.EXPECT().Get(gomock.Any(), key).Return(nil, false)
	s.source.EXPECT().Papers(gomock.Any(), "ADHD", "2024-01-01", "").Return(samplePapers, nil)
	s.cache.EXPECT().Set(gomock.Any(), key, raw, time.Hour)

	papers, err := s.svc.Papers(s.ctx, " ADHD ", "2024-01-01", " ")
	s.Require().NoError(err)
	s.Equal(samplePapers, papers)
}

func (s *AreaPaperServiceTestSuite) TestHitSkipsSource() {
	raw, _ := json.Marshal(samplePapers)
	s.source.EXPECT().Configured().Return(true)
	s.cache.EXPECT().Get(gomock.Any(), CacheKey("ADHD", "", "")).Return(raw, true)

	papers, err := s.svc.Papers(s.ctx, "ADHD", "", "")
	s.Require().NoError(err)
	s.Equal(samplePapers, papers)
}

func (s *AreaPaperServiceTestSuite) TestCorruptEntryIsRefetched() {
	s.source.EXPECT().Configured().Return(true)
	s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte("{not json"), true)
	s.source.EXPECT().Papers(gomock.Any(), "ADHD", "", "").Return([]models.TopicPaper{}, nil)
	s.cache.EXPECT().Set(gomock.Any(), gomock.Any(), []byte("[]"), time.Hour)

	papers, err := s.svc.Papers(s.ctx, "ADHD", "", "")
	s.Require().NoError(err)
	s.Empty(papers)
}

func (s *AreaPaperServiceTestSuite) TestSourceErrorIsNotCached() {
	s.source.EXPECT().Configured().Return(true)
	s.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	s.source.EXPECT().Papers(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := s.svc.Papers(s.ctx, "ADHD", "", "")
	var ue *UpstreamError
	s.Require().ErrorAs(err, &ue)
	s.Equal("Failed to fetch papers", ue.Message)
}

func (s *AreaPaperServiceTestSuite) TestValidationAndConfiguration() {
	_, err := s.svc.Papers(s.ctx, "  ", "", "")
	requireValidation(s.T(), err, "Tag is required")

	s.source.EXPECT().Configured().Return(false)
	_, err = s.svc.Papers(s.ctx, "ADHD", "", "")
	requireNotConfigured(s.T(), err, "n8n webhook not configured")
}

func TestAreaPaperServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AreaPaperServiceTestSuite))
}

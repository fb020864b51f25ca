package service

import (
	"context"
	"strings"
	"testing"

	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func analyzerFixture(t *testing.T, ai repository.AIRepository) (AnalyzerService, repository.AnalysisRepository, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{}

	articleRepo := repository.NewArticleRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	statRepo := repository.NewDailyStatRepository(db)
	svc := NewAnalyzerService(cfg, articleRepo, analysisRepo, statRepo, ai, nil, logger.NewNop())
	return svc, analysisRepo, db
}

func TestAnalyzeTopicEmptyStore(t *testing.T) {
	ai := &fakeAI{response: "General analysis without local context.", keywords: []string{"climate"}}
	svc, analysisRepo, _ := analyzerFixture(t, ai)

	result := svc.AnalyzeTopic(context.Background(), "climate policy")

	// An empty store is not an error: the model answers from general
	// knowledge.
	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, "climate policy", result.Topic)
	assert.Equal(t, 0, result.RelevantArticleCount)
	assert.Equal(t, "General analysis without local context.", result.Analysis)
	assert.Equal(t, []string{"climate"}, result.Keywords)

	// The prompt told the model there was nothing local to draw on.
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], repository.NoContextMarker)

	count, err := analysisRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAnalyzeTopicUsesRelevantArticles(t *testing.T) {
	ai := &fakeAI{response: "Detailed analysis.", keywords: []string{"chips", "exports"}}
	svc, analysisRepo, db := analyzerFixture(t, ai)
	ctx := context.Background()

	seedArticle(t, db, "k1", "Chip exports restricted", 0.8)
	seedArticle(t, db, "k2", "Football final tonight", 0.4)

	result := svc.AnalyzeTopic(ctx, "chip exports")

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RelevantArticleCount)
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "Chip exports restricted")
	assert.NotContains(t, ai.prompts[0], repository.NoContextMarker)

	analyses, err := analysisRepo.FindRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, "chip exports", analyses[0].Query)
	assert.Equal(t, "Detailed analysis.", analyses[0].ResultText)
	assert.Equal(t, 1, analyses[0].SourceArticleCount)
	assert.JSONEq(t, `["chips","exports"]`, string(analyses[0].Keywords))
}

func TestAnalyzeTopicKeepsSentinelAnalysis(t *testing.T) {
	// When generation fails the sentinel text is stored as the analysis and
	// the run still counts as performed.
	ai := &fakeAI{response: "[error: inference unavailable]", keywords: nil}
	svc, analysisRepo, _ := analyzerFixture(t, ai)

	result := svc.AnalyzeTopic(context.Background(), "anything")

	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Analysis, "[error:"))
	assert.Equal(t, []string{}, result.Keywords)

	count, err := analysisRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

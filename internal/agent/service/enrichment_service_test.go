package service

import (
	"context"
	"testing"
	"time"

	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/internal/entity"
	"go-news-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedArticle(t *testing.T, db *gorm.DB, key, title string, importance float64) *entity.Article {
	t.Helper()
	article := &entity.Article{
		DedupeKey:   key,
		Title:       title,
		Body:        "The body text of " + title + " with enough detail to be worth summarizing.",
		Importance:  importance,
		PublishedAt: time.Now().Format(time.RFC3339),
		CollectedAt: time.Now(),
	}
	inserted, err := repository.NewArticleRepository(db).CreateIgnoreConflict(context.Background(), article)
	require.NoError(t, err)
	require.True(t, inserted)
	return article
}

func enrichmentFixture(t *testing.T, ai repository.AIRepository) (EnrichmentService, repository.ArticleRepository, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Enrichment.Limit = 10

	articleRepo := repository.NewArticleRepository(db)
	statRepo := repository.NewDailyStatRepository(db)
	svc := NewEnrichmentService(cfg, articleRepo, statRepo, ai, logger.NewNop())
	return svc, articleRepo, db
}

func TestEnrichProcessesEachArticleOnce(t *testing.T) {
	ai := &fakeAI{summary: "A short summary.", keywords: []string{"alpha", "beta"}}
	svc, articleRepo, db := enrichmentFixture(t, ai)
	ctx := context.Background()

	seedArticle(t, db, "k1", "First story", 0.9)
	seedArticle(t, db, "k2", "Second story", 0.4)

	enriched, err := svc.Enrich(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, enriched)

	remaining, err := articleRepo.FindUnenriched(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	results, err := articleRepo.Search(ctx, "first story", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A short summary.", results[0].Summary)
	assert.Equal(t, "alpha, beta", results[0].Keywords)
	assert.NotNil(t, results[0].EnrichedAt)

	// Re-running finds nothing left to do.
	enriched, err = svc.Enrich(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, enriched)
}

func TestEnrichStoresEmptySummaryOnModelFailure(t *testing.T) {
	ai := &fakeAI{summary: "[error: model timed out]", keywords: nil}
	svc, articleRepo, db := enrichmentFixture(t, ai)
	ctx := context.Background()

	seedArticle(t, db, "k1", "Failing story", 0.5)

	enriched, err := svc.Enrich(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, enriched)

	results, err := articleRepo.Search(ctx, "failing story", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	// The article is marked enriched so it is not retried, but the failed
	// summary is not stored.
	assert.Empty(t, results[0].Summary)
	assert.NotNil(t, results[0].EnrichedAt)
}

func TestEnrichRespectsLimitAndOrder(t *testing.T) {
	ai := &fakeAI{summary: "Summary.", keywords: []string{"k"}}
	svc, articleRepo, db := enrichmentFixture(t, ai)
	ctx := context.Background()

	seedArticle(t, db, "low", "Minor story", 0.2)
	seedArticle(t, db, "high", "Major story", 0.9)

	enriched, err := svc.Enrich(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, enriched)

	remaining, err := articleRepo.FindUnenriched(ctx, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	// The more important article goes first.
	assert.Equal(t, "Minor story", remaining[0].Title)
}

func TestEnrichUpdatesDailyCounter(t *testing.T) {
	ai := &fakeAI{summary: "Summary.", keywords: []string{"k"}}
	svc, _, db := enrichmentFixture(t, ai)
	ctx := context.Background()

	seedArticle(t, db, "k1", "A story", 0.5)

	_, err := svc.Enrich(ctx, 0)
	require.NoError(t, err)

	stat, err := repository.NewDailyStatRepository(db).Get(ctx, time.Now().Format("2006-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 1, stat.ArticlesEnriched)
}

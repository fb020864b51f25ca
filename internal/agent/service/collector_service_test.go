package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-news-agent/internal/agent/classifier"
	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func rssServer(t *testing.T, titles ...string) *httptest.Server {
	t.Helper()

	var items strings.Builder
	for i, title := range titles {
		fmt.Fprintf(&items, `<item>
			<title>%s</title>
			<link>http://example.com/articles/%d</link>
			<description>Short description of %s</description>
			<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
		</item>`, title, i, title)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
			<rss version="2.0"><channel><title>Test Feed</title>%s</channel></rss>`, items.String())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func collectorFixture(t *testing.T, sources ...config.FeedSource) (CollectorService, repository.ArticleRepository, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Collector.Sources = sources
	cfg.Collector.PerSourceLimit = 10
	cfg.Collector.RequestTimeout = 5 * time.Second

	articleRepo := repository.NewArticleRepository(db)
	statRepo := repository.NewDailyStatRepository(db)
	svc := NewCollectorService(cfg, articleRepo, statRepo, classifier.New(classifier.Rules{}), logger.NewNop())
	return svc, articleRepo, db
}

func TestCollectIsIdempotent(t *testing.T) {
	srv := rssServer(t, "AI breakthrough in medicine", "Election results are in")
	svc, articleRepo, _ := collectorFixture(t, config.FeedSource{URL: srv.URL, Name: "Test Feed"})
	ctx := context.Background()

	inserted, err := svc.Collect(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// A second pass over the same feed inserts nothing.
	inserted, err = svc.Collect(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	count, err := articleRepo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCollectCategorizesAndScores(t *testing.T) {
	srv := rssServer(t, "AI breakthrough in medicine")
	svc, articleRepo, _ := collectorFixture(t, config.FeedSource{URL: srv.URL, Name: "Test Feed"})
	ctx := context.Background()

	_, err := svc.Collect(ctx, 0)
	require.NoError(t, err)

	articles, err := articleRepo.FindRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)

	article := articles[0]
	assert.Equal(t, "technology", article.Category)
	assert.InDelta(t, 0.9, article.Importance, 1e-9)
	assert.Equal(t, "Test Feed", article.SourceName)
	assert.NotEmpty(t, article.DedupeKey)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", article.PublishedAt)
	assert.Nil(t, article.EnrichedAt)
}

func TestCollectPerSourceLimit(t *testing.T) {
	srv := rssServer(t, "One", "Two", "Three", "Four", "Five")
	svc, _, _ := collectorFixture(t, config.FeedSource{URL: srv.URL, Name: "Test Feed"})

	inserted, err := svc.Collect(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
}

func TestCollectContinuesPastFailingSource(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(broken.Close)
	good := rssServer(t, "Election results are in")

	svc, _, _ := collectorFixture(t,
		config.FeedSource{URL: broken.URL, Name: "Broken Feed"},
		config.FeedSource{URL: good.URL, Name: "Good Feed"},
	)

	inserted, err := svc.Collect(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestCollectUpdatesDailyCounter(t *testing.T) {
	srv := rssServer(t, "One", "Two")
	svc, _, db := collectorFixture(t, config.FeedSource{URL: srv.URL, Name: "Test Feed"})
	ctx := context.Background()

	_, err := svc.Collect(ctx, 0)
	require.NoError(t, err)

	stat, err := repository.NewDailyStatRepository(db).Get(ctx, time.Now().Format("2006-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 2, stat.ArticlesCollected)
}

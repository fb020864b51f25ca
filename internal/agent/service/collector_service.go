package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go-news-agent/internal/agent/classifier"
	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/internal/entity"
	"go-news-agent/pkg/logger"
	"go-news-agent/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// A feed body shorter than this triggers a full-page fetch when
// fetch_full_content is enabled.
const minBodyLength = 200

// CollectorService pulls the configured feeds, deduplicates their entries
// and persists the new ones with a category and an importance score.
type CollectorService interface {
	// Collect processes every configured source in order and returns the
	// number of newly inserted articles. One failing source never stops
	// the others.
	Collect(ctx context.Context, perSourceLimit int) (int, error)
}

// NewCollectorService creates a new instance of CollectorService.
func NewCollectorService(
	cfg *config.Config,
	articleRepo repository.ArticleRepository,
	statRepo repository.DailyStatRepository,
	cls *classifier.Classifier,
	log *logger.Logger,
) CollectorService {
	return &collectorService{
		cfg:         cfg,
		articleRepo: articleRepo,
		statRepo:    statRepo,
		classifier:  cls,
		logger:      log,
		parser:      gofeed.NewParser(),
		client: &http.Client{
			Timeout: cfg.Collector.RequestTimeout,
		},
	}
}

type collectorService struct {
	cfg         *config.Config
	articleRepo repository.ArticleRepository
	statRepo    repository.DailyStatRepository
	classifier  *classifier.Classifier
	logger      *logger.Logger
	parser      *gofeed.Parser
	client      *http.Client
}

func (s *collectorService) Collect(ctx context.Context, perSourceLimit int) (int, error) {
	if perSourceLimit <= 0 {
		perSourceLimit = s.cfg.Collector.PerSourceLimit
	}

	total := 0
	for _, source := range s.cfg.Collector.Sources {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}

		inserted, err := s.collectSource(ctx, source, perSourceLimit)
		total += inserted
		if err != nil {
			var storageErr *repository.StorageError
			if errors.As(err, &storageErr) {
				// The datastore is gone; finishing the loop cannot help.
				return total, err
			}
			s.logger.Error("Feed source failed, continuing with remaining sources",
				logger.ErrorField(err),
				logger.StringField("source", source.Name))
			continue
		}

		s.logger.Info("Source processed",
			logger.StringField("source", source.Name),
			logger.IntField("inserted", inserted))
	}

	// Counter accuracy is best-effort: the articles are already durable.
	if err := s.statRepo.Increment(ctx, today(), repository.FieldArticlesCollected, total); err != nil {
		s.logger.Warn("Failed to update daily collected counter", logger.ErrorField(err))
	}

	s.logger.Info("Collection finished", logger.IntField("total_inserted", total))
	return total, nil
}

func (s *collectorService) collectSource(ctx context.Context, source config.FeedSource, limit int) (int, error) {
	feed, err := s.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return 0, &FeedFetchError{Source: source.Name, Err: err}
	}

	if len(feed.Items) == 0 {
		s.logger.Warn("Feed has no entries", logger.StringField("source", source.Name))
		return 0, nil
	}

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	inserted := 0
	for _, item := range items {
		article := s.buildArticle(ctx, item, source)

		ok, err := s.articleRepo.CreateIgnoreConflict(ctx, article)
		if err != nil {
			return inserted, err
		}
		if !ok {
			continue // duplicate
		}

		inserted++
		s.logger.Debug("Article stored",
			logger.StringField("title", article.Title),
			logger.StringField("category", article.Category))
	}

	return inserted, nil
}

func (s *collectorService) buildArticle(ctx context.Context, item *gofeed.Item, source config.FeedSource) *entity.Article {
	title := strings.TrimSpace(utils.CleanToValidUTF8(item.Title))
	if title == "" {
		title = "Untitled"
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}
	body = utils.StripHTML(utils.CleanToValidUTF8(body))

	if s.cfg.Collector.FetchFullContent && item.Link != "" && utf8.RuneCountInString(body) < minBodyLength {
		if full, err := s.fetchArticleContent(ctx, item.Link); err != nil {
			s.logger.Warn("Full content fetch failed, keeping feed body",
				logger.ErrorField(err),
				logger.StringField("url", item.Link))
		} else if full != "" {
			body = full
		}
	}

	published := strings.TrimSpace(item.Published)
	if published == "" {
		published = time.Now().Format(time.RFC3339)
	}

	category := s.classifier.Categorize(title)

	hash := md5.Sum([]byte(item.Link + title))

	return &entity.Article{
		DedupeKey:   hex.EncodeToString(hash[:]),
		Title:       title,
		Body:        body,
		SourceName:  source.Name,
		URL:         item.Link,
		Category:    category,
		Importance:  s.classifier.ScoreImportance(title, source.Name, category),
		PublishedAt: published,
		CollectedAt: time.Now(),
	}
}

// fetchArticleContent downloads the article page and extracts its readable
// text.
func (s *collectorService) fetchArticleContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch returned status %d", resp.StatusCode)
	}

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	doc, err := readability.NewDocument(string(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	extracted, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted content: %w", err)
	}

	return utils.CleanToValidUTF8(strings.Join(strings.Fields(extracted.Text()), " ")), nil
}

// today returns the current calendar date used as the daily counter key.
func today() string {
	return time.Now().Format("2006-01-02")
}

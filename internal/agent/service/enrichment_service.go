package service

import (
	"context"
	"strings"
	"time"

	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/pkg/logger"
	"go-news-agent/pkg/utils"
)

// EnrichmentService adds an LLM summary and keywords to stored articles
// that have not been processed yet.
type EnrichmentService interface {
	// Enrich processes up to limit un-enriched articles, most important
	// first, and returns the number successfully enriched. A failure on
	// one article never aborts the batch.
	Enrich(ctx context.Context, limit int) (int, error)
}

// NewEnrichmentService creates a new instance of EnrichmentService.
func NewEnrichmentService(
	cfg *config.Config,
	articleRepo repository.ArticleRepository,
	statRepo repository.DailyStatRepository,
	ai repository.AIRepository,
	log *logger.Logger,
) EnrichmentService {
	return &enrichmentService{
		cfg:         cfg,
		articleRepo: articleRepo,
		statRepo:    statRepo,
		ai:          ai,
		logger:      log,
	}
}

type enrichmentService struct {
	cfg         *config.Config
	articleRepo repository.ArticleRepository
	statRepo    repository.DailyStatRepository
	ai          repository.AIRepository
	logger      *logger.Logger
}

func (s *enrichmentService) Enrich(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = s.cfg.Enrichment.Limit
	}

	articles, err := s.articleRepo.FindUnenriched(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		s.logger.Info("No articles awaiting enrichment")
		return 0, nil
	}

	s.logger.Info("Enrichment started", logger.IntField("articles", len(articles)))

	enriched := 0
	for _, article := range articles {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}

		summary := s.ai.Summarize(ctx, article.Title+". "+article.Body)
		if repository.IsErrorText(summary) {
			// The article is still marked enriched so the batch never
			// revisits it; the summary just stays empty.
			s.logger.Warn("Summarization failed", logger.StringField("title", article.Title))
			summary = ""
		}

		keywords := s.ai.ExtractKeywords(ctx, article.Title+" "+article.Body)

		err := s.articleRepo.MarkEnriched(ctx, article.ID, summary, strings.Join(keywords, ", "), time.Now())
		if err != nil {
			s.logger.Error("Failed to persist enrichment, skipping article",
				logger.ErrorField(err),
				logger.Field("article_id", article.ID))
			continue
		}

		enriched++
		s.logger.Debug("Article enriched",
			logger.Field("article_id", article.ID),
			logger.StringField("title", article.Title))

		// Fixed pause so a batch does not hammer the inference service.
		time.Sleep(s.cfg.Enrichment.Delay)
	}

	if err := s.statRepo.Increment(ctx, today(), repository.FieldArticlesEnriched, enriched); err != nil {
		s.logger.Warn("Failed to update daily enriched counter", logger.ErrorField(err))
	}

	s.logger.Info("Enrichment finished", logger.IntField("enriched", enriched))
	return enriched, nil
}

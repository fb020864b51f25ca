package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/dto"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/internal/entity"
	"go-news-agent/pkg/logger"
	"go-news-agent/pkg/telegram"

	"gorm.io/datatypes"
)

const (
	retrievalLimit    = 5
	analysisMaxTokens = 1000
)

// AnalyzerService produces a retrieval-augmented analysis for an ad-hoc
// topic and persists it.
type AnalyzerService interface {
	// AnalyzeTopic always returns a well-formed result; failures are
	// carried in its Success and Error fields instead of an error return,
	// because callers poll for the result object.
	AnalyzeTopic(ctx context.Context, topic string) *dto.AnalysisResult
}

// NewAnalyzerService creates a new instance of AnalyzerService. notifier
// may be nil when Telegram notifications are disabled.
func NewAnalyzerService(
	cfg *config.Config,
	articleRepo repository.ArticleRepository,
	analysisRepo repository.AnalysisRepository,
	statRepo repository.DailyStatRepository,
	ai repository.AIRepository,
	notifier telegram.Notifier,
	log *logger.Logger,
) AnalyzerService {
	return &analyzerService{
		cfg:          cfg,
		articleRepo:  articleRepo,
		analysisRepo: analysisRepo,
		statRepo:     statRepo,
		ai:           ai,
		notifier:     notifier,
		logger:       log,
	}
}

type analyzerService struct {
	cfg          *config.Config
	articleRepo  repository.ArticleRepository
	analysisRepo repository.AnalysisRepository
	statRepo     repository.DailyStatRepository
	ai           repository.AIRepository
	notifier     telegram.Notifier
	logger       *logger.Logger
}

func (s *analyzerService) AnalyzeTopic(ctx context.Context, topic string) *dto.AnalysisResult {
	start := time.Now()
	s.logger.Info("Topic analysis started", logger.StringField("topic", topic))

	fail := func(err error) *dto.AnalysisResult {
		s.logger.Error("Topic analysis failed", logger.ErrorField(err), logger.StringField("topic", topic))
		return &dto.AnalysisResult{
			Topic:           topic,
			DurationSeconds: roundSeconds(time.Since(start)),
			Success:         false,
			Error:           err.Error(),
			Timestamp:       time.Now(),
		}
	}

	relevant, err := s.articleRepo.Search(ctx, topic, retrievalLimit)
	if err != nil {
		return fail(err)
	}

	contextBlock := repository.BuildContextBlock(relevant)
	prompt := repository.BuildTopicAnalysisPrompt(topic, contextBlock)

	analysis := s.ai.Generate(ctx, prompt, analysisMaxTokens)

	// Keywords come from the generated analysis, not the raw articles.
	keywords := s.ai.ExtractKeywords(ctx, analysis)
	if keywords == nil {
		keywords = []string{}
	}

	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fail(err)
	}

	record := &entity.TopicAnalysis{
		Query:              topic,
		ResultText:         analysis,
		Keywords:           datatypes.JSON(keywordsJSON),
		SourceArticleCount: len(relevant),
	}
	if err := s.analysisRepo.Create(ctx, record); err != nil {
		return fail(err)
	}

	if err := s.statRepo.Increment(ctx, today(), repository.FieldAnalysesPerformed, 1); err != nil {
		s.logger.Warn("Failed to update daily analyses counter", logger.ErrorField(err))
	}

	result := &dto.AnalysisResult{
		Topic:                topic,
		Analysis:             analysis,
		Keywords:             keywords,
		RelevantArticleCount: len(relevant),
		DurationSeconds:      roundSeconds(time.Since(start)),
		Success:              true,
		Timestamp:            time.Now(),
	}

	s.logger.Info("Topic analysis completed",
		logger.StringField("topic", topic),
		logger.IntField("relevant_articles", len(relevant)),
		logger.Field("duration_seconds", result.DurationSeconds))

	if s.notifier != nil {
		if err := s.notifier.SendAnalysisCompleted(topic, keywords, result.DurationSeconds); err != nil {
			s.logger.Warn("Failed to send Telegram notification", logger.ErrorField(err))
		}
	}

	return result
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

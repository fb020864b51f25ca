package service

import (
	"context"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/dto"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/pkg/logger"
	"go-news-agent/pkg/utils"
)

const recentArticleCount = 3

// StatsService computes the live statistics view. Nothing is cached: every
// call reflects the latest write, since all operations share one
// connection.
type StatsService interface {
	Statistics(ctx context.Context) (*dto.StatisticsResponse, error)
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(
	cfg *config.Config,
	articleRepo repository.ArticleRepository,
	analysisRepo repository.AnalysisRepository,
	settingRepo repository.SettingRepository,
	log *logger.Logger,
) StatsService {
	return &statsService{
		cfg:          cfg,
		articleRepo:  articleRepo,
		analysisRepo: analysisRepo,
		settingRepo:  settingRepo,
		logger:       log,
	}
}

type statsService struct {
	cfg          *config.Config
	articleRepo  repository.ArticleRepository
	analysisRepo repository.AnalysisRepository
	settingRepo  repository.SettingRepository
	logger       *logger.Logger
}

func (s *statsService) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	totalArticles, err := s.articleRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	enriched, err := s.articleRepo.CountEnriched(ctx)
	if err != nil {
		return nil, err
	}
	totalAnalyses, err := s.analysisRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.articleRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.articleRepo.FindRecent(ctx, recentArticleCount)
	if err != nil {
		return nil, err
	}

	coverage := "0%"
	if totalArticles > 0 {
		coverage = fmt.Sprintf("%.1f%%", float64(enriched)/float64(totalArticles)*100)
	}

	recentArticles := make([]dto.RecentArticle, 0, len(recent))
	for _, article := range recent {
		title := article.Title
		if utf8.RuneCountInString(title) > 50 {
			title = utils.TruncateRunes(title, 50) + "..."
		}
		published := "N/A"
		if article.PublishedAt != "" {
			published = utils.TruncateRunes(article.PublishedAt, 10)
		}
		recentArticles = append(recentArticles, dto.RecentArticle{
			Title:     title,
			Source:    article.SourceName,
			Published: published,
		})
	}

	model, err := s.settingRepo.Get(ctx, repository.SettingKeyModelName)
	if err != nil {
		s.logger.Warn("Failed to read active model setting", logger.ErrorField(err))
	}

	return &dto.StatisticsResponse{
		Status: "ready",
		Model:  model,
		Statistics: dto.Statistics{
			TotalArticles:    totalArticles,
			EnrichedArticles: enriched,
			TotalAnalyses:    totalAnalyses,
			AnalysisCoverage: coverage,
			Categories:       categories,
		},
		RecentArticles: recentArticles,
		DatabaseSizeMB: s.databaseSizeMB(),
		Timestamp:      time.Now(),
	}, nil
}

func (s *statsService) databaseSizeMB() float64 {
	info, err := os.Stat(s.cfg.Database.Path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1024 * 1024)
}

package repository

import (
	"context"

	"go-news-agent/internal/entity"

	"gorm.io/gorm"
)

// AnalysisRepository defines the interface for persisted topic analyses.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *entity.TopicAnalysis) error
	Count(ctx context.Context) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]entity.TopicAnalysis, error)
}

// NewAnalysisRepository creates a new instance of AnalysisRepository.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

type analysisRepository struct {
	db *gorm.DB
}

func (r *analysisRepository) Create(ctx context.Context, analysis *entity.TopicAnalysis) error {
	return storageErr("insert analysis", r.db.WithContext(ctx).Create(analysis).Error)
}

func (r *analysisRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TopicAnalysis{}).Count(&count).Error
	return count, storageErr("count analyses", err)
}

func (r *analysisRepository) FindRecent(ctx context.Context, limit int) ([]entity.TopicAnalysis, error) {
	var analyses []entity.TopicAnalysis
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&analyses).Error
	if err != nil {
		return nil, storageErr("find recent analyses", err)
	}
	return analyses, nil
}

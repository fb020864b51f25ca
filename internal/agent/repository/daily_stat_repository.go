package repository

import (
	"context"
	"fmt"

	"go-news-agent/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Daily counter fields accepted by Increment.
const (
	FieldArticlesCollected = "articles_collected"
	FieldArticlesEnriched  = "articles_enriched"
	FieldAnalysesPerformed = "analyses_performed"
)

var statFields = map[string]bool{
	FieldArticlesCollected: true,
	FieldArticlesEnriched:  true,
	FieldAnalysesPerformed: true,
}

// DailyStatRepository defines the interface for per-day pipeline counters.
type DailyStatRepository interface {
	// Increment adds delta to the named counter for the given date
	// (YYYY-MM-DD), creating the row when it is absent.
	Increment(ctx context.Context, date, field string, delta int) error
	Get(ctx context.Context, date string) (*entity.DailyStat, error)
}

// NewDailyStatRepository creates a new instance of DailyStatRepository.
func NewDailyStatRepository(db *gorm.DB) DailyStatRepository {
	return &dailyStatRepository{db: db}
}

type dailyStatRepository struct {
	db *gorm.DB
}

func (r *dailyStatRepository) Increment(ctx context.Context, date, field string, delta int) error {
	if !statFields[field] {
		return fmt.Errorf("unknown daily counter field %q", field)
	}

	stat := entity.DailyStat{Date: date}
	switch field {
	case FieldArticlesCollected:
		stat.ArticlesCollected = delta
	case FieldArticlesEnriched:
		stat.ArticlesEnriched = delta
	case FieldAnalysesPerformed:
		stat.AnalysesPerformed = delta
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			field: gorm.Expr(field+" + ?", delta),
		}),
	}).Create(&stat).Error
	return storageErr("increment daily counter", err)
}

func (r *dailyStatRepository) Get(ctx context.Context, date string) (*entity.DailyStat, error) {
	var stat entity.DailyStat
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&stat).Error
	if err == gorm.ErrRecordNotFound {
		return &entity.DailyStat{Date: date}, nil
	}
	if err != nil {
		return nil, storageErr("get daily counter", err)
	}
	return &stat, nil
}

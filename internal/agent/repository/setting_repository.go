package repository

import (
	"context"

	"go-news-agent/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingKeyModelName stores the inference model the agent is running with.
const SettingKeyModelName = "model_name"

// SettingRepository defines the interface for key/value runtime settings.
type SettingRepository interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

type settingRepository struct {
	db *gorm.DB
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entity.Setting{Key: key, Value: value}).Error
	return storageErr("set setting", err)
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var setting entity.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", storageErr("get setting", err)
	}
	return setting.Value, nil
}

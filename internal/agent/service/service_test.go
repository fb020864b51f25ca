package service

import (
	"context"
	"testing"

	"go-news-agent/internal/entity"

	"github.com/stretchr/testify/require"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlitedriver.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Article{},
		&entity.TopicAnalysis{},
		&entity.DailyStat{},
		&entity.Setting{},
	))
	return db
}

// fakeAI is a scripted inference provider for service tests.
type fakeAI struct {
	summary  string
	keywords []string
	response string
	prompts  []string
}

func (f *fakeAI) ModelName() string { return "fake-model" }

func (f *fakeAI) Generate(ctx context.Context, prompt string, maxTokens int) string {
	f.prompts = append(f.prompts, prompt)
	return f.response
}

func (f *fakeAI) Summarize(ctx context.Context, text string) string {
	return f.summary
}

func (f *fakeAI) ExtractKeywords(ctx context.Context, text string) []string {
	return f.keywords
}

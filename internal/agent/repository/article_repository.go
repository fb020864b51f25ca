package repository

import (
	"context"
	"strings"
	"time"

	"go-news-agent/internal/agent/dto"
	"go-news-agent/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxSearchResults is the hard ceiling on search output, independent of the
// caller-supplied limit, to bound response size.
const maxSearchResults = 50

const defaultSearchLimit = 10

// ArticleRepository defines the interface for interacting with stored
// articles.
type ArticleRepository interface {
	// CreateIgnoreConflict inserts the article unless its dedupe key is
	// already present. It reports whether a row was inserted; a duplicate
	// is a no-op success.
	CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error)
	// FindUnenriched returns up to limit articles that have not been
	// enriched yet, most important first, then most recently published.
	FindUnenriched(ctx context.Context, limit int) ([]entity.Article, error)
	// MarkEnriched writes summary, keywords and the enrichment timestamp
	// for one article. Returns ErrNotFound if the id does not exist.
	MarkEnriched(ctx context.Context, id uint, summary, keywords string, enrichedAt time.Time) error
	// Search does a case-insensitive substring match over title, body,
	// category and keywords, ordered by importance then published date.
	Search(ctx context.Context, query string, limit int) ([]entity.Article, error)
	CountAll(ctx context.Context) (int64, error)
	CountEnriched(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) ([]dto.CategoryCount, error)
	FindRecent(ctx context.Context, limit int) ([]entity.Article, error)
}

// NewArticleRepository creates a new instance of ArticleRepository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

type articleRepository struct {
	db *gorm.DB
}

func (r *articleRepository) CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedupe_key"}},
		DoNothing: true,
	}).Create(article)
	if tx.Error != nil {
		return false, storageErr("insert article", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *articleRepository) FindUnenriched(ctx context.Context, limit int) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("enriched_at IS NULL").
		Order("importance DESC, published_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, storageErr("find unenriched", err)
	}
	return articles, nil
}

func (r *articleRepository) MarkEnriched(ctx context.Context, id uint, summary, keywords string, enrichedAt time.Time) error {
	tx := r.db.WithContext(ctx).Model(&entity.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"summary":     summary,
			"keywords":    keywords,
			"enriched_at": enrichedAt,
		})
	if tx.Error != nil {
		return storageErr("mark enriched", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepository) Search(ctx context.Context, query string, limit int) ([]entity.Article, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchResults {
		limit = maxSearchResults
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(body) LIKE ? OR LOWER(category) LIKE ? OR LOWER(keywords) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("importance DESC, published_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, storageErr("search articles", err)
	}
	return articles, nil
}

func (r *articleRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Article{}).Count(&count).Error
	return count, storageErr("count articles", err)
}

func (r *articleRepository) CountEnriched(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Article{}).
		Where("enriched_at IS NOT NULL").
		Count(&count).Error
	return count, storageErr("count enriched", err)
}

func (r *articleRepository) CountByCategory(ctx context.Context) ([]dto.CategoryCount, error) {
	var counts []dto.CategoryCount
	err := r.db.WithContext(ctx).Model(&entity.Article{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, storageErr("count by category", err)
	}
	return counts, nil
}

func (r *articleRepository) FindRecent(ctx context.Context, limit int) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, storageErr("find recent", err)
	}
	return articles, nil
}

package entity

import (
	"time"
)

// Article represents one syndicated news item pulled from a feed.
//
// DedupeKey is the md5 of the item's URL concatenated with its title; its
// unique index is the only guard against storing the same item twice.
// Summary, Keywords and EnrichedAt stay empty until the enrichment pipeline
// processes the article; a non-nil EnrichedAt marks it as done.
type Article struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	DedupeKey   string     `gorm:"column:dedupe_key;uniqueIndex;not null" json:"dedupe_key"`
	Title       string     `gorm:"index;not null" json:"title"`
	Body        string     `json:"body"`
	Summary     string     `json:"summary,omitempty"`
	SourceName  string     `json:"source_name"`
	URL         string     `json:"url"`
	Category    string     `gorm:"index" json:"category"`
	Keywords    string     `json:"keywords,omitempty"`
	Importance  float64    `gorm:"default:0.5" json:"importance"`
	PublishedAt string     `gorm:"index" json:"published_at"` // feed-supplied, stored verbatim
	CollectedAt time.Time  `json:"collected_at"`
	EnrichedAt  *time.Time `json:"enriched_at,omitempty"`
}

// TableName specifies the table name for the Article model.
func (Article) TableName() string {
	return "articles"
}

package dto

import "time"

// CategoryCount is one row of the per-category article breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// RecentArticle is a trimmed article view for the statistics response.
type RecentArticle struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	Published string `json:"published"`
}

// Statistics carries the live aggregate counters.
type Statistics struct {
	TotalArticles    int64           `json:"total_articles"`
	EnrichedArticles int64           `json:"enriched_articles"`
	TotalAnalyses    int64           `json:"total_analyses"`
	AnalysisCoverage string          `json:"analysis_coverage"`
	Categories       []CategoryCount `json:"categories"`
}

// StatisticsResponse is the full statistics payload.
type StatisticsResponse struct {
	Status         string          `json:"status"`
	Model          string          `json:"model"`
	Statistics     Statistics      `json:"statistics"`
	RecentArticles []RecentArticle `json:"recent_articles"`
	DatabaseSizeMB float64         `json:"database_size_mb"`
	Timestamp      time.Time       `json:"timestamp"`
}

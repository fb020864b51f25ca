package dto

import "go-news-agent/internal/entity"

// CollectRequest triggers an ingestion run.
type CollectRequest struct {
	Limit int `json:"limit"`
}

// EnrichRequest triggers an enrichment run.
type EnrichRequest struct {
	Limit int `json:"limit"`
}

// AnalyzeRequest triggers a topic analysis.
type AnalyzeRequest struct {
	Topic string `json:"topic"`
}

// TaskAccepted is returned when a pipeline run has been handed to a
// background worker.
type TaskAccepted struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// PipelineRunResult is the payload of a completed collect or enrich task.
type PipelineRunResult struct {
	Processed int `json:"processed"`
}

// SearchResponse is the payload of a search query.
type SearchResponse struct {
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Results []entity.Article `json:"results"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

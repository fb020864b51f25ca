package dto

import "time"

// AnalysisResult is what a topic analysis invocation always returns.
// Failures are reported through Success and Error rather than a propagated
// error, so callers polling for results always get a well-formed object.
type AnalysisResult struct {
	Topic                string    `json:"topic"`
	Analysis             string    `json:"analysis,omitempty"`
	Keywords             []string  `json:"keywords,omitempty"`
	RelevantArticleCount int       `json:"relevant_article_count"`
	DurationSeconds      float64   `json:"duration_seconds"`
	Success              bool      `json:"success"`
	Error                string    `json:"error,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}

package entity

import (
	"time"

	"gorm.io/datatypes"
)

// TopicAnalysis is a persisted retrieval-augmented analysis for one topic
// query. Records are immutable once written.
type TopicAnalysis struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Query              string         `gorm:"not null" json:"query"`
	ResultText         string         `json:"result_text"`
	Keywords           datatypes.JSON `json:"keywords"`
	SourceArticleCount int            `json:"source_article_count"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the TopicAnalysis model.
func (TopicAnalysis) TableName() string {
	return "topic_analyses"
}

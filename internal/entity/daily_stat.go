package entity

// DailyStat keeps per-day pipeline counters, one row per calendar date
// (YYYY-MM-DD). Counters only ever increase.
type DailyStat struct {
	Date              string `gorm:"primaryKey" json:"date"`
	ArticlesCollected int    `gorm:"default:0" json:"articles_collected"`
	ArticlesEnriched  int    `gorm:"default:0" json:"articles_enriched"`
	AnalysesPerformed int    `gorm:"default:0" json:"analyses_performed"`
}

// TableName specifies the table name for the DailyStat model.
func (DailyStat) TableName() string {
	return "daily_stats"
}

package model

import "time"

// DailyStats stores per-day activity counters
// One row = one date, counters only ever grow
type DailyStats struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Date                time.Time `gorm:"not null;uniqueIndex" json:"date"`
	TotalTranslations   int64     `gorm:"not null;default:0" json:"totalTranslations"`
	TotalValidations    int64     `gorm:"not null;default:0" json:"totalValidations"`
	TotalRagSuggestions int64     `gorm:"not null;default:0" json:"totalRagSuggestions"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (DailyStats) TableName() string {
	return "daily_stats"
}

// CounterColumn returns the daily_stats column incremented by an activity type,
// or "" when the activity type has no counter
func CounterColumn(activityType string) string {
	switch activityType {
	case ActivityTranslation:
		return "total_translations"
	case ActivityValidation:
		return "total_validations"
	case ActivityRAGSuggestion:
		return "total_rag_suggestions"
	default:
		return ""
	}
}

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Increment bumps the in-memory counter matching activityType
func (d *DailyStats) Increment(activityType string) {
	switch activityType {
	case ActivityTranslation:
		d.TotalTranslations++
	case ActivityValidation:
		d.TotalValidations++
	case ActivityRAGSuggestion:
		d.TotalRagSuggestions++
	}
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserActivity struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ActivityType string         `gorm:"not null;size:50;index" json:"activityType"`
	Query        string         `gorm:"type:text" json:"query"`
	Result       datatypes.JSON `json:"result,omitempty"`
	SessionID    string         `gorm:"size:100;index" json:"sessionId,omitempty"`
	Success      bool           `gorm:"not null" json:"success"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}

// ActivityType constants
const (
	ActivityTranslation   = "translation"
	ActivityValidation    = "validation"
	ActivityRAGSuggestion = "rag_suggestion"
)

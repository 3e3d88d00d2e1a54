package model

import (
	"time"

	"gorm.io/datatypes"
)

type RAGSuggestionLog struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Query          string         `gorm:"not null;size:255;index" json:"query"`
	Context        string         `gorm:"type:text" json:"context,omitempty"`
	Language       string         `gorm:"size:10" json:"language"`
	Suggestions    datatypes.JSON `json:"suggestions"`
	RagVersion     string         `gorm:"size:20" json:"ragVersion"`
	ResponseTimeMs int64          `json:"responseTimeMs"`
	Cached         bool           `json:"cached"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
}

func (RAGSuggestionLog) TableName() string {
	return "rag_suggestion_logs"
}

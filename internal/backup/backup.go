// Package backup snapshots the dictionary and recent activity as JSON.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/varnamer/api/internal/model"
	"gorm.io/gorm"
)

const (
	Version = "1.0"

	// RecentWindow bounds the log tables included in a snapshot
	RecentWindow = 30 * 24 * time.Hour
	// MaxRecentRows caps each log table in a snapshot
	MaxRecentRows = 10000
)

type Counts struct {
	VariableMappings int `json:"variableMappings"`
	SearchHistory    int `json:"searchHistory"`
	RagSuggestions   int `json:"ragSuggestions"`
	UserActivities   int `json:"userActivities"`
	DailyStats       int `json:"dailyStats"`
}

type Metadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Counts    Counts    `json:"counts"`
}

type Data struct {
	VariableMappings  []model.VariableMapping  `json:"variableMappings"`
	SearchHistory     []model.SearchHistory    `json:"searchHistory"`
	RAGSuggestionLogs []model.RAGSuggestionLog `json:"ragSuggestionLogs"`
	UserActivities    []model.UserActivity     `json:"userActivities"`
	DailyStats        []model.DailyStats       `json:"dailyStats"`
}

type Snapshot struct {
	Metadata Metadata `json:"metadata"`
	Data     Data     `json:"data"`
}

// Collect reads every mapping and daily stats row plus the last 30 days of
// search history, RAG logs and activities (newest first, capped per table)
func Collect(ctx context.Context, db *gorm.DB, now time.Time) (*Snapshot, error) {
	db = db.WithContext(ctx)
	since := now.Add(-RecentWindow)
	var data Data

	if err := db.Order("created_at DESC").Find(&data.VariableMappings).Error; err != nil {
		return nil, fmt.Errorf("collect variable mappings: %w", err)
	}
	if err := recent(db, since).Find(&data.SearchHistory).Error; err != nil {
		return nil, fmt.Errorf("collect search history: %w", err)
	}
	if err := recent(db, since).Find(&data.RAGSuggestionLogs).Error; err != nil {
		return nil, fmt.Errorf("collect rag suggestion logs: %w", err)
	}
	if err := recent(db, since).Find(&data.UserActivities).Error; err != nil {
		return nil, fmt.Errorf("collect user activities: %w", err)
	}
	if err := db.Order("date DESC").Find(&data.DailyStats).Error; err != nil {
		return nil, fmt.Errorf("collect daily stats: %w", err)
	}

	return &Snapshot{
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: now.UTC(),
			Version:   Version,
			Counts: Counts{
				VariableMappings: len(data.VariableMappings),
				SearchHistory:    len(data.SearchHistory),
				RagSuggestions:   len(data.RAGSuggestionLogs),
				UserActivities:   len(data.UserActivities),
				DailyStats:       len(data.DailyStats),
			},
		},
		Data: data,
	}, nil
}

func recent(db *gorm.DB, since time.Time) *gorm.DB {
	return db.Where("created_at >= ?", since).Order("created_at DESC").Limit(MaxRecentRows)
}

// Encode returns the snapshot as indented JSON
func (s *Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// SizeInMB formats a byte count the way the backup endpoint reports it
func SizeInMB(size int) string {
	return fmt.Sprintf("%.2f", float64(size)/1024/1024)
}

// FileName is the file a snapshot is written to inside a backup directory
func (s *Snapshot) FileName() string {
	return fmt.Sprintf("backup-%s.json", s.Metadata.Timestamp.Format("20060102-150405"))
}

// WriteFile encodes the snapshot into dir and returns the file path and the
// number of bytes written
func (s *Snapshot) WriteFile(dir string) (string, int, error) {
	encoded, err := s.Encode()
	if err != nil {
		return "", 0, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create backup dir: %w", err)
	}

	path := filepath.Join(dir, s.FileName())
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", 0, fmt.Errorf("write snapshot: %w", err)
	}
	return path, len(encoded), nil
}

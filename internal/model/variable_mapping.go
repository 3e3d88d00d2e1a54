package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tags is a string list stored as a JSON column so it works on every dialect
type Tags []string

// Value implements driver.Valuer for JSON serialization
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal([]string{})
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON deserialization
func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = Tags{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal Tags: unsupported type")
	}

	return json.Unmarshal(bytes, t)
}

// Mapping sources
const (
	SourceManual = "manual"
	SourceRAG    = "rag"
	SourceImport = "import"
)

type VariableMapping struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Korean      string    `gorm:"not null;size:255;uniqueIndex:idx_variable_mappings_korean_english,priority:1" json:"korean"`
	English     string    `gorm:"not null;size:255;uniqueIndex:idx_variable_mappings_korean_english,priority:2;index" json:"english"`
	Type        string    `gorm:"not null;size:50" json:"type"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	Usage       string    `gorm:"type:text" json:"usage"`
	Tags        Tags      `gorm:"type:text" json:"tags"`
	Source      string    `gorm:"size:20;default:'manual'" json:"source"`
	Confidence  *float64  `json:"confidence,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (VariableMapping) TableName() string {
	return "variable_mappings"
}

// BeforeCreate assigns a UUID when the caller did not set one
func (m *VariableMapping) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

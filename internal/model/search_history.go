package model

import "time"

type SearchHistory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Query       string    `gorm:"not null;size:255;index" json:"query"`
	ResultCount int       `json:"resultCount"`
	CreatedAt   time.Time `gorm:"index:idx_search_histories_created,sort:desc" json:"createdAt"`
}

func (SearchHistory) TableName() string {
	return "search_histories"
}

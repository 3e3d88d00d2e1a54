package store

import (
	"context"
	"fmt"
	"time"

	"github.com/varnamer/api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityStore keeps the append-only activity logs and the daily counters
type ActivityStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db, now: time.Now}
}

// Record inserts the activity and increments today's counter for its type
// in one transaction
func (s *ActivityStore) Record(ctx context.Context, a *model.UserActivity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("create activity: %w", err)
		}
		if err := upsertDailyStats(tx, model.StartOfDay(a.CreatedAt), a.ActivityType); err != nil {
			return fmt.Errorf("update daily stats: %w", err)
		}
		return nil
	})
}

func upsertDailyStats(tx *gorm.DB, day time.Time, activityType string) error {
	row := model.DailyStats{Date: day}
	row.Increment(activityType)

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}
	if col := model.CounterColumn(activityType); col != "" {
		onConflict.DoNothing = false
		onConflict.DoUpdates = clause.Assignments(map[string]any{
			col:          gorm.Expr("daily_stats."+col+" + ?", 1),
			"updated_at": time.Now(),
		})
	}

	return tx.Clauses(onConflict).Create(&row).Error
}

func (s *ActivityStore) RecordSearch(ctx context.Context, query string, resultCount int) error {
	return s.db.WithContext(ctx).Create(&model.SearchHistory{
		Query:       query,
		ResultCount: resultCount,
	}).Error
}

func (s *ActivityStore) RecordRAGSuggestion(ctx context.Context, entry *model.RAGSuggestionLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// DailyStatsSince returns the counter rows on or after since, oldest first
func (s *ActivityStore) DailyStatsSince(ctx context.Context, since time.Time) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	err := s.db.WithContext(ctx).
		Where("date >= ?", since).
		Order("date ASC").
		Find(&stats).Error
	return stats, err
}

// Today returns today's counters, zeroed when nothing was recorded yet
func (s *ActivityStore) Today(ctx context.Context) (model.DailyStats, error) {
	today := model.StartOfDay(s.now())
	stats := model.DailyStats{Date: today}

	err := s.db.WithContext(ctx).Where("date = ?", today).Limit(1).Find(&stats).Error
	return stats, err
}

// TotalsByType counts all activities per activity type
func (s *ActivityStore) TotalsByType(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ActivityType string
		Count        int64
	}
	err := s.db.WithContext(ctx).Model(&model.UserActivity{}).
		Select("activity_type, count(*) as count").
		Group("activity_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, r := range rows {
		totals[r.ActivityType] = r.Count
	}
	return totals, nil
}

// Recent returns the newest activities first
func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// QueryCount is a search query with the number of times it was looked up
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// TopQueries returns the most frequently searched translation queries
func (s *ActivityStore) TopQueries(ctx context.Context, limit int) ([]QueryCount, error) {
	var top []QueryCount
	err := s.db.WithContext(ctx).Model(&model.SearchHistory{}).
		Select("query, count(*) as count").
		Group("query").
		Order("count DESC").
		Order("query ASC").
		Limit(limit).
		Scan(&top).Error
	return top, err
}

func (s *ActivityStore) CountActivities(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.UserActivity{}).Count(&count).Error
	return count, err
}

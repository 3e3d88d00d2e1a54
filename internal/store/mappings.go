package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/varnamer/api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicate is returned when a (korean, english) pair already exists
var ErrDuplicate = errors.New("variable mapping already exists")

// MappingStore is the dictionary of Korean to English variable mappings
type MappingStore struct {
	db *gorm.DB
}

func NewMappingStore(db *gorm.DB) *MappingStore {
	return &MappingStore{db: db}
}

// ListFilter narrows List results; empty fields are ignored
type ListFilter struct {
	Query    string
	Category string
	Source   string
}

// Search returns exact matches on korean followed by partial (contains) matches.
// Matching is a literal, case-sensitive substring test on every dialect: LIKE
// only narrows the candidates and the final check runs in Go.
// Exact matches are ordered by creation time, partial matches by korean.
func (s *MappingStore) Search(ctx context.Context, query string) ([]model.VariableMapping, error) {
	var candidates []model.VariableMapping
	if err := s.db.WithContext(ctx).
		Where("korean LIKE ? ESCAPE '!'", containsPattern(query)).
		Order("korean ASC").
		Order("created_at ASC").
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var exact, partial []model.VariableMapping
	for _, m := range candidates {
		switch {
		case m.Korean == query:
			exact = append(exact, m)
		case strings.Contains(m.Korean, query):
			partial = append(partial, m)
		}
	}
	sort.SliceStable(exact, func(i, j int) bool {
		return exact[i].CreatedAt.Before(exact[j].CreatedAt)
	})
	sort.SliceStable(partial, func(i, j int) bool {
		if partial[i].Korean != partial[j].Korean {
			return partial[i].Korean < partial[j].Korean
		}
		return partial[i].CreatedAt.Before(partial[j].CreatedAt)
	})

	return append(exact, partial...), nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching s literally; pair it with
// ESCAPE '!'
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// FindConflict returns the mapping that blocks adding (korean, english): the
// identical pair when it exists, otherwise the oldest mapping sharing the
// korean term or the english name. Returns nil when there is none.
func (s *MappingStore) FindConflict(ctx context.Context, korean, english string) (*model.VariableMapping, error) {
	var existing model.VariableMapping
	err := s.db.WithContext(ctx).
		Where("korean = ? AND english = ?", korean, english).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Where("korean = ? OR english = ?", korean, english).
		Order("created_at ASC").
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// Create inserts a mapping, translating unique violations to ErrDuplicate
func (s *MappingStore) Create(ctx context.Context, m *model.VariableMapping) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if IsUniqueConstraintErr(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// CreateIfAbsent inserts a mapping unless the (korean, english) pair exists.
// Returns true when a row was inserted.
func (s *MappingStore) CreateIfAbsent(ctx context.Context, m *model.VariableMapping) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *MappingStore) Get(ctx context.Context, id string) (*model.VariableMapping, error) {
	var m model.VariableMapping
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns a page of mappings and the total number matching the filter
func (s *MappingStore) List(ctx context.Context, f ListFilter, limit, offset int) ([]model.VariableMapping, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.VariableMapping{})
	if f.Query != "" {
		like := containsPattern(f.Query)
		q = q.Where("korean LIKE ? ESCAPE '!' OR english LIKE ? ESCAPE '!'", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var mappings []model.VariableMapping
	if err := q.Order("korean ASC").Limit(limit).Offset(offset).Find(&mappings).Error; err != nil {
		return nil, 0, err
	}
	return mappings, total, nil
}

// All returns every mapping matching the filter, grouped by category
func (s *MappingStore) All(ctx context.Context, f ListFilter) ([]model.VariableMapping, error) {
	q := s.db.WithContext(ctx)
	if f.Query != "" {
		like := containsPattern(f.Query)
		q = q.Where("korean LIKE ? ESCAPE '!' OR english LIKE ? ESCAPE '!'", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}

	var mappings []model.VariableMapping
	err := q.Order("category ASC").Order("korean ASC").Find(&mappings).Error
	return mappings, err
}

// Delete removes a mapping by id, returning gorm.ErrRecordNotFound when absent
func (s *MappingStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.VariableMapping{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll clears the dictionary and returns the number of removed rows
func (s *MappingStore) DeleteAll(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.VariableMapping{})
	return result.RowsAffected, result.Error
}

func (s *MappingStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.VariableMapping{}).Count(&count).Error
	return count, err
}

// CategoryCount is a category with its number of mappings
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

func (s *MappingStore) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.db.WithContext(ctx).Model(&model.VariableMapping{}).
		Select("category, count(*) as count").
		Group("category").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

// IsUniqueConstraintErr reports whether err is a unique/duplicate key violation
func IsUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "duplicate")
}

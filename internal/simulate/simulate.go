// Package simulate fills the activity tables with synthetic traffic so the
// dashboard has something to show on a fresh database.
package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
	"gorm.io/datatypes"
)

var activityTypes = []string{
	model.ActivityTranslation,
	model.ActivityTranslation,
	model.ActivityValidation,
	model.ActivityRAGSuggestion,
}

// DefaultQueries are used when the dictionary is empty
var DefaultQueries = []string{"주문", "잔고", "계좌번호", "매수가격", "수수료", "사용자이름", "거래내역", "예수금"}

type Options struct {
	Days        int
	PerDay      int
	FailureRate float64
	Queries     []string
	SessionPool int
	Now         time.Time
}

// Generate builds Days*PerDay activities spread over the last Days days.
// The same faker seed yields the same activities.
func Generate(faker *gofakeit.Faker, opts Options) []model.UserActivity {
	if len(opts.Queries) == 0 {
		opts.Queries = DefaultQueries
	}
	if opts.SessionPool < 1 {
		opts.SessionPool = 5
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	sessions := make([]string, opts.SessionPool)
	for i := range sessions {
		sessions[i] = faker.UUID()
	}

	activities := make([]model.UserActivity, 0, opts.Days*opts.PerDay)
	for day := opts.Days - 1; day >= 0; day-- {
		start := model.StartOfDay(opts.Now.AddDate(0, 0, -day))
		end := start.Add(24*time.Hour - time.Second)
		if end.After(opts.Now) {
			end = opts.Now
		}

		for i := 0; i < opts.PerDay; i++ {
			activityType := faker.RandomString(activityTypes)
			query := faker.RandomString(opts.Queries)
			success := faker.Float64Range(0, 1) >= opts.FailureRate

			activities = append(activities, model.UserActivity{
				ActivityType: activityType,
				Query:        syntheticQuery(activityType, query),
				Result:       syntheticResult(faker, activityType, success),
				SessionID:    faker.RandomString(sessions),
				Success:      success,
				Metadata:     datatypes.JSON(`{"synthetic":true}`),
				CreatedAt:    faker.DateRange(start, end).In(opts.Now.Location()),
			})
		}
	}
	return activities
}

func syntheticQuery(activityType, query string) string {
	if activityType == model.ActivityValidation {
		return fmt.Sprintf("const %s = 1;", query)
	}
	return query
}

func syntheticResult(faker *gofakeit.Faker, activityType string, success bool) datatypes.JSON {
	switch activityType {
	case model.ActivityTranslation:
		total := 0
		if success {
			total = faker.Number(1, 10)
		}
		return datatypes.JSON(fmt.Sprintf(`{"total":%d}`, total))
	case model.ActivityValidation:
		errs := 0
		if !success {
			errs = faker.Number(1, 3)
		}
		return datatypes.JSON(fmt.Sprintf(`{"total":%d,"errors":%d}`, errs+faker.Number(0, 2), errs))
	default:
		source := "webhook"
		if !success {
			source = "fallback"
		}
		return datatypes.JSON(fmt.Sprintf(`{"source":%q,"suggestions":%d}`, source, faker.Number(1, 5)))
	}
}

// Record writes the activities through the store so the daily counters move
// with them. progress is called after every row.
func Record(ctx context.Context, activities *store.ActivityStore, rows []model.UserActivity, progress func()) (int, error) {
	for i := range rows {
		if err := activities.Record(ctx, &rows[i]); err != nil {
			return i, err
		}
		if progress != nil {
			progress()
		}
	}
	return len(rows), nil
}

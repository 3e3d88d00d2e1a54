package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
	"gorm.io/datatypes"
)

// SessionHeader carries the browser session id used to group activities
const SessionHeader = "X-Session-ID"

// ResponseCache is the subset of the Redis cache the handlers use
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// recordActivity logs a user activity; failures are logged and never fail
// the request
func recordActivity(c *gin.Context, activities *store.ActivityStore, activityType, query string, result any, success bool) {
	if activities == nil {
		return
	}

	activity := &model.UserActivity{
		ActivityType: activityType,
		Query:        query,
		Result:       toJSON(result),
		SessionID:    c.GetHeader(SessionHeader),
		Success:      success,
	}
	if err := activities.Record(c.Request.Context(), activity); err != nil {
		log.Printf("Warning: failed to record %s activity: %v", activityType, err)
	}
}

func toJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

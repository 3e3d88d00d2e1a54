package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
	"gorm.io/datatypes"
)

const (
	defaultStatsDays = 7
	recentLimit      = 10
	topQueriesLimit  = 10
)

type ActivityHandler struct {
	activities *store.ActivityStore
	now        func() time.Time
}

func NewActivityHandler(activities *store.ActivityStore) *ActivityHandler {
	return &ActivityHandler{activities: activities, now: time.Now}
}

type TrackActivityRequest struct {
	ActivityType string          `json:"activityType" binding:"required"`
	Query        string          `json:"query"`
	Result       json.RawMessage `json:"result"`
	SessionID    string          `json:"sessionId"`
	Success      *bool           `json:"success"`
	Metadata     json.RawMessage `json:"metadata"`
}

// Track handles POST /api/activity
func (h *ActivityHandler) Track(c *gin.Context) {
	var req TrackActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activityType is required"})
		return
	}

	activity := &model.UserActivity{
		ActivityType: req.ActivityType,
		Query:        req.Query,
		Result:       rawJSON(req.Result),
		SessionID:    req.SessionID,
		Success:      req.Success == nil || *req.Success,
		Metadata:     rawJSON(req.Metadata),
	}
	if activity.SessionID == "" {
		activity.SessionID = c.GetHeader(SessionHeader)
	}

	if err := h.activities.Record(c.Request.Context(), activity); err != nil {
		log.Printf("Activity tracking error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "activity": activity})
}

type RecentActivity struct {
	ID           int64     `json:"id"`
	ActivityType string    `json:"activityType"`
	Query        string    `json:"query"`
	CreatedAt    time.Time `json:"createdAt"`
	Success      bool      `json:"success"`
}

type StatsResponse struct {
	DailyStats       []model.DailyStats `json:"dailyStats"`
	TotalStats       map[string]int64   `json:"totalStats"`
	RecentActivities []RecentActivity   `json:"recentActivities"`
	TodayStats       model.DailyStats   `json:"todayStats"`
	TopQueries       []store.QueryCount `json:"topQueries"`
}

// Stats handles GET /api/activity?days=7
func (h *ActivityHandler) Stats(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultStatsDays)))
	if err != nil || days < 0 {
		days = defaultStatsDays
	}

	ctx := c.Request.Context()
	since := model.StartOfDay(h.now().AddDate(0, 0, -days))

	dailyStats, err := h.activities.DailyStatsSince(ctx, since)
	if err != nil {
		statsError(c, err)
		return
	}
	totals, err := h.activities.TotalsByType(ctx)
	if err != nil {
		statsError(c, err)
		return
	}
	recent, err := h.activities.Recent(ctx, recentLimit)
	if err != nil {
		statsError(c, err)
		return
	}
	today, err := h.activities.Today(ctx)
	if err != nil {
		statsError(c, err)
		return
	}
	topQueries, err := h.activities.TopQueries(ctx, topQueriesLimit)
	if err != nil {
		statsError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		DailyStats:       dailyStats,
		TotalStats:       totals,
		RecentActivities: toRecent(recent),
		TodayStats:       today,
		TopQueries:       topQueries,
	})
}

func statsError(c *gin.Context, err error) {
	log.Printf("Stats fetch error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
}

func toRecent(activities []model.UserActivity) []RecentActivity {
	recent := make([]RecentActivity, 0, len(activities))
	for _, a := range activities {
		recent = append(recent, RecentActivity{
			ID:           a.ID,
			ActivityType: a.ActivityType,
			Query:        a.Query,
			CreatedAt:    a.CreatedAt,
			Success:      a.Success,
		})
	}
	return recent
}

func rawJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}

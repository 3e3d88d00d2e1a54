package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activityRouter(env *testEnv) *gin.Engine {
	h := NewActivityHandler(env.activities)
	r := gin.New()
	r.POST("/api/activity", h.Track)
	r.GET("/api/activity", h.Stats)
	return r
}

func TestActivity_TrackRequiresType(t *testing.T) {
	w := performRequest(activityRouter(newTestEnv(t)), http.MethodPost, "/api/activity", map[string]any{"query": "주문"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivity_TrackAndStats(t *testing.T) {
	env := newTestEnv(t)
	r := activityRouter(env)

	for _, body := range []map[string]any{
		{"activityType": "translation", "query": "주문", "result": map[string]any{"total": 3}},
		{"activityType": "translation", "query": "잔고", "success": false},
		{"activityType": "validation", "sessionId": "abc", "metadata": map[string]any{"lines": 12}},
		{"activityType": "rag_suggestion", "query": "증거금"},
	} {
		w := performRequest(r, http.MethodPost, "/api/activity", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	require.NoError(t, env.activities.RecordSearch(context.Background(), "주문", 3))
	require.NoError(t, env.activities.RecordSearch(context.Background(), "주문", 3))
	require.NoError(t, env.activities.RecordSearch(context.Background(), "잔고", 0))

	w := performRequest(r, http.MethodGet, "/api/activity?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	decodeBody(t, w, &stats)

	require.Len(t, stats.DailyStats, 1)
	assert.Equal(t, int64(2), stats.TodayStats.TotalTranslations)
	assert.Equal(t, int64(1), stats.TodayStats.TotalValidations)
	assert.Equal(t, int64(1), stats.TodayStats.TotalRagSuggestions)
	assert.Equal(t, map[string]int64{"translation": 2, "validation": 1, "rag_suggestion": 1}, stats.TotalStats)
	require.Len(t, stats.RecentActivities, 4)
	assert.Equal(t, "rag_suggestion", stats.RecentActivities[0].ActivityType)
	require.NotEmpty(t, stats.TopQueries)
	assert.Equal(t, "주문", stats.TopQueries[0].Query)
	assert.Equal(t, int64(2), stats.TopQueries[0].Count)

	var failed int
	for _, a := range stats.RecentActivities {
		if !a.Success {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestActivity_StatsEmpty(t *testing.T) {
	env := newTestEnv(t)
	w := performRequest(activityRouter(env), http.MethodGet, "/api/activity?days=abc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	decodeBody(t, w, &stats)
	assert.Zero(t, stats.TodayStats.TotalTranslations)
	assert.Empty(t, stats.RecentActivities)
	assert.Empty(t, stats.TotalStats)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varnamer/api/internal/client"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/suggest"
)

const testWebhookURL = "https://n8n.example.test/webhook/invoke"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func suggestRouter(env *testEnv, maxRetries int) *gin.Engine {
	service := suggest.NewService(client.NewRAGClient(testWebhookURL, "", time.Second), suggest.Config{
		MaxRetries: maxRetries,
		Backoff:    func(int) time.Duration { return 0 },
	})
	h := NewSuggestHandler(service, env.activities, 0.3)

	r := gin.New()
	r.POST("/api/rag/suggest", h.Suggest)
	return r
}

func TestSuggest_EmptyQuery(t *testing.T) {
	r := suggestRouter(newTestEnv(t), 1)

	w := performRequest(r, http.MethodPost, "/api/rag/suggest", map[string]any{"query": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"검색어를 입력해주세요"}`, w.Body.String())
}

func TestSuggest_WebhookResponseFilteredAndLogged(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPost, testWebhookURL,
		httpmock.NewStringResponder(http.StatusOK, `[
			{"english": "orderMargin", "confidence": 0.9},
			{"english": "orderDeposit", "confidence": 0.5},
			{"english": "om", "confidence": 0.1}
		]`))

	env := newTestEnv(t)
	r := suggestRouter(env, 3)

	w := performRequest(r, http.MethodPost, "/api/rag/suggest", map[string]any{"query": "주문증거금", "context": "선물"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp suggest.Response
	decodeBody(t, w, &resp)
	assert.Equal(t, suggest.RagVersion, resp.Metadata.RagVersion)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "orderMargin", resp.Suggestions[0].English)
	assert.Equal(t, "orderDeposit", resp.Suggestions[1].English)

	// Second call is a cache hit and returns the same payload
	again := performRequest(r, http.MethodPost, "/api/rag/suggest", map[string]any{"query": "주문증거금", "context": "선물"})
	assert.JSONEq(t, w.Body.String(), again.Body.String())
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	var logs []model.RAGSuggestionLog
	require.NoError(t, env.db.Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "주문증거금", logs[0].Query)
	assert.Equal(t, "선물", logs[0].Context)
	assert.Equal(t, "ko", logs[0].Language)
	assert.False(t, logs[0].Cached)
	assert.True(t, logs[1].Cached)

	today, err := env.activities.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), today.TotalRagSuggestions)
}

func TestSuggest_FallbackWhenWebhookDown(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPost, testWebhookURL,
		httpmock.NewErrorResponder(errors.New("dial tcp: connection refused")))

	env := newTestEnv(t)
	w := performRequest(suggestRouter(env, 2), http.MethodPost, "/api/rag/suggest", map[string]any{"query": "사용자 목록"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp suggest.Response
	decodeBody(t, w, &resp)
	assert.Equal(t, suggest.FallbackVersion, resp.Metadata.RagVersion)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())

	english := make([]string, 0, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		english = append(english, s.English)
	}
	assert.Equal(t, []string{"user", "list", "사용자목록"}, english)

	var activity model.UserActivity
	require.NoError(t, env.db.First(&activity).Error)
	assert.False(t, activity.Success)
}

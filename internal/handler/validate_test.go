package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/validator"
)

func validateRouter(env *testEnv) *gin.Engine {
	h := NewValidateHandler(validator.New(), env.activities)
	r := gin.New()
	r.POST("/api/validate", h.Validate)
	return r
}

func TestValidate_EmptyCode(t *testing.T) {
	r := validateRouter(newTestEnv(t))

	for _, body := range []any{map[string]any{"code": ""}, map[string]any{}, "not json"} {
		w := performRequest(r, http.MethodPost, "/api/validate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"코드를 입력해주세요"}`, w.Body.String())
	}
}

func TestValidate_ReportsIssues(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(validateRouter(env), http.MethodPost, "/api/validate", map[string]any{
		"code": "const 주문금액 = 1000;\nlet x = 2;",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result validator.Result
	decodeBody(t, w, &result)
	assert.Equal(t, "order금액", result.Suggestions["주문금액"])
	assert.Equal(t, len(result.Issues), result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Errors)
	assert.Equal(t, "주문금액", result.Issues[0].Variable)

	var activity model.UserActivity
	require.NoError(t, env.db.First(&activity).Error)
	assert.Equal(t, model.ActivityValidation, activity.ActivityType)
	assert.False(t, activity.Success)
	assert.JSONEq(t, `{"total":4,"errors":1,"warnings":2,"info":1}`, string(activity.Result))
}

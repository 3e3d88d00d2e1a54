package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/middleware"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
	"github.com/varnamer/api/internal/validator"
	"golang.org/x/text/unicode/norm"
)

type ValidateHandler struct {
	validator  *validator.Validator
	activities *store.ActivityStore
}

func NewValidateHandler(v *validator.Validator, activities *store.ActivityStore) *ValidateHandler {
	return &ValidateHandler{validator: v, activities: activities}
}

type ValidateRequest struct {
	Code string `json:"code"`
}

// Validate handles POST /api/validate
func (h *ValidateHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "코드를 입력해주세요"})
		return
	}

	result := h.validator.Validate(norm.NFC.String(req.Code))

	for _, issue := range result.Issues {
		middleware.RecordValidationIssue(issue.Rule, string(issue.Severity))
	}

	recordActivity(c, h.activities, model.ActivityValidation, "", result.Summary, result.Summary.Errors == 0)

	c.JSON(http.StatusOK, result)
}

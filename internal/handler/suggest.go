package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
	"github.com/varnamer/api/internal/suggest"
)

type SuggestHandler struct {
	service       *suggest.Service
	activities    *store.ActivityStore
	minConfidence float64
}

func NewSuggestHandler(service *suggest.Service, activities *store.ActivityStore, minConfidence float64) *SuggestHandler {
	return &SuggestHandler{
		service:       service,
		activities:    activities,
		minConfidence: minConfidence,
	}
}

// Suggest handles POST /api/rag/suggest
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req suggest.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "검색어를 입력해주세요"})
		return
	}

	result, err := h.service.Suggest(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, suggest.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "검색어를 입력해주세요"})
			return
		}
		log.Printf("Error producing suggestions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "RAG 제안을 가져오는 중 오류가 발생했습니다"})
		return
	}

	// The cached response is shared, so filtering builds a copy
	response := suggest.Response{
		Suggestions: suggest.FilterByConfidence(result.Response.Suggestions, h.minConfidence),
		Metadata:    result.Response.Metadata,
	}

	h.logSuggestion(c, req.Normalize(), result)

	c.JSON(http.StatusOK, response)
}

func (h *SuggestHandler) logSuggestion(c *gin.Context, req suggest.Request, result *suggest.Result) {
	if h.activities == nil {
		return
	}

	entry := &model.RAGSuggestionLog{
		Query:          req.Query,
		Context:        req.Context,
		Language:       req.Language,
		Suggestions:    toJSON(result.Response.Suggestions),
		RagVersion:     result.Response.Metadata.RagVersion,
		ResponseTimeMs: result.Response.Metadata.ResponseTime,
		Cached:         result.Cached(),
	}
	if err := h.activities.RecordRAGSuggestion(c.Request.Context(), entry); err != nil {
		log.Printf("Warning: failed to save RAG suggestion log: %v", err)
	}

	recordActivity(c, h.activities, model.ActivityRAGSuggestion, req.Query, gin.H{
		"source":      result.Source,
		"ragVersion":  result.Response.Metadata.RagVersion,
		"suggestions": len(result.Response.Suggestions),
	}, result.Source != suggest.SourceFallback)
}

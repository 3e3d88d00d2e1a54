package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/cache"
	"github.com/varnamer/api/internal/middleware"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
	"golang.org/x/text/unicode/norm"
)

// MaxTranslateResults caps the results returned by /api/translate
const MaxTranslateResults = 10

type TranslateHandler struct {
	mappings   *store.MappingStore
	activities *store.ActivityStore
	cache      ResponseCache
	cacheTTL   time.Duration
}

func NewTranslateHandler(mappings *store.MappingStore, activities *store.ActivityStore, responseCache ResponseCache, cacheTTL time.Duration) *TranslateHandler {
	return &TranslateHandler{
		mappings:   mappings,
		activities: activities,
		cache:      responseCache,
		cacheTTL:   cacheTTL,
	}
}

type TranslationResult struct {
	Korean      string `json:"korean"`
	English     string `json:"english"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Usage       string `json:"usage,omitempty"`
}

type TranslateResponse struct {
	Query   string              `json:"query"`
	Results []TranslationResult `json:"results"`
	Total   int                 `json:"total"`
}

// Translate handles GET /api/translate?q=
func (h *TranslateHandler) Translate(c *gin.Context) {
	query := norm.NFC.String(strings.TrimSpace(c.Query("q")))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := cache.TranslateKey(query)

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, cacheKey); err == nil {
			var response TranslateResponse
			if err := json.Unmarshal(cached, &response); err == nil {
				middleware.RecordTranslate(true)
				h.logLookup(c, query, response.Total)
				c.JSON(http.StatusOK, response)
				return
			}
		}
	}

	mappings, err := h.mappings.Search(ctx, query)
	if err != nil {
		log.Printf("Error searching dictionary for %q: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search dictionary"})
		return
	}
	middleware.RecordTranslate(false)

	response := buildTranslateResponse(query, mappings)
	h.logLookup(c, query, response.Total)

	if h.cache != nil {
		if responseJSON, err := json.Marshal(response); err == nil {
			if err := h.cache.Set(ctx, cacheKey, responseJSON, h.cacheTTL); err != nil {
				log.Printf("Warning: failed to cache translation %q: %v", query, err)
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *TranslateHandler) logLookup(c *gin.Context, query string, total int) {
	if h.activities == nil {
		return
	}
	if err := h.activities.RecordSearch(c.Request.Context(), query, total); err != nil {
		log.Printf("Warning: failed to save search history: %v", err)
	}
	recordActivity(c, h.activities, model.ActivityTranslation, query, gin.H{"total": total}, total > 0)
}

// buildTranslateResponse keeps the store order (exact matches first) and
// truncates to MaxTranslateResults while reporting the full total
func buildTranslateResponse(query string, mappings []model.VariableMapping) TranslateResponse {
	results := make([]TranslationResult, 0, min(len(mappings), MaxTranslateResults))
	for i, m := range mappings {
		if i == MaxTranslateResults {
			break
		}
		results = append(results, TranslationResult{
			Korean:      m.Korean,
			English:     m.English,
			Type:        m.Type,
			Category:    m.Category,
			Description: m.Description,
			Usage:       m.Usage,
		})
	}

	return TranslateResponse{
		Query:   query,
		Results: results,
		Total:   len(mappings),
	}
}

package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/cache"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const (
	defaultCategory = "일반"
	maxListLimit    = 100
)

type DictionaryHandler struct {
	mappings *store.MappingStore
	cache    ResponseCache
}

func NewDictionaryHandler(mappings *store.MappingStore, responseCache ResponseCache) *DictionaryHandler {
	return &DictionaryHandler{mappings: mappings, cache: responseCache}
}

type AddMappingRequest struct {
	Korean      string   `json:"korean"`
	English     string   `json:"english"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Confidence  *float64 `json:"confidence"`
}

// Add handles POST /api/dictionary/add
func (h *DictionaryHandler) Add(c *gin.Context) {
	var req AddMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "잘못된 요청 형식입니다"})
		return
	}

	req.Korean = norm.NFC.String(strings.TrimSpace(req.Korean))
	req.English = strings.TrimSpace(req.English)
	req.Type = strings.TrimSpace(req.Type)

	if req.Korean == "" || req.English == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "필수 필드가 누락되었습니다 (korean, english, type)",
		})
		return
	}

	ctx := c.Request.Context()

	existing, err := h.mappings.FindConflict(ctx, req.Korean, req.English)
	if err != nil {
		log.Printf("Error checking dictionary conflicts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "변수명 추가 중 오류가 발생했습니다"})
		return
	}
	if existing != nil {
		if existing.Korean == req.Korean && existing.English == req.English {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    existing,
				"message": "이미 등록된 변수명입니다",
			})
			return
		}
		c.JSON(http.StatusConflict, gin.H{
			"success":  false,
			"message":  fmt.Sprintf("충돌하는 변수명이 존재합니다: %s → %s", existing.Korean, existing.English),
			"existing": existing,
		})
		return
	}

	mapping := &model.VariableMapping{
		Korean:      req.Korean,
		English:     req.English,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Usage:       UsageExample(req.English, req.Type),
		Tags:        BuildTags(req.Korean, req.English, req.Description),
		Source:      req.Source,
		Confidence:  req.Confidence,
	}
	if mapping.Category == "" {
		mapping.Category = defaultCategory
	}
	if mapping.Source == "" {
		mapping.Source = model.SourceManual
	}

	if err := h.mappings.Create(ctx, mapping); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "이미 존재하는 변수명입니다"})
			return
		}
		log.Printf("Error creating variable mapping: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "변수명 추가 중 오류가 발생했습니다",
			"error":   err.Error(),
		})
		return
	}

	h.invalidateTranslations(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mapping,
		"message": "변수명이 성공적으로 추가되었습니다",
	})
}

// List handles GET /api/dictionary?q=&category=&source=&limit=&offset=
func (h *DictionaryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	filter := store.ListFilter{
		Query:    norm.NFC.String(strings.TrimSpace(c.Query("q"))),
		Category: c.Query("category"),
		Source:   c.Query("source"),
	}

	mappings, total, err := h.mappings.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		log.Printf("Error listing dictionary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list dictionary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   mappings,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Delete handles DELETE /api/dictionary/:id
func (h *DictionaryHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.mappings.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mapping not found"})
			return
		}
		log.Printf("Error deleting mapping %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete mapping"})
		return
	}

	h.invalidateTranslations(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *DictionaryHandler) invalidateTranslations(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if _, err := h.cache.DeletePrefix(c.Request.Context(), cache.TranslatePrefix); err != nil {
		log.Printf("Warning: failed to invalidate translation cache: %v", err)
	}
}

// BuildTags returns lowercased korean and english plus description words
// longer than two characters, deduplicated in order
func BuildTags(korean, english, description string) model.Tags {
	candidates := []string{strings.ToLower(korean), strings.ToLower(english)}
	for _, word := range strings.Split(strings.ToLower(description), " ") {
		if len([]rune(word)) > 2 {
			candidates = append(candidates, word)
		}
	}

	seen := make(map[string]bool, len(candidates))
	tags := make(model.Tags, 0, len(candidates))
	for _, tag := range candidates {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// UsageExample renders a one-line code sample for the mapping type
func UsageExample(english, mappingType string) string {
	switch mappingType {
	case "함수":
		return english + "();"
	case "클래스":
		return "const instance = new " + english + "();"
	case "상수":
		return fmt.Sprintf("const %s = '%s';", strings.ToUpper(english), english)
	default:
		return fmt.Sprintf("const %s = get%s();", english, upperFirst(english))
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

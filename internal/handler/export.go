package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
)

// ExportHeader matches the columns dictctl import reads
var ExportHeader = []string{"korean", "english", "type", "category", "description", "usage", "tags"}

type ExportHandler struct {
	mappings *store.MappingStore
	now      func() time.Time
}

func NewExportHandler(mappings *store.MappingStore) *ExportHandler {
	return &ExportHandler{mappings: mappings, now: time.Now}
}

// Export handles GET /api/dictionary/export?format=json|csv|md
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	switch format {
	case "json", "csv", "md", "markdown":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use json, csv, or md"})
		return
	}

	mappings, err := h.mappings.All(c.Request.Context(), store.ListFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Category: c.Query("category"),
		Source:   c.Query("source"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export dictionary"})
		return
	}

	filename := "dictionary-" + h.now().Format("20060102")
	switch format {
	case "json":
		h.exportJSON(c, filename, mappings)
	case "csv":
		h.exportCSV(c, filename, mappings)
	default:
		h.exportMarkdown(c, filename, mappings)
	}
}

func (h *ExportHandler) exportJSON(c *gin.Context, filename string, mappings []model.VariableMapping) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
	c.JSON(http.StatusOK, gin.H{
		"exportedAt": h.now().UTC().Format(time.RFC3339),
		"total":      len(mappings),
		"mappings":   mappings,
	})
}

func (h *ExportHandler) exportCSV(c *gin.Context, filename string, mappings []model.VariableMapping) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, mappings); err != nil {
		log.Printf("Error writing CSV export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export dictionary"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// writeCSV writes mappings in the dictctl import layout
func writeCSV(w io.Writer, mappings []model.VariableMapping) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return err
	}
	for _, m := range mappings {
		if err := writer.Write([]string{
			m.Korean,
			m.English,
			m.Type,
			m.Category,
			m.Description,
			m.Usage,
			strings.Join(m.Tags, ","),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (h *ExportHandler) exportMarkdown(c *gin.Context, filename string, mappings []model.VariableMapping) {
	var buf bytes.Buffer

	buf.WriteString("# 변수명 사전\n\n")
	buf.WriteString(fmt.Sprintf("**Exported:** %s (%d entries)\n\n", h.now().Format("2006-01-02 15:04:05"), len(mappings)))

	for i, m := range mappings {
		if i == 0 || m.Category != mappings[i-1].Category {
			if i > 0 {
				buf.WriteString("\n")
			}
			name := m.Category
			if name == "" {
				name = "미분류"
			}
			buf.WriteString(fmt.Sprintf("## %s\n\n| 한글 | English | 타입 | 설명 |\n|---|---|---|---|\n", name))
		}
		buf.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s |\n",
			m.Korean, m.English, m.Type, strings.ReplaceAll(m.Description, "|", "\\|")))
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.md", filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
}

package handler

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varnamer/api/internal/importer"
	"github.com/varnamer/api/internal/model"
)

func exportRouter(env *testEnv) *gin.Engine {
	h := NewExportHandler(env.mappings)
	h.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	r := gin.New()
	r.GET("/api/dictionary/export", h.Export)
	return r
}

func TestExport_InvalidFormat(t *testing.T) {
	w := performRequest(exportRouter(newTestEnv(t)), http.MethodGet, "/api/dictionary/export?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport_JSON(t *testing.T) {
	env := newTestEnv(t)
	seed(t, env, "주문", "order", time.Now())
	seed(t, env, "잔고", "balance", time.Now())

	w := performRequest(exportRouter(env), http.MethodGet, "/api/dictionary/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=dictionary-20260501.json", w.Header().Get("Content-Disposition"))

	var resp struct {
		Total    int `json:"total"`
		Mappings []struct {
			Korean string `json:"korean"`
		} `json:"mappings"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "잔고", resp.Mappings[0].Korean)
}

func TestExport_CSVRoundTripsThroughImporter(t *testing.T) {
	env := newTestEnv(t)
	seed(t, env, "주문", "order", time.Now())

	w := performRequest(exportRouter(env), http.MethodGet, "/api/dictionary/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ExportHeader, records[0])

	rows, skipped, err := importer.ReadCSV(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "주문", rows[0].Korean)
	assert.Equal(t, "order", rows[0].English)
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteCSV_ReportsWriterError(t *testing.T) {
	diskFull := errors.New("no space left on device")
	err := writeCSV(failingWriter{err: diskFull}, []model.VariableMapping{
		{Korean: "주문", English: "order", Tags: []string{"거래"}},
	})
	assert.ErrorIs(t, err, diskFull)

	var buf strings.Builder
	require.NoError(t, writeCSV(&buf, nil))
	assert.Equal(t, strings.Join(ExportHeader, ",")+"\n", buf.String())
}

func TestExport_Markdown(t *testing.T) {
	env := newTestEnv(t)
	seed(t, env, "주문", "order", time.Now())

	w := performRequest(exportRouter(env), http.MethodGet, "/api/dictionary/export?format=md", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "## 일반")
	assert.Contains(t, w.Body.String(), "| 주문 | `order` | 변수 |")
}

// Package importer loads dictionary rows from CSV sheets into the mapping store.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/varnamer/api/internal/cache"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/store"
)

const (
	DefaultType     = "변수"
	DefaultCategory = "일반"
)

// Row is one dictionary entry read from a sheet
type Row struct {
	Korean      string
	English     string
	FullEnglish string
	Type        string
	Category    string
	Description string
	Usage       string
	Tags        []string
	Source      string
}

// column aliases; the Korean names are the sample-sheet headers
var headerAliases = map[string]string{
	"korean":      "korean",
	"english":     "english",
	"type":        "type",
	"category":    "category",
	"description": "description",
	"usage":       "usage",
	"tags":        "tags",
	"의미":          "korean",
	"축약된 변수명":     "english",
	"영어 풀이말":      "fullEnglish",
	"부가적인 설명":     "description",
}

// ErrMissingColumns is returned when a sheet has no korean or english column
var ErrMissingColumns = errors.New("csv must have korean and english columns")

// ReadCSV parses a sheet with either English or Korean headers. Rows missing
// the korean term or the english name are skipped and counted.
func ReadCSV(r io.Reader) ([]Row, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if field, ok := headerAliases[strings.ToLower(name)]; ok {
			columns[field] = i
		}
	}
	if _, ok := columns["korean"]; !ok {
		return nil, 0, ErrMissingColumns
	}
	if _, ok := columns["english"]; !ok {
		return nil, 0, ErrMissingColumns
	}

	var rows []Row
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row %d: %w", len(rows)+skipped+2, err)
		}

		get := func(field string) string {
			i, ok := columns[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := Row{
			Korean:      get("korean"),
			English:     get("english"),
			FullEnglish: get("fullEnglish"),
			Type:        get("type"),
			Category:    get("category"),
			Description: get("description"),
			Usage:       get("usage"),
			Tags:        splitTags(get("tags")),
		}
		if row.Korean == "" || row.English == "" {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// categoryKeywords is ordered: the first keyword found in the full English
// name picks the category
var categoryKeywords = []struct {
	keywords []string
	category string
}{
	{[]string{"ACCOUNT", "BALANCE"}, "금융"},
	{[]string{"USER", "MEMBER"}, "사용자"},
	{[]string{"ORDER", "TRANSACTION"}, "거래"},
	{[]string{"DATE", "TIME"}, "시간"},
	{[]string{"SYSTEM", "COMPUTER"}, "시스템"},
}

// InferCategory guesses a category from the spelled-out English name
func InferCategory(fullEnglish string) string {
	upper := strings.ToUpper(fullEnglish)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(upper, kw) {
				return c.category
			}
		}
	}
	return DefaultCategory
}

// Mapping fills defaults and converts the row into a dictionary entry
func (r Row) Mapping() *model.VariableMapping {
	m := &model.VariableMapping{
		Korean:      r.Korean,
		English:     r.English,
		Type:        r.Type,
		Category:    r.Category,
		Description: r.Description,
		Usage:       r.Usage,
		Tags:        model.Tags(r.Tags),
		Source:      r.Source,
	}
	if m.Source == "" {
		m.Source = model.SourceImport
	}
	if m.Type == "" {
		m.Type = DefaultType
	}
	if m.Category == "" {
		m.Category = InferCategory(r.FullEnglish)
	}
	if m.Description == "" {
		m.Description = r.FullEnglish
	}
	if m.Usage == "" {
		m.Usage = fmt.Sprintf("const %s = get%s();", r.English, r.English)
	}
	if len(m.Tags) == 0 {
		m.Tags = defaultTags(r)
	}
	return m
}

func defaultTags(r Row) model.Tags {
	candidates := []string{strings.ToLower(r.Korean), strings.ToLower(r.English)}
	for _, word := range strings.Fields(strings.ToLower(r.FullEnglish)) {
		if len(word) > 2 {
			candidates = append(candidates, word)
		}
	}

	seen := make(map[string]bool, len(candidates))
	tags := make(model.Tags, 0, len(candidates))
	for _, tag := range candidates {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// TranslationCache is the translate response cache that must be dropped
// once the dictionary changes
type TranslationCache interface {
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// Options controls an import run
type Options struct {
	Clear    bool
	Progress func(done, total int)
	// Cache, when set, loses its translate: entries after rows were cleared
	// or inserted
	Cache TranslationCache
}

// Result counts what an import did
type Result struct {
	Total       int
	Inserted    int
	Skipped     int
	Failed      int
	Cleared     int64
	Invalidated int64
}

// Import inserts rows, skipping pairs that already exist. A failed row is
// counted and the run continues; only a failed clear aborts.
func Import(ctx context.Context, mappings *store.MappingStore, rows []Row, opts Options) (*Result, error) {
	result := &Result{Total: len(rows)}

	if opts.Clear {
		cleared, err := mappings.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("clear mappings: %w", err)
		}
		result.Cleared = cleared
	}
	defer invalidate(ctx, opts.Cache, result)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		inserted, err := mappings.CreateIfAbsent(ctx, row.Mapping())
		switch {
		case err != nil:
			result.Failed++
		case inserted:
			result.Inserted++
		default:
			result.Skipped++
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(rows))
		}
	}

	return result, nil
}

func invalidate(ctx context.Context, c TranslationCache, result *Result) {
	if c == nil || (result.Inserted == 0 && result.Cleared == 0) {
		return
	}
	deleted, err := c.DeletePrefix(context.WithoutCancel(ctx), cache.TranslatePrefix)
	if err != nil {
		log.Printf("Warning: Failed to invalidate translate cache: %v", err)
		return
	}
	result.Invalidated = deleted
}

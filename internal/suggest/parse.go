package suggest

import (
	"encoding/json"
	"strings"
)

const (
	reasonAI       = "AI 추천 변수명"
	reasonPipeline = "RAG 파이프라인 제안"

	typeVariable    = "variable"
	categoryGeneral = "일반"
	categoryFinance = "금융"
)

// ParseWebhookResponse normalizes the shapes the n8n workflow may return:
//
//	{"output": "..."}              one suggestion, 0.85
//	"..."                          one suggestion, 0.8
//	["a", {"name": "b"}, ...]      one per item, 0.9 - 0.1*i unless given
//	{"suggestion": "a, b"}         comma list or single (also variable/english/result)
//
// It returns nil when nothing usable was found.
func ParseWebhookResponse(data any) []Suggestion {
	switch v := data.(type) {
	case map[string]any:
		if output, ok := firstPresent(v, "output"); ok {
			return []Suggestion{{
				English:    strings.TrimSpace(stringify(output)),
				Confidence: 0.85,
				Reasoning:  reasonAI,
				Type:       typeVariable,
				Category:   categoryFinance,
			}}
		}
		return parseObject(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []Suggestion{{
			English:    strings.TrimSpace(v),
			Confidence: 0.8,
			Reasoning:  reasonPipeline,
			Type:       typeVariable,
			Category:   categoryGeneral,
		}}
	case []any:
		return parseArray(v)
	}
	return nil
}

func parseArray(items []any) []Suggestion {
	var suggestions []Suggestion
	for i, item := range items {
		switch it := item.(type) {
		case string:
			suggestions = append(suggestions, Suggestion{
				English:    strings.TrimSpace(it),
				Confidence: rankedConfidence(0.9, i),
				Reasoning:  reasonPipeline,
				Type:       typeVariable,
				Category:   categoryGeneral,
			})
		case map[string]any:
			name, ok := firstPresent(it, "name", "variable", "english")
			if !ok {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				English:    strings.TrimSpace(stringify(name)),
				Confidence: numberOr(it["confidence"], rankedConfidence(0.9, i)),
				Reasoning:  stringOr(reasonPipeline, it["reason"], it["reasoning"]),
				Type:       stringOr(typeVariable, it["type"]),
				Category:   stringOr(categoryGeneral, it["category"]),
			})
		}
	}
	return suggestions
}

func parseObject(obj map[string]any) []Suggestion {
	value, ok := firstPresent(obj, "suggestion", "variable", "english", "result")
	if !ok {
		return nil
	}

	if text, isString := value.(string); isString && strings.Contains(text, ",") {
		var suggestions []Suggestion
		for i, part := range strings.Split(text, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				English:    part,
				Confidence: rankedConfidence(0.9, i),
				Reasoning:  reasonPipeline,
				Type:       typeVariable,
				Category:   categoryGeneral,
			})
		}
		return suggestions
	}

	return []Suggestion{{
		English:    strings.TrimSpace(stringify(value)),
		Confidence: numberOr(obj["confidence"], 0.85),
		Reasoning:  stringOr(reasonPipeline, obj["reasoning"]),
		Type:       stringOr(typeVariable, obj["type"]),
		Category:   stringOr(categoryGeneral, obj["category"]),
	}}
}

// firstPresent returns the first key holding a non-empty value
func firstPresent(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && !isEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	}
	return false
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func numberOr(v any, fallback float64) float64 {
	if f, ok := v.(float64); ok && f != 0 {
		return f
	}
	return fallback
}

func stringOr(fallback string, values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

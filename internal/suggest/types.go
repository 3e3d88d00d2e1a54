// Package suggest produces English identifier suggestions for Korean terms,
// backed by an n8n RAG webhook with a rule-based fallback.
package suggest

import "math"

const (
	RagVersion      = "1.0"
	FallbackVersion = "fallback"

	DefaultLanguage = "ko"
)

// Request is the body of POST /api/rag/suggest
type Request struct {
	Query    string `json:"query"`
	Context  string `json:"context,omitempty"`
	Language string `json:"language,omitempty"`
}

type Suggestion struct {
	English    string  `json:"english"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Type       string  `json:"type"`
	Category   string  `json:"category"`
}

type Metadata struct {
	RagVersion   string `json:"ragVersion"`
	ResponseTime int64  `json:"responseTime"`
}

type Response struct {
	Suggestions []Suggestion `json:"suggestions"`
	Metadata    Metadata     `json:"metadata"`
}

// Source labels where a response came from
type Source string

const (
	SourceWebhook  Source = "webhook"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Result wraps a response with how it was produced
type Result struct {
	Response *Response
	Source   Source
	Attempts int
}

func (r *Result) Cached() bool {
	return r.Source == SourceCache
}

// FilterByConfidence returns the suggestions with confidence >= min,
// leaving the input untouched
func FilterByConfidence(suggestions []Suggestion, min float64) []Suggestion {
	filtered := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Confidence >= min {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// rankedConfidence is base - 0.1*index rounded to two decimals
func rankedConfidence(base float64, index int) float64 {
	return math.Round((base-0.1*float64(index))*100) / 100
}

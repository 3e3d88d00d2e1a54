package suggest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	reasonFinance   = "금융 도메인 규칙 기반 제안"
	reasonRule      = "규칙 기반 폴백 제안"
	reasonCamelCase = "카멜케이스 변환"

	typeFunction = "function"
)

// 금융 용어는 순서대로 검사하며 처음 포함된 용어만 사용한다
var financialTerms = []struct {
	term    string
	english []string
}{
	{"주문증거금", []string{"orderMargin", "orderDeposit", "orderCollateral"}},
	{"증거금", []string{"margin", "deposit", "collateral"}},
	{"주문", []string{"order", "orderRequest", "trade"}},
	{"잔고", []string{"balance", "position", "holdings"}},
	{"체결", []string{"execution", "filled", "completed"}},
	{"미체결", []string{"pending", "unfilled", "openOrder"}},
}

var fallbackRules = []struct {
	pattern *regexp.Regexp
	english string
	kind    string
}{
	{regexp.MustCompile(`사용자|유저`), "user", typeVariable},
	{regexp.MustCompile(`이름|명`), "name", typeVariable},
	{regexp.MustCompile(`번호|넘버`), "number", typeVariable},
	{regexp.MustCompile(`날짜|일자`), "date", typeVariable},
	{regexp.MustCompile(`시간|타임`), "time", typeVariable},
	{regexp.MustCompile(`목록|리스트`), "list", typeVariable},
	{regexp.MustCompile(`조회|검색`), "search", typeFunction},
	{regexp.MustCompile(`저장|등록`), "save", typeFunction},
	{regexp.MustCompile(`삭제|제거`), "delete", typeFunction},
	{regexp.MustCompile(`수정|변경`), "update", typeFunction},
}

// Fallback builds rule-based suggestions when the webhook is unavailable or
// returned nothing usable
func Fallback(query string) []Suggestion {
	for _, ft := range financialTerms {
		if !strings.Contains(query, ft.term) {
			continue
		}
		suggestions := make([]Suggestion, 0, len(ft.english))
		for i, english := range ft.english {
			suggestions = append(suggestions, Suggestion{
				English:    english,
				Confidence: rankedConfidence(0.7, i),
				Reasoning:  reasonFinance,
				Type:       typeVariable,
				Category:   categoryFinance,
			})
		}
		return suggestions
	}

	suggestions := []Suggestion{}
	for _, rule := range fallbackRules {
		if rule.pattern.MatchString(query) {
			suggestions = append(suggestions, Suggestion{
				English:    rule.english,
				Confidence: 0.5,
				Reasoning:  reasonRule,
				Type:       rule.kind,
				Category:   categoryGeneral,
			})
		}
	}

	if camel := CamelCase(query); camel != "" && camel != query {
		suggestions = append(suggestions, Suggestion{
			English:    camel,
			Confidence: 0.3,
			Reasoning:  reasonCamelCase,
			Type:       typeVariable,
			Category:   categoryGeneral,
		})
	}

	return suggestions
}

// CamelCase joins whitespace-separated words, lowercasing the first and
// capitalizing the rest
func CamelCase(s string) string {
	// Casers hold state and are not shared between goroutines
	lowerCaser := cases.Lower(language.Und)
	upperCaser := cases.Upper(language.Und)

	var b strings.Builder
	for i, word := range strings.Fields(s) {
		lower := lowerCaser.String(word)
		if i == 0 {
			b.WriteString(lower)
			continue
		}
		r, size := utf8.DecodeRuneInString(lower)
		b.WriteString(upperCaser.String(string(r)))
		b.WriteString(lower[size:])
	}
	return b.String()
}

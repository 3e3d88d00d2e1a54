package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule is a predicate over an identifier. Test returns true when the
// identifier passes.
type Rule struct {
	Name       string
	Test       func(variable string) bool
	Message    string
	Severity   Severity
	Suggestion string
}

const RuleNoKorean = "no-korean"

var (
	hangulPattern = regexp.MustCompile(`[가-힣]`)
	upperInitial  = regexp.MustCompile(`^[A-Z]`)
	lowerInitial  = regexp.MustCompile(`^[a-z]`)
	hasLower      = regexp.MustCompile(`[a-z]`)
	digitsOnly    = regexp.MustCompile(`^\d+$`)
)

var reservedWords = toSet("class", "function", "return", "const", "let", "var", "if", "else", "for", "while",
	"do", "switch", "case", "break", "continue", "try", "catch", "finally", "throw",
	"new", "this", "super", "extends", "import", "export", "default", "async", "await")

var meaninglessNames = toSet("a", "b", "c", "d", "e", "x", "y", "z", "i", "j", "k", "temp", "tmp", "data", "info")

var romanizedKorean = []string{"jumun", "jango", "gyeoljae", "maemae", "jeunggeogeum", "yesugeum"}

var defaultRules = []Rule{
	{
		Name:       RuleNoKorean,
		Test:       func(v string) bool { return !hangulPattern.MatchString(v) },
		Message:    "한글 변수명은 사용할 수 없습니다",
		Severity:   SeverityError,
		Suggestion: "영어 변수명을 사용하세요",
	},
	{
		Name:       "min-length",
		Test:       func(v string) bool { return utf8.RuneCountInString(v) >= 2 },
		Message:    "변수명이 너무 짧습니다",
		Severity:   SeverityWarning,
		Suggestion: "의미를 명확히 표현하는 변수명을 사용하세요",
	},
	{
		Name:       "max-length",
		Test:       func(v string) bool { return utf8.RuneCountInString(v) <= 40 },
		Message:    "변수명이 너무 깁니다",
		Severity:   SeverityWarning,
		Suggestion: "간결하면서도 의미있는 변수명을 사용하세요",
	},
	{
		Name:       "camelCase",
		Test:       isConventionalCase,
		Message:    "변수명 규칙을 위반했습니다",
		Severity:   SeverityWarning,
		Suggestion: "camelCase, PascalCase, 또는 UPPER_CASE를 사용하세요",
	},
	{
		Name:     "no-reserved",
		Test:     func(v string) bool { return !reservedWords[v] },
		Message:  "예약어는 변수명으로 사용할 수 없습니다",
		Severity: SeverityError,
	},
	{
		Name:       "meaningful-name",
		Test:       func(v string) bool { return !meaninglessNames[strings.ToLower(v)] },
		Message:    "의미 없는 변수명입니다",
		Severity:   SeverityInfo,
		Suggestion: "변수의 용도를 명확히 나타내는 이름을 사용하세요",
	},
	{
		Name:     "no-numbers-only",
		Test:     func(v string) bool { return !digitsOnly.MatchString(v) },
		Message:  "숫자로만 이루어진 변수명은 사용할 수 없습니다",
		Severity: SeverityError,
	},
	{
		Name:       "korean-romanization",
		Test:       notRomanizedKorean,
		Message:    "한글 발음을 로마자로 표기한 변수명입니다",
		Severity:   SeverityError,
		Suggestion: "적절한 영어 단어를 사용하세요",
	},
}

// DefaultRules returns a copy of the built-in rule list in evaluation order
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

// isConventionalCase accepts UPPER_CASE constants, PascalCase types and
// lower-initial (camelCase) names
func isConventionalCase(v string) bool {
	if v == strings.ToUpper(v) && strings.Contains(v, "_") {
		return true
	}
	if upperInitial.MatchString(v) && hasLower.MatchString(v) {
		return true
	}
	return lowerInitial.MatchString(v)
}

func notRomanizedKorean(v string) bool {
	lower := strings.ToLower(v)
	for _, r := range romanizedKorean {
		if strings.Contains(lower, r) {
			return false
		}
	}
	return true
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

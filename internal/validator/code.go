// Package validator checks identifiers declared in pasted source code against
// a fixed list of naming rules.
package validator

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Issue is one failed rule for one identifier
type Issue struct {
	Line       int      `json:"line"`
	Column     int      `json:"column"`
	Variable   string   `json:"variable"`
	Issue      string   `json:"issue"`
	Suggestion string   `json:"suggestion,omitempty"`
	Severity   Severity `json:"severity"`
	Rule       string   `json:"rule"`
}

type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Result is the outcome of validating one code string
type Result struct {
	Issues      []Issue           `json:"issues"`
	Suggestions map[string]string `json:"suggestions"`
	Summary     Summary           `json:"summary"`
}

// Identifier is a declared name and where it was first seen (1-based)
type Identifier struct {
	Name   string
	Line   int
	Column int
}

const identPattern = `([a-zA-Z_$가-힣][a-zA-Z0-9_$가-힣]*)`

// wsPattern includes Unicode spaces; Korean IMEs emit U+3000 and U+00A0
const wsPattern = `[\s\p{Zs}\x{FEFF}]+`

// Declaration patterns, evaluated in this order on every line
var declarationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:const|let|var)` + wsPattern + identPattern),
	regexp.MustCompile(`function` + wsPattern + identPattern),
	regexp.MustCompile(`class` + wsPattern + identPattern),
}

// Validator applies an ordered rule list to declared identifiers
type Validator struct {
	rules []Rule
}

// New returns a Validator using the built-in rules
func New() *Validator {
	return &Validator{rules: DefaultRules()}
}

// NewWithRules returns a Validator using a custom rule list
func NewWithRules(rules []Rule) *Validator {
	return &Validator{rules: rules}
}

// ExtractIdentifiers returns the unique identifiers declared with
// const/let/var, function or class, in discovery order
func ExtractIdentifiers(code string) []Identifier {
	var idents []Identifier
	seen := make(map[string]bool)

	for lineIndex, line := range strings.Split(code, "\n") {
		for _, pattern := range declarationPatterns {
			for _, loc := range pattern.FindAllStringSubmatchIndex(line, -1) {
				name := line[loc[2]:loc[3]]
				if seen[name] {
					continue
				}
				seen[name] = true

				idents = append(idents, Identifier{
					Name:   name,
					Line:   lineIndex + 1,
					Column: utf8.RuneCountInString(line[:loc[2]]) + 1,
				})
			}
		}
	}

	return idents
}

// Validate runs every rule against every unique declared identifier and
// proposes English replacements for Korean identifiers
func (v *Validator) Validate(code string) *Result {
	result := &Result{
		Issues:      []Issue{},
		Suggestions: map[string]string{},
	}

	for _, ident := range ExtractIdentifiers(code) {
		for _, rule := range v.rules {
			if rule.Test(ident.Name) {
				continue
			}
			result.Issues = append(result.Issues, Issue{
				Line:       ident.Line,
				Column:     ident.Column,
				Variable:   ident.Name,
				Issue:      rule.Message,
				Suggestion: rule.Suggestion,
				Severity:   rule.Severity,
				Rule:       rule.Name,
			})
		}
	}

	for _, issue := range result.Issues {
		if issue.Rule == RuleNoKorean {
			result.Suggestions[issue.Variable] = SuggestReplacement(issue.Variable)
		}
	}

	result.Summary = summarize(result.Issues)
	return result
}

// Validate checks code with the built-in rules
func Validate(code string) *Result {
	return New().Validate(code)
}

func summarize(issues []Issue) Summary {
	s := Summary{Total: len(issues)}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Info++
		}
	}
	return s
}

// keywordSubstitution is ordered: the first contained keyword wins
var keywordSubstitution = []struct {
	korean  string
	english string
}{
	{"사용자", "user"},
	{"이름", "name"},
	{"주문", "order"},
	{"거래", "transaction"},
	{"잔고", "balance"},
	{"계좌", "account"},
	{"증거금", "margin"},
	{"매수", "buy"},
	{"매도", "sell"},
	{"가격", "price"},
	{"수량", "quantity"},
	{"금액", "amount"},
	{"수수료", "fee"},
	{"예수금", "deposit"},
	{"주식", "stock"},
	{"종목", "symbol"},
}

// SuggestReplacement replaces the first known Korean keyword in variable with
// its English counterpart, or returns "variable<length>" when none matches
func SuggestReplacement(variable string) string {
	for _, kw := range keywordSubstitution {
		if strings.Contains(variable, kw.korean) {
			return strings.Replace(variable, kw.korean, kw.english, 1)
		}
	}
	return "variable" + strconv.Itoa(utf8.RuneCountInString(variable))
}

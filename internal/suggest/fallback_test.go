package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func englishOf(suggestions []Suggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.English)
	}
	return out
}

func TestFallback_FinancialTermFirstMatchWins(t *testing.T) {
	got := Fallback("주문증거금 조회")

	require.Len(t, got, 3)
	assert.Equal(t, []string{"orderMargin", "orderDeposit", "orderCollateral"}, englishOf(got))
	assert.Equal(t, 0.7, got[0].Confidence)
	assert.Equal(t, 0.6, got[1].Confidence)
	assert.Equal(t, 0.5, got[2].Confidence)
	assert.Equal(t, "금융", got[0].Category)
}

func TestFallback_UnfilledMatchesExecutionTerm(t *testing.T) {
	// 미체결 contains 체결, which is checked first
	got := Fallback("미체결")
	assert.Equal(t, []string{"execution", "filled", "completed"}, englishOf(got))
}

func TestFallback_Rules(t *testing.T) {
	got := Fallback("사용자 이름 검색")

	assert.Equal(t, []string{"user", "name", "search", "사용자이름검색"}, englishOf(got))
	assert.Equal(t, 0.5, got[0].Confidence)
	assert.Equal(t, "function", got[2].Type)
	assert.Equal(t, 0.3, got[3].Confidence)
	assert.Equal(t, "카멜케이스 변환", got[3].Reasoning)
}

func TestFallback_NoCamelCaseWhenUnchanged(t *testing.T) {
	assert.Empty(t, Fallback("balance"))
}

func TestFallback_CamelCaseOnly(t *testing.T) {
	got := Fallback("Order Book")
	assert.Equal(t, []string{"orderBook"}, englishOf(got))
}

func TestCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"order book", "orderBook"},
		{"  TOTAL  trade fee", "totalTradeFee"},
		{"single", "single"},
		{"", ""},
		{"주문 내역", "주문내역"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CamelCase(tt.in), tt.in)
	}
}

func TestFilterByConfidence(t *testing.T) {
	in := []Suggestion{{English: "a", Confidence: 0.9}, {English: "b", Confidence: 0.3}, {English: "c", Confidence: 0.2}}

	got := FilterByConfidence(in, 0.3)
	assert.Equal(t, []string{"a", "b"}, englishOf(got))
	assert.Len(t, in, 3)
}

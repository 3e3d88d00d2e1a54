package suggest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestParseWebhookResponse_Output(t *testing.T) {
	got := ParseWebhookResponse(decode(t, `{"output": "  orderMargin \n"}`))

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{
		English:    "orderMargin",
		Confidence: 0.85,
		Reasoning:  "AI 추천 변수명",
		Type:       "variable",
		Category:   "금융",
	}, got[0])
}

func TestParseWebhookResponse_String(t *testing.T) {
	got := ParseWebhookResponse(decode(t, `"accountBalance"`))

	require.Len(t, got, 1)
	assert.Equal(t, "accountBalance", got[0].English)
	assert.Equal(t, 0.8, got[0].Confidence)
	assert.Equal(t, "일반", got[0].Category)
}

func TestParseWebhookResponse_Array(t *testing.T) {
	got := ParseWebhookResponse(decode(t, `[
		"orderMargin",
		{"variable": "orderDeposit", "reason": "증거금 = deposit", "category": "금융"},
		{"name": "orderCollateral", "confidence": 0.95, "type": "class"},
		{"unrelated": true},
		42
	]`))

	require.Len(t, got, 3)

	assert.Equal(t, "orderMargin", got[0].English)
	assert.Equal(t, 0.9, got[0].Confidence)

	assert.Equal(t, "orderDeposit", got[1].English)
	assert.Equal(t, 0.8, got[1].Confidence)
	assert.Equal(t, "증거금 = deposit", got[1].Reasoning)
	assert.Equal(t, "금융", got[1].Category)
	assert.Equal(t, "variable", got[1].Type)

	assert.Equal(t, "orderCollateral", got[2].English)
	assert.Equal(t, 0.95, got[2].Confidence)
	assert.Equal(t, "class", got[2].Type)
}

func TestParseWebhookResponse_CommaList(t *testing.T) {
	got := ParseWebhookResponse(decode(t, `{"result": "orderMargin, orderDeposit,orderCollateral"}`))

	require.Len(t, got, 3)
	assert.Equal(t, []string{"orderMargin", "orderDeposit", "orderCollateral"},
		[]string{got[0].English, got[1].English, got[2].English})
	assert.Equal(t, []float64{0.9, 0.8, 0.7},
		[]float64{got[0].Confidence, got[1].Confidence, got[2].Confidence})
}

func TestParseWebhookResponse_SingleObject(t *testing.T) {
	got := ParseWebhookResponse(decode(t, `{"english": "tradeFee", "confidence": 0.6, "reasoning": "수수료 = fee", "type": "variable", "category": "금융"}`))

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{
		English:    "tradeFee",
		Confidence: 0.6,
		Reasoning:  "수수료 = fee",
		Type:       "variable",
		Category:   "금융",
	}, got[0])
}

func TestParseWebhookResponse_KeyPrecedence(t *testing.T) {
	got := ParseWebhookResponse(decode(t, `{"suggestion": "", "variable": "orderId", "english": "ignored"}`))

	require.Len(t, got, 1)
	assert.Equal(t, "orderId", got[0].English)
	assert.Equal(t, 0.85, got[0].Confidence)
}

func TestParseWebhookResponse_Unusable(t *testing.T) {
	for _, raw := range []string{`{}`, `{"foo": "bar"}`, `[]`, `null`, `""`, `12`, `{"output": ""}`} {
		t.Run(raw, func(t *testing.T) {
			assert.Empty(t, ParseWebhookResponse(decode(t, raw)))
		})
	}
}

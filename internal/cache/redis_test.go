package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestTranslateKey(t *testing.T) {
	assert.Equal(t, "translate:주문", TranslateKey("  주문 "))

	decomposed := norm.NFD.String("잔고")
	assert.NotEqual(t, "잔고", decomposed)
	assert.Equal(t, "translate:잔고", TranslateKey(decomposed))
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url")
	assert.Error(t, err)
}

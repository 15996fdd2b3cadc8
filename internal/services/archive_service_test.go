package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeySeparatesSameBasename(t *testing.T) {
	a := objectKey(41, "passport", 31, "https://files.example.com/u1/scan.pdf")
	b := objectKey(41, "passport", 32, "https://files.example.com/u2/scan.pdf")

	assert.Equal(t, "requests/41/passport/31/scan.pdf", a)
	assert.Equal(t, "requests/41/passport/32/scan.pdf", b)
	assert.NotEqual(t, a, b)
}

func TestObjectKeyFallbacks(t *testing.T) {
	assert.Equal(t, "requests/7/unnamed/3/file", objectKey(7, "  ", 3, "://bad url"))
	assert.Equal(t, "requests/7/trade-license/3/c.pdf", objectKey(7, "trade/license", 3, "https://x/c.pdf"))
}

package utils_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tidymail/tidymail/internal/utils"
)

func newProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(zap.NewNop())
}

func TestTruncateTextShortInputUnchanged(t *testing.T) {
	tp := newProcessor()

	assert.Equal(t, "hello", tp.TruncateText("hello", 100))
	assert.Equal(t, "hello", tp.TruncateText("hello", 0))
}

func TestTruncateTextAddsMarker(t *testing.T) {
	tp := newProcessor()

	out := tp.TruncateText(strings.Repeat("a", 50), 10)
	assert.Equal(t, strings.Repeat("a", 10)+"\n[... truncated ...]", out)
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	tp := newProcessor()

	// Cut point lands mid-rune; the partial rune must be dropped
	out := tp.TruncateText("héllo wörld", 2)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "h\n[... truncated ...]", out)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := newProcessor()

	assert.Equal(t, "clean", tp.SanitizeUTF8("clean"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}

func TestProcessText(t *testing.T) {
	tp := newProcessor()

	out := tp.ProcessText(strings.Repeat("x", 20), 5)
	assert.Equal(t, "xxxxx\n[... truncated ...]", out)
}

package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "(empty)", preview("  "))
	assert.Equal(t, "Hello **world**", preview("<p>Hello <strong>world</strong></p>"))
	assert.Equal(t, "- one\n- two", preview("<ul><li>one</li><li>two</li></ul>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b", truncate(" a \n b "))

	long := strings.Repeat("x", previewWidth+10)
	got := truncate(long)
	assert.Len(t, got, previewWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}

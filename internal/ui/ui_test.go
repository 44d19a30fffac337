package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClipLinesKeepsShortLines(t *testing.T) {
	body := "Total files: 5\nSaved: 1.2 KB"
	assert.Equal(t, body, clipLines(body, 80))
}

func TestClipLinesTruncatesWideLines(t *testing.T) {
	long := strings.Repeat("x", 200)
	out := clipLines(long, 40)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len(out), 40)
}

func TestClipLinesCJKStaysValidUTF8(t *testing.T) {
	// 中日韩字符占两格，裁剪点不能落在字符中间
	body := "截图 " + strings.Repeat("截图整理报告", 20) + ".png"
	for width := 0; width <= 60; width++ {
		out := clipLines(body, width)
		assert.True(t, utf8.ValidString(out), "width %d produced invalid UTF-8", width)
		assert.NotContains(t, out, string(utf8.RuneError))
	}
}

func TestClipLinesNarrowWidthDoesNotPanic(t *testing.T) {
	for _, width := range []int{-1, 0, 1, 6, 7} {
		assert.NotPanics(t, func() { clipLines("some report line", width) })
	}
}

package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlyphs_FromEnv(t *testing.T) {
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	t.Setenv("BOOKCLUB_TUI_GLYPHS", "")
	setGlyphs(glyphSetASCII)
	applyGlyphPreference()
	assert.Equal(t, "▸", glyphTwisty(false))
	assert.Equal(t, "▾", glyphTwisty(true))

	t.Setenv("BOOKCLUB_TUI_GLYPHS", "ASCII")
	applyGlyphPreference()
	assert.Equal(t, ">", glyphTwisty(false))
	assert.Equal(t, "v", glyphTwisty(true))
	assert.Equal(t, '*', glyphs().echo)

	// Unknown values keep the current set.
	t.Setenv("BOOKCLUB_TUI_GLYPHS", "bogus")
	applyGlyphPreference()
	assert.Equal(t, ">", glyphTwisty(false))
}

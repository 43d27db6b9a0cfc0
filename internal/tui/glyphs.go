package tui

import (
	"os"
	"strings"
	"sync"
)

// A terminal font can't be changed from here, so affordances come in a Unicode and an
// ASCII flavor for fonts that render the former badly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

type glyphTable struct {
	collapsed, expanded string
	selected            string
	echo                rune
}

var glyphTables = map[glyphSet]glyphTable{
	glyphSetUnicode: {collapsed: "▸", expanded: "▾", selected: "›", echo: '•'},
	glyphSetASCII:   {collapsed: ">", expanded: "v", selected: ">", echo: '*'},
}

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference reads BOOKCLUB_TUI_GLYPHS (unicode|ascii). Unknown values are ignored.
func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BOOKCLUB_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphTable {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return glyphTables[currentGlyphs]
}

func glyphTwisty(expanded bool) string {
	if expanded {
		return glyphs().expanded
	}
	return glyphs().collapsed
}

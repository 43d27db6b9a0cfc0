package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. WithAutoStyle can block on terminal
	// background queries, so a fixed style is chosen up front.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderNote renders a note body without block margins so a list of notes stays dense.
func renderNote(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	styleName := markdownStyle()
	key := styleName + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(styleName)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if styleName == "light" {
		cfg = styles.LightStyleConfig
	}
	zero := uint(0)
	cfg.Document.Margin = &zero
	cfg.Paragraph.Margin = &zero
	cfg.List.Margin = &zero
	cfg.BlockQuote.Margin = &zero
	cfg.CodeBlock.Margin = &zero
	return cfg
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BOOKCLUB_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// Follow the TUI theme so notes stay readable when the theme is forced.
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BOOKCLUB_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

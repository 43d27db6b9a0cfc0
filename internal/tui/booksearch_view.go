package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// View renders the input line followed by the suggestion panel, if open.
func (s bookSearch) View() string {
	line := strings.NewReplacer("\n", " ", "\r", " ").Replace(s.input.View())
	if xansi.StringWidth(line) > s.width {
		line = xansi.Truncate(line, s.width, "")
	}
	if !s.PanelOpen() {
		if s.inflight && s.open {
			return line + "\n" + styleMuted().Render("  searching...")
		}
		return line
	}
	return line + "\n" + s.panelView()
}

// panelView renders the visible window of suggestions, one per row.
func (s bookSearch) panelView() string {
	end := s.offset + s.rows
	if end > len(s.results) {
		end = len(s.results)
	}
	w := s.width
	if w < 20 {
		w = 20
	}
	pattern := []rune(strings.TrimSpace(s.input.Value()))

	rows := make([]string, 0, s.rows+1)
	for i := s.offset; i < end; i++ {
		b := s.results[i]
		title := highlightMatches(b.Title, pattern, s.slab)
		row := " " + title + styleMuted().Render("  "+b.Byline())
		row = xansi.Truncate(row, w-1, "…")
		if pad := w - xansi.StringWidth(row); pad > 0 {
			row += strings.Repeat(" ", pad)
		}
		st := lipgloss.NewStyle().Background(colorPanelBg)
		if i == s.active {
			st = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
		}
		rows = append(rows, st.Render(row))
	}
	if s.inflight {
		rows = append(rows, styleMuted().Render(" loading more..."))
	}
	return strings.Join(rows, "\n")
}

// highlightMatches styles the characters of text that fuzzy-match pattern.
func highlightMatches(text string, pattern []rune, slab *util.Slab) string {
	if len(pattern) == 0 || text == "" {
		return text
	}
	chars := util.ToChars([]byte(text))
	res, pos := algo.FuzzyMatchV2(false, true, true, &chars, lowerRunes(pattern), true, slab)
	if res.Start < 0 || pos == nil || len(*pos) == 0 {
		return text
	}
	hit := make(map[int]bool, len(*pos))
	for _, p := range *pos {
		hit[p] = true
	}

	match := lipgloss.NewStyle().Foreground(colorMatch).Underline(true)
	var b strings.Builder
	for i, r := range []rune(text) {
		if hit[i] {
			b.WriteString(match.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lowerRunes(rs []rune) []rune {
	return []rune(strings.ToLower(string(rs)))
}

package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor everywhere and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted       lipgloss.TerminalColor = ac("240", "243")
	colorChromeFg    lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBg  lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg  lipgloss.TerminalColor = ac("235", "255")
	colorPanelBg     lipgloss.TerminalColor = ac("255", "235")
	colorPanelBorder lipgloss.TerminalColor = ac("250", "243")
	colorAccent      lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg    lipgloss.TerminalColor = ac("255", "235")
	colorError       lipgloss.TerminalColor = ac("160", "203")
	colorMatch       lipgloss.TerminalColor = ac("25", "81")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func styleLabel(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorChromeFg)
	if focused {
		st = st.Foreground(colorAccent).Bold(true)
	}
	return st
}

func styleButton(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(colorPanelBorder)
	if focused {
		st = st.Background(colorAccent).Foreground(colorAccentFg).BorderForeground(colorAccent).Bold(true)
	}
	return st
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile also honors CLICOLOR/CLICOLOR_FORCE, which can disable colors in a
// TUI by accident; here only NO_COLOR is honored and the terminal's capabilities otherwise win.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if profile != termenv.Ascii && (strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit")) {
		profile = termenv.TrueColor
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) BOOKCLUB_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("15;0" = fg;bg)
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BOOKCLUB_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

package tui

import (
	"bookclub-cli/internal/route"
	"bookclub-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Run starts the interactive client on start (guarded like any other navigation).
func Run(backend Backend, sess *session.Store, logger *zap.Logger, start route.Route) error {
	applyThemePreference()
	applyColorProfilePreference()
	applyGlyphPreference()
	m := newAppModel(backend, sess, logger, start)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// ABOUTME: Launches the interactive workbook TUI
// ABOUTME: Runs the bubbletea program on the alternate screen until the user quits
package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/measurebook/tui"
)

// TUICommand opens the step-by-step workbook editor.
func TUICommand(app *App) error {
	p := tea.NewProgram(tui.NewModel(app.Session, app.History, app.ExportDir()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ABOUTME: Confirmation dialog for the TUI
// ABOUTME: Guards photo removal and workbook reset behind an explicit y/n answer
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/measurebook/photos"
	"github.com/harperreed/measurebook/workbook"
)

type confirmKind int

const (
	confirmDetach confirmKind = iota
	confirmReset
)

type confirmState struct {
	kind    confirmKind
	slot    string
	message string
}

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

// answered stands in for the user's "y": the dialog has already asked.
var answered = photos.ConfirmFunc(func(context.Context, string) bool { return true })

func (m *Model) openConfirm(kind confirmKind, slot string) {
	m.confirm = confirmState{kind: kind, slot: slot}
	switch kind {
	case confirmDetach:
		m.confirm.message = photos.DetachWarning(slot)
	case confirmReset:
		m.confirm.message = workbook.ResetWarning
	}
	m.viewMode = ViewConfirm
}

func (m Model) renderConfirmView() string {
	title := warningStyle.Render("⚠  REMOVE PHOTO  ⚠")
	confirmLabel := "Yes, Remove (y)"
	if m.confirm.kind == confirmReset {
		title = warningStyle.Render("⚠  NEW WORKBOOK  ⚠")
		confirmLabel = "Yes, Start Over (y)"
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render(confirmLabel),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		m.confirm.message,
		"",
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.performConfirmed()
		m.viewMode = ViewStep
		return m, nil

	case "n", "N", "esc":
		m.viewMode = ViewStep
		if m.confirm.kind == confirmDetach {
			m.setStatus("Photo kept")
		} else {
			m.clearStatus()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) performConfirmed() {
	ctx := context.Background()

	switch m.confirm.kind {
	case confirmDetach:
		if _, err := m.session.DetachPhoto(ctx, m.confirm.slot, answered); err != nil {
			m.setError(err)
			return
		}
		delete(m.attaching, m.confirm.slot)
		m.setStatus("Photo removed")

	case confirmReset:
		if _, err := m.session.Reset(ctx, answered); err != nil {
			m.setError(err)
			return
		}
		m.attaching = make(map[string]bool)
		m.focusIndex = 0
		m.setStatus("Started a new workbook")
	}

	m.reloadInputs()
	m.loadStep()
	m.refreshPhotoTable()
}

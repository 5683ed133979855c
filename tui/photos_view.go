// ABOUTME: Photo step of the TUI
// ABOUTME: Lists the fixed slots in a table and attaches files by path in the background
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/harperreed/measurebook/models"
)

type attachDoneMsg struct {
	slot string
	ok   bool
	err  error
}

func (m *Model) refreshPhotoTable() {
	rows := make([]table.Row, 0, len(models.Slots))
	for _, slot := range models.Slots {
		file, size := "-", ""
		if a, ok := m.session.Photo(slot.ID); ok {
			file = a.Name
			size = humanize.Bytes(uint64(a.CompressedSize))
		}
		if m.attaching[slot.ID] {
			file = "compressing…"
			size = ""
		}
		rows = append(rows, table.Row{slot.Label, file, size, slot.Instruction})
	}
	m.photoTable.SetRows(rows)
}

func (m Model) selectedSlot() models.Slot {
	i := m.photoTable.Cursor()
	if i < 0 || i >= len(models.Slots) {
		return models.Slots[0]
	}
	return models.Slots[i]
}

func (m Model) renderPhotosView() string {
	var s strings.Builder
	s.WriteString(m.photoTable.View())
	s.WriteString("\n")
	s.WriteString(statusStyle.Render(fmt.Sprintf("%d of %d photos, %s",
		m.session.PhotoCount(), len(models.Slots), humanize.Bytes(uint64(m.session.PhotoBytes())))))
	return s.String()
}

func (m Model) handlePhotoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "a", "enter":
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		m.viewMode = ViewAttach
		return m, nil

	case "d", "x", "delete":
		slot := m.selectedSlot()
		if _, ok := m.session.Photo(slot.ID); !ok {
			m.setStatus("No photo in " + slot.Label)
			return m, nil
		}
		m.openConfirm(confirmDetach, slot.ID)
		return m, nil
	}

	var cmd tea.Cmd
	m.photoTable, cmd = m.photoTable.Update(msg)
	return m, cmd
}

func (m Model) handleAttachKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pathInput.Blur()
		m.viewMode = ViewStep
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		slot := m.selectedSlot().ID
		m.pathInput.Blur()
		m.viewMode = ViewStep
		m.attaching[slot] = true
		m.setStatus("Compressing " + filepath.Base(path) + "…")
		m.refreshPhotoTable()
		return m, attachCmd(m, slot, path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func attachCmd(m Model, slot, path string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ok, err := session.AttachFile(context.Background(), slot, path)
		return attachDoneMsg{slot: slot, ok: ok, err: err}
	}
}

func (m Model) handleAttachDone(msg attachDoneMsg) Model {
	delete(m.attaching, msg.slot)
	label := msg.slot
	if s, found := models.LookupSlot(msg.slot); found {
		label = s.Label
	}

	switch {
	case msg.err != nil:
		m.setError(fmt.Errorf("%s: %w", label, msg.err))
	case msg.ok:
		m.setStatus("✓ Attached photo to " + label)
	}
	m.refreshPhotoTable()
	return m
}

func (m Model) renderAttachView() string {
	slot := m.selectedSlot()

	var s strings.Builder
	s.WriteString(titleStyle.Render("ATTACH PHOTO: " + strings.ToUpper(slot.Label)))
	s.WriteString("\n")
	s.WriteString(slot.Instruction)
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("File path:"))
	s.WriteString(m.pathInput.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Enter: Attach • Esc: Cancel"))
	return s.String()
}

// ABOUTME: Review step of the TUI
// ABOUTME: Shows the workbook summary and measurement warnings and exports to disk
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/harperreed/measurebook/db"
	"github.com/harperreed/measurebook/export"
	"github.com/harperreed/measurebook/handlers"
)

type exportDoneMsg struct {
	rec *db.ExportRecord
	err error
}

func (m Model) renderReviewView() string {
	var s strings.Builder

	for _, section := range m.session.Summary().Sections {
		s.WriteString(sectionStyle.Render(section.Title))
		s.WriteString("\n")
		for _, item := range section.Items {
			if item.Label == "" {
				s.WriteString("  • " + item.Value + "\n")
				continue
			}
			s.WriteString("  " + labelStyle.Render(item.Label) + item.Value + "\n")
		}
		s.WriteString("\n")
	}

	if warnings := m.session.Validate(); len(warnings) > 0 {
		s.WriteString(warningStyle.Render("Measurement Warnings"))
		s.WriteString("\n")
		for _, w := range warnings {
			s.WriteString("  ⚠ " + w + "\n")
		}
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var format export.Format
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j":
		format = export.FormatJSON
	case "y":
		format = export.FormatYAML
	case "x":
		format = export.FormatXLSX
	default:
		return m, nil
	}

	m.setStatus("Exporting " + string(format) + "…")
	session, history, dir := m.session, m.history, m.exportDir
	return m, func() tea.Msg {
		rec, err := handlers.ExportAndRecord(session, history, dir, format)
		return exportDoneMsg{rec: rec, err: err}
	}
}

func (m Model) handleExportDone(msg exportDoneMsg) Model {
	if msg.err != nil {
		m.setError(msg.err)
		return m
	}
	m.setStatus("✓ Exported " + msg.rec.Path + " (" + humanize.Bytes(uint64(msg.rec.SizeBytes)) + ")")
	return m
}

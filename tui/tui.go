// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Walks the six workbook steps with forms, a photo table, and confirmation dialogs
package tui

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/measurebook/models"
	"github.com/harperreed/measurebook/workbook"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewStep ViewMode = iota
	ViewAttach
	ViewConfirm
)

const tickInterval = 250 * time.Millisecond

type tickMsg time.Time

// Model is the main bubbletea model
type Model struct {
	session   *workbook.Session
	history   *sql.DB
	exportDir string
	viewMode  ViewMode

	// Form state for the current step
	items      []formItem
	inputs     map[string]textinput.Model
	focusIndex int

	// Photo step state
	photoTable table.Model
	pathInput  textinput.Model
	attaching  map[string]bool

	confirm confirmState

	status    string
	statusErr bool
	saved     bool
	saveErr   error

	width  int
	height int
}

// NewModel creates a new TUI model over a restored session
func NewModel(session *workbook.Session, history *sql.DB, exportDir string) Model {
	m := Model{
		session:   session,
		history:   history,
		exportDir: exportDir,
		viewMode:  ViewStep,
		attaching: make(map[string]bool),
		width:     80,
		height:    24,
	}

	m.pathInput = textinput.New()
	m.pathInput.Placeholder = "/path/to/photo.jpg"
	m.pathInput.CharLimit = 500
	m.pathInput.Width = 60

	m.photoTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "Slot", Width: 22},
			{Title: "File", Width: 24},
			{Title: "Size", Width: 10},
			{Title: "Shot", Width: 32},
		}),
		table.WithFocused(true),
		table.WithHeight(len(models.Slots)+1),
	)

	m.reloadInputs()
	m.loadStep()
	m.refreshPhotoTable()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.saved = m.session.Saved()
		m.saveErr = m.session.SaveError()
		return m, tick()
	case attachDoneMsg:
		return m.handleAttachDone(msg), nil
	case exportDoneMsg:
		return m.handleExportDone(msg), nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewAttach:
		return m.renderAttachView()
	case ViewConfirm:
		return m.renderConfirmView()
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n\n")

	switch m.session.Step() {
	case workbook.StepPhotos:
		s.WriteString(m.renderPhotosView())
	case workbook.StepReview:
		s.WriteString(m.renderReviewView())
	default:
		s.WriteString(m.renderFormView())
	}

	s.WriteString("\n\n")
	s.WriteString(m.renderStatus())
	s.WriteString(m.renderHelp())
	return s.String()
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewAttach:
		return m.handleAttachKeys(msg)
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	}

	switch msg.String() {
	case "ctrl+n", "pgdown":
		if err := m.session.Next(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.clearStatus()
		m.focusIndex = 0
		m.loadStep()
		return m, nil
	case "ctrl+p", "pgup":
		m.session.Previous()
		m.clearStatus()
		m.focusIndex = 0
		m.loadStep()
		return m, nil
	case "ctrl+r":
		m.openConfirm(confirmReset, "")
		return m, nil
	}

	switch m.session.Step() {
	case workbook.StepPhotos:
		return m.handlePhotoKeys(msg)
	case workbook.StepReview:
		return m.handleReviewKeys(msg)
	}
	return m.handleFormKeys(msg)
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

func (m Model) renderHeader() string {
	step := m.session.Step()

	var tabs []string
	for i := 1; i <= workbook.TotalSteps; i++ {
		s := workbook.Step(i)
		label := fmt.Sprintf("%d %s", i, s.Title())
		switch {
		case s == step:
			tabs = append(tabs, tabActiveStyle.Render(label))
		case s < step:
			tabs = append(tabs, tabDoneStyle.Render("✓ "+s.Title()))
		default:
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("MEASUREMENT WORKBOOK"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		progressBar(m.session.Progress(), 60),
	)
}

func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return progressFullStyle.Render(strings.Repeat("━", filled)) +
		progressEmptyStyle.Render(strings.Repeat("━", width-filled)) +
		fmt.Sprintf(" %3.0f%%", percent)
}

func (m Model) renderStatus() string {
	var parts []string
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, errorStyle.Render("✗ "+m.status))
		} else {
			parts = append(parts, statusStyle.Render(m.status))
		}
	}
	switch {
	case m.saveErr != nil:
		parts = append(parts, errorStyle.Render("Autosave failed: "+m.saveErr.Error()))
	case m.saved:
		parts = append(parts, savedStyle.Render("✓ Saved"))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m Model) renderHelp() string {
	help := []string{"Ctrl+N: Next step", "Ctrl+P: Previous", "Ctrl+R: Reset", "Ctrl+C: Quit"}
	switch m.session.Step() {
	case workbook.StepPhotos:
		help = append([]string{"↑/↓: Select slot", "a: Attach", "d: Remove"}, help...)
	case workbook.StepReview:
		help = append([]string{"j: Export JSON", "y: Export YAML", "x: Export XLSX"}, help...)
	default:
		help = append([]string{"Tab/↑/↓: Move", "Space: Toggle", "←/→: Choose"}, help...)
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	tabDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	progressFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	progressEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(34)

	focusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

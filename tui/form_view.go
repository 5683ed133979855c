// ABOUTME: Form steps of the TUI: job info, configuration, measurements, and site conditions
// ABOUTME: Text fields, flags, and option groups edit the session directly as keys arrive
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/measurebook/models"
	"github.com/harperreed/measurebook/workbook"
)

type itemKind int

const (
	itemText itemKind = iota
	itemFlag
	itemOption
	itemHeading
)

type formItem struct {
	kind     itemKind
	key      string
	label    string
	required bool
}

func textItem(key, label string) formItem     { return formItem{kind: itemText, key: key, label: label} }
func requiredItem(key, label string) formItem { return formItem{kind: itemText, key: key, label: label, required: true} }
func flagItem(key, label string) formItem     { return formItem{kind: itemFlag, key: key, label: label} }
func headingItem(label string) formItem       { return formItem{kind: itemHeading, label: label} }

var configurationFlags = []formItem{
	flagItem("configuration.drainAccess", "Drain access available"),
	flagItem("configuration.movingDrain", "Moving drain"),
	flagItem("configuration.concreteSub", "Concrete subfloor"),
	flagItem("configuration.postTension", "Post-tension slab"),
	flagItem("configuration.fourthWall", "Fourth wall"),
	flagItem("configuration.manufacturedHome", "Manufactured home"),
	flagItem("configuration.condo", "Condo"),
	flagItem("configuration.windowInWet", "Window in wet area"),
}

// stepItems lists the form items of step. Window dimensions only appear while
// the window flag is set.
func stepItems(step workbook.Step, windowVisible bool) []formItem {
	switch step {
	case workbook.StepJobInfo:
		return []formItem{
			requiredItem("jobInfo.repName", "Sales Rep"),
			textItem("jobInfo.date", "Date"),
			requiredItem("jobInfo.customerName", "Customer Name"),
			textItem("jobInfo.customerPhone", "Phone"),
			textItem("jobInfo.customerEmail", "Email"),
			requiredItem("jobInfo.jobAddress", "Job Address"),
		}

	case workbook.StepConfiguration:
		items := []formItem{
			{kind: itemOption, key: models.GroupShowerType, label: "Existing Shower Type", required: true},
			{kind: itemOption, key: models.GroupNewConfig, label: "New Configuration"},
			textItem("configuration.floorLevel", "Floor Level"),
			textItem("configuration.baseType", "Base Type"),
			textItem("configuration.drainLocation", "Drain Location"),
		}
		items = append(items, configurationFlags...)
		if windowVisible {
			items = append(items,
				textItem("configuration.windowDimensions.height", "  Window Height"),
				textItem("configuration.windowDimensions.width", "  Window Width"),
				textItem("configuration.windowDimensions.toCeiling", "  Window to Ceiling"),
			)
		}
		return items

	case workbook.StepMeasurements:
		var items []formItem
		for _, letter := range models.MeasurementLetters {
			prefix := "measurements." + letter + "."
			items = append(items,
				headingItem(models.MeasurementLabel(letter)),
				textItem(prefix+"existing", "  Existing"),
				textItem(prefix+"new", "  New"),
				textItem(prefix+"notes", "  Notes"),
			)
		}
		return append(items,
			headingItem("Other"),
			textItem("measurements.baseToToilet", "  Base to Toilet"),
			textItem("measurements.newSurroundHeight", "  New Surround Height"),
		)

	case workbook.StepSiteConditions:
		items := []formItem{headingItem("Issues Observed")}
		for _, key := range models.IssueFlagKeys() {
			items = append(items, flagItem(key, models.IssueLabels[key]))
		}
		return append(items,
			headingItem("Notes"),
			textItem("siteConditions.structuralNotes", "Structural Notes"),
			textItem("siteConditions.accessNotes", "Access Notes"),
			textItem("siteConditions.preferredInstallDate", "Preferred Install Date"),
			textItem("siteConditions.bestContactTime", "Best Contact Time"),
			textItem("siteConditions.customerRequests", "Customer Requests"),
			textItem("siteConditions.additionalNotes", "Additional Notes"),
		)
	}
	return nil
}

// reloadInputs rebuilds every text input from the session.
func (m *Model) reloadInputs() {
	m.inputs = make(map[string]textinput.Model)
	for _, key := range models.FieldKeys() {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 500
		in.Width = 40
		value, _ := m.session.Field(key)
		in.SetValue(value)
		m.inputs[key] = in
	}
}

// loadStep recomputes the items of the current step and moves focus onto an editable item.
func (m *Model) loadStep() {
	m.items = stepItems(m.session.Step(), m.session.WindowDimensionsVisible())
	if m.focusIndex >= len(m.items) {
		m.focusIndex = len(m.items) - 1
	}
	if m.focusIndex < 0 {
		m.focusIndex = 0
	}
	if len(m.items) > 0 && m.items[m.focusIndex].kind == itemHeading {
		m.moveFocus(1)
	}
	m.updateFormFocus()
}

func (m *Model) moveFocus(delta int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	i := m.focusIndex
	for range m.items {
		i = (i + delta + n) % n
		if m.items[i].kind != itemHeading {
			m.focusIndex = i
			return
		}
	}
}

func (m *Model) updateFormFocus() {
	for key, in := range m.inputs {
		in.Blur()
		m.inputs[key] = in
	}
	if item, ok := m.focused(); ok && item.kind == itemText {
		in := m.inputs[item.key]
		in.Focus()
		m.inputs[item.key] = in
	}
}

func (m Model) focused() (formItem, bool) {
	if m.focusIndex < 0 || m.focusIndex >= len(m.items) {
		return formItem{}, false
	}
	return m.items[m.focusIndex], true
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.moveFocus(1)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		m.updateFormFocus()
		return m, nil
	}

	item, ok := m.focused()
	if !ok {
		return m, nil
	}

	switch item.kind {
	case itemFlag:
		switch msg.String() {
		case " ", "enter", "x":
			if _, err := m.session.ToggleFlag(item.key); err != nil {
				m.setError(err)
			}
			if item.key == "configuration.windowInWet" {
				m.loadStep()
			}
		}
		return m, nil

	case itemOption:
		switch msg.String() {
		case "right", "l", " ":
			m.cycleOption(item.key, 1)
		case "left", "h":
			m.cycleOption(item.key, -1)
		case "backspace", "delete":
			if err := m.session.SelectOption(item.key, ""); err != nil {
				m.setError(err)
			}
		}
		return m, nil

	case itemText:
		if msg.String() == "enter" {
			m.moveFocus(1)
			m.updateFormFocus()
			return m, nil
		}
		in := m.inputs[item.key]
		before := in.Value()
		var cmd tea.Cmd
		in, cmd = in.Update(msg)
		m.inputs[item.key] = in
		if in.Value() != before {
			if err := m.session.SetField(item.key, in.Value()); err != nil {
				m.setError(err)
			}
		}
		return m, cmd
	}
	return m, nil
}

// cycleOption moves the selection of group by delta, passing through "none".
func (m *Model) cycleOption(group string, delta int) {
	allowed := models.OptionGroups[group]
	current, _ := m.session.Option(group)

	idx := -1
	for i, v := range allowed {
		if v == current {
			idx = i
		}
	}
	// positions: -1 (none), 0..len-1
	n := len(allowed) + 1
	next := ((idx+1+delta)%n+n)%n - 1

	value := ""
	if next >= 0 {
		value = allowed[next]
	}
	if err := m.session.SelectOption(group, value); err != nil {
		m.setError(err)
	}
}

func (m Model) renderFormView() string {
	var s strings.Builder

	first, last := m.visibleRange()
	if first > 0 {
		s.WriteString(helpStyle.Render("  ↑ more") + "\n")
	}
	for i := first; i < last; i++ {
		item := m.items[i]
		if item.kind == itemHeading {
			s.WriteString(sectionStyle.Render(item.label))
			s.WriteString("\n")
			continue
		}

		marker := "  "
		label := item.label
		if item.required {
			label += " *"
		}
		if i == m.focusIndex {
			marker = focusStyle.Render("> ")
		}
		s.WriteString(marker)
		s.WriteString(labelStyle.Render(label))
		s.WriteString(m.renderValue(item, i == m.focusIndex))
		s.WriteString("\n")
	}
	if last < len(m.items) {
		s.WriteString(helpStyle.Render("  ↓ more") + "\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m Model) renderValue(item formItem, focused bool) string {
	switch item.kind {
	case itemFlag:
		on, _ := m.session.Flag(item.key)
		if on {
			return "[x]"
		}
		return "[ ]"
	case itemOption:
		value, _ := m.session.Option(item.key)
		if value == "" {
			value = "none"
		}
		if focused {
			return fmt.Sprintf("‹ %s ›  (%s)", value, strings.Join(models.OptionGroups[item.key], ", "))
		}
		return value
	}
	return m.inputs[item.key].View()
}

// visibleRange keeps the focused item on screen when the form is taller than the terminal.
func (m Model) visibleRange() (int, int) {
	rows := m.height - 12
	if rows < 6 {
		rows = 6
	}
	if len(m.items) <= rows {
		return 0, len(m.items)
	}
	first := m.focusIndex - rows/2
	if first < 0 {
		first = 0
	}
	last := first + rows
	if last > len(m.items) {
		last = len(m.items)
		first = last - rows
	}
	return first, last
}

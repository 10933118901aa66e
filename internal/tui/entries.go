package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/register"
)

// registerModel is the main view: the month's entry table, its totals
// line and the entry form.
type registerModel struct {
	reg    *register.Register
	width  int
	height int

	data   duty.View
	cursor int

	formActive bool
	form       *huh.Form

	// The draft lives behind a pointer so the form's field bindings
	// survive value copies of the model.
	draft *duty.Draft
}

func newRegisterModel(r *register.Register) registerModel {
	return registerModel{
		reg:   r,
		draft: &duty.Draft{},
	}
}

func (m *registerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type registerDataMsg struct {
	view duty.View
}

func (m registerModel) loadData(month duty.Month) tea.Cmd {
	reg := m.reg
	return func() tea.Msg {
		return registerDataMsg{view: reg.Month(month)}
	}
}

func (m registerModel) update(msg tea.Msg) (registerModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case registerDataMsg:
		m.data = msg.view
		if m.cursor >= len(m.data.Rows) {
			m.cursor = max(0, len(m.data.Rows)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.data.Rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New), key.Matches(msg, keys.Enter):
			return m.showForm()
		case key.Matches(msg, keys.Delete):
			if len(m.data.Rows) > 0 {
				return m, m.deleteEntry(m.data.Rows[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m registerModel) showForm() (registerModel, tea.Cmd) {
	if m.draft.Date == "" {
		m.draft.Date = time.Now().Format("2006-01-02")
	}

	prOptions := make([]huh.Option[string], len(duty.PRCodes))
	for i, c := range duty.PRCodes {
		label := c
		if c == "" {
			label = "(none)"
		}
		prOptions[i] = huh.NewOption(label, c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").
				Value(&m.draft.Date).Validate(duty.ValidateDate),
			huh.NewInput().Title("Train No").Value(&m.draft.TrainNo),
			huh.NewInput().Title("From").Value(&m.draft.From),
			huh.NewInput().Title("To").Value(&m.draft.To),
		),
		huh.NewGroup(
			huh.NewInput().Title("Sign On").Placeholder("HH:MM").
				Value(&m.draft.SignOn).Validate(duty.ValidateClock),
			huh.NewInput().Title("Sign Off").Placeholder("HH:MM").
				Value(&m.draft.SignOff).Validate(duty.ValidateClock),
			huh.NewInput().Title("KM").Placeholder("0").Value(&m.draft.Km),
			huh.NewSelect[string]().Title("PR").Options(prOptions...).Value(&m.draft.PR),
			huh.NewInput().Title("Remarks").Value(&m.draft.Remarks),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m registerModel) updateForm(msg tea.Msg) (registerModel, tea.Cmd) {
	// esc clears the draft and closes the form without adding.
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.clearForm()
			return m, func() tea.Msg { return statusMsg{text: "Form cleared"} }
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		d := *m.draft
		m.formActive = false
		m.form = nil
		return m, m.addEntry(d)
	case huh.StateAborted:
		m.clearForm()
		return m, nil
	}
	return m, cmd
}

func (m *registerModel) clearForm() {
	m.resetDraft()
	m.formActive = false
	m.form = nil
}

// addEntry submits d. The draft is kept until the entry is stored so a
// failed add does not lose what was typed.
func (m registerModel) addEntry(d duty.Draft) tea.Cmd {
	reg := m.reg
	return func() tea.Msg {
		e, err := reg.Add(d)
		if err != nil {
			return statusMsg{text: addErrorText(err), isError: true}
		}
		return entryAddedMsg{entry: e}
	}
}

func (m *registerModel) resetDraft() {
	*m.draft = duty.Draft{}
}

func addErrorText(err error) string {
	if errors.Is(err, duty.ErrDateRequired) {
		return "Please select date"
	}
	return fmt.Sprintf("Error: %v", err)
}

func (m registerModel) deleteEntry(id int64) tea.Cmd {
	reg := m.reg
	return func() tea.Msg {
		e, err := reg.Delete(id)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return entryDeletedMsg{entry: e}
	}
}

func (m registerModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Entry")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if m.width < 20 {
		return "Terminal too small"
	}

	title := titleStyle.Render(m.data.Month.Label())
	totals := highlightStyle.Render(m.data.Totals.String())

	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, "   ", totals),
		"",
		mutedStyle.Render(tableLine(tableHeader)),
	}
	if len(m.data.Rows) == 0 {
		rows = append(rows, mutedStyle.Render("  No entries"))
	}
	for i, r := range m.data.Rows {
		line := tableLine(tableCells(r))
		if i == m.cursor {
			rows = append(rows, selectedItemStyle.Render("> "+line[2:]))
		} else {
			rows = append(rows, normalItemStyle.Render(line))
		}
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new entry  d: delete  ←/→: month  e: export  p: print"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

var tableHeader = []string{
	"Date", "Train", "From", "To", "On", "Off",
	"Duty", "Night", "PR", "KM", "Prog KM", "Prog Duty", "Remarks",
}

var tableWidths = []int{10, 7, 6, 6, 5, 5, 6, 6, 5, 7, 8, 9, 20}

func tableCells(r duty.Row) []string {
	return []string{
		r.Date,
		orDash(r.TrainNo),
		orDash(r.From),
		orDash(r.To),
		orDash(r.SignOn),
		orDash(r.SignOff),
		formatHours(r.DutyHours),
		formatHours(r.NightHours),
		orDash(r.PR),
		duty.FormatNumber(r.Km),
		duty.FormatNumber(r.ProgressiveKm),
		formatHours(r.ProgressiveDuty),
		r.Remarks,
	}
}

func tableLine(cells []string) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, c := range cells {
		w := tableWidths[i]
		b.WriteString(fmt.Sprintf("%-*s", w, truncate(c, w)))
		if i < len(cells)-1 {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}

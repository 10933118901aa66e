package tui

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dutyreg/internal/config"
	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/export"
	"github.com/sadopc/dutyreg/internal/register"
)

type exportFormat int

const (
	formatCSV exportFormat = iota
	formatJSON
	formatPDF
)

var exportFormats = []string{"CSV", "JSON", "PDF (print sheet)"}

// App is the root Bubble Tea model.
type App struct {
	reg    *register.Register
	cfg    *config.Config
	width  int
	height int

	month         duty.Month
	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	register registerModel
	chart    chartModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(r *register.Register, cfg *config.Config) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		reg:        r,
		cfg:        cfg,
		month:      duty.CurrentMonth(time.Now()),
		activeView: viewRegister,
		register:   newRegisterModel(r),
		chart:      newChartModel(r),
		settings:   newSettingsModel(r, cfg),
		help:       h,
	}
	if w := r.Warning(); w != "" {
		a.status = w
		a.statusErr = true
	}
	return a
}

func (a App) Init() tea.Cmd {
	return a.register.loadData(a.month)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.register.setSize(a.width, contentHeight)
		a.chart.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (the entry form) gets keys first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Print):
			return a, a.doExport(formatPDF)
		case key.Matches(msg, keys.PrevMonth):
			return a.setMonth(a.month.Prev())
		case key.Matches(msg, keys.NextMonth):
			return a.setMonth(a.month.Next())
		case key.Matches(msg, keys.Today):
			return a.setMonth(duty.CurrentMonth(time.Now()))
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewRegister
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewChart
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case registerDataMsg:
		var cmd tea.Cmd
		a.register, cmd = a.register.update(msg)
		return a, cmd

	case chartDataMsg:
		var cmd tea.Cmd
		a.chart, cmd = a.chart.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case entryAddedMsg:
		a.register.resetDraft()
		a.setStatus(fmt.Sprintf("Added %s %s (duty %s, night %s)",
			msg.entry.Date, msg.entry.TrainNo, formatHours(msg.entry.DutyHours), formatHours(msg.entry.NightHours)), false)
		return a, a.refreshCurrentView()

	case entryDeletedMsg:
		a.setStatus(fmt.Sprintf("Deleted entry of %s", msg.entry.Date), false)
		return a, a.refreshCurrentView()

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil

	case settingsSavedMsg:
		a.setStatus("Settings saved to "+msg.path, false)
		return a, a.settings.refresh()
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
}

func (a App) setMonth(m duty.Month) (tea.Model, tea.Cmd) {
	a.month = m
	a.register.cursor = 0
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewRegister:
		a.register, cmd = a.register.update(msg)
	case viewChart:
		a.chart, cmd = a.chart.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewRegister:
		return a.register.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewRegister:
		return a.register.loadData(a.month)
	case viewChart:
		return a.chart.refresh(a.month)
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewRegister:
		content = a.register.view()
	case viewChart:
		content = a.chart.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("dutyreg")
	month := highlightStyle.Render("  " + a.month.Label())
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(month) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, month, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export " + a.month.Label())
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  into "+a.cfg.Export.Dir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormat(a.exportCursor))
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the selected month to the export directory.
func (a App) doExport(format exportFormat) tea.Cmd {
	reg, month, dir := a.reg, a.month, a.cfg.Export.Dir
	return func() tea.Msg {
		path, err := exportMonth(reg, month, dir, format)
		if err != nil {
			log.Printf("export %s: %v", month, err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		log.Printf("exported %s to %s", month, path)
		return exportDoneMsg{path: path}
	}
}

func exportMonth(reg *register.Register, month duty.Month, dir string, format exportFormat) (string, error) {
	ext := export.FormatCSV
	switch format {
	case formatJSON:
		ext = export.FormatJSON
	case formatPDF:
		ext = export.FormatPDF
	}
	return export.ToDir(reg.Month(month), dir, ext)
}

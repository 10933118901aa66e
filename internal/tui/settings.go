package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dutyreg/internal/config"
	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/register"
)

type setting struct {
	label string
	value string
}

type settingsModel struct {
	reg    *register.Register
	cfg    *config.Config
	width  int
	height int

	settings   []setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	exportDir  *string
	nightStart *string
	nightEnd   *string
	serveAddr  *string
}

func newSettingsModel(r *register.Register, cfg *config.Config) settingsModel {
	dir, start, end, addr := "", "", "", ""
	return settingsModel{
		reg:        r,
		cfg:        cfg,
		exportDir:  &dir,
		nightStart: &start,
		nightEnd:   &end,
		serveAddr:  &addr,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []setting
}

func (s settingsModel) refresh() tea.Cmd {
	reg, cfg := s.reg, *s.cfg
	return func() tea.Msg {
		return settingsDataMsg{settings: describe(cfg, reg)}
	}
}

func describe(cfg config.Config, reg *register.Register) []setting {
	path, err := cfg.StoragePath()
	if err != nil {
		path = err.Error()
	}
	return []setting{
		{"Config file", cfg.File},
		{"Storage backend", cfg.Storage.Backend},
		{"Storage path", path},
		{"Storage key", cfg.Storage.Key},
		{"Entries stored", fmt.Sprintf("%d", len(reg.Entries()))},
		{"Night window", reg.NightWindow().String()},
		{"Export directory", cfg.Export.Dir},
		{"Web address", cfg.Serve.Addr},
		{"Log file", cfg.Log.File},
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.exportDir = s.cfg.Export.Dir
	*s.nightStart = s.cfg.Night.Start
	*s.nightEnd = s.cfg.Night.End
	*s.serveAddr = s.cfg.Serve.Addr

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Export directory").Value(s.exportDir).
				Validate(required("export directory")),
		).Title("Export"),
		huh.NewGroup(
			huh.NewInput().Title("Night starts (HH:MM)").Value(s.nightStart).
				Validate(validClock),
			huh.NewInput().Title("Night ends (HH:MM)").Value(s.nightEnd).
				Validate(validClock),
			huh.NewInput().Title("Web address").Value(s.serveAddr).
				Validate(required("web address")),
		).Title("Applied on next start"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func required(name string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validClock(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("time is required")
	}
	return duty.ValidateClock(v)
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.saveSettings()
	}

	return s, cmd
}

// saveSettings applies the form to the shared configuration and writes it
// back to the config file. The export directory takes effect immediately.
func (s settingsModel) saveSettings() tea.Cmd {
	next := *s.cfg
	next.Export.Dir = strings.TrimSpace(*s.exportDir)
	next.Night.Start = strings.TrimSpace(*s.nightStart)
	next.Night.End = strings.TrimSpace(*s.nightEnd)
	next.Serve.Addr = strings.TrimSpace(*s.serveAddr)

	if err := next.Validate(); err != nil {
		return func() tea.Msg { return statusMsg{text: fmt.Sprintf("Settings: %v", err), isError: true} }
	}
	*s.cfg = next

	return func() tea.Msg {
		if err := config.Save(next.File, next); err != nil {
			log.Printf("save settings: %v", err)
			return statusMsg{text: fmt.Sprintf("Settings: %v", err), isError: true}
		}
		return settingsSavedMsg{path: next.File}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, st := range s.settings {
		label := lipgloss.NewStyle().Width(20).Render(st.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(st.value)))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/register"
)

var (
	dayBarStyle   = lipgloss.NewStyle().Foreground(colorSecondary)
	nightBarStyle = lipgloss.NewStyle().Foreground(colorPrimary)
)

// chartModel plots the duty hours of every day of the selected month,
// split into day and night parts.
type chartModel struct {
	reg    *register.Register
	width  int
	height int

	data duty.View
	days []duty.DaySummary

	chart barchart.Model
}

func newChartModel(r *register.Register) chartModel {
	return chartModel{
		reg:   r,
		chart: barchart.New(60, 12),
	}
}

func (c *chartModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type chartDataMsg struct {
	view duty.View
}

func (c chartModel) refresh(month duty.Month) tea.Cmd {
	reg := c.reg
	return func() tea.Msg {
		return chartDataMsg{view: reg.Month(month)}
	}
}

func (c chartModel) update(msg tea.Msg) (chartModel, tea.Cmd) {
	if msg, ok := msg.(chartDataMsg); ok {
		c.data = msg.view
		c.days = msg.view.Days()
		c.buildChart()
	}
	return c, nil
}

func (c *chartModel) buildChart() {
	chartWidth := c.width - 8
	if chartWidth < 31 {
		chartWidth = 31
	}
	chartHeight := 12
	if c.height > 30 {
		chartHeight = 16
	}

	c.chart = barchart.New(chartWidth, chartHeight)
	c.chart.PushAll(dayBars(c.days))
	c.chart.Draw()
}

// dayBars stacks the daytime part of each day's duty under its night part.
func dayBars(days []duty.DaySummary) []barchart.BarData {
	bars := make([]barchart.BarData, 0, len(days))
	for _, d := range days {
		daytime := duty.Round2(d.DutyHours - d.NightHours)
		if daytime < 0 {
			daytime = 0
		}
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("%02d", d.Day),
			Values: []barchart.BarValue{
				{Name: "Day", Value: daytime, Style: dayBarStyle},
				{Name: "Night", Value: d.NightHours, Style: nightBarStyle},
			},
		})
	}
	return bars
}

func (c chartModel) view() string {
	w := c.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Hours per day"), "  ", mutedStyle.Render(c.data.Month.Label()),
	)
	legend := fmt.Sprintf("  %s day  %s night",
		dayBarStyle.Render("█"), nightBarStyle.Render("█"))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", c.chart.View(), legend, "", c.renderDayTable(w),
			"", mutedStyle.Render("  ←/→: month  t: this month"),
		),
	)
}

func (c chartModel) renderDayTable(w int) string {
	var rows []string
	for _, d := range c.days {
		if d.Count == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("  %-10s %7s %7s %8s %7d",
			d.Date, formatHours(d.DutyHours), formatHours(d.NightHours), duty.FormatNumber(d.Km), d.Count))
	}
	if len(rows) == 0 {
		return mutedStyle.Render("  No entries")
	}

	head := []string{
		mutedStyle.Render(fmt.Sprintf("  %-10s %7s %7s %8s %7s", "Date", "Duty", "Night", "KM", "Entries")),
		mutedStyle.Render("  " + strings.Repeat("─", max(0, min(w-6, 43)))),
	}
	return strings.Join(append(head, rows...), "\n")
}

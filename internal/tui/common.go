package tui

import (
	"fmt"

	"github.com/sadopc/dutyreg/internal/duty"
)

// viewState represents the currently active view.
type viewState int

const (
	viewRegister viewState = iota
	viewChart
	viewSettings
)

var viewNames = []string{"Register", "Chart", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type entryAddedMsg struct {
	entry duty.Entry
}

type entryDeletedMsg struct {
	entry duty.Entry
}

type exportDoneMsg struct {
	path string
}

type settingsSavedMsg struct {
	path string
}

// --- Helpers ---

func formatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

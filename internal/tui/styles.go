package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title, success, pending, accent, muted, err lipgloss.Style
	selected, done, help, panel, input          lipgloss.Style

	boxChecked, boxUnchecked string
}

// newStyles mirrors the command line themes (classic, neon, mono).
func newStyles(theme string) styles {
	s := styles{
		title:   lipgloss.NewStyle().Bold(true),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		pending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		muted:   lipgloss.NewStyle().Faint(true),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		help:     lipgloss.NewStyle().Faint(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),

		boxChecked:   "☑",
		boxUnchecked: "☐",
	}

	switch strings.ToLower(theme) {
	case "neon":
		s.title = s.title.Foreground(lipgloss.Color("13"))
		s.accent = s.accent.Foreground(lipgloss.Color("14"))
		s.pending = s.pending.Foreground(lipgloss.Color("11"))
		s.panel = s.panel.BorderForeground(lipgloss.Color("13"))
		s.boxChecked, s.boxUnchecked = "◼", "◻"
	case "mono":
		plain := lipgloss.NewStyle()
		s.success, s.pending, s.accent, s.err = plain, plain, plain, plain.Bold(true)
		s.panel = s.panel.Border(lipgloss.NormalBorder()).UnsetBorderForeground()
		s.input = s.input.Border(lipgloss.NormalBorder()).UnsetBorderForeground()
		s.boxChecked, s.boxUnchecked = "[x]", "[ ]"
	}
	return s
}

package main

import "github.com/charmbracelet/lipgloss"

// Color palette shared by plan and run output.
const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorSlot    = lipgloss.Color("#3B82F6")
)

// styles groups the lipgloss styles used by the renderers. The zero value
// renders plain text.
type styles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	slot    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{title: plain, muted: plain, slot: plain, success: plain, failure: plain, warning: plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		slot:    lipgloss.NewStyle().Foreground(colorSlot),
		success: lipgloss.NewStyle().Foreground(colorSuccess),
		failure: lipgloss.NewStyle().Bold(true).Foreground(colorError),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
	}
}

// phase picks the style for a timeline phase.
func (s styles) phase(p string) lipgloss.Style {
	switch p {
	case phaseRollback, phaseAgain:
		return s.warning
	case phaseFailed:
		return s.failure
	case phaseCall:
		return s.title
	default:
		return s.muted
	}
}

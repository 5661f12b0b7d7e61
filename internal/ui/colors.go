package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Dashboard stylesheet: a blue title, green/red verdicts for recorded
// actions, amber for the daily cutoff and muted help text.
var styles = NewPalette("#2F6FED", "#2ECC71", "#E74C3C", "#F39C12", "#6C7086")

// Palette groups the named [lipgloss.Style] values the views render with.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(title, ok, err, warn, help string) *Palette {
	return &Palette{
		title: NewBold(title).MarginBottom(1),
		ok:    NewBold(ok),
		err:   NewBold(err),
		warn:  NewStyle(warn),
		help:  NewEm(help),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

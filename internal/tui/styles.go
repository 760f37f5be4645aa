package tui

import (
	"github.com/JPM1118/framegrab/internal/extract"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	colorCompleted = lipgloss.Color("2")  // green
	colorRunning   = lipgloss.Color("3")  // yellow
	colorFailed    = lipgloss.Color("1")  // red
	colorRejected  = lipgloss.Color("8")  // dim gray
	colorHeader    = lipgloss.Color("12") // bright blue
	colorMuted     = lipgloss.Color("8")  // dim
	colorCursor    = lipgloss.Color("6")  // cyan

	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	subheaderStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorCursor).
			Bold(true)

	feedStyle = lipgloss.NewStyle()

	errorLineStyle = lipgloss.NewStyle().
			Foreground(colorFailed)

	progressStyle = lipgloss.NewStyle().
			Foreground(colorRunning)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// statusStyle returns the style for a run status.
func statusStyle(status extract.Status) lipgloss.Style {
	switch status {
	case extract.StatusCompleted:
		return lipgloss.NewStyle().Foreground(colorCompleted)
	case extract.StatusReadFailed, extract.StatusWriteFailed, extract.StatusOpenFailed:
		return lipgloss.NewStyle().Foreground(colorFailed).Bold(true)
	case extract.StatusRejected:
		return lipgloss.NewStyle().Foreground(colorRejected)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}

// statusLabel returns the display text for a status, including indicators.
func statusLabel(status extract.Status) string {
	switch status {
	case extract.StatusCompleted:
		return "COMPLETED"
	case extract.StatusReadFailed:
		return "READ FAILED !"
	case extract.StatusWriteFailed:
		return "WRITE FAILED !"
	case extract.StatusOpenFailed:
		return "OPEN FAILED !"
	case extract.StatusRejected:
		return "REJECTED ?"
	default:
		return string(status)
	}
}

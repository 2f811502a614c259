// ABOUTME: Colors and lipgloss styles for the terminal client
// ABOUTME: One palette shared by the view, the result table and panels

package terminal

import "github.com/charmbracelet/lipgloss"

var (
	panelBorder   = lipgloss.Color("#2D6A80")
	accentPrimary = lipgloss.Color("#50E3C2")
	accentWarm    = lipgloss.Color("#F6AE2D")
	mutedText     = lipgloss.Color("#8CA1AE")
	warningText   = lipgloss.Color("#FF6B6B")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentPrimary)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentWarm).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	numberCellStyle = cellStyle.Align(lipgloss.Right)

	tableBorderStyle = lipgloss.NewStyle().Foreground(panelBorder)

	noticePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warningText).
			Padding(0, 1)

	messagePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentWarm).
			Padding(0, 1)

	errorRowStyle = lipgloss.NewStyle().
			Foreground(warningText).
			Border(lipgloss.NormalBorder()).
			BorderForeground(panelBorder).
			Padding(0, 2)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedText)
)

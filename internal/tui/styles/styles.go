// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and text styles used across screens

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray

	// Colors - Extended palette
	Accent = lipgloss.Color("#8B5CF6") // Lighter purple for highlights

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Status indicators
	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// List rows
	Selected = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Dim = lipgloss.NewStyle().
		Foreground(Muted)

	// Reply rows are indented one level under their top-level comment
	Reply = lipgloss.NewStyle().
		PaddingLeft(4)

	ErrorText = lipgloss.NewStyle().
			Foreground(Danger)
)

// Cursor returns the row marker for list views
func Cursor(selected bool) string {
	if selected {
		return Selected.Render("▸ ")
	}
	return "  "
}

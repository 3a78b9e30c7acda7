// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Colored inline badges for roles, unread counts and ticket states

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func colors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := colors(level)

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := colors(level)
	style := lipgloss.NewStyle().Foreground(bg)

	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	case StatusInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	color, _ := colors(level)
	textStyle := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}

// RoleBadge renders a role name without its ROLE_ prefix. ADMIN stands out.
func RoleBadge(role string) string {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_")
	if name == "ADMIN" {
		return Badge(icons.Admin.String()+" "+name, StatusCritical)
	}
	return Badge(name, StatusNeutral)
}

// UnreadBadge renders the unread notification count, or nothing when zero
func UnreadBadge(count int64) string {
	if count <= 0 {
		return ""
	}
	text := fmt.Sprintf("%s %d", icons.Bell.String(), count)
	if count > 99 {
		text = icons.Bell.String() + " 99+"
	}
	return Badge(text, StatusWarning)
}

// TicketStatusLevel maps a ticket or payment status to a badge level
func TicketStatusLevel(status string) StatusLevel {
	switch strings.ToUpper(status) {
	case "PAID", "COMPLETED", "CONFIRMED", "SUCCESS":
		return StatusOK
	case "PENDING", "READY", "RESERVED":
		return StatusWarning
	case "CANCELLED", "CANCELED", "FAILED", "REFUNDED":
		return StatusCritical
	default:
		return StatusNeutral
	}
}

// TicketStatusBadge renders a ticket or payment status with its icon
func TicketStatusBadge(status string) string {
	if status == "" {
		status = "UNKNOWN"
	}
	level := TicketStatusLevel(status)
	return StatusIcon(level) + " " + Badge(strings.ToUpper(status), level)
}

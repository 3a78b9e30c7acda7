// ABOUTME: Tests for badge widgets
// ABOUTME: Checks role, unread and ticket status rendering

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
)

func TestRoleBadgeStripsPrefix(t *testing.T) {
	got := RoleBadge("ROLE_ADMIN")
	if !strings.Contains(got, "ADMIN") || strings.Contains(got, "ROLE_") {
		t.Errorf("expected bare ADMIN, got %q", got)
	}
}

func TestRoleBadgeMarksAdmin(t *testing.T) {
	if got := RoleBadge("ADMIN"); !strings.Contains(got, icons.Admin.String()) {
		t.Errorf("expected admin icon, got %q", got)
	}
	if got := RoleBadge("ROLE_USER"); strings.Contains(got, icons.Admin.String()) {
		t.Errorf("expected no admin icon for USER, got %q", got)
	}
}

func TestUnreadBadge(t *testing.T) {
	if got := UnreadBadge(0); got != "" {
		t.Errorf("expected empty badge for zero, got %q", got)
	}
	if got := UnreadBadge(3); !strings.Contains(got, "3") {
		t.Errorf("expected count in badge, got %q", got)
	}
	if got := UnreadBadge(150); !strings.Contains(got, "99+") {
		t.Errorf("expected capped count, got %q", got)
	}
}

func TestTicketStatusLevel(t *testing.T) {
	tests := []struct {
		status string
		want   StatusLevel
	}{
		{"PAID", StatusOK},
		{"paid", StatusOK},
		{"PENDING", StatusWarning},
		{"CANCELLED", StatusCritical},
		{"something", StatusNeutral},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			if got := TicketStatusLevel(tc.status); got != tc.want {
				t.Errorf("TicketStatusLevel(%q) = %d, want %d", tc.status, got, tc.want)
			}
		})
	}
}

func TestBadgePadding(t *testing.T) {
	got := Badge("OK", StatusOK)
	if w := lipgloss.Width(got); w != 4 {
		t.Errorf("expected width 4 (text plus padding), got %d", w)
	}
}

func TestStatusTextIncludesText(t *testing.T) {
	got := StatusText("Connected", StatusOK)
	if !strings.Contains(got, "Connected") {
		t.Errorf("expected text in output, got %q", got)
	}
}

func TestTicketStatusBadge(t *testing.T) {
	got := TicketStatusBadge("paid")
	if !strings.Contains(got, "PAID") || !strings.Contains(got, icons.CheckOK.String()) {
		t.Errorf("expected PAID with check icon, got %q", got)
	}
	if got := TicketStatusBadge(""); !strings.Contains(got, "UNKNOWN") {
		t.Errorf("expected UNKNOWN for empty status, got %q", got)
	}
	if got := TicketStatusBadge("FAILED"); !strings.Contains(got, icons.Critical.String()) {
		t.Errorf("expected critical icon, got %q", got)
	}
}

// ABOUTME: Status command for the rev CLI
// ABOUTME: Checks backend connectivity and summarizes the current session

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend connectivity and session",
	Long:  `Check connectivity to the RE-V backend and show who is logged in and how many notifications are unread.`,
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runStatus(ctx, w)
	}),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusOutput is the JSON shape of status
type statusOutput struct {
	Backend   string   `json:"backend"`
	Reachable bool     `json:"reachable"`
	LoggedIn  bool     `json:"logged_in"`
	Username  string   `json:"username,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Unread    *int64   `json:"unread,omitempty"`
	Boards    int      `json:"boards"`
}

// runStatus checks the backend and the stored session. It returns 2 when
// the backend cannot be reached.
func runStatus(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		out := statusOutput{Backend: env.cfg.APIURL}

		boards, err := env.api.ListBoards(ctx)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
		out.Reachable = true
		out.Boards = len(boards)

		snap := env.session.Initialize(ctx)
		if snap.IsAuthenticated {
			out.LoggedIn = true
			out.Username = snap.User.Username
			out.Roles = snap.User.Roles
			if unread, err := env.api.UnreadNotificationCount(ctx); err == nil {
				out.Unread = &unread
			}
		}

		printOutput(w, out, func() string { return formatStatusHuman(out) })
		return exitOK
	})
}

// formatStatusHuman formats status for human readability
func formatStatusHuman(out statusOutput) string {
	session := "not logged in"
	if out.LoggedIn {
		session = out.Username
		if len(out.Roles) > 0 {
			session += " (" + strings.Join(out.Roles, ", ") + ")"
		}
	}
	text := fmt.Sprintf(`Backend:  %s
Boards:   %d
Session:  %s`, out.Backend, out.Boards, session)
	if out.Unread != nil {
		text += fmt.Sprintf("\nUnread:   %d", *out.Unread)
	}
	return text
}

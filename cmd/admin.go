// ABOUTME: Administrator commands and board requests
// ABOUTME: Admin commands check the ADMIN role before calling the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/pages"
)

var (
	requestStatus      string
	rejectReason       string
	requestName        string
	requestDescription string
	requestReason      string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration (requires the ADMIN role)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runAdminUsers(ctx, w, currentPageQuery())
	}),
}

var adminSetRoleCmd = &cobra.Command{
	Use:   "set-role <user-id> <role>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runAdminSetRole(ctx, w, args[0], args[1])
	}),
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user <user-id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runAdminDeleteUser(ctx, w, args[0])
	}),
}

var adminBoardRequestsCmd = &cobra.Command{
	Use:   "board-requests",
	Short: "List board creation requests",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runAdminBoardRequests(ctx, w, requestStatus, currentPageQuery())
	}),
}

var adminApproveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve a board request",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runAdminDecide(ctx, w, args[0], true, "")
	}),
}

var adminRejectCmd = &cobra.Command{
	Use:   "reject <request-id>",
	Short: "Reject a board request",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runAdminDecide(ctx, w, args[0], false, rejectReason)
	}),
}

var adminCrawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Import performances from external sources",
	Long: `Trigger the backend's performance crawl.

The call is bounded by REV_CRAWL_TIMEOUT; a timeout does not cancel the
crawl on the backend.`,
	Args: cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runAdminCrawl(ctx, w)
	}),
}

var boardRequestsCmd = &cobra.Command{
	Use:   "board-requests",
	Short: "Ask administrators for a new board",
}

var boardRequestsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Request a new board",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runBoardRequestCreate(ctx, w, client.BoardRequestInput{
			Name:        requestName,
			Description: requestDescription,
			Reason:      requestReason,
		})
	}),
}

func init() {
	addPageFlags(adminUsersCmd)
	addPageFlags(adminBoardRequestsCmd)
	adminBoardRequestsCmd.Flags().StringVar(&requestStatus, "status", "", "PENDING, APPROVED or REJECTED")
	adminRejectCmd.Flags().StringVar(&rejectReason, "reason", "", "Reason shown to the requester")
	addYesFlag(adminDeleteUserCmd)

	boardRequestsCreateCmd.Flags().StringVar(&requestName, "name", "", "Board name")
	boardRequestsCreateCmd.Flags().StringVar(&requestDescription, "description", "", "Board description")
	boardRequestsCreateCmd.Flags().StringVar(&requestReason, "reason", "", "Why the board is needed")

	adminCmd.AddCommand(adminUsersCmd, adminSetRoleCmd, adminDeleteUserCmd,
		adminBoardRequestsCmd, adminApproveCmd, adminRejectCmd, adminCrawlCmd)
	boardRequestsCmd.AddCommand(boardRequestsCreateCmd)
	rootCmd.AddCommand(adminCmd, boardRequestsCmd)
}

// runAdminUsers lists users
func runAdminUsers(ctx context.Context, w io.Writer, q client.PageQuery) int {
	return withEnv(w, func(env *appEnv) int {
		if code := env.requireAdmin(ctx, w); code != exitOK {
			return code
		}
		page, err := env.api.ListUsers(ctx, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, page, func() string {
			if len(page.Content) == 0 {
				return "No users."
			}
			rows := make([][]string, 0, len(page.Content))
			for _, u := range page.Content {
				rows = append(rows, []string{u.UserID, u.Username, u.Email, strings.Join(u.Roles, ","), relTime(u.CreatedAt)})
			}
			return renderTable([]string{"ID", "Username", "Email", "Roles", "Joined"}, rows) + "\n" + pageFooter(page)
		})
		return exitOK
	})
}

// runAdminSetRole changes a user's role
func runAdminSetRole(ctx context.Context, w io.Writer, userID, role string) int {
	return withEnv(w, func(env *appEnv) int {
		if code := env.requireAdmin(ctx, w); code != exitOK {
			return code
		}
		user, err := env.api.UpdateUserRole(ctx, userID, strings.ToUpper(role))
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, user, func() string {
			return fmt.Sprintf("%s now has roles: %s", user.Username, strings.Join(user.Roles, ", "))
		})
		return exitOK
	})
}

// runAdminDeleteUser deletes a user after confirmation
func runAdminDeleteUser(ctx context.Context, w io.Writer, userID string) int {
	return withEnv(w, func(env *appEnv) int {
		if code := env.requireAdmin(ctx, w); code != exitOK {
			return code
		}
		if !confirmed(fmt.Sprintf("Delete user %s?", userID)) {
			fmt.Fprintln(w, "Aborted")
			return exitFailed
		}
		if err := env.api.DeleteUser(ctx, userID); err != nil {
			return env.fail(w, err)
		}
		fmt.Fprintf(w, "Deleted user %s\n", userID)
		return exitOK
	})
}

// runAdminBoardRequests lists board requests, optionally by status
func runAdminBoardRequests(ctx context.Context, w io.Writer, status string, q client.PageQuery) int {
	return withEnv(w, func(env *appEnv) int {
		if code := env.requireAdmin(ctx, w); code != exitOK {
			return code
		}
		page, err := env.api.ListBoardRequests(ctx, strings.ToUpper(status), q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, page, func() string {
			if len(page.Content) == 0 {
				return "No board requests."
			}
			rows := make([][]string, 0, len(page.Content))
			for _, r := range page.Content {
				rows = append(rows, []string{r.ID, r.Name, r.Status, truncate(r.Reason, 40), relTime(r.CreatedAt)})
			}
			return renderTable([]string{"ID", "Name", "Status", "Reason", "Requested"}, rows) + "\n" + pageFooter(page)
		})
		return exitOK
	})
}

// runAdminDecide approves or rejects a board request
func runAdminDecide(ctx context.Context, w io.Writer, id string, approve bool, reason string) int {
	return withEnv(w, func(env *appEnv) int {
		if code := env.requireAdmin(ctx, w); code != exitOK {
			return code
		}
		var (
			req *client.BoardRequest
			err error
		)
		if approve {
			req, err = env.api.ApproveBoardRequest(ctx, id)
		} else {
			req, err = env.api.RejectBoardRequest(ctx, id, reason)
		}
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, req, func() string { return fmt.Sprintf("Board request %s is now %s", req.ID, req.Status) })
		return exitOK
	})
}

// runAdminCrawl triggers the performance crawl under its own deadline
func runAdminCrawl(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		if code := env.requireAdmin(ctx, w); code != exitOK {
			return code
		}
		fmt.Fprintf(w, "Crawling performances (timeout %s)...\n", env.cfg.CrawlDeadline())
		res, err := pages.TriggerCrawl(ctx, env.api, env.cfg.CrawlDeadline())
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, res, func() string {
			text := fmt.Sprintf("Created: %d\nUpdated: %d", res.Created, res.Updated)
			if res.Message != "" {
				text += "\n" + res.Message
			}
			return text
		})
		return exitOK
	})
}

// runBoardRequestCreate submits a board request
func runBoardRequestCreate(ctx context.Context, w io.Writer, in client.BoardRequestInput) int {
	if strings.TrimSpace(in.Name) == "" {
		fmt.Fprintln(w, "Error: --name is required")
		return exitError
	}
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		req, err := env.api.CreateBoardRequest(ctx, in)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, req, func() string { return fmt.Sprintf("Submitted board request %s [%s]", req.ID, req.Status) })
		return exitOK
	})
}

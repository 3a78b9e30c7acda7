// ABOUTME: Notification and personal activity commands
// ABOUTME: Every command here needs a logged-in session

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

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"inbox"},
	Short:   "Read notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications with the unread count",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runNotificationsList(ctx, w, currentPageQuery())
	}),
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runNotificationRead(ctx, w, args[0])
	}),
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runNotificationReadAll(ctx, w)
	}),
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Your threads, comments and bookmarks",
}

var activityOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summary with recent bookmarks and comments",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runActivityOverview(ctx, w, currentPageQuery())
	}),
}

var activityBookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Threads you bookmarked",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runActivityBookmarks(ctx, w, currentPageQuery())
	}),
}

var activityCommentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Comments you wrote",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runActivityComments(ctx, w, currentPageQuery())
	}),
}

func init() {
	for _, c := range []*cobra.Command{notificationsListCmd, activityOverviewCmd, activityBookmarksCmd, activityCommentsCmd} {
		addPageFlags(c)
	}

	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd, notificationsReadAllCmd)
	activityCmd.AddCommand(activityOverviewCmd, activityBookmarksCmd, activityCommentsCmd)
	rootCmd.AddCommand(notificationsCmd, activityCmd)
}

// runNotificationsList shows one page of notifications
func runNotificationsList(ctx context.Context, w io.Writer, q client.PageQuery) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		view, err := pages.InboxPage(ctx, env.api, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, view, func() string { return formatInbox(view) })
		return exitOK
	})
}

func formatInbox(view *pages.InboxView) string {
	header := fmt.Sprintf("%d unread", view.Unread)
	if view.Notifications == nil || len(view.Notifications.Content) == 0 {
		return header + "\nNo notifications."
	}
	rows := make([][]string, 0, len(view.Notifications.Content))
	for _, n := range view.Notifications.Content {
		mark := " "
		if !n.Read {
			mark = "•"
		}
		rows = append(rows, []string{mark, n.ID, n.Type, n.Message, relTime(n.CreatedAt)})
	}
	return header + "\n" + renderTable([]string{"", "ID", "Type", "Message", "When"}, rows) + "\n" + pageFooter(view.Notifications)
}

// runNotificationRead marks one notification read
func runNotificationRead(ctx context.Context, w io.Writer, id string) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		if err := env.api.MarkNotificationRead(ctx, id); err != nil {
			return env.fail(w, err)
		}
		fmt.Fprintf(w, "Marked %s as read\n", id)
		return exitOK
	})
}

// runNotificationReadAll marks the whole inbox read
func runNotificationReadAll(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		if err := env.api.MarkAllNotificationsRead(ctx); err != nil {
			return env.fail(w, err)
		}
		fmt.Fprintln(w, "All notifications marked as read")
		return exitOK
	})
}

// runActivityOverview loads the overview and both activity lists together
func runActivityOverview(ctx context.Context, w io.Writer, q client.PageQuery) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		view, err := pages.ActivityPage(ctx, env.api, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, view, func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "Threads:    %d\nComments:   %d\nBookmarks:  %d\n",
				view.Overview.ThreadCount, view.Overview.CommentCount, view.Overview.BookmarkCount)
			b.WriteString("\nBookmarked threads\n")
			b.WriteString(formatThreads(view.Bookmarks))
			b.WriteString("\n\nRecent comments\n")
			b.WriteString(formatMyComments(view.Comments))
			return b.String()
		})
		return exitOK
	})
}

// runActivityBookmarks lists bookmarked threads
func runActivityBookmarks(ctx context.Context, w io.Writer, q client.PageQuery) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		page, err := env.api.MyBookmarks(ctx, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, page, func() string { return formatThreads(page) })
		return exitOK
	})
}

// runActivityComments lists the viewer's comments
func runActivityComments(ctx context.Context, w io.Writer, q client.PageQuery) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		page, err := env.api.MyComments(ctx, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, page, func() string { return formatMyComments(page) })
		return exitOK
	})
}

func formatMyComments(page *client.Page[client.Comment]) string {
	if page == nil || len(page.Content) == 0 {
		return "No comments."
	}
	rows := make([][]string, 0, len(page.Content))
	for _, c := range page.Content {
		rows = append(rows, []string{c.ID, c.ThreadID, truncate(c.Content, 50), relTime(c.CreatedAt)})
	}
	return renderTable([]string{"ID", "Thread", "Comment", "When"}, rows) + "\n" + pageFooter(page)
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

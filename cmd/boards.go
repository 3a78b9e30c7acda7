// ABOUTME: Board and thread commands
// ABOUTME: Listing and reading are public; writes require a logged-in session

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/pages"
)

var (
	pageNum   int
	pageSize  int
	assumeYes bool

	threadTag     string
	threadSearch  string
	threadTitle   string
	threadContent string
	threadTags    []string

	boardName        string
	boardDescription string
	boardSlug        string
	boardIdol        string
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "Browse and manage boards",
}

var boardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boards",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runBoardsList(ctx, w)
	}),
}

var boardsShowCmd = &cobra.Command{
	Use:   "show <board-id>",
	Short: "Show a board and a page of its threads",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runBoardShow(ctx, w, args[0], currentThreadQuery())
	}),
}

var boardsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a board (ADMIN)",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runBoardCreate(ctx, w, client.BoardInput{
			Name:        boardName,
			Description: boardDescription,
			Slug:        boardSlug,
			IdolID:      boardIdol,
		})
	}),
}

var boardsDeleteCmd = &cobra.Command{
	Use:   "delete <board-id>",
	Short: "Delete a board (ADMIN)",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runBoardDelete(ctx, w, args[0])
	}),
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Browse and write threads",
}

var threadsListCmd = &cobra.Command{
	Use:   "list <board-id>",
	Short: "List a board's threads",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runThreadsList(ctx, w, args[0], currentThreadQuery())
	}),
}

var threadsShowCmd = &cobra.Command{
	Use:   "show <thread-id>",
	Short: "Show a thread with its comments",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runThreadShow(ctx, w, args[0])
	}),
}

var threadsCreateCmd = &cobra.Command{
	Use:   "create <board-id>",
	Short: "Start a thread on a board",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runThreadCreate(ctx, w, args[0], client.ThreadInput{
			Title:   threadTitle,
			Content: threadContent,
			Tags:    threadTags,
		})
	}),
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete <thread-id>",
	Short: "Delete a thread",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runThreadDelete(ctx, w, args[0])
	}),
}

func init() {
	for _, c := range []*cobra.Command{boardsShowCmd, threadsListCmd} {
		addPageFlags(c)
		c.Flags().StringVar(&threadTag, "tag", "", "Only threads with this tag")
		c.Flags().StringVar(&threadSearch, "search", "", "Search titles and content")
	}

	boardsCreateCmd.Flags().StringVar(&boardName, "name", "", "Board name")
	boardsCreateCmd.Flags().StringVar(&boardDescription, "description", "", "Board description")
	boardsCreateCmd.Flags().StringVar(&boardSlug, "slug", "", "URL slug")
	boardsCreateCmd.Flags().StringVar(&boardIdol, "idol", "", "Idol ID the board belongs to")

	threadsCreateCmd.Flags().StringVar(&threadTitle, "title", "", "Thread title")
	threadsCreateCmd.Flags().StringVar(&threadContent, "content", "", "Thread body")
	threadsCreateCmd.Flags().StringSliceVar(&threadTags, "tags", nil, "Comma-separated tags")

	for _, c := range []*cobra.Command{boardsDeleteCmd, threadsDeleteCmd} {
		addYesFlag(c)
	}

	boardsCmd.AddCommand(boardsListCmd, boardsShowCmd, boardsCreateCmd, boardsDeleteCmd)
	threadsCmd.AddCommand(threadsListCmd, threadsShowCmd, threadsCreateCmd, threadsDeleteCmd)
	rootCmd.AddCommand(boardsCmd, threadsCmd)
}

func addPageFlags(c *cobra.Command) {
	c.Flags().IntVar(&pageNum, "page", 1, "Page number (1-based)")
	c.Flags().IntVar(&pageSize, "size", 20, "Items per page")
}

func addYesFlag(c *cobra.Command) {
	c.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

// currentPageQuery converts the 1-based --page flag to the backend's 0-based page
func currentPageQuery() client.PageQuery {
	page := pageNum - 1
	if page < 0 {
		page = 0
	}
	return client.PageQuery{Page: page, Size: pageSize}
}

func currentThreadQuery() client.ThreadQuery {
	return client.ThreadQuery{PageQuery: currentPageQuery(), Tag: threadTag, Search: threadSearch}
}

// confirmed returns true when --yes was given or the user agrees
func confirmed(title string) bool {
	return assumeYes || confirm(title)
}

// runBoardsList lists every board
func runBoardsList(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		boards, err := env.api.ListBoards(ctx)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, boards, func() string { return formatBoards(boards) })
		return exitOK
	})
}

func formatBoards(boards []client.Board) string {
	if len(boards) == 0 {
		return "No boards."
	}
	rows := make([][]string, 0, len(boards))
	for _, b := range boards {
		rows = append(rows, []string{b.ID, b.Name, strconv.FormatInt(b.ThreadCount, 10), b.Description})
	}
	return renderTable([]string{"ID", "Name", "Threads", "Description"}, rows)
}

// runBoardShow loads board metadata and threads together
func runBoardShow(ctx context.Context, w io.Writer, boardID string, q client.ThreadQuery) int {
	return withEnv(w, func(env *appEnv) int {
		view, err := pages.BoardPage(ctx, env.api, boardID, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, view, func() string {
			header := view.Board.Name
			if view.Board.Description != "" {
				header += "\n" + view.Board.Description
			}
			return header + "\n\n" + formatThreads(view.Threads)
		})
		return exitOK
	})
}

// runThreadsList lists one page of a board's threads
func runThreadsList(ctx context.Context, w io.Writer, boardID string, q client.ThreadQuery) int {
	return withEnv(w, func(env *appEnv) int {
		page, err := env.api.ListThreads(ctx, boardID, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, page, func() string { return formatThreads(page) })
		return exitOK
	})
}

func formatThreads(page *client.Page[client.Thread]) string {
	if page == nil || len(page.Content) == 0 {
		return "No threads."
	}
	rows := make([][]string, 0, len(page.Content))
	for _, t := range page.Content {
		rows = append(rows, []string{
			t.ID,
			t.Title,
			t.AuthorName,
			strconv.FormatInt(t.CommentCount, 10),
			fmt.Sprintf("+%d/-%d", t.LikeCount, t.DislikeCount),
			relTime(t.CreatedAt),
		})
	}
	return renderTable([]string{"ID", "Title", "Author", "Comments", "Votes", "Posted"}, rows) + "\n" + pageFooter(page)
}

// runThreadShow loads a thread, its comments and bookmark count
func runThreadShow(ctx context.Context, w io.Writer, threadID string) int {
	return withEnv(w, func(env *appEnv) int {
		view, err := pages.ThreadPage(ctx, env.api, threadID)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, view, func() string { return formatThreadView(view) })
		return exitOK
	})
}

func formatThreadView(view *pages.ThreadView) string {
	t := view.Thread
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", t.Title)
	fmt.Fprintf(&b, "by %s, %s · %d views · +%d/-%d · %d bookmarks\n",
		orDash(t.AuthorName), relTime(t.CreatedAt), t.ViewCount, t.LikeCount, t.DislikeCount, view.Bookmarks)
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n\n", t.Content)
	fmt.Fprintf(&b, "Comments (%d)\n", view.Tree.Len())
	b.WriteString(renderCommentTree(view.Tree))
	return b.String()
}

// runThreadCreate posts a new thread
func runThreadCreate(ctx context.Context, w io.Writer, boardID string, in client.ThreadInput) int {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		fmt.Fprintln(w, "Error: --title and --content are required")
		return exitError
	}
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		thread, err := env.api.CreateThread(ctx, boardID, in)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, thread, func() string { return fmt.Sprintf("Created thread %s: %s", thread.ID, thread.Title) })
		return exitOK
	})
}

// runThreadDelete removes a thread after confirmation
func runThreadDelete(ctx context.Context, w io.Writer, threadID string) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		if !confirmed(fmt.Sprintf("Delete thread %s?", threadID)) {
			fmt.Fprintln(w, "Aborted")
			return exitFailed
		}
		if err := env.api.DeleteThread(ctx, threadID); err != nil {
			return env.fail(w, err)
		}
		fmt.Fprintf(w, "Deleted thread %s\n", threadID)
		return exitOK
	})
}

// runBoardCreate creates a board; admin only
func runBoardCreate(ctx context.Context, w io.Writer, in client.BoardInput) int {
	if strings.TrimSpace(in.Name) == "" {
		fmt.Fprintln(w, "Error: --name is required")
		return exitError
	}
	return withEnv(w, func(env *appEnv) int {
		if code := env.requireAdmin(ctx, w); code != exitOK {
			return code
		}
		board, err := env.api.CreateBoard(ctx, in)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, board, func() string { return fmt.Sprintf("Created board %s: %s", board.ID, board.Name) })
		return exitOK
	})
}

// runBoardDelete deletes a board; admin only
func runBoardDelete(ctx context.Context, w io.Writer, boardID string) int {
	return withEnv(w, func(env *appEnv) int {
		if code := env.requireAdmin(ctx, w); code != exitOK {
			return code
		}
		if !confirmed(fmt.Sprintf("Delete board %s and all its threads?", boardID)) {
			fmt.Fprintln(w, "Aborted")
			return exitFailed
		}
		if err := env.api.DeleteBoard(ctx, boardID); err != nil {
			return env.fail(w, err)
		}
		fmt.Fprintf(w, "Deleted board %s\n", boardID)
		return exitOK
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

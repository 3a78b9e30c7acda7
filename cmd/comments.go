// ABOUTME: Comment, reaction and bookmark commands
// ABOUTME: Replies and deletions go through the comment tree presenter

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/commenttree"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Read and write thread comments",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <thread-id>",
	Short: "Show a thread's comments as a tree",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runCommentsList(ctx, w, args[0])
	}),
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <thread-id> <text...>",
	Short: "Add a top-level comment",
	Args:  cobra.MinimumNArgs(2),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runCommentAdd(ctx, w, args[0], strings.Join(args[1:], " "))
	}),
}

var commentsReplyCmd = &cobra.Command{
	Use:   "reply <thread-id> <comment-id> <text...>",
	Short: "Reply to a comment",
	Args:  cobra.MinimumNArgs(3),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runCommentReply(ctx, w, args[0], args[1], strings.Join(args[2:], " "))
	}),
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment (ADMIN)",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runCommentDelete(ctx, w, args[0])
	}),
}

var reactCmd = &cobra.Command{
	Use:       "react <thread-id> <like|dislike>",
	Short:     "Toggle a like or dislike on a thread",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"like", "dislike"},
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runReact(ctx, w, args[0], args[1])
	}),
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Bookmark threads",
}

var bookmarkToggleCmd = &cobra.Command{
	Use:   "toggle <thread-id>",
	Short: "Add or remove a bookmark",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runBookmarkToggle(ctx, w, args[0])
	}),
}

var bookmarkCountCmd = &cobra.Command{
	Use:   "count <thread-id>",
	Short: "Show how many users bookmarked a thread",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runBookmarkCount(ctx, w, args[0])
	}),
}

func init() {
	addYesFlag(commentsDeleteCmd)

	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsReplyCmd, commentsDeleteCmd)
	bookmarkCmd.AddCommand(bookmarkToggleCmd, bookmarkCountCmd)
	rootCmd.AddCommand(commentsCmd, reactCmd, bookmarkCmd)
}

// runCommentsList prints the grouped comment tree
func runCommentsList(ctx context.Context, w io.Writer, threadID string) int {
	return withEnv(w, func(env *appEnv) int {
		comments, err := env.api.ListComments(ctx, threadID)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, comments, func() string {
			return renderCommentTree(commenttree.Group(comments))
		})
		return exitOK
	})
}

// runCommentAdd posts a top-level comment
func runCommentAdd(ctx context.Context, w io.Writer, threadID, text string) int {
	content := strings.TrimSpace(text)
	if content == "" {
		fmt.Fprintln(w, "Error: comment is empty")
		return exitError
	}
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		c, err := env.api.CreateComment(ctx, threadID, client.CommentInput{Content: content})
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, c, func() string { return fmt.Sprintf("Added comment %s", c.ID) })
		return exitOK
	})
}

// runCommentReply submits a reply through the presenter
func runCommentReply(ctx context.Context, w io.Writer, threadID, parentID, text string) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}

		var created *client.Comment
		presenter := commenttree.NewPresenter(func(ctx context.Context, parentID, content string) error {
			c, err := env.api.CreateComment(ctx, threadID, client.CommentInput{Content: content, ParentID: &parentID})
			created = c
			return err
		})
		presenter.ToggleReply(parentID)
		presenter.SetDraft(parentID, text)

		if err := presenter.Submit(ctx, parentID); err != nil {
			if errors.Is(err, commenttree.ErrEmptyReply) {
				fmt.Fprintln(w, "Error: reply is empty")
				return exitError
			}
			return env.fail(w, err)
		}
		printOutput(w, created, func() string { return fmt.Sprintf("Replied to %s with comment %s", parentID, created.ID) })
		return exitOK
	})
}

// runCommentDelete removes a comment; the presenter enforces the ADMIN role
func runCommentDelete(ctx context.Context, w io.Writer, commentID string) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		snap := env.session.Initialize(ctx)
		if !snap.IsAuthenticated {
			fmt.Fprintln(w, "Error: session expired. Run 'rev login' first.")
			return exitLoginRequired
		}

		presenter := commenttree.NewPresenter(nil,
			commenttree.WithModerator(snap.User.IsAdmin()),
			commenttree.WithDeleter(env.api.DeleteComment),
			commenttree.WithConfirm(func(id string) bool {
				return confirmed(fmt.Sprintf("Delete comment %s?", id))
			}),
		)

		deleted, err := presenter.Delete(ctx, commentID)
		switch {
		case errors.Is(err, commenttree.ErrNotPermitted):
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		case err != nil:
			return env.fail(w, err)
		case !deleted:
			fmt.Fprintln(w, "Aborted")
			return exitFailed
		}
		fmt.Fprintf(w, "Deleted comment %s\n", commentID)
		return exitOK
	})
}

// runReact toggles a reaction on a thread
func runReact(ctx context.Context, w io.Writer, threadID, reaction string) int {
	kind := client.ReactionType(strings.ToUpper(reaction))
	if kind != client.ReactionLike && kind != client.ReactionDislike {
		fmt.Fprintf(w, "Error: reaction must be like or dislike, got %q\n", reaction)
		return exitError
	}
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		state, err := env.api.ToggleReaction(ctx, threadID, kind)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, state, func() string {
			mine := "none"
			if state.MyReaction != "" {
				mine = strings.ToLower(string(state.MyReaction))
			}
			return fmt.Sprintf("Likes: %d  Dislikes: %d  Yours: %s", state.LikeCount, state.DislikeCount, mine)
		})
		return exitOK
	})
}

// runBookmarkToggle flips the viewer's bookmark on a thread
func runBookmarkToggle(ctx context.Context, w io.Writer, threadID string) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		state, err := env.api.ToggleBookmark(ctx, threadID)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, state, func() string {
			if state.Bookmarked {
				return fmt.Sprintf("Bookmarked (%d total)", state.Count)
			}
			return fmt.Sprintf("Bookmark removed (%d total)", state.Count)
		})
		return exitOK
	})
}

// runBookmarkCount prints a thread's bookmark total
func runBookmarkCount(ctx context.Context, w io.Writer, threadID string) int {
	return withEnv(w, func(env *appEnv) int {
		count, err := env.api.BookmarkCount(ctx, threadID)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, map[string]int64{"count": count}, func() string {
			return fmt.Sprintf("%d bookmarks", count)
		})
		return exitOK
	})
}

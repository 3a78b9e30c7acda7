// ABOUTME: Human-readable formatting shared by commands
// ABOUTME: Tables, relative times, prices and the two-level comment tree

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/commenttree"
)

// renderTable draws rows under headers with a plain border
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

// relTime renders a timestamp as "3 hours ago"; zero is "-"
func relTime(ts client.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.Time(ts.Time)
}

// absTime renders a timestamp in local time; zero is "-"
func absTime(ts client.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

// won formats an amount in Korean won
func won(amount int64) string {
	return humanize.Comma(amount) + "원"
}

// pageFooter summarizes a page position
func pageFooter[T any](p *client.Page[T]) string {
	if p == nil {
		return ""
	}
	pages := p.TotalPages
	if pages == 0 {
		pages = 1
	}
	return fmt.Sprintf("Page %d/%d (%s total)", p.Number+1, pages, humanize.Comma(p.TotalElements))
}

// renderCommentTree prints top-level comments with their replies indented.
// Replies that cannot be placed are listed under a separate heading.
func renderCommentTree(tree *commenttree.Tree) string {
	if tree.Len() == 0 {
		return "No comments yet."
	}

	var b strings.Builder
	for _, c := range tree.TopLevel() {
		writeComment(&b, "", c)
		for _, r := range tree.RepliesOf(c.ID) {
			prefix := "  ↳ "
			if parent, ok := tree.InReplyTo(r); ok {
				prefix = fmt.Sprintf("  ↳ @%s ", authorOf(parent))
			}
			writeComment(&b, prefix, r)
		}
	}

	if orphans := tree.Orphans(); len(orphans) > 0 {
		b.WriteString("\nDetached replies:\n")
		for _, c := range orphans {
			writeComment(&b, "  ? ", c)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeComment(b *strings.Builder, prefix string, c client.Comment) {
	fmt.Fprintf(b, "%s[%s] %s (%s)\n", prefix, c.ID, authorOf(c), relTime(c.CreatedAt))
	indent := strings.Repeat(" ", len([]rune(prefix))+2)
	for _, line := range strings.Split(c.Content, "\n") {
		fmt.Fprintf(b, "%s%s\n", indent, line)
	}
}

func authorOf(c client.Comment) string {
	if c.AuthorName != "" {
		return c.AuthorName
	}
	if c.AuthorID != "" {
		return c.AuthorID
	}
	return "anonymous"
}

// untilOrAgo renders an expiry relative to now
func untilOrAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

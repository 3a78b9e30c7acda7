// ABOUTME: Page controllers that load everything one screen needs
// ABOUTME: Independent backend calls run concurrently and join before the view is built

package pages

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/commenttree"
)

// BoardAPI is what the board page reads
type BoardAPI interface {
	GetBoard(ctx context.Context, id string) (*client.Board, error)
	ListThreads(ctx context.Context, boardID string, q client.ThreadQuery) (*client.Page[client.Thread], error)
}

// ThreadAPI is what the thread page reads
type ThreadAPI interface {
	GetThread(ctx context.Context, id string) (*client.Thread, error)
	ListComments(ctx context.Context, threadID string) ([]client.Comment, error)
	BookmarkCount(ctx context.Context, threadID string) (int64, error)
}

// ActivityAPI is what the activity page reads
type ActivityAPI interface {
	MyOverview(ctx context.Context) (*client.ActivityOverview, error)
	MyBookmarks(ctx context.Context, q client.PageQuery) (*client.Page[client.Thread], error)
	MyComments(ctx context.Context, q client.PageQuery) (*client.Page[client.Comment], error)
}

// InboxAPI is what the notifications page reads
type InboxAPI interface {
	ListNotifications(ctx context.Context, q client.PageQuery) (*client.Page[client.Notification], error)
	UnreadNotificationCount(ctx context.Context) (int64, error)
}

// BoardView is a board with one page of its threads
type BoardView struct {
	Board   *client.Board               `json:"board"`
	Threads *client.Page[client.Thread] `json:"threads"`
	Query   client.ThreadQuery          `json:"-"`
}

// ThreadView is a thread with its grouped comments
type ThreadView struct {
	Thread    *client.Thread    `json:"thread"`
	Comments  []client.Comment  `json:"comments"`
	Tree      *commenttree.Tree `json:"-"`
	Bookmarks int64             `json:"bookmarks"`
}

// Regroup rebuilds the tree after Comments changed
func (v *ThreadView) Regroup() {
	v.Tree = commenttree.Group(v.Comments)
}

// ActivityView is the viewer's own activity
type ActivityView struct {
	Overview  *client.ActivityOverview     `json:"overview"`
	Bookmarks *client.Page[client.Thread]  `json:"bookmarks"`
	Comments  *client.Page[client.Comment] `json:"comments"`
}

// InboxView is one page of notifications with the unread total
type InboxView struct {
	Notifications *client.Page[client.Notification] `json:"notifications"`
	Unread        int64                             `json:"unread"`
}

// BoardPage loads board metadata and a thread page concurrently
func BoardPage(ctx context.Context, api BoardAPI, boardID string, q client.ThreadQuery) (*BoardView, error) {
	view := &BoardView{Query: q}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		board, err := api.GetBoard(ctx, boardID)
		view.Board = board
		return err
	})
	g.Go(func() error {
		threads, err := api.ListThreads(ctx, boardID, q)
		view.Threads = threads
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// ThreadPage loads a thread, its comments and its bookmark count
// concurrently. A failed bookmark count shows as zero.
func ThreadPage(ctx context.Context, api ThreadAPI, threadID string) (*ThreadView, error) {
	view := &ThreadView{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		thread, err := api.GetThread(ctx, threadID)
		view.Thread = thread
		return err
	})
	g.Go(func() error {
		comments, err := api.ListComments(ctx, threadID)
		view.Comments = comments
		return err
	})
	g.Go(func() error {
		count, err := api.BookmarkCount(ctx, threadID)
		if err != nil {
			slog.Debug("Bookmark count unavailable", "thread", threadID, "error", err)
			return nil
		}
		view.Bookmarks = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	view.Regroup()
	return view, nil
}

// ActivityPage loads the overview and the first pages of bookmarks and comments
func ActivityPage(ctx context.Context, api ActivityAPI, q client.PageQuery) (*ActivityView, error) {
	view := &ActivityView{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		overview, err := api.MyOverview(ctx)
		view.Overview = overview
		return err
	})
	g.Go(func() error {
		bookmarks, err := api.MyBookmarks(ctx, q)
		view.Bookmarks = bookmarks
		return err
	})
	g.Go(func() error {
		comments, err := api.MyComments(ctx, q)
		view.Comments = comments
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// InboxPage loads notifications and the unread count. A failed count
// falls back to counting unread entries on the page.
func InboxPage(ctx context.Context, api InboxAPI, q client.PageQuery) (*InboxView, error) {
	view := &InboxView{}
	var countErr error
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := api.ListNotifications(ctx, q)
		view.Notifications = page
		return err
	})
	g.Go(func() error {
		view.Unread, countErr = api.UnreadNotificationCount(ctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if countErr != nil {
		slog.Debug("Unread count unavailable", "error", countErr)
		view.Unread = 0
		for _, n := range view.Notifications.Content {
			if !n.Read {
				view.Unread++
			}
		}
	}
	return view, nil
}

// ABOUTME: Notification inbox and "my activity" endpoints
// ABOUTME: Paginated views of the viewer's notifications, bookmarks and comments

package client

import (
	"context"
	"net/http"
)

// ListNotifications returns one page of the viewer's notifications
func (c *Client) ListNotifications(ctx context.Context, q PageQuery) (*Page[Notification], error) {
	var page Page[Notification]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/notifications", q.values()), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UnreadNotificationCount returns the number of unread notifications
func (c *Client) UnreadNotificationCount(ctx context.Context) (int64, error) {
	var resp struct {
		Count int64 `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread-count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkNotificationRead marks a single notification read
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, pathf("/api/notifications/%s/read", id), nil, nil)
}

// MarkAllNotificationsRead marks the whole inbox read
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, nil)
}

// MyOverview returns the viewer's activity counters
func (c *Client) MyOverview(ctx context.Context) (*ActivityOverview, error) {
	var overview ActivityOverview
	if err := c.do(ctx, http.MethodGet, "/api/me/activity", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// MyBookmarks returns one page of bookmarked threads
func (c *Client) MyBookmarks(ctx context.Context, q PageQuery) (*Page[Thread], error) {
	var page Page[Thread]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/me/bookmarks", q.values()), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MyComments returns one page of the viewer's comments
func (c *Client) MyComments(ctx context.Context, q PageQuery) (*Page[Comment], error) {
	var page Page[Comment]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/me/comments", q.values()), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

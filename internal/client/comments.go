// ABOUTME: Comment, reaction and bookmark endpoints for threads
// ABOUTME: Replies are comments created with a parent id

package client

import (
	"context"
	"net/http"
)

// ListComments returns a thread's comments as a flat list
func (c *Client) ListComments(ctx context.Context, threadID string) ([]Comment, error) {
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, pathf("/api/threads/%s/comments", threadID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment; set in.ParentID to reply
func (c *Client) CreateComment(ctx context.Context, threadID string, in CommentInput) (*Comment, error) {
	var comment Comment
	if err := c.do(ctx, http.MethodPost, pathf("/api/threads/%s/comments", threadID), in, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/comments/%s", commentID), nil, nil)
}

// ToggleReaction sets or clears the viewer's reaction on a thread
func (c *Client) ToggleReaction(ctx context.Context, threadID string, reaction ReactionType) (*ReactionState, error) {
	var state ReactionState
	body := map[string]ReactionType{"type": reaction}
	if err := c.do(ctx, http.MethodPost, pathf("/api/threads/%s/reactions", threadID), body, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ToggleBookmark flips the viewer's bookmark on a thread
func (c *Client) ToggleBookmark(ctx context.Context, threadID string) (*BookmarkState, error) {
	var state BookmarkState
	if err := c.do(ctx, http.MethodPost, pathf("/api/threads/%s/bookmark", threadID), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// BookmarkCount returns how many users bookmarked a thread
func (c *Client) BookmarkCount(ctx context.Context, threadID string) (int64, error) {
	var state BookmarkState
	if err := c.do(ctx, http.MethodGet, pathf("/api/threads/%s/bookmark/count", threadID), nil, &state); err != nil {
		return 0, err
	}
	return state.Count, nil
}

// ABOUTME: Board and thread endpoints
// ABOUTME: Listing, CRUD and paginated thread search with tag filter

package client

import (
	"context"
	"net/http"
)

const boardsPrefix = "/api/boards"

// ListBoards returns every board
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	if err := c.getCached(ctx, boardsPrefix, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// GetBoard returns a single board
func (c *Client) GetBoard(ctx context.Context, id string) (*Board, error) {
	var board Board
	if err := c.getCached(ctx, pathf(boardsPrefix+"/%s", id), &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// CreateBoard creates a board (administrators)
func (c *Client) CreateBoard(ctx context.Context, in BoardInput) (*Board, error) {
	var board Board
	if err := c.do(ctx, http.MethodPost, boardsPrefix, in, &board); err != nil {
		return nil, err
	}
	c.invalidate(boardsPrefix)
	return &board, nil
}

// UpdateBoard replaces a board's fields
func (c *Client) UpdateBoard(ctx context.Context, id string, in BoardInput) (*Board, error) {
	var board Board
	if err := c.do(ctx, http.MethodPut, pathf(boardsPrefix+"/%s", id), in, &board); err != nil {
		return nil, err
	}
	c.invalidate(boardsPrefix)
	return &board, nil
}

// DeleteBoard removes a board
func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, pathf(boardsPrefix+"/%s", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(boardsPrefix)
	return nil
}

// ListThreads returns one page of a board's threads. Thread listings are
// never cached so new posts show up immediately.
func (c *Client) ListThreads(ctx context.Context, boardID string, q ThreadQuery) (*Page[Thread], error) {
	var page Page[Thread]
	path := withQuery(pathf(boardsPrefix+"/%s/threads", boardID), q.values())
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetThread returns a single thread
func (c *Client) GetThread(ctx context.Context, id string) (*Thread, error) {
	var thread Thread
	if err := c.do(ctx, http.MethodGet, pathf("/api/threads/%s", id), nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// CreateThread posts a thread on a board
func (c *Client) CreateThread(ctx context.Context, boardID string, in ThreadInput) (*Thread, error) {
	var thread Thread
	if err := c.do(ctx, http.MethodPost, pathf(boardsPrefix+"/%s/threads", boardID), in, &thread); err != nil {
		return nil, err
	}
	// Board metadata carries the thread count
	c.invalidate(boardsPrefix)
	return &thread, nil
}

// UpdateThread edits a thread
func (c *Client) UpdateThread(ctx context.Context, id string, in ThreadInput) (*Thread, error) {
	var thread Thread
	if err := c.do(ctx, http.MethodPut, pathf("/api/threads/%s", id), in, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// DeleteThread removes a thread
func (c *Client) DeleteThread(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, pathf("/api/threads/%s", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(boardsPrefix)
	return nil
}

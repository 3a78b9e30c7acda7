// ABOUTME: Administrator endpoints and the board-creation request workflow
// ABOUTME: User listing, role changes, deletion, request approval

package client

import (
	"context"
	"net/http"
)

// ListUsers returns one page of users
func (c *Client) ListUsers(ctx context.Context, q PageQuery) (*Page[AdminUser], error) {
	var page Page[AdminUser]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/admin/users", q.values()), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateUserRole replaces a user's role
func (c *Client) UpdateUserRole(ctx context.Context, userID, role string) (*AdminUser, error) {
	var user AdminUser
	body := map[string]string{"role": role}
	if err := c.do(ctx, http.MethodPut, pathf("/api/admin/users/%s/role", userID), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/admin/users/%s", userID), nil, nil)
}

// CreateBoardRequest asks for a new board
func (c *Client) CreateBoardRequest(ctx context.Context, in BoardRequestInput) (*BoardRequest, error) {
	var req BoardRequest
	if err := c.do(ctx, http.MethodPost, "/api/board-requests", in, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListBoardRequests returns one page of requests, optionally by status
// (PENDING, APPROVED, REJECTED)
func (c *Client) ListBoardRequests(ctx context.Context, status string, q PageQuery) (*Page[BoardRequest], error) {
	v := q.values()
	if status != "" {
		v.Set("status", status)
	}
	var page Page[BoardRequest]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/admin/board-requests", v), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ApproveBoardRequest approves a request; the backend creates the board
func (c *Client) ApproveBoardRequest(ctx context.Context, id string) (*BoardRequest, error) {
	var req BoardRequest
	if err := c.do(ctx, http.MethodPost, pathf("/api/admin/board-requests/%s/approve", id), nil, &req); err != nil {
		return nil, err
	}
	c.invalidate(boardsPrefix)
	return &req, nil
}

// RejectBoardRequest rejects a request with a reason
func (c *Client) RejectBoardRequest(ctx context.Context, id, reason string) (*BoardRequest, error) {
	var req BoardRequest
	body := map[string]string{"reason": reason}
	if err := c.do(ctx, http.MethodPost, pathf("/api/admin/board-requests/%s/reject", id), body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

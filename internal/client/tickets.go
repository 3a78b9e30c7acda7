// ABOUTME: Ticket purchase and payment endpoints
// ABOUTME: Payments return a redirect URL; confirmation happens server-side

package client

import (
	"context"
	"net/http"
)

// PurchaseTicket reserves seats for a performance
func (c *Client) PurchaseTicket(ctx context.Context, req TicketPurchaseRequest) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodPost, "/api/tickets", req, &ticket); err != nil {
		return nil, err
	}
	c.invalidate(performancesPrefix)
	return &ticket, nil
}

// ListMyTickets returns one page of the viewer's tickets
func (c *Client) ListMyTickets(ctx context.Context, q PageQuery) (*Page[Ticket], error) {
	var page Page[Ticket]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/tickets/me", q.values()), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTicket returns a single ticket
func (c *Client) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	var ticket Ticket
	if err := c.do(ctx, http.MethodGet, pathf("/api/tickets/%s", id), nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreatePayment starts a payment with a third-party provider
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/api/payments", req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment looks up a payment
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, pathf("/api/payments/%s", id), nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ABOUTME: Idol and performance catalogue endpoints
// ABOUTME: Public listings are cached; writes and crawls invalidate them

package client

import (
	"context"
	"net/http"
)

const (
	idolsPrefix        = "/api/idols"
	performancesPrefix = "/api/performances"
)

// ListIdols returns every idol
func (c *Client) ListIdols(ctx context.Context) ([]Idol, error) {
	var idols []Idol
	if err := c.getCached(ctx, idolsPrefix, &idols); err != nil {
		return nil, err
	}
	return idols, nil
}

// GetIdol returns a single idol
func (c *Client) GetIdol(ctx context.Context, id string) (*Idol, error) {
	var idol Idol
	if err := c.getCached(ctx, pathf(idolsPrefix+"/%s", id), &idol); err != nil {
		return nil, err
	}
	return &idol, nil
}

// CreateIdol adds an idol (administrators)
func (c *Client) CreateIdol(ctx context.Context, in IdolInput) (*Idol, error) {
	var idol Idol
	if err := c.do(ctx, http.MethodPost, idolsPrefix, in, &idol); err != nil {
		return nil, err
	}
	c.invalidate(idolsPrefix)
	return &idol, nil
}

// UpdateIdol edits an idol
func (c *Client) UpdateIdol(ctx context.Context, id string, in IdolInput) (*Idol, error) {
	var idol Idol
	if err := c.do(ctx, http.MethodPut, pathf(idolsPrefix+"/%s", id), in, &idol); err != nil {
		return nil, err
	}
	c.invalidate(idolsPrefix)
	return &idol, nil
}

// DeleteIdol removes an idol
func (c *Client) DeleteIdol(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, pathf(idolsPrefix+"/%s", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(idolsPrefix)
	return nil
}

// ListPerformances returns one page of performances
func (c *Client) ListPerformances(ctx context.Context, q PerformanceQuery) (*Page[Performance], error) {
	var page Page[Performance]
	if err := c.getCached(ctx, withQuery(performancesPrefix, q.values()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPerformance returns a single performance. Seat counts change, so
// this is never served from cache.
func (c *Client) GetPerformance(ctx context.Context, id string) (*Performance, error) {
	var perf Performance
	if err := c.do(ctx, http.MethodGet, pathf(performancesPrefix+"/%s", id), nil, &perf); err != nil {
		return nil, err
	}
	return &perf, nil
}

// CreatePerformance adds a performance
func (c *Client) CreatePerformance(ctx context.Context, in PerformanceInput) (*Performance, error) {
	var perf Performance
	if err := c.do(ctx, http.MethodPost, performancesPrefix, in, &perf); err != nil {
		return nil, err
	}
	c.invalidate(performancesPrefix)
	return &perf, nil
}

// UpdatePerformance edits a performance
func (c *Client) UpdatePerformance(ctx context.Context, id string, in PerformanceInput) (*Performance, error) {
	var perf Performance
	if err := c.do(ctx, http.MethodPut, pathf(performancesPrefix+"/%s", id), in, &perf); err != nil {
		return nil, err
	}
	c.invalidate(performancesPrefix)
	return &perf, nil
}

// DeletePerformance removes a performance
func (c *Client) DeletePerformance(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, pathf(performancesPrefix+"/%s", id), nil, nil); err != nil {
		return err
	}
	c.invalidate(performancesPrefix)
	return nil
}

// TriggerCrawl asks the backend to ingest performance data from external
// sources. It can run for minutes; bound it with the context.
func (c *Client) TriggerCrawl(ctx context.Context) (*CrawlResult, error) {
	var result CrawlResult
	if err := c.do(ctx, http.MethodPost, "/api/admin/crawl/performances", nil, &result); err != nil {
		return nil, err
	}
	c.invalidate(performancesPrefix)
	return &result, nil
}

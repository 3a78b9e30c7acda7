// ABOUTME: Shared reaction to API errors on pages
// ABOUTME: Unauthorized responses end the session; everything else is shown to the user

package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
)

// Outcome is what a page should do after an error
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeShowError
	OutcomeLoginRequired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeShowError:
		return "show_error"
	case OutcomeLoginRequired:
		return "login_required"
	default:
		return "unknown"
	}
}

// Logouter ends the session
type Logouter interface {
	Logout()
}

// AuthPolicy decides between showing an error and forcing a new login
type AuthPolicy struct {
	Session Logouter
}

// HandleError logs the session out on Unauthorized and reports what the
// page should do next.
func (p AuthPolicy) HandleError(err error) Outcome {
	if err == nil {
		return OutcomeNone
	}
	if client.IsUnauthorized(err) {
		if p.Session != nil {
			p.Session.Logout()
		}
		return OutcomeLoginRequired
	}
	return OutcomeShowError
}

// CrawlAPI triggers performance ingestion
type CrawlAPI interface {
	TriggerCrawl(ctx context.Context) (*client.CrawlResult, error)
}

// ErrCrawlTimeout means the crawl did not answer in time. The backend may
// still finish it.
var ErrCrawlTimeout = errors.New("crawl timed out")

// TriggerCrawl runs the admin performance crawl under its own deadline
func TriggerCrawl(ctx context.Context, api CrawlAPI, timeout time.Duration) (*client.CrawlResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := api.TriggerCrawl(ctx)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrCrawlTimeout, timeout)
		}
		return nil, err
	}
	return res, nil
}

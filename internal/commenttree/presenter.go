// ABOUTME: Reply composition and moderation workflow for a thread's comments
// ABOUTME: Tracks open reply boxes, drafts, in-flight submissions and per-comment errors

package commenttree

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrEmptyReply is returned when the draft is blank after trimming
	ErrEmptyReply = errors.New("reply is empty")
	// ErrSubmitInFlight is returned while a reply to the same comment is pending
	ErrSubmitInFlight = errors.New("a reply to this comment is already being submitted")
	// ErrNotPermitted is returned when a non-moderator tries to delete
	ErrNotPermitted = errors.New("deleting comments requires moderator privileges")
	// ErrNoDeleter is returned when Delete is used without a deletion handler
	ErrNoDeleter = errors.New("comment deletion is not available")
)

// ReplyFunc posts a reply under parentID
type ReplyFunc func(ctx context.Context, parentID, content string) error

// DeleteFunc removes a comment
type DeleteFunc func(ctx context.Context, commentID string) error

// ConfirmFunc asks the viewer to confirm deleting a comment
type ConfirmFunc func(commentID string) bool

// Presenter holds the per-comment reply state of one thread view. It is
// safe for concurrent use.
type Presenter struct {
	mu        sync.Mutex
	reply     ReplyFunc
	deleter   DeleteFunc
	confirm   ConfirmFunc
	moderator bool

	open     map[string]bool
	drafts   map[string]string
	inFlight map[string]bool
	errs     map[string]error
}

// Option configures a Presenter
type Option func(*Presenter)

// WithDeleter sets the deletion handler
func WithDeleter(fn DeleteFunc) Option {
	return func(p *Presenter) { p.deleter = fn }
}

// WithConfirm sets the deletion confirmation prompt
func WithConfirm(fn ConfirmFunc) Option {
	return func(p *Presenter) { p.confirm = fn }
}

// WithModerator marks the viewer as allowed to delete comments
func WithModerator(allowed bool) Option {
	return func(p *Presenter) { p.moderator = allowed }
}

// NewPresenter creates a presenter that submits replies through reply
func NewPresenter(reply ReplyFunc, opts ...Option) *Presenter {
	p := &Presenter{
		reply:    reply,
		open:     make(map[string]bool),
		drafts:   make(map[string]string),
		inFlight: make(map[string]bool),
		errs:     make(map[string]error),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetModerator updates the viewer's deletion privilege
func (p *Presenter) SetModerator(allowed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moderator = allowed
}

// Moderator reports whether delete controls should be shown
func (p *Presenter) Moderator() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.moderator
}

// ToggleReply opens the reply box for id, or closes it if already open.
// The draft survives closing.
func (p *Presenter) ToggleReply(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open[id] {
		delete(p.open, id)
		return false
	}
	p.open[id] = true
	return true
}

// IsOpen reports whether id has an open reply box
func (p *Presenter) IsOpen(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open[id]
}

// OpenBoxes returns how many reply boxes are open
func (p *Presenter) OpenBoxes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.open)
}

// SetDraft stores the draft text for id
func (p *Presenter) SetDraft(id, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drafts[id] = text
}

// Draft returns the draft text for id
func (p *Presenter) Draft(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drafts[id]
}

// HasDraft reports whether a draft entry exists for id
func (p *Presenter) HasDraft(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.drafts[id]
	return ok
}

// Submitting reports whether a reply to id is in flight
func (p *Presenter) Submitting(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight[id]
}

// LastError returns the most recent failure for id, cleared on success
func (p *Presenter) LastError(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errs[id]
}

// Submit sends the trimmed draft for parentID. On success the draft is
// removed and the box closes, unless the draft changed meanwhile. On
// failure the draft is kept for retry.
func (p *Presenter) Submit(ctx context.Context, parentID string) error {
	p.mu.Lock()
	if p.inFlight[parentID] {
		p.mu.Unlock()
		return ErrSubmitInFlight
	}
	content := strings.TrimSpace(p.drafts[parentID])
	if content == "" {
		p.mu.Unlock()
		return ErrEmptyReply
	}
	p.inFlight[parentID] = true
	delete(p.errs, parentID)
	p.mu.Unlock()

	err := p.reply(ctx, parentID, content)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, parentID)
	if err != nil {
		p.errs[parentID] = err
		return err
	}
	// A draft edited while the reply was in flight is new text
	if strings.TrimSpace(p.drafts[parentID]) == content {
		delete(p.drafts, parentID)
		delete(p.open, parentID)
	}
	return nil
}

// Delete asks for confirmation and removes the comment. It reports true
// only when the backend confirmed the deletion; the caller then drops the
// comment from its list.
func (p *Presenter) Delete(ctx context.Context, id string) (bool, error) {
	p.mu.Lock()
	moderator, deleter, confirm := p.moderator, p.deleter, p.confirm
	p.mu.Unlock()

	if !moderator {
		return false, ErrNotPermitted
	}
	if deleter == nil {
		return false, ErrNoDeleter
	}
	if confirm != nil && !confirm(id) {
		return false, nil
	}

	if err := deleter(ctx, id); err != nil {
		p.mu.Lock()
		p.errs[id] = err
		p.mu.Unlock()
		return false, err
	}

	p.mu.Lock()
	delete(p.open, id)
	delete(p.drafts, id)
	delete(p.errs, id)
	p.mu.Unlock()
	return true, nil
}

// ABOUTME: Request generation tokens for discarding late responses
// ABOUTME: Starting a new request for a key makes every earlier token for that key stale

package reqgen

import "sync"

// Tracker hands out generation tokens per key
type Tracker struct {
	mu   sync.Mutex
	gens map[string]uint64
}

// Token identifies one issued request
type Token struct {
	tracker *Tracker
	key     string
	gen     uint64
}

// New creates an empty tracker
func New() *Tracker {
	return &Tracker{gens: make(map[string]uint64)}
}

// Begin starts a request for key and returns its token
func (t *Tracker) Begin(key string) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gens[key]++
	return Token{tracker: t, key: key, gen: t.gens[key]}
}

// Invalidate makes every outstanding token for key stale
func (t *Tracker) Invalidate(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gens[key]++
}

// IsCurrent reports whether tok is the latest token for its key
func (t *Tracker) IsCurrent(tok Token) bool {
	if tok.tracker != t {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[tok.key] == tok.gen
}

// Current reports whether no newer request for the same key has begun.
// The zero Token is never current.
func (tok Token) Current() bool {
	if tok.tracker == nil {
		return false
	}
	return tok.tracker.IsCurrent(tok)
}

// Key returns the key the token was issued for
func (tok Token) Key() string {
	return tok.key
}

// ABOUTME: Request and response types for the RE-V backend API
// ABOUTME: Mirrors the JSON shapes of boards, threads, comments, tickets and payments

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Timestamp accepts the backend's date formats: RFC 3339, or a local
// date-time without zone (treated as UTC). null and "" decode to zero.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Page is the backend's pagination envelope
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// PageQuery selects one page (zero-based) of a listing
type PageQuery struct {
	Page int
	Size int
}

func (q PageQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// TokenPair is the credential pair issued by the backend
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginRequest carries email/password credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest registers a new account
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// Board is a discussion board
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Slug        string    `json:"slug,omitempty"`
	IdolID      string    `json:"idolId,omitempty"`
	ThreadCount int64     `json:"threadCount,omitempty"`
	CreatedAt   Timestamp `json:"createdAt,omitempty"`
}

// BoardInput creates or updates a board
type BoardInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
	IdolID      string `json:"idolId,omitempty"`
}

// Thread is a discussion thread on a board
type Thread struct {
	ID           string    `json:"id"`
	BoardID      string    `json:"boardId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"authorId,omitempty"`
	AuthorName   string    `json:"authorName,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	ViewCount    int64     `json:"viewCount"`
	CommentCount int64     `json:"commentCount"`
	LikeCount    int64     `json:"likeCount"`
	DislikeCount int64     `json:"dislikeCount"`
	CreatedAt    Timestamp `json:"createdAt,omitempty"`
	UpdatedAt    Timestamp `json:"updatedAt,omitempty"`
}

// ThreadInput creates or updates a thread
type ThreadInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// ThreadQuery filters a board's thread listing
type ThreadQuery struct {
	PageQuery
	Tag    string
	Search string
}

func (q ThreadQuery) values() url.Values {
	v := q.PageQuery.values()
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// Comment is a thread comment. ParentID is nil for top-level comments.
type Comment struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"threadId"`
	AuthorID   string    `json:"authorId,omitempty"`
	AuthorName string    `json:"authorName,omitempty"`
	ParentID   *string   `json:"parentId,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  Timestamp `json:"createdAt,omitempty"`
}

// IsReply reports whether the comment has a parent
func (c Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

// CommentInput creates a comment or, with ParentID set, a reply
type CommentInput struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId,omitempty"`
}

// ReactionType is LIKE or DISLIKE
type ReactionType string

const (
	ReactionLike    ReactionType = "LIKE"
	ReactionDislike ReactionType = "DISLIKE"
)

// ReactionState is the thread's reaction tally after a toggle
type ReactionState struct {
	LikeCount    int64        `json:"likeCount"`
	DislikeCount int64        `json:"dislikeCount"`
	MyReaction   ReactionType `json:"myReaction,omitempty"`
}

// BookmarkState is the viewer's bookmark status for a thread
type BookmarkState struct {
	Bookmarked bool  `json:"bookmarked"`
	Count      int64 `json:"count"`
}

// Notification is an entry in the viewer's inbox
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	ThreadID  string    `json:"threadId,omitempty"`
	CommentID string    `json:"commentId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
}

// ActivityOverview summarizes the viewer's activity
type ActivityOverview struct {
	ThreadCount   int64    `json:"threadCount"`
	CommentCount  int64    `json:"commentCount"`
	BookmarkCount int64    `json:"bookmarkCount"`
	RecentThreads []Thread `json:"recentThreads,omitempty"`
}

// Idol is an artist that performances and boards belong to
type Idol struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Agency      string `json:"agency,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// IdolInput creates or updates an idol
type IdolInput struct {
	Name        string `json:"name"`
	Agency      string `json:"agency,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Performance is a ticketed show
type Performance struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Venue          string    `json:"venue,omitempty"`
	IdolID         string    `json:"idolId,omitempty"`
	IdolName       string    `json:"idolName,omitempty"`
	StartAt        Timestamp `json:"startAt,omitempty"`
	EndAt          Timestamp `json:"endAt,omitempty"`
	Price          int64     `json:"price"`
	TotalSeats     int       `json:"totalSeats"`
	RemainingSeats int       `json:"remainingSeats"`
	Status         string    `json:"status,omitempty"`
	SourceURL      string    `json:"sourceUrl,omitempty"`
}

// PerformanceInput creates or updates a performance
type PerformanceInput struct {
	Title      string    `json:"title"`
	Venue      string    `json:"venue,omitempty"`
	IdolID     string    `json:"idolId,omitempty"`
	StartAt    Timestamp `json:"startAt,omitempty"`
	EndAt      Timestamp `json:"endAt,omitempty"`
	Price      int64     `json:"price"`
	TotalSeats int       `json:"totalSeats"`
}

// PerformanceQuery filters the performance listing
type PerformanceQuery struct {
	PageQuery
	Search string
	IdolID string
}

func (q PerformanceQuery) values() url.Values {
	v := q.PageQuery.values()
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.IdolID != "" {
		v.Set("idolId", q.IdolID)
	}
	return v
}

// CrawlResult reports a performance data ingestion run
type CrawlResult struct {
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Message string `json:"message,omitempty"`
}

// TicketPurchaseRequest buys seats for a performance
type TicketPurchaseRequest struct {
	PerformanceID string `json:"performanceId"`
	Quantity      int    `json:"quantity"`
}

// Ticket is a purchased (or pending) ticket
type Ticket struct {
	ID               string    `json:"id"`
	PerformanceID    string    `json:"performanceId"`
	PerformanceTitle string    `json:"performanceTitle,omitempty"`
	Quantity         int       `json:"quantity"`
	TotalPrice       int64     `json:"totalPrice"`
	Status           string    `json:"status"`
	PurchasedAt      Timestamp `json:"purchasedAt,omitempty"`
}

// PaymentRequest starts a third-party payment for a ticket
type PaymentRequest struct {
	TicketID string `json:"ticketId"`
	Method   string `json:"method"`
	Amount   int64  `json:"amount"`
}

// Payment is a payment record; RedirectURL is where the payer completes it
type Payment struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticketId"`
	Method      string    `json:"method"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	RedirectURL string    `json:"redirectUrl,omitempty"`
	CreatedAt   Timestamp `json:"createdAt,omitempty"`
}

// AdminUser is a user as seen by administrators
type AdminUser struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
}

// BoardRequestInput asks administrators to create a board
type BoardRequestInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// BoardRequest is a pending/decided board-creation request
type BoardRequest struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	RequesterID  string    `json:"requesterId,omitempty"`
	Status       string    `json:"status"`
	RejectReason string    `json:"rejectReason,omitempty"`
	CreatedAt    Timestamp `json:"createdAt,omitempty"`
}

package commenttree

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedReply struct {
	parentID string
	content  string
}

func TestSubmitEmptyDraftDoesNotCallHandler(t *testing.T) {
	calls := 0
	p := NewPresenter(func(context.Context, string, string) error {
		calls++
		return nil
	})

	for _, draft := range []string{"", "   ", "\n\t "} {
		p.ToggleReply("c1")
		p.SetDraft("c1", draft)
		err := p.Submit(context.Background(), "c1")
		assert.ErrorIs(t, err, ErrEmptyReply)
		p.ToggleReply("c1")
	}

	err := p.Submit(context.Background(), "never-drafted")
	assert.ErrorIs(t, err, ErrEmptyReply)
	assert.Equal(t, 0, calls)
}

func TestSubmitSuccessClearsDraftAndClosesBox(t *testing.T) {
	var got []recordedReply
	p := NewPresenter(func(_ context.Context, parentID, content string) error {
		got = append(got, recordedReply{parentID, content})
		return nil
	})

	assert.True(t, p.ToggleReply("c1"))
	p.SetDraft("c1", "  hello  ")

	require.NoError(t, p.Submit(context.Background(), "c1"))

	assert.Equal(t, []recordedReply{{"c1", "hello"}}, got)
	assert.False(t, p.HasDraft("c1"))
	assert.False(t, p.IsOpen("c1"))
	assert.NoError(t, p.LastError("c1"))
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	boom := errors.New("backend down")
	fail := true
	p := NewPresenter(func(context.Context, string, string) error {
		if fail {
			return boom
		}
		return nil
	})

	p.ToggleReply("c1")
	p.SetDraft("c1", "hello")

	err := p.Submit(context.Background(), "c1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "hello", p.Draft("c1"))
	assert.True(t, p.IsOpen("c1"))
	assert.ErrorIs(t, p.LastError("c1"), boom)
	assert.False(t, p.Submitting("c1"))

	fail = false
	require.NoError(t, p.Submit(context.Background(), "c1"))
	assert.False(t, p.HasDraft("c1"))
	assert.NoError(t, p.LastError("c1"))
}

func TestReplyBoxesAreIndependent(t *testing.T) {
	p := NewPresenter(func(context.Context, string, string) error { return nil })

	p.ToggleReply("c1")
	p.ToggleReply("c3")
	p.SetDraft("c1", "one")
	p.SetDraft("c3", "three")

	assert.Equal(t, 2, p.OpenBoxes())
	assert.False(t, p.ToggleReply("c1"))
	assert.False(t, p.IsOpen("c1"))
	assert.True(t, p.IsOpen("c3"))
	assert.Equal(t, "one", p.Draft("c1"), "closing keeps the draft")
}

func TestSubmitInFlightGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := NewPresenter(func(_ context.Context, parentID, _ string) error {
		if parentID == "c1" {
			close(started)
			<-release
		}
		return nil
	})

	p.SetDraft("c1", "first")
	p.SetDraft("c3", "other")

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = p.Submit(context.Background(), "c1")
	}()
	<-started

	assert.True(t, p.Submitting("c1"))
	assert.ErrorIs(t, p.Submit(context.Background(), "c1"), ErrSubmitInFlight)

	assert.False(t, p.Submitting("c3"))
	assert.NoError(t, p.Submit(context.Background(), "c3"), "other comments stay usable")

	close(release)
	wg.Wait()
	assert.NoError(t, firstErr)
	assert.False(t, p.Submitting("c1"))
}

func TestSubmitKeepsDraftEditedInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var got []recordedReply
	p := NewPresenter(func(_ context.Context, parentID, content string) error {
		got = append(got, recordedReply{parentID, content})
		close(started)
		<-release
		return nil
	})

	p.ToggleReply("c1")
	p.SetDraft("c1", "first")

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background(), "c1") }()
	<-started
	p.SetDraft("c1", "first and more")
	close(release)

	require.NoError(t, <-done)
	assert.Equal(t, []recordedReply{{"c1", "first"}}, got)
	assert.Equal(t, "first and more", p.Draft("c1"))
	assert.True(t, p.IsOpen("c1"))
}

func TestDeleteRequiresModerator(t *testing.T) {
	called := false
	p := NewPresenter(nil, WithDeleter(func(context.Context, string) error {
		called = true
		return nil
	}))

	ok, err := p.Delete(context.Background(), "c1")

	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotPermitted)
	assert.False(t, called)
}

func TestDeleteDeclinedConfirmation(t *testing.T) {
	called := false
	p := NewPresenter(nil,
		WithModerator(true),
		WithDeleter(func(context.Context, string) error {
			called = true
			return nil
		}),
		WithConfirm(func(string) bool { return false }),
	)

	ok, err := p.Delete(context.Background(), "c1")

	assert.False(t, ok)
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestDeleteFailureLeavesState(t *testing.T) {
	boom := errors.New("forbidden")
	p := NewPresenter(nil,
		WithModerator(true),
		WithDeleter(func(context.Context, string) error { return boom }),
		WithConfirm(func(string) bool { return true }),
	)

	ok, err := p.Delete(context.Background(), "c1")

	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, p.LastError("c1"), boom)
}

func TestDeleteSuccess(t *testing.T) {
	var deleted string
	p := NewPresenter(nil,
		WithDeleter(func(_ context.Context, id string) error {
			deleted = id
			return nil
		}),
	)
	p.SetModerator(true)
	p.ToggleReply("c1")
	p.SetDraft("c1", "draft")

	ok, err := p.Delete(context.Background(), "c1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c1", deleted)
	assert.False(t, p.IsOpen("c1"))
	assert.False(t, p.HasDraft("c1"))
}

func TestDeleteWithoutDeleter(t *testing.T) {
	p := NewPresenter(nil, WithModerator(true))

	_, err := p.Delete(context.Background(), "c1")

	assert.ErrorIs(t, err, ErrNoDeleter)
}

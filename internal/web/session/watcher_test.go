package session_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

func TestWatcherStartsLoading(t *testing.T) {
	w := session.NewWatcher()

	assert.True(t, w.IsLoading())
	assert.Nil(t, w.Current())
}

func TestWatcherLoadingFlipsOnceOnFirstEvent(t *testing.T) {
	tests := []struct {
		name  string
		first *session.Session
	}{
		{name: "first event signed in", first: &session.Session{UserID: 1, Email: "a@example.com"}},
		{name: "first event signed out", first: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := session.NewWatcher()
			w.Set(tt.first)

			assert.False(t, w.IsLoading())

			// any later event leaves loading false
			w.Clear()
			assert.False(t, w.IsLoading())

			w.Set(&session.Session{UserID: 2})
			assert.False(t, w.IsLoading())
		})
	}
}

func TestWatcherCurrentReflectsLastEvent(t *testing.T) {
	w := session.NewWatcher()

	events := []*session.Session{
		{UserID: 1, Email: "a@example.com"},
		nil,
		{UserID: 2, Email: "b@example.com", DisplayName: "B"},
		{UserID: 3, Email: "c@example.com", EmailVerified: true},
		nil,
	}

	for _, ev := range events {
		if ev == nil {
			w.Clear()
		} else {
			w.Set(ev)
		}

		got := w.Current()
		if ev == nil {
			assert.Nil(t, got)
			continue
		}

		require.NotNil(t, got)
		assert.Equal(t, *ev, *got)
	}
}

func TestWatcherCurrentIsReadOnlyCopy(t *testing.T) {
	w := session.NewWatcher()
	w.Set(&session.Session{UserID: 1, DisplayName: "original"})

	got := w.Current()
	require.NotNil(t, got)

	got.DisplayName = "mutated"

	again := w.Current()
	require.NotNil(t, again)
	assert.Equal(t, "original", again.DisplayName)
}

func TestWatcherNotifiesAllSubscribers(t *testing.T) {
	w := session.NewWatcher()

	var (
		mu    sync.Mutex
		seenA []*session.Session
		seenB []*session.Session
	)

	unsubA := w.Subscribe(func(s *session.Session) {
		mu.Lock()
		seenA = append(seenA, s)
		mu.Unlock()
	})
	defer unsubA()

	unsubB := w.Subscribe(func(s *session.Session) {
		mu.Lock()
		seenB = append(seenB, s)
		mu.Unlock()
	})

	w.Set(&session.Session{UserID: 1})
	w.Clear()

	mu.Lock()
	assert.Len(t, seenA, 2)
	assert.Len(t, seenB, 2)
	assert.Nil(t, seenA[1])
	mu.Unlock()

	// after unsubscribe B stops receiving events
	unsubB()
	w.Set(&session.Session{UserID: 2})

	mu.Lock()
	assert.Len(t, seenA, 3)
	assert.Len(t, seenB, 2)
	mu.Unlock()
}

func TestWatcherSubscriberMayReadBackState(t *testing.T) {
	w := session.NewWatcher()

	done := make(chan struct{})

	w.Subscribe(func(s *session.Session) {
		// reading from inside the callback must not deadlock
		_ = w.Current()
		_ = w.IsLoading()
		close(done)
	})

	w.Set(&session.Session{UserID: 1})
	<-done
}

func TestWatcherConcurrentEvents(t *testing.T) {
	w := session.NewWatcher()

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for j := range 50 {
				if j%2 == 0 {
					w.Set(&session.Session{UserID: uint64(n), Email: fmt.Sprintf("u%d@example.com", n)})
				} else {
					w.Clear()
				}

				_ = w.Current()
			}
		}(i)
	}

	wg.Wait()

	assert.False(t, w.IsLoading())
}

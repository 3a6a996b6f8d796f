package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one history change: the full sequence for a login after a
// mutation. Deletes publish an empty History.
type Event struct {
	Login   string    `json:"login"`
	History [][]int   `json:"history"`
	At      time.Time `json:"at"`
}

// Feed is an in-process broadcaster for history changes, one subscription
// list per login. Slow subscribers drop events rather than block writers;
// every event carries the full sequence, so a dropped event is recovered by
// the next one.
type Feed struct {
	mu   sync.RWMutex
	subs map[string]map[uuid.UUID]chan Event

	buffer int
}

// NewFeed constructs a Feed. Each subscriber gets a buffered channel of the
// given size (minimum 1).
func NewFeed(buffer int) *Feed {
	if buffer < 1 {
		buffer = 1
	}
	return &Feed{
		subs:   make(map[string]map[uuid.UUID]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers interest in one login's history. The returned cancel
// func must be called exactly once; it closes the channel.
func (f *Feed) Subscribe(login string) (<-chan Event, func()) {
	id := uuid.New()
	ch := make(chan Event, f.buffer)

	f.mu.Lock()
	byID, ok := f.subs[login]
	if !ok {
		byID = make(map[uuid.UUID]chan Event)
		f.subs[login] = byID
	}
	byID[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if byID, ok := f.subs[login]; ok {
			if got, ok := byID[id]; ok {
				delete(byID, id)
				close(got)
			}
			if len(byID) == 0 {
				delete(f.subs, login)
			}
		}
	}
	return ch, cancel
}

// Publish fans the event out to the login's subscribers without blocking.
func (f *Feed) Publish(login string, entries [][]int) {
	ev := Event{
		Login:   login,
		History: copyEntries(entries),
		At:      time.Now().UTC(),
	}
	if ev.History == nil {
		ev.History = [][]int{}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, ch := range f.subs[login] {
		select {
		case ch <- ev:
		default:
			// Subscriber is behind; the next event supersedes this one.
		}
	}
}

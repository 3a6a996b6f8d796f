// Package arrays implements sort, slice, insert, and delete operations over
// a user's array history.
//
// The service keeps no array state between calls: every operation loads the
// login's sequence from the history store, mutates it, and writes the whole
// sequence back. A per-login lock serializes those cycles so concurrent
// requests for the same login cannot lose updates; different logins proceed
// in parallel.
//
// Slice and delete work at history-list granularity (whole stored arrays,
// not elements within one array); insert targets the last stored array.
package arrays

import (
	"context"
	"errors"

	"sorthub/cmd/internal/history"
	"sorthub/cmd/internal/locks"
)

// Position names an insertion point in the last stored array.
type Position string

const (
	PositionStart Position = "start"
	PositionEnd   Position = "end"
	PositionAfter Position = "after"
)

// Service orchestrates array operations over the history store.
type Service struct {
	store history.Store
	locks *locks.Keyed
	feed  *history.Feed
}

// NewService constructs a Service. feed may be nil when no live
// subscribers are wired.
func NewService(store history.Store, feed *history.Feed) *Service {
	return &Service{
		store: store,
		locks: locks.NewKeyed(),
		feed:  feed,
	}
}

// Sort gnome-sorts arr, appends the sorted result to login's history, and
// returns it. An empty input is rejected before any store access.
func (s *Service) Sort(ctx context.Context, login string, arr []int) ([]int, error) {
	if len(arr) == 0 {
		return nil, ErrInvalidInput
	}

	unlock := s.locks.Lock(login)
	defer unlock()

	entries, err := s.store.Load(ctx, login)
	if err != nil {
		return nil, err
	}

	sorted := Sort(arr)
	entries = append(entries, sorted)
	if err := s.store.Save(ctx, login, entries); err != nil {
		return nil, err
	}

	s.publish(login, entries)
	return sorted, nil
}

// History returns login's full sequence, oldest first.
func (s *Service) History(ctx context.Context, login string) ([][]int, error) {
	entries, err := s.store.Load(ctx, login)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoHistory
	}
	return entries, nil
}

// Slice returns history[start:end] (end-exclusive) over the stored arrays.
func (s *Service) Slice(ctx context.Context, login string, start, end int) ([][]int, error) {
	entries, err := s.store.Load(ctx, login)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoHistory
	}
	if start < 0 || end > len(entries) || start >= end {
		return nil, ErrInvalidRange
	}
	return entries[start:end], nil
}

// Insert adds element to the last array in login's history.
//
// For PositionAfter, index must point at an existing element; the new
// element lands right after it. index is ignored for start/end.
func (s *Service) Insert(ctx context.Context, login string, pos Position, element int, index *int) ([]int, error) {
	unlock := s.locks.Lock(login)
	defer unlock()

	entries, err := s.store.Load(ctx, login)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoHistory
	}

	last := entries[len(entries)-1]

	switch pos {
	case PositionStart:
		last = append([]int{element}, last...)
	case PositionEnd:
		last = append(last, element)
	case PositionAfter:
		if index == nil || *index < 0 || *index >= len(last) {
			return nil, ErrInvalidInput
		}
		at := *index + 1
		last = append(last[:at], append([]int{element}, last[at:]...)...)
	default:
		return nil, ErrInvalidInput
	}

	entries[len(entries)-1] = last
	if err := s.store.Save(ctx, login, entries); err != nil {
		return nil, err
	}

	s.publish(login, entries)
	return last, nil
}

// DeleteByIndex removes and returns the history entry at index (0-based
// over the history list).
func (s *Service) DeleteByIndex(ctx context.Context, login string, index int) ([]int, error) {
	unlock := s.locks.Lock(login)
	defer unlock()

	entries, err := s.store.Load(ctx, login)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoHistory
	}
	if index < 0 || index >= len(entries) {
		return nil, ErrInvalidIndex
	}

	removed := entries[index]
	entries = append(entries[:index], entries[index+1:]...)
	if err := s.store.Save(ctx, login, entries); err != nil {
		return nil, err
	}

	s.publish(login, entries)
	return removed, nil
}

// Clear removes login's history entirely.
func (s *Service) Clear(ctx context.Context, login string) error {
	unlock := s.locks.Lock(login)
	defer unlock()

	if err := s.store.DeleteAll(ctx, login); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return ErrNoHistory
		}
		return err
	}

	s.publish(login, nil)
	return nil
}

func (s *Service) publish(login string, entries [][]int) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(login, entries)
}

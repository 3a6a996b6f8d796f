package arrays

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"sorthub/cmd/internal/history"
)

func newTestService() (*Service, *history.MemoryStore) {
	store := history.NewMemoryStore()
	return NewService(store, nil), store
}

func intPtr(v int) *int { return &v }

func TestSort_AppendsToHistory(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	got, err := svc.Sort(ctx, "alice", []int{3, 1, 2})
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("Sort=%v", got)
	}

	if _, err := svc.Sort(ctx, "alice", []int{9, 0}); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	entries, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := [][]int{{1, 2, 3}, {0, 9}}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("history=%v want=%v", entries, want)
	}
}

func TestSort_EmptyArrayRejected(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Sort(context.Background(), "alice", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.History(ctx, "alice"); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}

	if _, err := svc.Sort(ctx, "alice", []int{2, 1}); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	got, err := svc.History(ctx, "alice")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if !reflect.DeepEqual(got, [][]int{{1, 2}}) {
		t.Fatalf("History=%v", got)
	}
}

func TestSlice(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	if _, err := svc.Slice(ctx, "alice", 0, 1); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}

	seed := [][]int{{3, 1}, {5}, {2, 2, 2}}
	if err := store.Save(ctx, "alice", seed); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := svc.Slice(ctx, "alice", 0, 2)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if !reflect.DeepEqual(got, [][]int{{3, 1}, {5}}) {
		t.Fatalf("Slice=%v", got)
	}

	badRanges := []struct{ start, end int }{
		{start: 1, end: 1},
		{start: 2, end: 1},
		{start: -1, end: 2},
		{start: 0, end: 4},
	}
	for _, r := range badRanges {
		if _, err := svc.Slice(ctx, "alice", r.start, r.end); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("Slice(%d,%d): expected ErrInvalidRange, got %v", r.start, r.end, err)
		}
	}
}

func TestInsert(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	if _, err := svc.Insert(ctx, "alice", PositionStart, 9, nil); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}

	if err := store.Save(ctx, "alice", [][]int{{7}, {1, 2, 3}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := svc.Insert(ctx, "alice", PositionStart, 9, nil)
	if err != nil {
		t.Fatalf("Insert start: %v", err)
	}
	if !reflect.DeepEqual(got, []int{9, 1, 2, 3}) {
		t.Fatalf("Insert start=%v", got)
	}

	got, err = svc.Insert(ctx, "alice", PositionEnd, 8, nil)
	if err != nil {
		t.Fatalf("Insert end: %v", err)
	}
	if !reflect.DeepEqual(got, []int{9, 1, 2, 3, 8}) {
		t.Fatalf("Insert end=%v", got)
	}

	got, err = svc.Insert(ctx, "alice", PositionAfter, 5, intPtr(1))
	if err != nil {
		t.Fatalf("Insert after: %v", err)
	}
	if !reflect.DeepEqual(got, []int{9, 1, 5, 2, 3, 8}) {
		t.Fatalf("Insert after=%v", got)
	}

	// Only the last entry is touched.
	entries, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(entries[0], []int{7}) {
		t.Fatalf("first entry mutated: %v", entries[0])
	}
}

func TestInsert_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	if err := store.Save(ctx, "alice", [][]int{{1, 2, 3}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cases := []struct {
		name  string
		pos   Position
		index *int
	}{
		{name: "after without index", pos: PositionAfter, index: nil},
		{name: "after negative index", pos: PositionAfter, index: intPtr(-1)},
		{name: "after index past end", pos: PositionAfter, index: intPtr(5)},
		{name: "unknown position", pos: Position("middle"), index: nil},
	}

	for _, tc := range cases {
		if _, err := svc.Insert(ctx, "alice", tc.pos, 9, tc.index); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestDeleteByIndex(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	if _, err := svc.DeleteByIndex(ctx, "alice", 0); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}

	if err := store.Save(ctx, "alice", [][]int{{1}, {2}, {3}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := svc.DeleteByIndex(ctx, "alice", 5); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
	if _, err := svc.DeleteByIndex(ctx, "alice", -1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}

	removed, err := svc.DeleteByIndex(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("DeleteByIndex: %v", err)
	}
	if !reflect.DeepEqual(removed, []int{1}) {
		t.Fatalf("removed=%v", removed)
	}

	entries, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(entries, [][]int{{2}, {3}}) {
		t.Fatalf("history=%v", entries)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	if err := svc.Clear(ctx, "alice"); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}

	if err := store.Save(ctx, "alice", [][]int{{1}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Clear(ctx, "alice"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := svc.History(ctx, "alice"); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("history should be gone, got %v", err)
	}
}

func TestSort_PublishesToFeed(t *testing.T) {
	ctx := context.Background()
	store := history.NewMemoryStore()
	feed := history.NewFeed(4)
	svc := NewService(store, feed)

	ch, cancel := feed.Subscribe("alice")
	defer cancel()

	if _, err := svc.Sort(ctx, "alice", []int{2, 1}); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	ev := <-ch
	if !reflect.DeepEqual(ev.History, [][]int{{1, 2}}) {
		t.Fatalf("event history=%v", ev.History)
	}
}

package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Filter
	}{
		{raw: "", want: FilterAll},
		{raw: "all", want: FilterAll},
		{raw: "active", want: FilterActive},
		{raw: " Waiting ", want: FilterWaiting},
		{raw: "COMPLETED", want: FilterCompleted},
		{raw: "archived", want: FilterAll},
	}
	for _, tc := range tests {
		if got := ParseFilter(tc.raw); got != tc.want {
			t.Fatalf("ParseFilter(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestFilterCardsKeepsOrder(t *testing.T) {
	t.Parallel()

	cards := []Card{
		{ID: "1", Status: "active"},
		{ID: "2", Status: "waiting"},
		{ID: "3", Status: "completed"},
		{ID: "4", Status: "active"},
	}
	got := FilterCards(cards, FilterActive)
	want := []Card{{ID: "1", Status: "active"}, {ID: "4", Status: "active"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FilterCards mismatch (-want +got):\n%s", diff)
	}
	if got := FilterCards(cards, FilterAll); len(got) != len(cards) {
		t.Fatalf("FilterCards(all) len = %d, want %d", len(got), len(cards))
	}
	if got := FilterCards(nil, FilterWaiting); len(got) != 0 {
		t.Fatalf("FilterCards(nil) len = %d, want 0", len(got))
	}
}

func TestBoardEmptyStates(t *testing.T) {
	t.Parallel()

	if got := NewBoard(nil).Empty(FilterAll); got != EmptyNoRecords {
		t.Fatalf("Empty() = %v, want %v", got, EmptyNoRecords)
	}
	board := NewBoard([]Card{{ID: "1", Status: "active"}})
	if got := board.Empty(FilterCompleted); got != EmptyNoMatches {
		t.Fatalf("Empty(completed) = %v, want %v", got, EmptyNoMatches)
	}
	if got := board.Empty(FilterActive); got != EmptyNone {
		t.Fatalf("Empty(active) = %v, want %v", got, EmptyNone)
	}
}

func TestBoardMemoisesPerFilter(t *testing.T) {
	t.Parallel()

	board := NewBoard([]Card{{ID: "1", Status: "active"}, {ID: "2", Status: "waiting"}})
	first := board.Cards(FilterActive)
	second := board.Cards(FilterActive)
	if len(first) != 1 || &first[0] != &second[0] {
		t.Fatal("expected the memoised slice on repeat lookup")
	}
	if got := board.Count(FilterWaiting); got != 1 {
		t.Fatalf("Count(waiting) = %d, want 1", got)
	}
}

func TestServiceLoadBoardHumanizesUpdatedAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gateway := &fakeGateway{portals: []Portal{
		{ID: "1", Name: "Brand refresh", Status: "active", UpdatedAt: now.Add(-3 * time.Hour)},
		{ID: "2", Name: "Launch", Status: "waiting"},
	}}
	board, err := newService(gateway, func() time.Time { return now }).loadBoard(context.Background())
	if err != nil {
		t.Fatalf("loadBoard() error = %v", err)
	}
	cards := board.Cards(FilterAll)
	if got := cards[0].LastUpdated; got != "3 hours ago" {
		t.Fatalf("LastUpdated = %q, want %q", got, "3 hours ago")
	}
	if got := cards[1].LastUpdated; got != "" {
		t.Fatalf("LastUpdated = %q, want empty for zero time", got)
	}
}

func TestServiceLoadBoardPropagatesError(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	_, err := newService(&fakeGateway{err: want}, nil).loadBoard(context.Background())
	if !errors.Is(err, want) {
		t.Fatalf("loadBoard() error = %v, want %v", err, want)
	}
}

package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Filter is the status selector. The zero value is not valid; use
// ParseFilter.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterWaiting   Filter = "waiting"
	FilterCompleted Filter = "completed"
)

// Filters lists the selectors in tab order.
var Filters = []Filter{FilterAll, FilterActive, FilterWaiting, FilterCompleted}

// ParseFilter maps a query value to a Filter. Unknown values select all.
func ParseFilter(raw string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(raw))) {
	case FilterActive:
		return FilterActive
	case FilterWaiting:
		return FilterWaiting
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Matches reports whether a card with status passes f.
func (f Filter) Matches(status string) bool {
	return f == FilterAll || strings.EqualFold(string(f), status)
}

// Card is one rendered portal summary.
type Card struct {
	ID          string
	Title       string
	ClientName  string
	Status      string
	LastUpdated string
	Description string
}

// FilterCards returns the cards passing f in their original order.
func FilterCards(cards []Card, f Filter) []Card {
	out := make([]Card, 0, len(cards))
	for _, card := range cards {
		if f.Matches(card.Status) {
			out = append(out, card)
		}
	}
	return out
}

// Empty names the empty state that replaces the card list.
type Empty int

const (
	EmptyNone Empty = iota
	EmptyNoRecords
	EmptyNoMatches
)

// Board is one loaded card set. Filter results are computed once per
// selector.
type Board struct {
	cards []Card

	mu       sync.Mutex
	filtered map[Filter][]Card
}

// NewBoard wraps cards. The slice must not be modified afterwards.
func NewBoard(cards []Card) *Board {
	return &Board{cards: cards, filtered: map[Filter][]Card{}}
}

// Cards returns the cards passing f.
func (b *Board) Cards(f Filter) []Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cached, ok := b.filtered[f]; ok {
		return cached
	}
	result := FilterCards(b.cards, f)
	b.filtered[f] = result
	return result
}

// Count returns how many cards pass f.
func (b *Board) Count(f Filter) int {
	return len(b.Cards(f))
}

// Empty reports which empty state applies under f.
func (b *Board) Empty(f Filter) Empty {
	switch {
	case len(b.cards) == 0:
		return EmptyNoRecords
	case b.Count(f) == 0:
		return EmptyNoMatches
	default:
		return EmptyNone
	}
}

type service struct {
	gateway PortalGateway
	now     func() time.Time
}

func newService(gateway PortalGateway, now func() time.Time) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if now == nil {
		now = time.Now
	}
	return service{gateway: gateway, now: now}
}

func (s service) loadBoard(ctx context.Context) (*Board, error) {
	portals, err := s.gateway.LoadPortals(ctx)
	if err != nil {
		return nil, err
	}
	return NewBoard(cardsFromPortals(portals, s.now())), nil
}

func cardsFromPortals(portals []Portal, now time.Time) []Card {
	cards := make([]Card, 0, len(portals))
	for _, portal := range portals {
		cards = append(cards, Card{
			ID:          portal.ID,
			Title:       portal.Name,
			ClientName:  portal.ClientName,
			Status:      portal.Status,
			LastUpdated: relativeTime(portal.UpdatedAt, now),
			Description: portal.Description,
		})
	}
	return cards
}

func relativeTime(at time.Time, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	return humanize.RelTime(at, now, "ago", "from now")
}

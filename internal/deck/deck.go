// Package deck is the swipe cursor over a list of candidate items.
//
// A Deck is either Browsing(i) with i < Len(), or Exhausted with i == Len().
// The index only moves forward and never passes Len().
package deck

import (
	"errors"

	"github.com/naveenspark/bartr/pkg/domain"
)

// ErrExhausted is returned when there is no current item.
var ErrExhausted = errors.New("deck: no more items")

// State is the coarse position of a deck.
type State int

const (
	// Browsing means there is a current item.
	Browsing State = iota
	// Exhausted means every item has been swiped.
	Exhausted
)

func (s State) String() string {
	if s == Exhausted {
		return "exhausted"
	}
	return "browsing"
}

// Deck is a value type; copies are independent cursors over the same items.
type Deck struct {
	items []domain.Item
	index int
}

// New starts a deck at index 0. A nil or empty list starts Exhausted.
func New(items []domain.Item) Deck {
	return Deck{items: items}
}

// Len is the number of items in the deck.
func (d Deck) Len() int { return len(d.items) }

// Index is the position of the current item, or Len() when exhausted.
func (d Deck) Index() int { return d.index }

// State reports whether the deck is browsing or exhausted.
func (d Deck) State() State {
	if d.index >= len(d.items) {
		return Exhausted
	}
	return Browsing
}

// Exhausted reports whether no current item is left.
func (d Deck) Exhausted() bool { return d.State() == Exhausted }

// Current returns the item under the cursor.
func (d Deck) Current() (domain.Item, error) {
	if d.Exhausted() {
		return domain.Item{}, ErrExhausted
	}
	return d.items[d.index], nil
}

// Advance moves past the current item. It reports false, leaving the deck
// unchanged, when already exhausted.
func (d *Deck) Advance() bool {
	if d.Exhausted() {
		return false
	}
	d.index++
	return true
}

// Remaining is the number of items not yet swiped.
func (d Deck) Remaining() int {
	return len(d.items) - d.index
}

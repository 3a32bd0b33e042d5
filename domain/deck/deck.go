// Package deck holds the card primitives every minigame is built on: the
// canonical 52 card deck, unbiased shuffling from a cryptographically
// unpredictable source, and pure draw operations.
package deck

import "fmt"

// Size is the number of cards in a standard deck.
const Size = 52

// InsufficientCardsError is returned when a draw asks for more cards than a
// pile holds. Hitting it during play means deck accounting broke.
type InsufficientCardsError struct {
	Requested int
	Available int
}

func (e *InsufficientCardsError) Error() string {
	return fmt.Sprintf("insufficient cards: requested %d, available %d", e.Requested, e.Available)
}

// AccountingError reports piles that no longer partition the 52 card deck.
type AccountingError struct {
	Missing    []Card
	Duplicated []Card
	Invalid    []Card
}

func (e *AccountingError) Error() string {
	return fmt.Sprintf("deck accounting broken: %d missing, %d duplicated, %d invalid",
		len(e.Missing), len(e.Duplicated), len(e.Invalid))
}

// NewOrderedDeck returns the 52 cards in canonical order: clubs, diamonds,
// hearts, spades, each from 2 up to the ace.
func NewOrderedDeck() []Card {
	cards := make([]Card, 0, Size)
	for _, s := range Suits {
		for r := Rank(2); r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}

// Draw takes n cards from the top of cards. The input slice is never
// modified; drawn and remaining are fresh copies.
func Draw(cards []Card, n int) (drawn []Card, remaining []Card, err error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("cannot draw %d cards", n)
	}
	if n > len(cards) {
		return nil, nil, &InsufficientCardsError{Requested: n, Available: len(cards)}
	}
	drawn = append([]Card(nil), cards[:n]...)
	remaining = append([]Card(nil), cards[n:]...)
	return drawn, remaining, nil
}

// Split separates the cards at the given positions from the rest, preserving
// order in both results. Indices must already be validated.
func Split(cards []Card, idx []int) (picked []Card, rest []Card) {
	selected := make(map[int]bool, len(idx))
	for _, i := range idx {
		selected[i] = true
	}
	for i, c := range cards {
		if selected[i] {
			picked = append(picked, c)
		} else {
			rest = append(rest, c)
		}
	}
	return picked, rest
}

// Contains reports whether c is in cards.
func Contains(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// CountSuit returns how many cards have suit s.
func CountSuit(cards []Card, s Suit) int {
	n := 0
	for _, c := range cards {
		if c.Suit == s {
			n++
		}
	}
	return n
}

// CheckAccounting verifies that the piles together hold every card of the
// deck exactly once.
func CheckAccounting(piles ...[]Card) error {
	seen := make(map[Card]int, Size)
	var accErr AccountingError
	for _, pile := range piles {
		for _, c := range pile {
			if !c.Valid() {
				accErr.Invalid = append(accErr.Invalid, c)
				continue
			}
			seen[c]++
			if seen[c] == 2 {
				accErr.Duplicated = append(accErr.Duplicated, c)
			}
		}
	}
	for _, c := range NewOrderedDeck() {
		if seen[c] == 0 {
			accErr.Missing = append(accErr.Missing, c)
		}
	}
	if len(accErr.Missing)+len(accErr.Duplicated)+len(accErr.Invalid) > 0 {
		return &accErr
	}
	return nil
}

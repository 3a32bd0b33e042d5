package deck

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Suit of a card (0-3).
type Suit uint8

// Card suit constants (0-3)
const (
	Club    Suit = 0 // ♣ (black)
	Diamond Suit = 1 // ♦ (red)
	Heart   Suit = 2 // ♥ (red)
	Spade   Suit = 3 // ♠ (black)
)

// Suits lists every suit in canonical order.
var Suits = [4]Suit{Club, Diamond, Heart, Spade}

// Rank of a card. Aces are high (14) and play low only inside the wheel.
type Rank uint8

// Card rank constants for face cards and ace
const (
	Jack  Rank = 11 // J
	Queen Rank = 12 // Q
	King  Rank = 13 // K
	Ace   Rank = 14 // A
)

// FaceDown is the display string for hidden cards.
const FaceDown = "▓"

// Card is a playing card. Two cards are equal iff rank and suit match.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard creates a Card with validation.
func NewCard(suit Suit, rank Rank) (Card, error) {
	if suit > Spade || rank < 2 || rank > Ace {
		return Card{}, fmt.Errorf("invalid card %d, %d", suit, rank)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Suit <= Spade && c.Rank >= 2 && c.Rank <= Ace
}

// IsFace reports whether the card is a Jack, Queen or King.
func (c Card) IsFace() bool {
	return c.Rank >= Jack && c.Rank <= King
}

// Pips is the numeric value of the card: 2-10 at face value, faces 10, ace 11.
func (c Card) Pips() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Jack:
		return 10
	default:
		return int(c.Rank)
	}
}

// String renders the card using suit symbols (♣, ♦, ♥, ♠) and rank
// abbreviations (A, J, Q, K, or number).
func (c Card) String() string {
	if !c.Valid() {
		return FaceDown
	}
	var suit string
	switch c.Suit {
	case Club:
		suit = pterm.Black("♣")
	case Diamond:
		suit = pterm.LightRed("♦")
	case Heart:
		suit = pterm.LightRed("♥")
	case Spade:
		suit = pterm.Black("♠")
	}
	return c.Rank.String() + suit
}

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return fmt.Sprintf("%d", r)
	}
}

func (s Suit) String() string {
	switch s {
	case Club:
		return "clubs"
	case Diamond:
		return "diamonds"
	case Heart:
		return "hearts"
	case Spade:
		return "spades"
	default:
		return "unknown"
	}
}

// ParseSuit resolves a suit name as produced by Suit.String.
func ParseSuit(name string) (Suit, error) {
	for _, s := range Suits {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Suit) MarshalText() ([]byte, error) {
	if s > Spade {
		return nil, fmt.Errorf("invalid suit %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Suit) UnmarshalText(b []byte) error {
	parsed, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

package deck

import (
	"errors"
	"testing"
)

func TestNewOrderedDeck(t *testing.T) {
	d := NewOrderedDeck()
	if len(d) != Size {
		t.Fatalf("expected %d cards, got %d", Size, len(d))
	}
	if d[0] != (Card{Rank: 2, Suit: Club}) {
		t.Fatalf("expected 2♣ first, got %v", d[0])
	}
	if d[Size-1] != (Card{Rank: Ace, Suit: Spade}) {
		t.Fatalf("expected A♠ last, got %v", d[Size-1])
	}
	if err := CheckAccounting(d); err != nil {
		t.Fatal(err)
	}
}

func TestNewCardValidation(t *testing.T) {
	if _, err := NewCard(Heart, 1); err == nil {
		t.Fatal("rank 1 must be rejected")
	}
	if _, err := NewCard(4, 10); err == nil {
		t.Fatal("suit 4 must be rejected")
	}
	c, err := NewCard(Heart, Queen)
	if err != nil {
		t.Fatal(err)
	}
	if c.Rank != Queen || c.Suit != Heart {
		t.Fatalf("unexpected card %+v", c)
	}
}

func TestDrawDoesNotMutate(t *testing.T) {
	d := NewOrderedDeck()
	drawn, rest, err := Draw(d, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(drawn) != 5 || len(rest) != Size-5 {
		t.Fatalf("unexpected sizes %d/%d", len(drawn), len(rest))
	}
	drawn[0] = Card{Rank: Ace, Suit: Spade}
	if d[0] != (Card{Rank: 2, Suit: Club}) {
		t.Fatal("input deck was modified through drawn slice")
	}
	if err := CheckAccounting(d[:5], rest); err != nil {
		t.Fatal(err)
	}
}

func TestDrawInsufficient(t *testing.T) {
	d := NewOrderedDeck()[:3]
	_, _, err := Draw(d, 4)
	var ic *InsufficientCardsError
	if !errors.As(err, &ic) {
		t.Fatalf("expected InsufficientCardsError, got %v", err)
	}
	if ic.Requested != 4 || ic.Available != 3 {
		t.Fatalf("unexpected error payload %+v", ic)
	}
	if _, _, err := Draw(d, -1); err == nil {
		t.Fatal("negative draw must fail")
	}
}

func TestSplit(t *testing.T) {
	d := NewOrderedDeck()[:5]
	picked, rest := Split(d, []int{0, 2})
	if len(picked) != 2 || picked[0] != d[0] || picked[1] != d[2] {
		t.Fatalf("unexpected picked %v", picked)
	}
	if len(rest) != 3 || rest[0] != d[1] {
		t.Fatalf("unexpected rest %v", rest)
	}
}

func TestCheckAccounting(t *testing.T) {
	d := NewOrderedDeck()
	if err := CheckAccounting(d[:10], d[10:51]); err == nil {
		t.Fatal("missing card not detected")
	}
	var accErr *AccountingError
	err := CheckAccounting(d, d[:1])
	if !errors.As(err, &accErr) || len(accErr.Duplicated) != 1 {
		t.Fatalf("duplicate not detected: %v", err)
	}
}

func TestPips(t *testing.T) {
	tests := []struct {
		card Card
		want int
	}{
		{Card{Rank: 2, Suit: Club}, 2},
		{Card{Rank: 10, Suit: Heart}, 10},
		{Card{Rank: King, Suit: Spade}, 10},
		{Card{Rank: Ace, Suit: Diamond}, 11},
	}
	for _, tt := range tests {
		if got := tt.card.Pips(); got != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.card, tt.want, got)
		}
	}
}

func TestRankAndSuitNames(t *testing.T) {
	if Ace.String() != "A" || Jack.String() != "J" || Rank(7).String() != "7" {
		t.Fatal("unexpected rank abbreviations")
	}
	s, err := ParseSuit("hearts")
	if err != nil || s != Heart {
		t.Fatalf("expected hearts, got %v (%v)", s, err)
	}
	if _, err := ParseSuit("cups"); err == nil {
		t.Fatal("unknown suit must be rejected")
	}
	if (Card{}).String() != FaceDown {
		t.Fatal("zero card must render face down")
	}
}

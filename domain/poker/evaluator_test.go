package poker

import (
	"testing"

	"github.com/luca-patrignani/action-cards/domain/deck"
)

func hand(t *testing.T, pairs ...any) []deck.Card {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatal("hand needs rank/suit pairs")
	}
	var cards []deck.Card
	for i := 0; i < len(pairs); i += 2 {
		c, err := deck.NewCard(pairs[i+1].(deck.Suit), deck.Rank(pairs[i].(int)))
		if err != nil {
			t.Fatal(err)
		}
		cards = append(cards, c)
	}
	return cards
}

func mustEvaluate(t *testing.T, cards []deck.Card) Evaluation {
	t.Helper()
	e, err := Evaluate(cards)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestCategories(t *testing.T) {
	const (
		c = deck.Club
		d = deck.Diamond
		h = deck.Heart
		s = deck.Spade
	)
	tests := []struct {
		name string
		hand []any
		want Category
	}{
		{"royal", []any{10, h, 11, h, 12, h, 13, h, 14, h}, RoyalFlush},
		{"straight flush", []any{9, s, 10, s, 11, s, 12, s, 13, s}, StraightFlush},
		{"steel wheel", []any{14, d, 2, d, 3, d, 4, d, 5, d}, StraightFlush},
		{"quads", []any{9, c, 9, d, 9, h, 9, s, 2, c}, FourOfAKind},
		{"full house", []any{3, c, 3, d, 3, h, 7, s, 7, c}, FullHouse},
		{"flush", []any{2, c, 6, c, 9, c, 11, c, 13, c}, Flush},
		{"straight", []any{5, c, 6, d, 7, h, 8, s, 9, c}, Straight},
		{"wheel", []any{14, c, 2, d, 3, h, 4, s, 5, c}, Straight},
		{"trips", []any{8, c, 8, d, 8, h, 2, s, 13, c}, ThreeOfAKind},
		{"two pair", []any{8, c, 8, d, 4, h, 4, s, 13, c}, TwoPair},
		{"pair", []any{12, c, 12, d, 4, h, 6, s, 13, c}, OnePair},
		{"high card", []any{2, c, 5, d, 9, h, 11, s, 13, c}, HighCard},
		{"ace high no straight", []any{14, c, 2, d, 3, h, 4, s, 6, c}, HighCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEvaluate(t, hand(t, tt.hand...))
			if e.Category != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, e.Category)
			}
		})
	}
}

func TestRoyalBeatsStraightFlush(t *testing.T) {
	royal := mustEvaluate(t, hand(t, 10, deck.Spade, 11, deck.Spade, 12, deck.Spade, 13, deck.Spade, 14, deck.Spade))
	sf := mustEvaluate(t, hand(t, 9, deck.Heart, 10, deck.Heart, 11, deck.Heart, 12, deck.Heart, 13, deck.Heart))
	if Compare(royal, sf) != 1 || Compare(sf, royal) != -1 {
		t.Fatal("royal flush must beat king-high straight flush")
	}
}

func TestWheelIsFiveHigh(t *testing.T) {
	wheel := mustEvaluate(t, hand(t, 14, deck.Club, 2, deck.Diamond, 3, deck.Heart, 4, deck.Spade, 5, deck.Club))
	if wheel.Tiebreakers[0] != 5 {
		t.Fatalf("expected five-high, got %v", wheel.Tiebreakers)
	}
	sixHigh := mustEvaluate(t, hand(t, 2, deck.Club, 3, deck.Diamond, 4, deck.Heart, 5, deck.Spade, 6, deck.Club))
	if Compare(sixHigh, wheel) != 1 {
		t.Fatal("six-high straight must beat the wheel")
	}
}

func TestHighestTripleWinsFullHouse(t *testing.T) {
	// Two triples in seven cards: kings full of fours.
	e := mustEvaluate(t, hand(t,
		4, deck.Club, 4, deck.Diamond, 4, deck.Heart,
		13, deck.Club, 13, deck.Diamond, 13, deck.Heart,
		2, deck.Spade))
	if e.Category != FullHouse || e.Tiebreakers[0] != 13 || e.Tiebreakers[1] != 4 {
		t.Fatalf("expected kings full of fours, got %v %v", e.Category, e.Tiebreakers)
	}
}

func TestKickersBreakTies(t *testing.T) {
	a := mustEvaluate(t, hand(t, 12, deck.Club, 12, deck.Diamond, 9, deck.Heart, 6, deck.Spade, 3, deck.Club))
	b := mustEvaluate(t, hand(t, 12, deck.Heart, 12, deck.Spade, 9, deck.Club, 5, deck.Diamond, 4, deck.Club))
	if Compare(a, b) != 1 {
		t.Fatal("six kicker should beat five kicker")
	}
	c := mustEvaluate(t, hand(t, 12, deck.Heart, 12, deck.Spade, 9, deck.Club, 6, deck.Diamond, 3, deck.Diamond))
	if Compare(a, c) != 0 {
		t.Fatal("identical ranks must tie")
	}
}

func TestSevenCardsAtLeastEverySubset(t *testing.T) {
	src := deck.NewSeededSource(7)
	for trial := 0; trial < 200; trial++ {
		cards := deck.NewShuffledDeck(src)[:7]
		best := mustEvaluate(t, cards)
		forEachFive(cards, func(five [5]deck.Card) {
			sub := mustEvaluate(t, five[:])
			if Compare(best, sub) < 0 {
				t.Fatalf("subset %v beats seven card evaluation of %v", five, cards)
			}
		})
	}
}

func TestAgreesWithReferenceEvaluator(t *testing.T) {
	src := deck.NewSeededSource(99)
	for trial := 0; trial < 300; trial++ {
		shuffled := deck.NewShuffledDeck(src)
		a, b := shuffled[:7], shuffled[7:14]
		ra, err := ReferenceStrength7(a)
		if err != nil {
			t.Fatal(err)
		}
		rb, err := ReferenceStrength7(b)
		if err != nil {
			t.Fatal(err)
		}
		want := 0
		if ra > rb {
			want = 1
		} else if ra < rb {
			want = -1
		}
		if got := Compare(mustEvaluate(t, a), mustEvaluate(t, b)); got != want {
			t.Fatalf("disagreement on %v vs %v: native %d, reference %d", a, b, got, want)
		}
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	if _, err := Evaluate(hand(t, 2, deck.Club, 3, deck.Club, 4, deck.Club, 5, deck.Club)); err == nil {
		t.Fatal("four cards must be rejected")
	}
	dup := hand(t, 2, deck.Club, 2, deck.Club, 4, deck.Club, 5, deck.Club, 9, deck.Heart)
	if _, err := Evaluate(dup); err == nil {
		t.Fatal("duplicate cards must be rejected")
	}
}

func TestDescribeFallsBackOnShortHands(t *testing.T) {
	if got := Describe(hand(t, 2, deck.Club)); got != "Incomplete Hand" {
		t.Fatalf("unexpected description %q", got)
	}
	if got := Describe(hand(t, 10, deck.Heart, 11, deck.Heart, 12, deck.Heart, 13, deck.Heart, 14, deck.Heart)); got == "" {
		t.Fatal("expected a description")
	}
}

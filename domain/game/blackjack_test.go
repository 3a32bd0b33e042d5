package game

import (
	"testing"

	"github.com/luca-patrignani/action-cards/domain/deck"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

func TestHandValueDemotesAces(t *testing.T) {
	tests := []struct {
		cards []deck.Card
		want  int
	}{
		{[]deck.Card{card(14, deck.Spade), card(13, deck.Heart)}, 21},
		{[]deck.Card{card(14, deck.Spade), card(14, deck.Heart)}, 12},
		{[]deck.Card{card(14, deck.Spade), card(9, deck.Heart), card(5, deck.Club)}, 15},
		{[]deck.Card{card(10, deck.Spade), card(9, deck.Heart), card(5, deck.Club)}, 24},
	}
	for _, tt := range tests {
		if got := handValue(tt.cards); got != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.cards, tt.want, got)
		}
	}
}

func TestNaturalRejectsDoubleDown(t *testing.T) {
	r, s := initGame(t, TypeBlackjack, 0)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(14, deck.Spade), card(13, deck.Heart)},
		dealer: []deck.Card{card(9, deck.Club), card(7, deck.Diamond)},
		top:    []deck.Card{card(2, deck.Club)},
	})
	if !s.Blackjack.IsNatural {
		t.Fatal("expected a natural")
	}
	expectRejected(t, r, s, Action{Type: ActionDoubleDown}, apperrors.CodeValidation)
	expectRejected(t, r, s, Action{Type: ActionHit}, apperrors.CodeValidation)

	s = apply(t, r, s, Action{Type: ActionStand})
	if got := handValue(s.Blackjack.DealerHand); got != 18 {
		t.Fatalf("dealer should draw to 18, got %d", got)
	}
	_, res := settle(t, r, s)
	if !res.Success || res.Score != DefaultConfig().Blackjack.NaturalPoints {
		t.Fatalf("unexpected natural result %+v", res)
	}
}

func TestDoubleDownOnlyOnInitialCards(t *testing.T) {
	r, s := initGame(t, TypeBlackjack, 0)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(2, deck.Spade), card(3, deck.Heart)},
		dealer: []deck.Card{card(9, deck.Club), card(7, deck.Diamond)},
		top:    []deck.Card{card(4, deck.Club), card(6, deck.Heart)},
	})
	hit := apply(t, r, s, Action{Type: ActionHit})
	expectRejected(t, r, hit, Action{Type: ActionDoubleDown}, apperrors.CodeValidation)

	doubled := apply(t, r, s, Action{Type: ActionDoubleDown})
	if !doubled.Blackjack.DoubledDown || len(doubled.Hand) != 3 || !r.IsTerminal(doubled) {
		t.Fatalf("double down should take one card and stand: %+v", doubled.Blackjack)
	}
}

func TestDealerHitsBelowSeventeen(t *testing.T) {
	r, s := initGame(t, TypeBlackjack, 0)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(10, deck.Spade), card(7, deck.Heart)},
		dealer: []deck.Card{card(10, deck.Club), card(6, deck.Diamond)},
		top:    []deck.Card{card(5, deck.Club)},
	})
	s = apply(t, r, s, Action{Type: ActionStand})
	if len(s.Blackjack.DealerHand) != 3 || handValue(s.Blackjack.DealerHand) != 21 {
		t.Fatalf("dealer should hit to 21: %v", s.Blackjack.DealerHand)
	}
	_, res := settle(t, r, s)
	if res.Success {
		t.Fatalf("17 against 21 must fail: %+v", res)
	}
}

func TestInsuranceResolvesAgainstHoleCard(t *testing.T) {
	r, s := initGame(t, TypeBlackjack, 0)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(9, deck.Spade), card(7, deck.Heart)},
		dealer: []deck.Card{card(14, deck.Club), card(13, deck.Club)},
	})
	insured := apply(t, r, s, Action{Type: ActionInsurance})
	if !insured.Blackjack.InsuranceWon || !r.IsTerminal(insured) {
		t.Fatalf("insurance against a dealer blackjack should win and end the hand: %+v", insured.Blackjack)
	}
	_, res := settle(t, r, insured)
	if res.HandDescription != "Dealer blackjack, insured" || res.Score != DefaultConfig().Blackjack.PushPoints {
		t.Fatalf("unexpected insured result %+v", res)
	}

	r, s = initGame(t, TypeBlackjack, 0)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(9, deck.Spade), card(7, deck.Heart)},
		dealer: []deck.Card{card(14, deck.Club), card(5, deck.Diamond)},
	})
	insured = apply(t, r, s, Action{Type: ActionInsurance})
	if insured.Blackjack.InsuranceWon || r.IsTerminal(insured) || insured.Blackjack.HoleRevealed {
		t.Fatalf("insurance without dealer blackjack keeps the hand going: %+v", insured.Blackjack)
	}
	expectRejected(t, r, insured, Action{Type: ActionInsurance}, apperrors.CodeValidation)
}

func TestInsuranceNeedsDealerAce(t *testing.T) {
	r, s := initGame(t, TypeBlackjack, 0)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(9, deck.Spade), card(7, deck.Heart)},
		dealer: []deck.Card{card(10, deck.Club), card(5, deck.Diamond)},
	})
	expectRejected(t, r, s, Action{Type: ActionInsurance}, apperrors.CodeValidation)
}

func TestBustIsForcedFailure(t *testing.T) {
	r, s := initGame(t, TypeBlackjack, 100)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(10, deck.Spade), card(6, deck.Heart)},
		dealer: []deck.Card{card(10, deck.Club), card(7, deck.Diamond)},
		top:    []deck.Card{card(9, deck.Club)},
	})
	s = apply(t, r, s, Action{Type: ActionHit})
	if !s.Blackjack.Busted || !r.IsTerminal(s) {
		t.Fatal("expected bust")
	}
	_, res := settle(t, r, s)
	if res.Success {
		t.Fatalf("bust must fail regardless of skill: %+v", res)
	}
}

func TestRerollReplacesLastHit(t *testing.T) {
	r, s := initGame(t, TypeBlackjack, 30)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(10, deck.Spade), card(2, deck.Heart)},
		dealer: []deck.Card{card(10, deck.Club), card(7, deck.Diamond)},
		top:    []deck.Card{card(2, deck.Club), card(8, deck.Heart)},
	})
	expectRejected(t, r, s, Action{Type: ActionReroll}, apperrors.CodeValidation)
	s = apply(t, r, s, Action{Type: ActionHit})
	s = apply(t, r, s, Action{Type: ActionReroll})
	if s.Hand[2] != card(8, deck.Heart) || !deck.Contains(s.Discard, card(2, deck.Club)) {
		t.Fatalf("reroll should swap the hit card: hand %v discard %v", s.Hand, s.Discard)
	}
	if s.RerollsLeft() != 0 {
		t.Fatalf("expected no rerolls left, got %d", s.RerollsLeft())
	}
}

func TestBlackjackViewHidesHoleCard(t *testing.T) {
	r, s := initGame(t, TypeBlackjack, 0)
	rig(t, &s, rigged{
		hand:   []deck.Card{card(9, deck.Spade), card(7, deck.Heart)},
		dealer: []deck.Card{card(10, deck.Club), card(5, deck.Diamond)},
	})
	v := NewView(r, s, false)
	if v.Blackjack.DealerCards[1].Valid() {
		t.Fatal("hole card visible to the actor")
	}
	if v.Blackjack.DealerValue != 10 || v.Deck != nil || v.DeckCount != len(s.Deck) {
		t.Fatalf("unexpected actor view %+v", v.Blackjack)
	}
	if s.Blackjack.DealerHand[1] != card(5, deck.Diamond) {
		t.Fatal("rendering a view modified the state")
	}
	pv := NewView(r, s, true)
	if pv.Blackjack.DealerCards[1] != card(5, deck.Diamond) || len(pv.Deck) != len(s.Deck) {
		t.Fatal("privileged view must show every card")
	}
}

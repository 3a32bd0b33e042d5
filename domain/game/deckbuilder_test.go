package game

import (
	"testing"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/wager"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

func TestDeckbuilderScoresBestFiveOfSeven(t *testing.T) {
	r, s := initGame(t, TypeDeckbuilder, 0)
	rig(t, &s, rigged{
		hand: []deck.Card{card(2, deck.Heart), card(7, deck.Heart), card(9, deck.Heart), card(4, deck.Club), card(13, deck.Spade)},
		top:  []deck.Card{card(11, deck.Heart), card(3, deck.Heart)},
	})
	s = apply(t, r, s, Action{Type: ActionDraw})
	s = apply(t, r, s, Action{Type: ActionDraw})
	if len(s.Hand) != 7 {
		t.Fatalf("expected seven cards, got %d", len(s.Hand))
	}
	expectRejected(t, r, s, Action{Type: ActionDraw}, apperrors.CodeValidation)

	_, res := settle(t, r, s)
	sc := DefaultConfig().Scoring
	want := sc.Categories.Flush + 5*sc.SuitMatchPoints
	if res.Score != want {
		t.Fatalf("expected heart flush worth %v, got %+v", want, res)
	}
}

func TestDeckbuilderEarlyFinishNeedsAbility(t *testing.T) {
	r, s := initGame(t, TypeDeckbuilder, 0)
	expectRejected(t, r, s, Action{Type: ActionFinish}, apperrors.CodeValidation)

	r, s = initGame(t, TypeDeckbuilder, 40)
	s = apply(t, r, s, Action{Type: ActionFinish})
	if !r.IsTerminal(s) {
		t.Fatal("finish should end the game")
	}
}

func TestDeckbuilderDiscardBudget(t *testing.T) {
	r, s := initGame(t, TypeDeckbuilder, 0)
	expectRejected(t, r, s, Action{Type: ActionDiscard}, apperrors.CodeValidation)
	expectRejected(t, r, s, Action{Type: ActionDiscard, Indices: []int{0, 0}}, apperrors.CodeValidation)
	s = apply(t, r, s, Action{Type: ActionDiscard, Indices: []int{0}})
	s = apply(t, r, s, Action{Type: ActionDiscard, Indices: []int{0}})
	if len(s.Hand) != 3 || len(s.Discard) != 2 {
		t.Fatalf("unexpected piles: hand %d discard %d", len(s.Hand), len(s.Discard))
	}
	expectRejected(t, r, s, Action{Type: ActionDiscard, Indices: []int{0}}, apperrors.CodeValidation)

	_, res := settle(t, r, s)
	if res.Success || res.HandDescription != "Incomplete Hand" {
		t.Fatalf("three cards cannot be scored: %+v", res)
	}
}

func TestDeckbuilderEndsWhenBudgetsSpent(t *testing.T) {
	r, s := initGame(t, TypeDeckbuilder, 0)
	s = apply(t, r, s, Action{Type: ActionDiscard, Indices: []int{0, 1}})
	s = apply(t, r, s, Action{Type: ActionDiscard, Indices: []int{0}})
	for i := 0; i < DefaultConfig().Deckbuilder.Draws; i++ {
		s = apply(t, r, s, Action{Type: ActionDraw})
	}
	if !r.IsTerminal(s) {
		t.Fatalf("expected terminal with budgets spent, actions %v", r.Actions(s))
	}
}

func TestDeckbuilderFullHandWithoutDiscardsEnds(t *testing.T) {
	// Level 35: one extra draw, no early finish, no peeks.
	r, s := initGame(t, TypeDeckbuilder, 35)
	for _, a := range []Action{
		{Type: ActionDraw},
		{Type: ActionDraw},
		{Type: ActionDiscard, Indices: []int{0}},
		{Type: ActionDraw},
		{Type: ActionDiscard, Indices: []int{0}},
		{Type: ActionDraw},
	} {
		s = apply(t, r, s, a)
	}
	if len(s.Hand) != DefaultConfig().Deckbuilder.MaxHand {
		t.Fatalf("expected a full hand, got %d cards", len(s.Hand))
	}
	if !r.IsTerminal(s) || r.TurnsRemaining(s) != 0 || len(r.Actions(s)) != 0 {
		t.Fatalf("expected terminal: terminal %v, turns %d, actions %v",
			r.IsTerminal(s), r.TurnsRemaining(s), r.Actions(s))
	}
	if got := wager.BailOut(wager.DefaultConfig(), 110, r.TurnsRemaining(s)); got != 110 {
		t.Fatalf("bail out with no turn left should pay in full, got %d", got)
	}
	expectRejected(t, r, s, Action{Type: ActionDraw}, apperrors.CodeSessionTerminal)
}

func TestDeckbuilderFullHandCanFinish(t *testing.T) {
	r, s := initGame(t, TypeDeckbuilder, 0)
	s = apply(t, r, s, Action{Type: ActionDraw})
	s = apply(t, r, s, Action{Type: ActionDraw})
	if r.IsTerminal(s) {
		t.Fatal("discards left keep the game open")
	}
	s = apply(t, r, s, Action{Type: ActionFinish})
	if !r.IsTerminal(s) {
		t.Fatal("finish should end the game")
	}
}

package game

import (
	"testing"

	"github.com/luca-patrignani/action-cards/domain/deck"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

func TestPressLuckAvoidedDangerIsFlaggedAndExcluded(t *testing.T) {
	r, s := initGame(t, TypePressLuck, 50)
	rig(t, &s, rigged{top: []deck.Card{card(5, deck.Club), card(13, deck.Diamond), card(9, deck.Heart)}})
	lucky := orderedSource{roll: 0.1} // below the 0.2 avoid chance at level 50

	var err error
	for i := 0; i < 3; i++ {
		if s, err = r.Apply(s, Action{Type: ActionDraw}, lucky); err != nil {
			t.Fatal(err)
		}
	}
	pl := s.PressLuck
	if pl.Busted {
		t.Fatal("danger card should have been avoided")
	}
	if len(pl.Avoided) != 1 || pl.Avoided[0] != card(13, deck.Diamond) {
		t.Fatalf("expected the king flagged as avoided, got %v", pl.Avoided)
	}
	if deck.Contains(s.Hand, card(13, deck.Diamond)) || !deck.Contains(s.Discard, card(13, deck.Diamond)) {
		t.Fatal("avoided card must be set aside, not kept in hand")
	}
	if pl.Total != 14 || len(s.Hand) != 2 {
		t.Fatalf("expected total 14 over two cards, got %d over %d", pl.Total, len(s.Hand))
	}

	s = apply(t, r, s, Action{Type: ActionStop})
	if !r.IsTerminal(s) {
		t.Fatal("stop must end the round")
	}
	_, res := settle(t, r, s)
	if res.Breakdown[0].Value != 28 {
		t.Fatalf("expected 28 banked points, got %+v", res.Breakdown)
	}
}

func TestPressLuckBustWithoutSkill(t *testing.T) {
	r, s := initGame(t, TypePressLuck, 0)
	rig(t, &s, rigged{top: []deck.Card{card(10, deck.Club), card(12, deck.Spade)}})
	s = apply(t, r, s, Action{Type: ActionDraw})
	s = apply(t, r, s, Action{Type: ActionDraw})
	if !s.PressLuck.Busted || s.PressLuck.BustCard == nil || *s.PressLuck.BustCard != card(12, deck.Spade) {
		t.Fatalf("expected bust on the queen: %+v", s.PressLuck)
	}
	expectRejected(t, r, s, Action{Type: ActionDraw}, apperrors.CodeSessionTerminal)
	_, res := settle(t, r, s)
	if res.Success || res.Score != 0 {
		t.Fatalf("bust must fail with no points: %+v", res)
	}
}

func TestPressLuckDrawLimit(t *testing.T) {
	r, s := initGame(t, TypePressLuck, 0)
	// Canonical order starts with low clubs: no danger in the first eight.
	for i := 0; i < DefaultConfig().PressLuck.MaxDraws; i++ {
		if r.TurnsRemaining(s) != DefaultConfig().PressLuck.MaxDraws-i {
			t.Fatalf("unexpected turns remaining %d", r.TurnsRemaining(s))
		}
		s = apply(t, r, s, Action{Type: ActionDraw})
	}
	if !r.IsTerminal(s) || r.TurnsRemaining(s) != 0 {
		t.Fatal("draw limit must end the round")
	}
	_, res := settle(t, r, s)
	// 2+3+...+9 = 44, capped at 100 after doubling.
	if res.Score != 88 {
		t.Fatalf("expected 88, got %v", res.Score)
	}
}

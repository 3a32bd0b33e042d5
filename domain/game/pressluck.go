package game

import (
	"fmt"
	"math"
	"slices"

	"github.com/luca-patrignani/action-cards/domain/deck"
)

// pressLuck draws cards one at a time, accumulating pips until the player
// stops or a danger card busts the round. Skill may let a danger card pass:
// it is set aside, flagged in Avoided and never joins the hand.
type pressLuck struct {
	cfg Config
}

func (r *pressLuck) Type() Type { return TypePressLuck }

func (r *pressLuck) isDanger(c deck.Card) bool {
	return slices.Contains(r.cfg.PressLuck.DangerRanks, c.Rank)
}

func (r *pressLuck) Init(p InitParams) (State, error) {
	s, err := newState(TypePressLuck, p)
	if err != nil {
		return State{}, err
	}
	s.PressLuck = &PressLuckState{}
	return s, checkAccounting(s)
}

func (r *pressLuck) IsTerminal(s State) bool {
	pl := s.PressLuck
	if pl == nil {
		return true
	}
	return pl.Busted || pl.Stopped || pl.Draws >= r.cfg.PressLuck.MaxDraws
}

func (r *pressLuck) TurnsRemaining(s State) int {
	if r.IsTerminal(s) {
		return 0
	}
	return r.cfg.PressLuck.MaxDraws - s.PressLuck.Draws
}

func (r *pressLuck) Actions(s State) []ActionType {
	if r.IsTerminal(s) {
		return nil
	}
	actions := []ActionType{ActionDraw, ActionStop}
	if s.PeeksLeft() > 0 && !nextCardKnown(s) {
		actions = append(actions, ActionPeek)
	}
	return actions
}

func (r *pressLuck) Apply(s State, a Action, src deck.RandomSource) (State, error) {
	if s.PressLuck == nil {
		return s, wrongVariant(TypePressLuck)
	}
	if r.IsTerminal(s) {
		return s, terminalErr(TypePressLuck)
	}
	next := s.Clone()
	pl := next.PressLuck
	switch a.Type {
	case ActionDraw:
		drawn, err := drawCards(&next, 1)
		if err != nil {
			return s, err
		}
		card := drawn[0]
		pl.Draws++
		switch {
		case !r.isDanger(card):
			next.Hand = append(next.Hand, card)
			pl.Total += card.Pips()
		case src != nil && src.Float64() < next.Modifiers.Abilities.DangerAvoidChance:
			next.Discard = append(next.Discard, card)
			pl.Avoided = append(pl.Avoided, card)
		default:
			next.Discard = append(next.Discard, card)
			pl.BustCard = &card
			pl.Busted = true
		}
	case ActionStop:
		pl.Stopped = true
	case ActionPeek:
		if err := peekDeck(&next); err != nil {
			return s, err
		}
	default:
		return s, rejectf("action %q is not part of press your luck", a.Type)
	}
	next.TurnCount++
	if err := checkAccounting(next); err != nil {
		return s, err
	}
	return next, nil
}

func (r *pressLuck) Settle(s State) (State, Result, error) {
	if s.PressLuck == nil {
		return s, Result{}, wrongVariant(TypePressLuck)
	}
	final := s.Clone()
	pl := final.PressLuck
	sc := r.cfg.Scoring
	if pl.Busted {
		label := fmt.Sprintf("Bust on %s of %s after %d", pl.BustCard.Rank, pl.BustCard.Suit, pl.Total)
		return final, sc.finalize(final, 0, label, []Contribution{{Label: label, Value: 0}}, true), nil
	}
	pl.Stopped = true
	raw := math.Min(100, float64(pl.Total)*r.cfg.PressLuck.PointsPerValue)
	label := fmt.Sprintf("Banked %d in %d draws", pl.Total, pl.Draws)
	breakdown := []Contribution{{Label: "banked total", Value: raw}}
	if n := len(pl.Avoided); n > 0 {
		label += fmt.Sprintf(", %d danger avoided", n)
	}
	return final, sc.finalize(final, raw, label, breakdown, false), nil
}

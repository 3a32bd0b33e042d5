package game

import (
	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/poker"
)

const drawPokerHandSize = 5

// drawPoker deals five cards and allows hold-and-redraw rounds. Every skill
// reroll grants one round on top of the base allowance.
type drawPoker struct {
	cfg Config
}

func (r *drawPoker) Type() Type { return TypeDrawPoker }

func (r *drawPoker) rounds(s State) int {
	return r.cfg.DrawPoker.BaseDrawRounds + s.Modifiers.Abilities.RerollsAvailable
}

func (r *drawPoker) Init(p InitParams) (State, error) {
	s, err := newState(TypeDrawPoker, p)
	if err != nil {
		return State{}, err
	}
	s.DrawPoker = &DrawPokerState{}
	if s.Hand, err = drawCards(&s, drawPokerHandSize); err != nil {
		return State{}, err
	}
	return s, checkAccounting(s)
}

func (r *drawPoker) IsTerminal(s State) bool {
	if s.DrawPoker == nil {
		return true
	}
	return s.DrawPoker.Stood || s.DrawPoker.RoundsUsed >= r.rounds(s)
}

func (r *drawPoker) TurnsRemaining(s State) int {
	if r.IsTerminal(s) {
		return 0
	}
	return r.rounds(s) - s.DrawPoker.RoundsUsed
}

func (r *drawPoker) Actions(s State) []ActionType {
	if r.IsTerminal(s) {
		return nil
	}
	actions := []ActionType{ActionHold, ActionStand}
	if s.PeeksLeft() > 0 && !nextCardKnown(s) {
		actions = append(actions, ActionPeek)
	}
	return actions
}

func (r *drawPoker) Apply(s State, a Action, _ deck.RandomSource) (State, error) {
	if s.DrawPoker == nil {
		return s, wrongVariant(TypeDrawPoker)
	}
	if r.IsTerminal(s) {
		return s, terminalErr(TypeDrawPoker)
	}
	next := s.Clone()
	switch a.Type {
	case ActionHold:
		if err := validateIndices(a.Indices, len(next.Hand)); err != nil {
			return s, err
		}
		held, discarded := deck.Split(next.Hand, a.Indices)
		drawn, err := drawCards(&next, len(discarded))
		if err != nil {
			return s, err
		}
		next.Discard = append(next.Discard, discarded...)
		next.Hand = append(held, drawn...)
		next.DrawPoker.RoundsUsed++
		next.RerollsUsed = max(0, next.DrawPoker.RoundsUsed-r.cfg.DrawPoker.BaseDrawRounds)
	case ActionStand:
		next.DrawPoker.Stood = true
	case ActionPeek:
		if err := peekDeck(&next); err != nil {
			return s, err
		}
	default:
		return s, rejectf("action %q is not part of draw poker", a.Type)
	}
	next.TurnCount++
	if err := checkAccounting(next); err != nil {
		return s, err
	}
	return next, nil
}

func (r *drawPoker) Settle(s State) (State, Result, error) {
	if s.DrawPoker == nil {
		return s, Result{}, wrongVariant(TypeDrawPoker)
	}
	eval, err := poker.Evaluate(s.Hand)
	if err != nil {
		return s, Result{}, err
	}
	sc := r.cfg.Scoring
	category := sc.Categories.Points(eval.Category)
	suit := sc.suitMatch(s, s.Hand)
	breakdown := []Contribution{{Label: eval.Category.String(), Value: category}}
	if suit > 0 {
		breakdown = append(breakdown, Contribution{Label: "suit match", Value: suit})
	}
	final := s.Clone()
	final.DrawPoker.Stood = true
	return final, sc.finalize(s, category+suit, poker.Describe(s.Hand), breakdown, false), nil
}

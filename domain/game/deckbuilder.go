package game

import (
	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/poker"
)

// deckbuilder grows a hand of up to seven cards under a draw and discard
// budget; the best five cards are scored. Skill rerolls add draws.
type deckbuilder struct {
	cfg Config
}

func (r *deckbuilder) Type() Type { return TypeDeckbuilder }

func (r *deckbuilder) drawsLeft(s State) int {
	return max(0, r.cfg.Deckbuilder.Draws+s.Modifiers.Abilities.RerollsAvailable-s.Deckbuilder.DrawsUsed)
}

// canDraw reports whether a draw is both budgeted and has room in the hand.
func (r *deckbuilder) canDraw(s State) bool {
	return r.drawsLeft(s) > 0 && len(s.Hand) < r.cfg.Deckbuilder.MaxHand
}

func (r *deckbuilder) discardsLeft(s State) int {
	return max(0, r.cfg.Deckbuilder.Discards-s.Deckbuilder.DiscardsUsed)
}

func (r *deckbuilder) Init(p InitParams) (State, error) {
	s, err := newState(TypeDeckbuilder, p)
	if err != nil {
		return State{}, err
	}
	s.Deckbuilder = &DeckbuilderState{}
	if s.Hand, err = drawCards(&s, r.cfg.Deckbuilder.InitialHand); err != nil {
		return State{}, err
	}
	return s, checkAccounting(s)
}

func (r *deckbuilder) IsTerminal(s State) bool {
	if s.Deckbuilder == nil {
		return true
	}
	// A full hand with no discard left can never draw again.
	return s.Deckbuilder.Finished || (!r.canDraw(s) && r.discardsLeft(s) == 0)
}

func (r *deckbuilder) TurnsRemaining(s State) int {
	if r.IsTerminal(s) {
		return 0
	}
	return r.drawsLeft(s)
}

func (r *deckbuilder) canFinish(s State) bool {
	return !r.canDraw(s) || s.Modifiers.Abilities.CanEarlyFinish
}

func (r *deckbuilder) Actions(s State) []ActionType {
	if r.IsTerminal(s) {
		return nil
	}
	var actions []ActionType
	if r.canDraw(s) {
		actions = append(actions, ActionDraw)
	}
	if r.discardsLeft(s) > 0 && len(s.Hand) > 0 {
		actions = append(actions, ActionDiscard)
	}
	if r.canFinish(s) {
		actions = append(actions, ActionFinish)
	}
	if s.PeeksLeft() > 0 && !nextCardKnown(s) {
		actions = append(actions, ActionPeek)
	}
	return actions
}

func (r *deckbuilder) Apply(s State, a Action, _ deck.RandomSource) (State, error) {
	if s.Deckbuilder == nil {
		return s, wrongVariant(TypeDeckbuilder)
	}
	if r.IsTerminal(s) {
		return s, terminalErr(TypeDeckbuilder)
	}
	next := s.Clone()
	db := next.Deckbuilder
	switch a.Type {
	case ActionDraw:
		if r.drawsLeft(next) == 0 {
			return s, rejectf("no draws left")
		}
		if len(next.Hand) >= r.cfg.Deckbuilder.MaxHand {
			return s, rejectf("hand already holds %d cards", len(next.Hand))
		}
		drawn, err := drawCards(&next, 1)
		if err != nil {
			return s, err
		}
		next.Hand = append(next.Hand, drawn...)
		db.DrawsUsed++
		next.RerollsUsed = max(0, db.DrawsUsed-r.cfg.Deckbuilder.Draws)
	case ActionDiscard:
		if r.discardsLeft(next) == 0 {
			return s, rejectf("no discards left")
		}
		if len(a.Indices) == 0 {
			return s, rejectf("discard needs at least one card")
		}
		if err := validateIndices(a.Indices, len(next.Hand)); err != nil {
			return s, err
		}
		discarded, kept := deck.Split(next.Hand, a.Indices)
		next.Hand = kept
		next.Discard = append(next.Discard, discarded...)
		db.DiscardsUsed++
	case ActionFinish:
		if !r.canFinish(next) {
			return s, rejectf("finishing with usable draws left needs the early finish ability")
		}
		db.Finished = true
	case ActionPeek:
		if err := peekDeck(&next); err != nil {
			return s, err
		}
	default:
		return s, rejectf("action %q is not part of the deckbuilder", a.Type)
	}
	next.TurnCount++
	if err := checkAccounting(next); err != nil {
		return s, err
	}
	return next, nil
}

func (r *deckbuilder) Settle(s State) (State, Result, error) {
	if s.Deckbuilder == nil {
		return s, Result{}, wrongVariant(TypeDeckbuilder)
	}
	final := s.Clone()
	final.Deckbuilder.Finished = true
	sc := r.cfg.Scoring
	if len(final.Hand) < 5 {
		label := "Incomplete Hand"
		return final, sc.finalize(final, 0, label, []Contribution{{Label: label, Value: 0}}, true), nil
	}
	eval, err := poker.Evaluate(final.Hand)
	if err != nil {
		return s, Result{}, err
	}
	category := sc.Categories.Points(eval.Category)
	raw := category + sc.suitMatch(final, eval.Best)
	breakdown := []Contribution{{Label: eval.Category.String(), Value: category}}
	if suit := raw - category; suit > 0 {
		breakdown = append(breakdown, Contribution{Label: "suit match", Value: suit})
	}
	if cc, ok := sc.cardCounting(final); ok {
		breakdown = append(breakdown, Contribution{Label: "card counting", Value: cc})
		raw += cc
	}
	return final, sc.finalize(final, raw, poker.Describe(final.Hand), breakdown, false), nil
}

package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/luca-patrignani/action-cards/domain/deck"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

func rejectf(format string, args ...any) error {
	return apperrors.New(apperrors.CodeValidation, fmt.Sprintf(format, args...))
}

func terminalErr(t Type) error {
	return apperrors.New(apperrors.CodeSessionTerminal, fmt.Sprintf("%s game is already over", t))
}

func wrongVariant(t Type) error {
	return apperrors.New(apperrors.CodeInvariantViolation, fmt.Sprintf("state does not hold a %s game", t))
}

// validateIndices checks that every index addresses one of n cards and none
// repeats.
func validateIndices(idx []int, n int) error {
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i < 0 || i >= n {
			return rejectf("card index %d out of range [0, %d)", i, n)
		}
		if seen[i] {
			return rejectf("card index %d given twice", i)
		}
		seen[i] = true
	}
	return nil
}

// drawCards moves n cards from the deck of s into a returned slice.
func drawCards(s *State, n int) ([]deck.Card, error) {
	drawn, rest, err := deck.Draw(s.Deck, n)
	if err != nil {
		var ic *deck.InsufficientCardsError
		if errors.As(err, &ic) {
			return nil, apperrors.Wrap(apperrors.CodeInsufficientCards, "draw", err)
		}
		return nil, err
	}
	s.Deck = rest
	return drawn, nil
}

func checkAccounting(s State) error {
	if err := deck.CheckAccounting(s.piles()...); err != nil {
		return apperrors.Wrap(apperrors.CodeInvariantViolation, "deck accounting", err)
	}
	return nil
}

// newState deals nothing; it shuffles a fresh deck and copies the params.
func newState(t Type, p InitParams) (State, error) {
	if p.Random == nil {
		return State{}, apperrors.New(apperrors.CodeInvariantViolation, "no random source")
	}
	var w = p.Wager
	if w != nil {
		cp := *w
		w = &cp
	}
	return State{
		SessionID:      p.SessionID,
		ActorID:        p.ActorID,
		GameType:       t,
		Difficulty:     p.Difficulty,
		RelevantSuit:   p.RelevantSuit,
		SkillLevel:     p.SkillLevel,
		Modifiers:      p.Modifiers,
		EquipmentBonus: p.EquipmentBonus,
		Deck:           deck.NewShuffledDeck(p.Random),
		TimeLimit:      p.TimeLimit,
		StartedAt:      p.StartedAt,
		Status:         StatusInProgress,
		Wager:          w,
	}, nil
}

// peekDeck reveals the top card of the deck to the player.
func peekDeck(s *State) error {
	if s.PeeksLeft() == 0 {
		return rejectf("no peeks left")
	}
	if len(s.Deck) == 0 {
		return rejectf("deck is empty")
	}
	top := s.Deck[0]
	if deck.Contains(s.Peeked, top) {
		return rejectf("next card already revealed")
	}
	s.Peeked = append(s.Peeked, top)
	s.PeeksUsed++
	return nil
}

// nextCardKnown reports whether the top of the deck has been peeked.
func nextCardKnown(s State) bool {
	return len(s.Deck) > 0 && deck.Contains(s.Peeked, s.Deck[0])
}

// finalize adds the skill bonus to raw and judges the total against the
// difficulty target.
func (c Scoring) finalize(s State, raw float64, description string, breakdown []Contribution, forcedFailure bool) Result {
	target := c.Target(s.Difficulty)
	score := raw
	if s.Modifiers.TotalBonus > 0 {
		breakdown = append(breakdown, Contribution{Label: "skill bonus", Value: s.Modifiers.TotalBonus})
		score += s.Modifiers.TotalBonus
	}
	score = math.Round(score*100) / 100
	success := !forcedFailure && score >= target
	return Result{
		Success:         success,
		Score:           score,
		Target:          target,
		HandDescription: description,
		Breakdown:       breakdown,
		RewardsHint:     c.hint(score, target, success),
	}
}

func (c Scoring) hint(score, target float64, success bool) RewardsHint {
	switch {
	case !success:
		return RewardsHint{Grade: GradeNone, Multiplier: 0}
	case score >= target+c.CriticalMargin:
		return RewardsHint{Grade: GradeCritical, Multiplier: 2}
	case score >= target+c.MajorMargin:
		return RewardsHint{Grade: GradeMajor, Multiplier: 1.5}
	default:
		return RewardsHint{Grade: GradeMinor, Multiplier: 1}
	}
}

func (c Scoring) cardCounting(s State) (float64, bool) {
	v := s.Modifiers.Abilities.CardCountingBonus * c.CardCountingPoints
	return v, v > 0
}

func (c Scoring) suitMatch(s State, cards []deck.Card) float64 {
	return float64(deck.CountSuit(cards, s.RelevantSuit)) * c.SuitMatchPoints
}

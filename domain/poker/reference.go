package poker

import (
	"fmt"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/paulhankin/poker"
)

// toReference converts a card to the reference library representation,
// where aces are rank 1.
func toReference(c deck.Card) (poker.Card, error) {
	rank := int(c.Rank)
	if c.Rank == deck.Ace {
		rank = 1
	}
	card, err := poker.MakeCard(poker.Suit(c.Suit), poker.Rank(rank))
	if err != nil {
		return card, fmt.Errorf("invalid card %v: %w", c, err)
	}
	return card, nil
}

// Describe returns a human readable name for the hand, falling back to the
// native category name when the reference library cannot describe it.
func Describe(cards []deck.Card) string {
	eval, err := Evaluate(cards)
	if err != nil {
		return "Incomplete Hand"
	}
	ref := make([]poker.Card, 0, len(eval.Best))
	for _, c := range eval.Best {
		rc, err := toReference(c)
		if err != nil {
			return eval.Category.String()
		}
		ref = append(ref, rc)
	}
	desc, err := poker.Describe(ref)
	if err != nil || desc == "" {
		return eval.Category.String()
	}
	return desc
}

// ReferenceStrength7 scores exactly seven cards with the reference
// evaluator. Higher is better.
func ReferenceStrength7(cards []deck.Card) (int16, error) {
	if len(cards) != 7 {
		return 0, fmt.Errorf("reference evaluation needs 7 cards, got %d", len(cards))
	}
	var hand [7]poker.Card
	for i, c := range cards {
		rc, err := toReference(c)
		if err != nil {
			return 0, err
		}
		hand[i] = rc
	}
	return poker.Eval7(&hand), nil
}

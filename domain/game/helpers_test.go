package game

import (
	"reflect"
	"testing"
	"time"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/skill"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

// orderedSource keeps the deck in canonical order and returns a fixed roll.
type orderedSource struct {
	roll float64
}

func (o orderedSource) Intn(n int) int     { return n - 1 }
func (o orderedSource) Float64() float64 { return o.roll }

func card(rank int, suit deck.Suit) deck.Card {
	return deck.Card{Rank: deck.Rank(rank), Suit: suit}
}

func params(t *testing.T, level int, src deck.RandomSource) InitParams {
	t.Helper()
	m, err := skill.Compute(skill.DefaultConfig(), skill.Params{SkillLevel: level, Difficulty: 5})
	if err != nil {
		t.Fatal(err)
	}
	return InitParams{
		SessionID:    "session-1",
		ActorID:      "actor-1",
		Difficulty:   5,
		RelevantSuit: deck.Heart,
		SkillLevel:   level,
		Modifiers:    m,
		TimeLimit:    time.Minute,
		StartedAt:    time.Unix(1_700_000_000, 0),
		Random:       src,
	}
}

func initGame(t *testing.T, typ Type, level int) (Resolver, State) {
	t.Helper()
	r, err := NewRegistry(DefaultConfig()).Lookup(typ)
	if err != nil {
		t.Fatal(err)
	}
	s, err := r.Init(params(t, level, orderedSource{}))
	if err != nil {
		t.Fatal(err)
	}
	return r, s
}

// rigged lays out the piles explicitly: the given cards first on top of the
// deck, every unused card after them in canonical order.
type rigged struct {
	hand     []deck.Card
	dealer   []deck.Card
	opponent []deck.Card
	top      []deck.Card
}

func rig(t *testing.T, s *State, r rigged) {
	t.Helper()
	used := map[deck.Card]bool{}
	for _, pile := range [][]deck.Card{r.hand, r.dealer, r.opponent, r.top} {
		for _, c := range pile {
			if used[c] {
				t.Fatalf("card %v rigged twice", c)
			}
			used[c] = true
		}
	}
	s.Hand = append([]deck.Card(nil), r.hand...)
	s.Discard = nil
	s.Deck = append([]deck.Card(nil), r.top...)
	for _, c := range deck.NewOrderedDeck() {
		if !used[c] {
			s.Deck = append(s.Deck, c)
		}
	}
	if s.Blackjack != nil {
		s.Blackjack.DealerHand = append([]deck.Card(nil), r.dealer...)
		s.Blackjack.IsNatural = isNatural(s.Hand)
	}
	if s.Duel != nil {
		s.Duel.OpponentHand = append([]deck.Card(nil), r.opponent...)
	}
	if err := checkAccounting(*s); err != nil {
		t.Fatal(err)
	}
}

func apply(t *testing.T, r Resolver, s State, a Action) State {
	t.Helper()
	next, err := r.Apply(s, a, orderedSource{})
	if err != nil {
		t.Fatalf("%s: %v", a.Type, err)
	}
	return next
}

// expectRejected checks that a fails with code and leaves s untouched.
func expectRejected(t *testing.T, r Resolver, s State, a Action, code apperrors.Code) {
	t.Helper()
	before := s.Clone()
	next, err := r.Apply(s, a, orderedSource{})
	if !apperrors.HasCode(err, code) {
		t.Fatalf("%s: expected %s, got %v", a.Type, code, err)
	}
	if !reflect.DeepEqual(before, s) {
		t.Fatalf("%s: input state was mutated", a.Type)
	}
	if !reflect.DeepEqual(before, next) {
		t.Fatalf("%s: rejected action returned a changed state", a.Type)
	}
}

func settle(t *testing.T, r Resolver, s State) (State, Result) {
	t.Helper()
	final, res, err := r.Settle(s)
	if err != nil {
		t.Fatal(err)
	}
	return final, res
}

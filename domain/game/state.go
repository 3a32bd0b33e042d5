package game

import (
	"slices"
	"time"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/skill"
	"github.com/luca-patrignani/action-cards/domain/wager"
)

// State is the full state of one minigame session. Exactly one of the
// variant pointers is set, matching GameType.
type State struct {
	SessionID      string          `json:"session_id"`
	ActorID        string          `json:"actor_id"`
	GameType       Type            `json:"game_type"`
	Difficulty     int             `json:"difficulty"`
	RelevantSuit   deck.Suit       `json:"relevant_suit"`
	SkillLevel     int             `json:"skill_level"`
	Modifiers      skill.Modifiers `json:"modifiers"`
	EquipmentBonus int             `json:"equipment_bonus,omitempty"`
	Deck           []deck.Card     `json:"deck"`
	Hand           []deck.Card     `json:"hand"`
	Discard        []deck.Card     `json:"discard"`
	Peeked         []deck.Card     `json:"peeked,omitempty"`
	TurnCount      int             `json:"turn_count"`
	RerollsUsed    int             `json:"rerolls_used"`
	PeeksUsed      int             `json:"peeks_used"`
	TimeLimit      time.Duration   `json:"time_limit"`
	StartedAt      time.Time       `json:"started_at"`
	Status         Status          `json:"status"`
	Wager          *wager.Stake    `json:"wager,omitempty"`

	DrawPoker   *DrawPokerState   `json:"draw_poker,omitempty"`
	Blackjack   *BlackjackState   `json:"blackjack,omitempty"`
	PressLuck   *PressLuckState   `json:"press_luck,omitempty"`
	Deckbuilder *DeckbuilderState `json:"deckbuilder,omitempty"`
	Duel        *DuelState        `json:"duel,omitempty"`
}

// DrawPokerState tracks redraw rounds.
type DrawPokerState struct {
	RoundsUsed int  `json:"rounds_used"`
	Stood      bool `json:"stood"`
}

// BlackjackState holds the dealer's cards; DealerHand[1] is the hole card.
type BlackjackState struct {
	DealerHand   []deck.Card `json:"dealer_hand"`
	HoleRevealed bool        `json:"hole_revealed"`
	HolePeeked   bool        `json:"hole_peeked"`
	IsNatural    bool        `json:"is_natural"`
	DoubledDown  bool        `json:"doubled_down"`
	Insured      bool        `json:"insured"`
	InsuranceWon bool        `json:"insurance_won"`
	Hits         int         `json:"hits"`
	LastHit      int         `json:"last_hit"`
	Stood        bool        `json:"stood"`
	Busted       bool        `json:"busted"`
}

// PressLuckState tracks the running total. Avoided danger cards sit in the
// discard pile and are listed here for display.
type PressLuckState struct {
	Draws    int         `json:"draws"`
	Total    int         `json:"total"`
	Avoided  []deck.Card `json:"avoided,omitempty"`
	BustCard *deck.Card  `json:"bust_card,omitempty"`
	Busted   bool        `json:"busted"`
	Stopped  bool        `json:"stopped"`
}

// DeckbuilderState tracks draw and discard budgets.
type DeckbuilderState struct {
	DrawsUsed    int  `json:"draws_used"`
	DiscardsUsed int  `json:"discards_used"`
	Finished     bool `json:"finished"`
}

// DuelState holds the computed opponent and the exchange log.
type DuelState struct {
	Round          int         `json:"round"`
	Rounds         int         `json:"rounds"`
	PlayerHP       int         `json:"player_hp"`
	OpponentHP     int         `json:"opponent_hp"`
	OpponentHand   []deck.Card `json:"opponent_hand"`
	PeekedOpponent []int       `json:"peeked_opponent,omitempty"`
	Log            []DuelRound `json:"log,omitempty"`
	Finished       bool        `json:"finished"`
}

// DuelRound records one resolved exchange.
type DuelRound struct {
	Attack          []deck.Card `json:"attack"`
	Defense         []deck.Card `json:"defense"`
	OpponentAttack  []deck.Card `json:"opponent_attack"`
	OpponentDefense []deck.Card `json:"opponent_defense"`
	PlayerHand      string      `json:"player_hand"`
	OpponentHand    string      `json:"opponent_hand"`
	DamageDealt     int         `json:"damage_dealt"`
	DamageTaken     int         `json:"damage_taken"`
}

// ExpiresAt is the instant after which the session counts as expired.
func (s State) ExpiresAt() time.Time {
	return s.StartedAt.Add(s.TimeLimit)
}

// Expired reports whether now is past the time limit.
func (s State) Expired(now time.Time) bool {
	return s.TimeLimit > 0 && now.After(s.ExpiresAt())
}

// RerollsLeft is the number of skill rerolls not yet spent.
func (s State) RerollsLeft() int {
	return max(0, s.Modifiers.Abilities.RerollsAvailable-s.RerollsUsed)
}

// PeeksLeft is the number of skill peeks not yet spent.
func (s State) PeeksLeft() int {
	return max(0, s.Modifiers.Abilities.PeeksAvailable-s.PeeksUsed)
}

// Clone returns a deep copy, so the copy can be mutated freely.
func (s State) Clone() State {
	c := s
	c.Deck = slices.Clone(s.Deck)
	c.Hand = slices.Clone(s.Hand)
	c.Discard = slices.Clone(s.Discard)
	c.Peeked = slices.Clone(s.Peeked)
	if s.Wager != nil {
		w := *s.Wager
		c.Wager = &w
	}
	if s.DrawPoker != nil {
		dp := *s.DrawPoker
		c.DrawPoker = &dp
	}
	if s.Blackjack != nil {
		bj := *s.Blackjack
		bj.DealerHand = slices.Clone(s.Blackjack.DealerHand)
		c.Blackjack = &bj
	}
	if s.PressLuck != nil {
		pl := *s.PressLuck
		pl.Avoided = slices.Clone(s.PressLuck.Avoided)
		if s.PressLuck.BustCard != nil {
			bc := *s.PressLuck.BustCard
			pl.BustCard = &bc
		}
		c.PressLuck = &pl
	}
	if s.Deckbuilder != nil {
		db := *s.Deckbuilder
		c.Deckbuilder = &db
	}
	if s.Duel != nil {
		d := *s.Duel
		d.OpponentHand = slices.Clone(s.Duel.OpponentHand)
		d.PeekedOpponent = slices.Clone(s.Duel.PeekedOpponent)
		d.Log = nil
		for _, r := range s.Duel.Log {
			d.Log = append(d.Log, DuelRound{
				Attack:          slices.Clone(r.Attack),
				Defense:         slices.Clone(r.Defense),
				OpponentAttack:  slices.Clone(r.OpponentAttack),
				OpponentDefense: slices.Clone(r.OpponentDefense),
				PlayerHand:      r.PlayerHand,
				OpponentHand:    r.OpponentHand,
				DamageDealt:     r.DamageDealt,
				DamageTaken:     r.DamageTaken,
			})
		}
		c.Duel = &d
	}
	return c
}

// piles lists every pile that must partition the deck.
func (s State) piles() [][]deck.Card {
	p := [][]deck.Card{s.Deck, s.Hand, s.Discard}
	if s.Blackjack != nil {
		p = append(p, s.Blackjack.DealerHand)
	}
	if s.Duel != nil {
		p = append(p, s.Duel.OpponentHand)
	}
	return p
}

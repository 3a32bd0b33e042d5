package game

import (
	"slices"
	"time"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/skill"
	"github.com/luca-patrignani/action-cards/domain/wager"
)

// View is a snapshot of a session for a client. Hidden cards are the zero
// Card, which renders face down.
type View struct {
	SessionID      string          `json:"session_id"`
	ActorID        string          `json:"actor_id"`
	GameType       Type            `json:"game_type"`
	Status         Status          `json:"status"`
	Difficulty     int             `json:"difficulty"`
	RelevantSuit   deck.Suit       `json:"relevant_suit"`
	Modifiers      skill.Modifiers `json:"modifiers"`
	Hand           []deck.Card     `json:"hand"`
	Discard        []deck.Card     `json:"discard"`
	Peeked         []deck.Card     `json:"peeked,omitempty"`
	DeckCount      int             `json:"deck_count"`
	Deck           []deck.Card     `json:"deck,omitempty"`
	TurnCount      int             `json:"turn_count"`
	TurnsRemaining int             `json:"turns_remaining"`
	RerollsLeft    int             `json:"rerolls_left"`
	PeeksLeft      int             `json:"peeks_left"`
	Actions        []ActionType    `json:"actions,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
	Wager          *wager.Stake    `json:"wager,omitempty"`
	Privileged     bool            `json:"privileged,omitempty"`
	Result         *Result         `json:"result,omitempty"`

	DrawPoker   *DrawPokerState   `json:"draw_poker,omitempty"`
	Blackjack   *BlackjackView    `json:"blackjack,omitempty"`
	PressLuck   *PressLuckState   `json:"press_luck,omitempty"`
	Deckbuilder *DeckbuilderState `json:"deckbuilder,omitempty"`
	Duel        *DuelView         `json:"duel,omitempty"`
}

// BlackjackView shows the dealer's cards with the hole card masked until it
// is revealed or peeked.
type BlackjackView struct {
	DealerCards  []deck.Card `json:"dealer_cards"`
	DealerValue  int         `json:"dealer_value"`
	PlayerValue  int         `json:"player_value"`
	IsNatural    bool        `json:"is_natural"`
	DoubledDown  bool        `json:"doubled_down"`
	Insured      bool        `json:"insured"`
	InsuranceWon bool        `json:"insurance_won"`
	Stood        bool        `json:"stood"`
	Busted       bool        `json:"busted"`
}

// DuelView masks opponent cards that have not been peeked.
type DuelView struct {
	Round         int         `json:"round"`
	Rounds        int         `json:"rounds"`
	PlayerHP      int         `json:"player_hp"`
	OpponentHP    int         `json:"opponent_hp"`
	OpponentCards []deck.Card `json:"opponent_cards"`
	Log           []DuelRound `json:"log,omitempty"`
}

// NewView renders s through r. Privileged views include the deck and every
// hidden card.
func NewView(r Resolver, s State, privileged bool) View {
	c := s.Clone()
	v := View{
		SessionID:      c.SessionID,
		ActorID:        c.ActorID,
		GameType:       c.GameType,
		Status:         c.Status,
		Difficulty:     c.Difficulty,
		RelevantSuit:   c.RelevantSuit,
		Modifiers:      c.Modifiers,
		Hand:           c.Hand,
		Discard:        c.Discard,
		Peeked:         c.Peeked,
		DeckCount:      len(c.Deck),
		TurnCount:      c.TurnCount,
		TurnsRemaining: r.TurnsRemaining(c),
		RerollsLeft:    c.RerollsLeft(),
		PeeksLeft:      c.PeeksLeft(),
		StartedAt:      c.StartedAt,
		ExpiresAt:      c.ExpiresAt(),
		Wager:          c.Wager,
		Privileged:     privileged,
		DrawPoker:      c.DrawPoker,
		PressLuck:      c.PressLuck,
		Deckbuilder:    c.Deckbuilder,
	}
	if c.Status == StatusInProgress {
		v.Actions = r.Actions(c)
	}
	if privileged {
		v.Deck = c.Deck
	}
	if bj := c.Blackjack; bj != nil {
		bv := &BlackjackView{
			DealerCards:  bj.DealerHand,
			PlayerValue:  handValue(c.Hand),
			IsNatural:    bj.IsNatural,
			DoubledDown:  bj.DoubledDown,
			Insured:      bj.Insured,
			InsuranceWon: bj.InsuranceWon,
			Stood:        bj.Stood,
			Busted:       bj.Busted,
		}
		holeVisible := privileged || bj.HoleRevealed || bj.HolePeeked || c.Status.Terminal()
		if !holeVisible && len(bv.DealerCards) > 1 {
			bv.DealerCards[1] = deck.Card{}
		}
		bv.DealerValue = handValue(visible(bv.DealerCards))
		v.Blackjack = bv
	}
	if d := c.Duel; d != nil {
		dv := &DuelView{
			Round:         d.Round,
			Rounds:        d.Rounds,
			PlayerHP:      d.PlayerHP,
			OpponentHP:    d.OpponentHP,
			OpponentCards: d.OpponentHand,
			Log:           d.Log,
		}
		if !privileged {
			for i := range dv.OpponentCards {
				if !slices.Contains(d.PeekedOpponent, i) {
					dv.OpponentCards[i] = deck.Card{}
				}
			}
		}
		v.Duel = dv
	}
	return v
}

func visible(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, 0, len(cards))
	for _, c := range cards {
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}

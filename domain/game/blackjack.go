package game

import (
	"fmt"

	"github.com/luca-patrignani/action-cards/domain/deck"
)

// blackjack plays one hand against a dealer who hits below DealerStandsOn.
type blackjack struct {
	cfg Config
}

// handValue counts aces as 11, demoting them to 1 while the hand is over 21.
func handValue(cards []deck.Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		total += c.Pips()
		if c.Rank == deck.Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func isNatural(cards []deck.Card) bool {
	return len(cards) == 2 && handValue(cards) == 21
}

func (r *blackjack) Type() Type { return TypeBlackjack }

func (r *blackjack) Init(p InitParams) (State, error) {
	s, err := newState(TypeBlackjack, p)
	if err != nil {
		return State{}, err
	}
	if s.Hand, err = drawCards(&s, 2); err != nil {
		return State{}, err
	}
	dealer, err := drawCards(&s, 2)
	if err != nil {
		return State{}, err
	}
	s.Blackjack = &BlackjackState{
		DealerHand: dealer,
		IsNatural:  isNatural(s.Hand),
		LastHit:    -1,
	}
	return s, checkAccounting(s)
}

func (r *blackjack) dealerNatural(s State) bool {
	return isNatural(s.Blackjack.DealerHand[:2])
}

func (r *blackjack) IsTerminal(s State) bool {
	bj := s.Blackjack
	if bj == nil {
		return true
	}
	return bj.Busted || bj.Stood
}

func (r *blackjack) TurnsRemaining(s State) int {
	if r.IsTerminal(s) {
		return 0
	}
	return 1
}

func (r *blackjack) canDouble(s State) bool {
	bj := s.Blackjack
	return len(s.Hand) == 2 && bj.Hits == 0 && !bj.IsNatural
}

func (r *blackjack) canInsure(s State) bool {
	bj := s.Blackjack
	return bj.DealerHand[0].Rank == deck.Ace && !bj.Insured && bj.Hits == 0 && !bj.DoubledDown
}

func (r *blackjack) Actions(s State) []ActionType {
	if r.IsTerminal(s) {
		return nil
	}
	bj := s.Blackjack
	actions := []ActionType{ActionStand}
	if !bj.IsNatural {
		actions = append(actions, ActionHit)
	}
	if r.canDouble(s) {
		actions = append(actions, ActionDoubleDown)
	}
	if r.canInsure(s) {
		actions = append(actions, ActionInsurance)
	}
	if s.PeeksLeft() > 0 && !bj.HolePeeked {
		actions = append(actions, ActionPeek)
	}
	if s.RerollsLeft() > 0 && bj.LastHit >= 0 {
		actions = append(actions, ActionReroll)
	}
	return actions
}

func (r *blackjack) Apply(s State, a Action, _ deck.RandomSource) (State, error) {
	if s.Blackjack == nil {
		return s, wrongVariant(TypeBlackjack)
	}
	if r.IsTerminal(s) {
		return s, terminalErr(TypeBlackjack)
	}
	next := s.Clone()
	bj := next.Blackjack
	switch a.Type {
	case ActionHit:
		if bj.IsNatural {
			return s, rejectf("a natural blackjack cannot take more cards")
		}
		drawn, err := drawCards(&next, 1)
		if err != nil {
			return s, err
		}
		next.Hand = append(next.Hand, drawn...)
		bj.Hits++
		bj.LastHit = len(next.Hand) - 1
		if err := r.afterPlayerCard(&next); err != nil {
			return s, err
		}
	case ActionStand:
		if err := r.dealerPlay(&next); err != nil {
			return s, err
		}
	case ActionDoubleDown:
		if bj.IsNatural {
			return s, rejectf("cannot double down on a natural blackjack")
		}
		if !r.canDouble(next) {
			return s, rejectf("double down is only allowed on the initial two cards")
		}
		drawn, err := drawCards(&next, 1)
		if err != nil {
			return s, err
		}
		next.Hand = append(next.Hand, drawn...)
		bj.DoubledDown = true
		if handValue(next.Hand) > 21 {
			bj.Busted = true
		} else if err := r.dealerPlay(&next); err != nil {
			return s, err
		}
	case ActionInsurance:
		if !r.canInsure(next) {
			return s, rejectf("insurance is only offered against a dealer ace before any other move")
		}
		bj.Insured = true
		// Settled immediately against the real hole card.
		if r.dealerNatural(next) {
			bj.InsuranceWon = true
			bj.HoleRevealed = true
			bj.Stood = true
		}
	case ActionPeek:
		if s.PeeksLeft() == 0 {
			return s, rejectf("no peeks left")
		}
		if bj.HolePeeked || bj.HoleRevealed {
			return s, rejectf("hole card already known")
		}
		bj.HolePeeked = true
		next.PeeksUsed++
	case ActionReroll:
		if s.RerollsLeft() == 0 {
			return s, rejectf("no rerolls left")
		}
		if bj.LastHit < 0 {
			return s, rejectf("nothing to reroll: no card was hit")
		}
		drawn, err := drawCards(&next, 1)
		if err != nil {
			return s, err
		}
		next.Discard = append(next.Discard, next.Hand[bj.LastHit])
		next.Hand[bj.LastHit] = drawn[0]
		next.RerollsUsed++
		if err := r.afterPlayerCard(&next); err != nil {
			return s, err
		}
	default:
		return s, rejectf("action %q is not part of blackjack", a.Type)
	}
	next.TurnCount++
	if err := checkAccounting(next); err != nil {
		return s, err
	}
	return next, nil
}

func (r *blackjack) afterPlayerCard(s *State) error {
	switch v := handValue(s.Hand); {
	case v > 21:
		s.Blackjack.Busted = true
	case v == 21:
		return r.dealerPlay(s)
	}
	return nil
}

// dealerPlay ends the player's turn, reveals the hole card and draws for
// the dealer.
func (r *blackjack) dealerPlay(s *State) error {
	bj := s.Blackjack
	bj.Stood = true
	bj.HoleRevealed = true
	for handValue(bj.DealerHand) < r.cfg.Blackjack.DealerStandsOn {
		drawn, err := drawCards(s, 1)
		if err != nil {
			return err
		}
		bj.DealerHand = append(bj.DealerHand, drawn...)
	}
	return nil
}

func (r *blackjack) Settle(s State) (State, Result, error) {
	if s.Blackjack == nil {
		return s, Result{}, wrongVariant(TypeBlackjack)
	}
	final := s.Clone()
	if !r.IsTerminal(final) {
		if err := r.dealerPlay(&final); err != nil {
			return s, Result{}, err
		}
	}
	final.Blackjack.HoleRevealed = true
	bj := final.Blackjack
	cfg := r.cfg.Blackjack
	sc := r.cfg.Scoring

	player := handValue(final.Hand)
	dealer := handValue(bj.DealerHand)
	dealerNatural := r.dealerNatural(final)

	var (
		raw    float64
		label  string
		failed bool
	)
	switch {
	case bj.Busted:
		label, failed = fmt.Sprintf("Bust with %d", player), true
	case bj.IsNatural && dealerNatural:
		raw, label = cfg.PushPoints, "Push: both blackjack"
	case bj.IsNatural:
		raw, label = cfg.NaturalPoints, "Blackjack"
	case dealerNatural && bj.InsuranceWon:
		raw, label = cfg.PushPoints, "Dealer blackjack, insured"
	case dealerNatural:
		raw, label, failed = float64(player), "Dealer blackjack", true
	case dealer > 21 || player > dealer:
		raw = cfg.WinPoints
		if bj.DoubledDown {
			raw = cfg.DoubledPoints
		}
		label = fmt.Sprintf("%d beats dealer %d", player, dealer)
	case player == dealer:
		raw, label = cfg.PushPoints, fmt.Sprintf("Push at %d", player)
	default:
		raw, label, failed = float64(player), fmt.Sprintf("%d loses to dealer %d", player, dealer), true
	}
	breakdown := []Contribution{{Label: label, Value: raw}}
	if cc, ok := sc.cardCounting(final); ok && !failed {
		breakdown = append(breakdown, Contribution{Label: "card counting", Value: cc})
		raw += cc
	}
	return final, sc.finalize(final, raw, label, breakdown, failed), nil
}

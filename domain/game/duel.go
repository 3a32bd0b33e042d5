package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/poker"
)

const duelHandSize = 5

// combatDuel fights rounds against a computed opponent. Each round the player
// splits five cards between attack and defense; the opponent always commits
// its highest cards to attack.
type combatDuel struct {
	cfg Config
}

func (r *combatDuel) Type() Type { return TypeCombatDuel }

func (r *combatDuel) Init(p InitParams) (State, error) {
	s, err := newState(TypeCombatDuel, p)
	if err != nil {
		return State{}, err
	}
	s.Duel = &DuelState{
		Round:      1,
		Rounds:     r.cfg.Duel.Rounds,
		PlayerHP:   r.cfg.Duel.HitPoints,
		OpponentHP: r.cfg.Duel.HitPoints,
	}
	if err := r.dealRound(&s); err != nil {
		return State{}, err
	}
	return s, checkAccounting(s)
}

func (r *combatDuel) dealRound(s *State) error {
	hand, err := drawCards(s, duelHandSize)
	if err != nil {
		return err
	}
	opponent, err := drawCards(s, duelHandSize)
	if err != nil {
		return err
	}
	s.Hand = hand
	s.Duel.OpponentHand = opponent
	s.Duel.PeekedOpponent = nil
	return nil
}

func (r *combatDuel) IsTerminal(s State) bool {
	d := s.Duel
	if d == nil {
		return true
	}
	return d.Finished || d.PlayerHP <= 0 || d.OpponentHP <= 0 || len(d.Log) >= d.Rounds
}

func (r *combatDuel) TurnsRemaining(s State) int {
	if r.IsTerminal(s) {
		return 0
	}
	return s.Duel.Rounds - len(s.Duel.Log)
}

func (r *combatDuel) canFinish(s State) bool {
	return s.Modifiers.Abilities.CanEarlyFinish && len(s.Duel.Log) > 0
}

func (r *combatDuel) Actions(s State) []ActionType {
	if r.IsTerminal(s) {
		return nil
	}
	actions := []ActionType{ActionAssign}
	if s.RerollsLeft() > 0 {
		actions = append(actions, ActionReroll)
	}
	if s.PeeksLeft() > 0 && len(s.Duel.PeekedOpponent) < len(s.Duel.OpponentHand) {
		actions = append(actions, ActionPeek)
	}
	if r.canFinish(s) {
		actions = append(actions, ActionFinish)
	}
	return actions
}

func (r *combatDuel) Apply(s State, a Action, _ deck.RandomSource) (State, error) {
	if s.Duel == nil {
		return s, wrongVariant(TypeCombatDuel)
	}
	if r.IsTerminal(s) {
		return s, terminalErr(TypeCombatDuel)
	}
	next := s.Clone()
	d := next.Duel
	switch a.Type {
	case ActionAssign:
		if err := validateAssignment(a, len(next.Hand)); err != nil {
			return s, err
		}
		if err := r.resolveRound(&next, a); err != nil {
			return s, err
		}
	case ActionReroll:
		if len(a.Indices) == 0 {
			return s, rejectf("reroll needs at least one card")
		}
		if len(a.Indices) > next.RerollsLeft() {
			return s, rejectf("only %d rerolls left", next.RerollsLeft())
		}
		if err := validateIndices(a.Indices, len(next.Hand)); err != nil {
			return s, err
		}
		drawn, err := drawCards(&next, len(a.Indices))
		if err != nil {
			return s, err
		}
		for i, idx := range a.Indices {
			next.Discard = append(next.Discard, next.Hand[idx])
			next.Hand[idx] = drawn[i]
		}
		next.RerollsUsed += len(a.Indices)
	case ActionPeek:
		if next.PeeksLeft() == 0 {
			return s, rejectf("no peeks left")
		}
		idx, err := r.peekTarget(d, a.Indices)
		if err != nil {
			return s, err
		}
		d.PeekedOpponent = append(d.PeekedOpponent, idx)
		next.PeeksUsed++
	case ActionFinish:
		if !r.canFinish(next) {
			return s, rejectf("ending the duel early needs the early finish ability and one fought round")
		}
		d.Finished = true
	default:
		return s, rejectf("action %q is not part of the combat duel", a.Type)
	}
	next.TurnCount++
	if err := checkAccounting(next); err != nil {
		return s, err
	}
	return next, nil
}

// validateAssignment requires every card to go to exactly one side, with at
// least one card on each.
func validateAssignment(a Action, n int) error {
	if err := validateIndices(append(append([]int(nil), a.Attack...), a.Defense...), n); err != nil {
		return err
	}
	if len(a.Attack)+len(a.Defense) != n {
		return rejectf("all %d cards must be assigned, got %d", n, len(a.Attack)+len(a.Defense))
	}
	if len(a.Attack) == 0 || len(a.Defense) == 0 {
		return rejectf("attack and defense both need at least one card")
	}
	return nil
}

func (r *combatDuel) peekTarget(d *DuelState, requested []int) (int, error) {
	seen := func(i int) bool {
		for _, p := range d.PeekedOpponent {
			if p == i {
				return true
			}
		}
		return false
	}
	if len(requested) > 1 {
		return 0, rejectf("peek reveals one card at a time")
	}
	if len(requested) == 1 {
		i := requested[0]
		if err := validateIndices(requested, len(d.OpponentHand)); err != nil {
			return 0, err
		}
		if seen(i) {
			return 0, rejectf("opponent card %d already revealed", i)
		}
		return i, nil
	}
	for i := range d.OpponentHand {
		if !seen(i) {
			return i, nil
		}
	}
	return 0, rejectf("every opponent card is already revealed")
}

func pips(cards []deck.Card) int {
	total := 0
	for _, c := range cards {
		total += c.Pips()
	}
	return total
}

// opponentSplit sends the opponent's highest cards to attack.
func (r *combatDuel) opponentSplit(hand []deck.Card) (attack, defense []deck.Card) {
	sorted := append([]deck.Card(nil), hand...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Pips() > sorted[j].Pips() })
	n := r.cfg.Duel.OpponentAttack
	return sorted[:n], sorted[n:]
}

func (r *combatDuel) skillEdge(s State) int {
	return int(math.Floor(s.Modifiers.TotalBonus / r.cfg.Duel.SkillEdgeDivisor))
}

func (r *combatDuel) resolveRound(s *State, a Action) error {
	d := s.Duel
	playerEval, err := poker.Evaluate(s.Hand)
	if err != nil {
		return err
	}
	opponentEval, err := poker.Evaluate(d.OpponentHand)
	if err != nil {
		return err
	}
	attack, defense := pick(s.Hand, a.Attack), pick(s.Hand, a.Defense)
	oppAttack, oppDefense := r.opponentSplit(d.OpponentHand)

	dealt := max(0, pips(attack)+s.EquipmentBonus+r.skillEdge(*s)-pips(oppDefense))
	taken := max(0, pips(oppAttack)-pips(defense))
	switch poker.Compare(playerEval, opponentEval) {
	case 1:
		dealt += r.cfg.Duel.HandBonus
	case -1:
		taken += r.cfg.Duel.HandBonus
	}
	d.OpponentHP = max(0, d.OpponentHP-dealt)
	d.PlayerHP = max(0, d.PlayerHP-taken)
	d.Log = append(d.Log, DuelRound{
		Attack:          attack,
		Defense:         defense,
		OpponentAttack:  oppAttack,
		OpponentDefense: oppDefense,
		PlayerHand:      playerEval.Category.String(),
		OpponentHand:    opponentEval.Category.String(),
		DamageDealt:     dealt,
		DamageTaken:     taken,
	})

	s.Discard = append(s.Discard, s.Hand...)
	s.Discard = append(s.Discard, d.OpponentHand...)
	s.Hand, d.OpponentHand, d.PeekedOpponent = nil, nil, nil

	if d.PlayerHP == 0 || d.OpponentHP == 0 || len(d.Log) >= d.Rounds {
		d.Finished = true
		return nil
	}
	d.Round++
	return r.dealRound(s)
}

func pick(cards []deck.Card, idx []int) []deck.Card {
	out := make([]deck.Card, 0, len(idx))
	for _, i := range idx {
		out = append(out, cards[i])
	}
	return out
}

func (r *combatDuel) Settle(s State) (State, Result, error) {
	if s.Duel == nil {
		return s, Result{}, wrongVariant(TypeCombatDuel)
	}
	final := s.Clone()
	d := final.Duel
	d.Finished = true
	sc := r.cfg.Scoring
	if len(d.Log) == 0 {
		label := "No exchange fought"
		return final, sc.finalize(final, 0, label, []Contribution{{Label: label, Value: 0}}, true), nil
	}
	dealt, taken := 0, 0
	for _, round := range d.Log {
		dealt += round.DamageDealt
		taken += round.DamageTaken
	}
	raw := math.Max(0, math.Min(100, 50+2*float64(dealt-taken)))
	knockedOut := d.PlayerHP == 0
	var label string
	switch {
	case knockedOut:
		label = fmt.Sprintf("Knocked out after %d rounds", len(d.Log))
	case d.OpponentHP == 0:
		label = fmt.Sprintf("Opponent defeated in %d rounds", len(d.Log))
	default:
		label = fmt.Sprintf("Dealt %d, took %d over %d rounds", dealt, taken, len(d.Log))
	}
	breakdown := []Contribution{
		{Label: "exchange margin", Value: raw},
	}
	return final, sc.finalize(final, raw, label, breakdown, knockedOut), nil
}

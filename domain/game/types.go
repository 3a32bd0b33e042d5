package game

import (
	"time"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/skill"
	"github.com/luca-patrignani/action-cards/domain/wager"
)

// Type identifies a minigame.
type Type string

const (
	TypeDrawPoker   Type = "draw_poker"
	TypeBlackjack   Type = "blackjack"
	TypePressLuck   Type = "press_your_luck"
	TypeDeckbuilder Type = "deckbuilder"
	TypeCombatDuel  Type = "combat_duel"
)

// Status is the lifecycle position of a session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
	StatusForfeited  Status = "forfeited"
	StatusExpired    Status = "expired"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusWon, StatusLost, StatusForfeited, StatusExpired:
		return true
	default:
		return false
	}
}

// ActionType names a player move.
type ActionType string

const (
	ActionHold       ActionType = "hold"
	ActionHit        ActionType = "hit"
	ActionStand      ActionType = "stand"
	ActionDoubleDown ActionType = "double_down"
	ActionInsurance  ActionType = "insurance"
	ActionDraw       ActionType = "draw"
	ActionStop       ActionType = "stop"
	ActionDiscard    ActionType = "discard"
	ActionFinish     ActionType = "finish"
	ActionAssign     ActionType = "assign"
	ActionPeek       ActionType = "peek"
	ActionReroll     ActionType = "reroll"
	// ActionBailOut is settled by the session layer, never by a resolver.
	ActionBailOut ActionType = "bail_out"
)

// Action is a player move. Indices address cards in the current hand.
type Action struct {
	Type    ActionType `json:"type"`
	Indices []int      `json:"indices,omitempty"`
	Attack  []int      `json:"attack,omitempty"`
	Defense []int      `json:"defense,omitempty"`
}

// InitParams carries everything a resolver needs to deal a new game.
type InitParams struct {
	SessionID      string
	ActorID        string
	Difficulty     int
	RelevantSuit   deck.Suit
	SkillLevel     int
	Modifiers      skill.Modifiers
	EquipmentBonus int
	TimeLimit      time.Duration
	StartedAt      time.Time
	Wager          *wager.Stake
	Random         deck.RandomSource
}

// Contribution is one line of a score breakdown.
type Contribution struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Grade buckets a result for reward tables owned by the caller.
type Grade string

const (
	GradeNone     Grade = "none"
	GradeMinor    Grade = "minor"
	GradeMajor    Grade = "major"
	GradeCritical Grade = "critical"
)

// RewardsHint is advisory; the engine never applies rewards itself.
type RewardsHint struct {
	Grade      Grade   `json:"grade"`
	Multiplier float64 `json:"multiplier"`
}

// Result is the settled outcome of a session.
type Result struct {
	Success         bool           `json:"success"`
	Score           float64        `json:"score"`
	Target          float64        `json:"target"`
	HandDescription string         `json:"hand_description"`
	Breakdown       []Contribution `json:"breakdown"`
	RewardsHint     RewardsHint    `json:"rewards_hint"`
	Status          Status         `json:"status"`
	BailedOut       bool           `json:"bailed_out,omitempty"`
	Payout          int64          `json:"payout,omitempty"`
	Streak          int            `json:"streak,omitempty"`
	SettledAt       time.Time      `json:"settled_at"`
}

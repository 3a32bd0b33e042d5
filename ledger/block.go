package ledger

import (
	"github.com/luca-patrignani/action-cards/domain/game"
)

// Block is one archived settlement. The genesis block carries no settlement.
type Block struct {
	Index      int         `json:"index"`
	Timestamp  int64       `json:"timestamp"`
	PrevHash   string      `json:"prev_hash"`
	Hash       string      `json:"hash"`
	Settlement *Settlement `json:"settlement,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

// Settlement is the outcome of one session as handed back to the caller.
type Settlement struct {
	SessionID  string      `json:"session_id"`
	ActorID    string      `json:"actor_id"`
	GameType   game.Type   `json:"game_type"`
	Difficulty int         `json:"difficulty"`
	SkillLevel int         `json:"skill_level"`
	Result     game.Result `json:"result"`
}

type Metadata struct {
	Kind  string            `json:"kind"`
	Extra map[string]string `json:"extra,omitempty"`
}

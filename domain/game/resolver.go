package game

import (
	"fmt"
	"sort"

	"github.com/luca-patrignani/action-cards/domain/deck"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

// Resolver plays one minigame.
type Resolver interface {
	Type() Type
	// Init shuffles a fresh deck with p.Random and deals the opening state.
	Init(p InitParams) (State, error)
	// Apply validates a and returns the next state. src backs any chance
	// roll the action triggers.
	Apply(s State, a Action, src deck.RandomSource) (State, error)
	IsTerminal(s State) bool
	// TurnsRemaining is zero once no further turn can be taken.
	TurnsRemaining(s State) int
	// Actions lists the moves currently legal in s.
	Actions(s State) []ActionType
	// Settle completes any pending automatic play and scores the state.
	Settle(s State) (State, Result, error)
}

// Registry is the closed set of available minigames.
type Registry struct {
	resolvers map[Type]Resolver
}

// NewRegistry registers every implemented minigame.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{resolvers: make(map[Type]Resolver)}
	for _, res := range []Resolver{
		&drawPoker{cfg: cfg},
		&blackjack{cfg: cfg},
		&pressLuck{cfg: cfg},
		&deckbuilder{cfg: cfg},
		&combatDuel{cfg: cfg},
	} {
		r.resolvers[res.Type()] = res
	}
	return r
}

// Lookup returns the resolver for t.
func (r *Registry) Lookup(t Type) (Resolver, error) {
	res, ok := r.resolvers[t]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnsupportedGameType,
			fmt.Sprintf("game type %q is not supported", t),
			map[string]string{"game_type": string(t)})
	}
	return res, nil
}

// Types lists the supported game types in name order.
func (r *Registry) Types() []Type {
	out := make([]Type, 0, len(r.resolvers))
	for t := range r.resolvers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/luca-patrignani/action-cards/errors"
)

// SkillLookup resolves a character's level in a skill. It is called once per
// started session.
type SkillLookup interface {
	SkillLevel(ctx context.Context, actorID, skill string) (int, error)
}

// EnergyReserver holds the energy a session costs until the session ends.
// Reservations are keyed by session id.
type EnergyReserver interface {
	Reserve(ctx context.Context, actorID, sessionID string, cost int) error
	// Commit spends a reservation after a won or lost session.
	Commit(ctx context.Context, sessionID string) error
	// Release returns a reservation after a forfeited or expired session, or
	// when the session could not be created.
	Release(ctx context.Context, sessionID string) error
}

// StaticSkills serves levels from a map keyed by actor and then skill name.
type StaticSkills map[string]map[string]int

func (s StaticSkills) SkillLevel(_ context.Context, actorID, skill string) (int, error) {
	skills, ok := s[actorID]
	if !ok {
		return 0, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("unknown actor %q", actorID))
	}
	return skills[strings.ToLower(skill)], nil
}

// UnlimitedEnergy accepts every reservation.
type UnlimitedEnergy struct{}

func (UnlimitedEnergy) Reserve(context.Context, string, string, int) error { return nil }
func (UnlimitedEnergy) Commit(context.Context, string) error               { return nil }
func (UnlimitedEnergy) Release(context.Context, string) error              { return nil }

// EnergyPool is an in-memory EnergyReserver with a fixed budget per actor.
type EnergyPool struct {
	mu        sync.Mutex
	available map[string]int
	held      map[string]reservation
}

type reservation struct {
	actorID string
	cost    int
}

// NewEnergyPool starts every listed actor with the given energy.
func NewEnergyPool(budgets map[string]int) *EnergyPool {
	available := make(map[string]int, len(budgets))
	for actor, e := range budgets {
		available[actor] = e
	}
	return &EnergyPool{available: available, held: make(map[string]reservation)}
}

func (p *EnergyPool) Reserve(_ context.Context, actorID, sessionID string, cost int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, dup := p.held[sessionID]; dup {
		return apperrors.New(apperrors.CodeConflict, fmt.Sprintf("session %s already holds energy", sessionID))
	}
	if p.available[actorID] < cost {
		return apperrors.WithMetadata(apperrors.CodeValidation, "not enough energy",
			map[string]string{"actor_id": actorID})
	}
	p.available[actorID] -= cost
	p.held[sessionID] = reservation{actorID: actorID, cost: cost}
	return nil
}

func (p *EnergyPool) Commit(_ context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.held[sessionID]; !ok {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("no reservation for session %s", sessionID))
	}
	delete(p.held, sessionID)
	return nil
}

func (p *EnergyPool) Release(_ context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.held[sessionID]
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("no reservation for session %s", sessionID))
	}
	delete(p.held, sessionID)
	p.available[r.actorID] += r.cost
	return nil
}

// Available is the unreserved energy of an actor.
func (p *EnergyPool) Available(actorID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available[actorID]
}

// Held is the number of open reservations.
func (p *EnergyPool) Held() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.held)
}

var (
	_ EnergyReserver = UnlimitedEnergy{}
	_ EnergyReserver = (*EnergyPool)(nil)
	_ SkillLookup    = StaticSkills(nil)
)

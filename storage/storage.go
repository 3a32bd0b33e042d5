// Package storage defines the durable session storage contracts.
package storage

import (
	"context"
	"time"

	"github.com/luca-patrignani/action-cards/domain/game"
	apperrors "github.com/luca-patrignani/action-cards/errors"
)

var (
	// ErrNotFound is returned when a session or actor record does not exist.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")
	// ErrActiveSessionExists is returned when an actor already has a session
	// in progress.
	ErrActiveSessionExists = apperrors.New(apperrors.CodeActiveSessionExists, "actor already has a session in progress")
	// ErrVersionConflict is returned when a compare-and-swap update loses.
	ErrVersionConflict = apperrors.New(apperrors.CodeConflict, "session was modified concurrently")
)

// SessionRecord is a persisted session. Version increases on every update.
type SessionRecord struct {
	State     game.State
	Result    *game.Result
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ID returns the session id.
func (r SessionRecord) ID() string {
	return r.State.SessionID
}

// Clone returns a deep copy of the record.
func (r SessionRecord) Clone() SessionRecord {
	c := r
	c.State = r.State.Clone()
	if r.Result != nil {
		res := *r.Result
		res.Breakdown = append([]game.Contribution(nil), r.Result.Breakdown...)
		c.Result = &res
	}
	return c
}

// SessionStore persists sessions keyed by id.
type SessionStore interface {
	// Create stores a new record at version 1. It fails with
	// ErrActiveSessionExists when the actor already has an in-progress
	// session.
	Create(ctx context.Context, rec SessionRecord) (SessionRecord, error)
	Get(ctx context.Context, id string) (SessionRecord, error)
	// ActiveForActor returns the actor's in-progress session or ErrNotFound.
	ActiveForActor(ctx context.Context, actorID string) (SessionRecord, error)
	// Update replaces the record only if its stored version equals
	// expectedVersion; otherwise it returns ErrVersionConflict.
	Update(ctx context.Context, rec SessionRecord, expectedVersion int64) (SessionRecord, error)
	// ListInProgress returns every session still in progress.
	ListInProgress(ctx context.Context) ([]SessionRecord, error)
}

// StreakStore persists the consecutive win counter of each actor.
type StreakStore interface {
	Streak(ctx context.Context, actorID string) (int, error)
	SetStreak(ctx context.Context, actorID string, streak int) error
}

// Store is the full persistence surface used by the session manager.
type Store interface {
	SessionStore
	StreakStore
}

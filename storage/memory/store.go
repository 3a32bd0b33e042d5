// Package memory provides an in-process storage implementation for tests and
// single node deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/luca-patrignani/action-cards/domain/game"
	"github.com/luca-patrignani/action-cards/storage"
)

// Store keeps sessions and streaks in maps guarded by a mutex.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]storage.SessionRecord
	active   map[string]string
	streaks  map[string]int
	now      func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]storage.SessionRecord),
		active:   make(map[string]string),
		streaks:  make(map[string]int),
		now:      time.Now,
	}
}

func (s *Store) Create(ctx context.Context, rec storage.SessionRecord) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[rec.ID()]; ok {
		return storage.SessionRecord{}, storage.ErrVersionConflict
	}
	if rec.State.Status == game.StatusInProgress {
		if _, busy := s.active[rec.State.ActorID]; busy {
			return storage.SessionRecord{}, storage.ErrActiveSessionExists
		}
		s.active[rec.State.ActorID] = rec.ID()
	}
	now := s.now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	rec.Version = 1
	s.sessions[rec.ID()] = rec.Clone()
	return rec.Clone(), nil
}

func (s *Store) Get(ctx context.Context, id string) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[id]
	if !ok {
		return storage.SessionRecord{}, storage.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) ActiveForActor(ctx context.Context, actorID string) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.active[actorID]
	if !ok {
		return storage.SessionRecord{}, storage.ErrNotFound
	}
	return s.sessions[id].Clone(), nil
}

func (s *Store) Update(ctx context.Context, rec storage.SessionRecord, expectedVersion int64) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[rec.ID()]
	if !ok {
		return storage.SessionRecord{}, storage.ErrNotFound
	}
	if current.Version != expectedVersion {
		return storage.SessionRecord{}, storage.ErrVersionConflict
	}
	rec.Version = expectedVersion + 1
	rec.CreatedAt = current.CreatedAt
	rec.UpdatedAt = s.now().UTC()
	if rec.State.Status != game.StatusInProgress && s.active[rec.State.ActorID] == rec.ID() {
		delete(s.active, rec.State.ActorID)
	}
	s.sessions[rec.ID()] = rec.Clone()
	return rec.Clone(), nil
}

func (s *Store) ListInProgress(ctx context.Context) ([]storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.SessionRecord, 0, len(s.active))
	for _, id := range s.active {
		out = append(out, s.sessions[id].Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (s *Store) Streak(ctx context.Context, actorID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streaks[actorID], nil
}

func (s *Store) SetStreak(ctx context.Context, actorID string, streak int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaks[actorID] = streak
	return nil
}

var _ storage.Store = (*Store)(nil)

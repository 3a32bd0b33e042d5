// Package storagetest holds the behaviour every storage.Store must share.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/game"
	"github.com/luca-patrignani/action-cards/domain/skill"
	"github.com/luca-patrignani/action-cards/storage"
)

// Factory returns an empty store. Cleanup is registered on t.
type Factory func(t *testing.T) storage.Store

// NewRecord deals a Draw Poker session for actor with a seeded deck.
func NewRecord(t *testing.T, id, actor string) storage.SessionRecord {
	t.Helper()
	r, err := game.NewRegistry(game.DefaultConfig()).Lookup(game.TypeDrawPoker)
	if err != nil {
		t.Fatal(err)
	}
	m, err := skill.Compute(skill.DefaultConfig(), skill.Params{SkillLevel: 40, Difficulty: 3})
	if err != nil {
		t.Fatal(err)
	}
	s, err := r.Init(game.InitParams{
		SessionID:    id,
		ActorID:      actor,
		Difficulty:   3,
		RelevantSuit: deck.Spade,
		SkillLevel:   40,
		Modifiers:    m,
		TimeLimit:    time.Minute,
		StartedAt:    time.UnixMilli(1_700_000_000_000).UTC(),
		Random:       deck.NewSeededSource(7),
	})
	if err != nil {
		t.Fatal(err)
	}
	return storage.SessionRecord{State: s}
}

// Run exercises the contract of storage.Store.
func Run(t *testing.T, newStore Factory) {
	t.Run("create and get", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		rec := NewRecord(t, "s-1", "alice")
		created, err := st.Create(ctx, rec)
		if err != nil {
			t.Fatal(err)
		}
		if created.Version != 1 {
			t.Fatalf("version = %d, want 1", created.Version)
		}
		got, err := st.Get(ctx, "s-1")
		if err != nil {
			t.Fatal(err)
		}
		if got.Version != 1 || got.State.ActorID != "alice" || got.State.Status != game.StatusInProgress {
			t.Fatalf("unexpected record %+v", got)
		}
		if len(got.State.Hand) != 5 || len(got.State.Deck) != deck.Size-5 {
			t.Fatalf("piles not preserved: hand %d deck %d", len(got.State.Hand), len(got.State.Deck))
		}
		for i, c := range rec.State.Hand {
			if got.State.Hand[i] != c {
				t.Fatalf("hand[%d] = %v, want %v", i, got.State.Hand[i], c)
			}
		}
		if got.State.RelevantSuit != deck.Spade {
			t.Fatalf("suit = %v", got.State.RelevantSuit)
		}
		if !got.State.StartedAt.Equal(rec.State.StartedAt) {
			t.Fatalf("started at = %v, want %v", got.State.StartedAt, rec.State.StartedAt)
		}
		if got.Result != nil {
			t.Fatal("new record has a result")
		}
	})

	t.Run("timestamps", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		before := time.Now().Add(-time.Second)
		if _, err := st.Create(ctx, NewRecord(t, "s-1", "alice")); err != nil {
			t.Fatal(err)
		}
		created, err := st.Get(ctx, "s-1")
		if err != nil {
			t.Fatal(err)
		}
		if created.CreatedAt.Before(before) || !created.UpdatedAt.Equal(created.CreatedAt) {
			t.Fatalf("created at %v, updated at %v", created.CreatedAt, created.UpdatedAt)
		}
		time.Sleep(5 * time.Millisecond)
		next := created.Clone()
		next.State.TurnCount++
		if _, err := st.Update(ctx, next, created.Version); err != nil {
			t.Fatal(err)
		}
		updated, err := st.Get(ctx, "s-1")
		if err != nil {
			t.Fatal(err)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("created at moved from %v to %v", created.CreatedAt, updated.CreatedAt)
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Fatalf("updated at %v not after %v", updated.UpdatedAt, created.UpdatedAt)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		st := newStore(t)
		if _, err := st.Get(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("err = %v, want not found", err)
		}
		if _, err := st.ActiveForActor(context.Background(), "nobody"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("err = %v, want not found", err)
		}
	})

	t.Run("one active session per actor", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		if _, err := st.Create(ctx, NewRecord(t, "s-1", "alice")); err != nil {
			t.Fatal(err)
		}
		_, err := st.Create(ctx, NewRecord(t, "s-2", "alice"))
		if !errors.Is(err, storage.ErrActiveSessionExists) {
			t.Fatalf("err = %v, want active session exists", err)
		}
		if _, err := st.Create(ctx, NewRecord(t, "s-3", "bob")); err != nil {
			t.Fatalf("other actor rejected: %v", err)
		}
		active, err := st.ActiveForActor(ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		if active.ID() != "s-1" {
			t.Fatalf("active = %s", active.ID())
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		if _, err := st.Create(ctx, NewRecord(t, "s-1", "alice")); err != nil {
			t.Fatal(err)
		}
		if _, err := st.Create(ctx, NewRecord(t, "s-1", "bob")); !errors.Is(err, storage.ErrVersionConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("compare and swap", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		rec, err := st.Create(ctx, NewRecord(t, "s-1", "alice"))
		if err != nil {
			t.Fatal(err)
		}
		next := rec.Clone()
		next.State.TurnCount = 1
		updated, err := st.Update(ctx, next, rec.Version)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Version != 2 || updated.State.TurnCount != 1 {
			t.Fatalf("unexpected update %+v", updated)
		}
		stale := rec.Clone()
		stale.State.TurnCount = 9
		if _, err := st.Update(ctx, stale, rec.Version); !errors.Is(err, storage.ErrVersionConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
		got, err := st.Get(ctx, "s-1")
		if err != nil {
			t.Fatal(err)
		}
		if got.State.TurnCount != 1 {
			t.Fatalf("stale write applied: turn %d", got.State.TurnCount)
		}
		missing := NewRecord(t, "ghost", "carol")
		if _, err := st.Update(ctx, missing, 1); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("err = %v, want not found", err)
		}
	})

	t.Run("terminal update frees the actor", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		rec, err := st.Create(ctx, NewRecord(t, "s-1", "alice"))
		if err != nil {
			t.Fatal(err)
		}
		done := rec.Clone()
		done.State.Status = game.StatusLost
		done.Result = &game.Result{
			Status:          game.StatusLost,
			Score:           12.5,
			Target:          35,
			HandDescription: "Pair",
			Breakdown:       []game.Contribution{{Label: "Pair", Value: 20}},
			RewardsHint:     game.RewardsHint{Grade: game.GradeNone},
		}
		if _, err := st.Update(ctx, done, rec.Version); err != nil {
			t.Fatal(err)
		}
		if _, err := st.ActiveForActor(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("err = %v, want not found", err)
		}
		list, err := st.ListInProgress(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 0 {
			t.Fatalf("in progress = %d, want 0", len(list))
		}
		got, err := st.Get(ctx, "s-1")
		if err != nil {
			t.Fatal(err)
		}
		if got.Result == nil || got.Result.Score != 12.5 || len(got.Result.Breakdown) != 1 {
			t.Fatalf("result not stored: %+v", got.Result)
		}
		if _, err := st.Create(ctx, NewRecord(t, "s-2", "alice")); err != nil {
			t.Fatalf("new session after terminal: %v", err)
		}
	})

	t.Run("list in progress", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		for _, id := range []string{"s-b", "s-a", "s-c"} {
			if _, err := st.Create(ctx, NewRecord(t, id, "actor-"+id)); err != nil {
				t.Fatal(err)
			}
		}
		list, err := st.ListInProgress(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"s-a", "s-b", "s-c"}
		if len(list) != len(want) {
			t.Fatalf("len = %d, want %d", len(list), len(want))
		}
		for i, rec := range list {
			if rec.ID() != want[i] {
				t.Fatalf("list[%d] = %s, want %s", i, rec.ID(), want[i])
			}
		}
	})

	t.Run("streaks", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		n, err := st.Streak(ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("streak = %d, want 0", n)
		}
		for _, v := range []int{3, 1} {
			if err := st.SetStreak(ctx, "alice", v); err != nil {
				t.Fatal(err)
			}
			n, err = st.Streak(ctx, "alice")
			if err != nil {
				t.Fatal(err)
			}
			if n != v {
				t.Fatalf("streak = %d, want %d", n, v)
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		st := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := st.Get(ctx, "s-1"); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want canceled", err)
		}
	})
}

// Package application runs card minigame sessions: it starts them from an
// actor's skill, applies actions through the matching resolver, enforces
// time limits and settles outcomes into stored, archived results.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/luca-patrignani/action-cards/config"
	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/game"
	"github.com/luca-patrignani/action-cards/domain/skill"
	"github.com/luca-patrignani/action-cards/domain/wager"
	apperrors "github.com/luca-patrignani/action-cards/errors"
	"github.com/luca-patrignani/action-cards/ledger"
	"github.com/luca-patrignani/action-cards/storage"
)

const tracerName = "github.com/luca-patrignani/action-cards/application"

// DefaultTimeLimit applies when neither the request nor the options set one.
const DefaultTimeLimit = 5 * time.Minute

// Options wires a Manager. Store is required; every other field has a
// working default.
type Options struct {
	Store storage.Store
	// Balance defaults to config.DefaultBalance.
	Balance *config.Balance
	Skills  SkillLookup
	Energy  EnergyReserver
	Archive *ledger.Blockchain
	Logger  *slog.Logger
	Tracer  trace.Tracer

	Clock     func() time.Time
	NewRandom func() deck.RandomSource
	NewID     func() string

	DefaultTimeLimit time.Duration
	EnergyCost       int
}

// Manager owns the lifecycle of every session.
type Manager struct {
	store    storage.Store
	registry *game.Registry
	balance  config.Balance
	skills   SkillLookup
	energy   EnergyReserver
	archive  *ledger.Blockchain
	logger   *slog.Logger
	tracer   trace.Tracer

	now       func() time.Time
	newRandom func() deck.RandomSource
	newID     func() string

	timeLimit  time.Duration
	energyCost int

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock serialises work on one session. Entries live only while a
// caller holds or waits for them.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager validates opts and fills in defaults.
func NewManager(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	balance := config.DefaultBalance()
	if opts.Balance != nil {
		balance = *opts.Balance
	}
	if err := balance.Validate(); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	m := &Manager{
		store:      opts.Store,
		registry:   game.NewRegistry(balance.Games),
		balance:    balance,
		skills:     opts.Skills,
		energy:     opts.Energy,
		archive:    opts.Archive,
		logger:     opts.Logger,
		tracer:     opts.Tracer,
		now:        opts.Clock,
		newRandom:  opts.NewRandom,
		newID:      opts.NewID,
		timeLimit:  opts.DefaultTimeLimit,
		energyCost: opts.EnergyCost,
		locks:      make(map[string]*sessionLock),
	}
	if m.skills == nil {
		m.skills = StaticSkills{}
	}
	if m.energy == nil {
		m.energy = UnlimitedEnergy{}
	}
	if m.archive == nil {
		m.archive = ledger.NewBlockchain()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer(tracerName)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newRandom == nil {
		m.newRandom = func() deck.RandomSource { return deck.NewSecureSource() }
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.timeLimit <= 0 {
		m.timeLimit = DefaultTimeLimit
	}
	if m.energyCost < 0 {
		return nil, fmt.Errorf("energy cost must not be negative")
	}
	return m, nil
}

// Archive exposes the settlement ledger.
func (m *Manager) Archive() *ledger.Blockchain {
	return m.archive
}

// Types lists the playable game types.
func (m *Manager) Types() []game.Type {
	return m.registry.Types()
}

// StartRequest describes the attempt that opens a session.
type StartRequest struct {
	ActorID    string
	GameType   game.Type
	Difficulty int
	// Skill is the character skill that weights the game, e.g. "combat".
	Skill          string
	TimeLimit      time.Duration
	Wager          *wager.Stake
	TalentBonuses  []float64
	Synergy        float64
	EquipmentBonus int
}

func (r StartRequest) validate() error {
	if strings.TrimSpace(r.ActorID) == "" {
		return apperrors.New(apperrors.CodeValidation, "actor id is required")
	}
	if r.Difficulty < skill.MinDifficulty || r.Difficulty > skill.MaxDifficulty {
		return apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("difficulty %d out of range [%d, %d]", r.Difficulty, skill.MinDifficulty, skill.MaxDifficulty))
	}
	if r.TimeLimit < 0 {
		return apperrors.New(apperrors.CodeValidation, "time limit must not be negative")
	}
	if r.EquipmentBonus < 0 {
		return apperrors.New(apperrors.CodeValidation, "equipment bonus must not be negative")
	}
	return nil
}

// StartSession deals a new game for the actor and returns its session id.
func (m *Manager) StartSession(ctx context.Context, req StartRequest) (id string, err error) {
	ctx, span := m.tracer.Start(ctx, "StartSession", trace.WithAttributes(
		attribute.String("actor.id", req.ActorID),
		attribute.String("game.type", string(req.GameType)),
		attribute.Int("game.difficulty", req.Difficulty),
	))
	defer func() { endSpan(span, err) }()

	if err := req.validate(); err != nil {
		return "", err
	}
	resolver, err := m.registry.Lookup(req.GameType)
	if err != nil {
		return "", err
	}
	var stake *wager.Stake
	if req.Wager != nil {
		s, err := req.Wager.Validate(m.balance.Wager)
		if err != nil {
			return "", err
		}
		stake = &s
	}
	if err := m.clearActive(ctx, req.ActorID); err != nil {
		return "", err
	}

	level, err := m.skills.SkillLevel(ctx, req.ActorID, req.Skill)
	if err != nil {
		return "", fmt.Errorf("skill lookup: %w", err)
	}
	mods, err := skill.Compute(m.balance.Skill, skill.Params{
		SkillLevel:        level,
		Difficulty:        req.Difficulty,
		TalentBonuses:     req.TalentBonuses,
		SynergyMultiplier: req.Synergy,
	})
	if err != nil {
		return "", err
	}

	id = m.newID()
	span.SetAttributes(attribute.String("session.id", id))
	if err := m.energy.Reserve(ctx, req.ActorID, id, m.energyCost); err != nil {
		return "", fmt.Errorf("reserve energy: %w", err)
	}
	release := func() {
		if rerr := m.energy.Release(ctx, id); rerr != nil {
			m.logger.Warn("release energy", "session_id", id, "error", rerr)
		}
	}

	limit := req.TimeLimit
	if limit == 0 {
		limit = m.timeLimit
	}
	state, err := resolver.Init(game.InitParams{
		SessionID:      id,
		ActorID:        req.ActorID,
		Difficulty:     req.Difficulty,
		RelevantSuit:   m.balance.SuitFor(req.Skill),
		SkillLevel:     level,
		Modifiers:      mods,
		EquipmentBonus: req.EquipmentBonus,
		TimeLimit:      limit,
		StartedAt:      m.now(),
		Wager:          stake,
		Random:         m.newRandom(),
	})
	if err != nil {
		release()
		return "", fmt.Errorf("deal %s: %w", req.GameType, err)
	}
	if _, err := m.store.Create(ctx, storage.SessionRecord{State: state}); err != nil {
		release()
		return "", err
	}
	m.logger.Info("session started",
		"session_id", id,
		"actor_id", req.ActorID,
		"game_type", req.GameType,
		"difficulty", req.Difficulty,
		"skill_level", level,
		"total_bonus", mods.TotalBonus,
	)
	return id, nil
}

// clearActive expires the actor's overdue session or reports the live one.
func (m *Manager) clearActive(ctx context.Context, actorID string) error {
	rec, err := m.store.ActiveForActor(ctx, actorID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	unlock := m.lock(rec.ID())
	defer unlock()
	rec, err = m.store.Get(ctx, rec.ID())
	if err != nil {
		return err
	}
	if rec.State.Status.Terminal() {
		return nil
	}
	if !rec.State.Expired(m.now()) {
		return apperrors.WithMetadata(apperrors.CodeActiveSessionExists,
			fmt.Sprintf("actor %s already has session %s in progress", actorID, rec.ID()),
			map[string]string{"session_id": rec.ID()})
	}
	_, err = m.terminate(ctx, rec, game.StatusExpired, "Time Expired")
	return err
}

// SubmitAction applies a to the session and returns the updated view.
// bail_out settles the current projection with a reduced payout.
func (m *Manager) SubmitAction(ctx context.Context, id string, a game.Action) (view game.View, err error) {
	ctx, span := m.tracer.Start(ctx, "SubmitAction", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("action.type", string(a.Type)),
	))
	defer func() { endSpan(span, err) }()

	unlock := m.lock(id)
	defer unlock()

	rec, resolver, err := m.loadLive(ctx, id)
	if err != nil {
		return game.View{}, err
	}

	if a.Type == game.ActionBailOut {
		if rec.State.Wager == nil {
			return game.View{}, apperrors.New(apperrors.CodeValidation, "bail out needs a wager")
		}
		settled, _, err := m.settle(ctx, rec, resolver, true)
		if err != nil {
			return game.View{}, err
		}
		return m.view(resolver, settled, false), nil
	}

	next, err := resolver.Apply(rec.State, a, m.newRandom())
	if err != nil {
		if apperrors.CodeOf(err).Fatal() {
			m.logger.Error("session invariant broken", "session_id", id, "error", err)
			if _, ferr := m.terminate(ctx, rec, game.StatusForfeited, "Invariant Violation"); ferr != nil {
				return game.View{}, errors.Join(err, ferr)
			}
		}
		return game.View{}, err
	}
	rec.State = next
	updated, err := m.store.Update(ctx, rec, rec.Version)
	if err != nil {
		return game.View{}, err
	}
	m.logger.Debug("action applied", "session_id", id, "action", a.Type, "turn", next.TurnCount)
	return m.view(resolver, updated, false), nil
}

// Forfeit abandons an in-progress session as a failure.
func (m *Manager) Forfeit(ctx context.Context, id string) (err error) {
	ctx, span := m.tracer.Start(ctx, "Forfeit", trace.WithAttributes(attribute.String("session.id", id)))
	defer func() { endSpan(span, err) }()

	unlock := m.lock(id)
	defer unlock()

	rec, _, err := m.loadLive(ctx, id)
	if err != nil {
		return err
	}
	_, err = m.terminate(ctx, rec, game.StatusForfeited, "Forfeited")
	return err
}

// GetSessionState returns the session as the actor may see it. Privileged
// views include the deck and every hidden card.
func (m *Manager) GetSessionState(ctx context.Context, id string, privileged bool) (view game.View, err error) {
	ctx, span := m.tracer.Start(ctx, "GetSessionState", trace.WithAttributes(attribute.String("session.id", id)))
	defer func() { endSpan(span, err) }()

	unlock := m.lock(id)
	defer unlock()

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return game.View{}, err
	}
	resolver, err := m.registry.Lookup(rec.State.GameType)
	if err != nil {
		return game.View{}, err
	}
	if !rec.State.Status.Terminal() && rec.State.Expired(m.now()) {
		if rec, err = m.terminate(ctx, rec, game.StatusExpired, "Time Expired"); err != nil {
			return game.View{}, err
		}
	}
	return m.view(resolver, rec, privileged), nil
}

// Settle scores the session. Settling a terminal session returns the stored
// result unchanged.
func (m *Manager) Settle(ctx context.Context, id string) (res game.Result, err error) {
	ctx, span := m.tracer.Start(ctx, "Settle", trace.WithAttributes(attribute.String("session.id", id)))
	defer func() { endSpan(span, err) }()

	unlock := m.lock(id)
	defer unlock()

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return game.Result{}, err
	}
	if rec.State.Status.Terminal() {
		return storedResult(rec)
	}
	if rec.State.Expired(m.now()) {
		rec, err = m.terminate(ctx, rec, game.StatusExpired, "Time Expired")
		if err != nil {
			return game.Result{}, err
		}
		return storedResult(rec)
	}
	resolver, err := m.registry.Lookup(rec.State.GameType)
	if err != nil {
		return game.Result{}, err
	}
	_, res, err = m.settle(ctx, rec, resolver, false)
	return res, err
}

// ExpireOverdue expires every in-progress session past its time limit and
// returns how many it expired.
func (m *Manager) ExpireOverdue(ctx context.Context) (n int, err error) {
	ctx, span := m.tracer.Start(ctx, "ExpireOverdue")
	defer func() {
		span.SetAttributes(attribute.Int("sessions.expired", n))
		endSpan(span, err)
	}()

	live, err := m.store.ListInProgress(ctx)
	if err != nil {
		return 0, err
	}
	now := m.now()
	var errs []error
	for _, rec := range live {
		if !rec.State.Expired(now) {
			continue
		}
		expired, err := m.expireOne(ctx, rec.ID(), now)
		if err != nil {
			errs = append(errs, fmt.Errorf("expire %s: %w", rec.ID(), err))
			continue
		}
		if expired {
			n++
		}
	}
	if n > 0 {
		m.logger.Info("expired overdue sessions", "count", n)
	}
	return n, errors.Join(errs...)
}

func (m *Manager) expireOne(ctx context.Context, id string, now time.Time) (bool, error) {
	unlock := m.lock(id)
	defer unlock()
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if rec.State.Status.Terminal() || !rec.State.Expired(now) {
		return false, nil
	}
	rec, err = m.terminate(ctx, rec, game.StatusExpired, "Time Expired")
	if err != nil {
		return false, err
	}
	return rec.State.Status == game.StatusExpired, nil
}

// loadLive fetches an in-progress session, expiring it when overdue.
func (m *Manager) loadLive(ctx context.Context, id string) (storage.SessionRecord, game.Resolver, error) {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return storage.SessionRecord{}, nil, err
	}
	if rec.State.Status.Terminal() {
		return storage.SessionRecord{}, nil, terminalError(rec)
	}
	if rec.State.Expired(m.now()) {
		expired, err := m.terminate(ctx, rec, game.StatusExpired, "Time Expired")
		if err != nil {
			return storage.SessionRecord{}, nil, err
		}
		return storage.SessionRecord{}, nil, terminalError(expired)
	}
	resolver, err := m.registry.Lookup(rec.State.GameType)
	if err != nil {
		return storage.SessionRecord{}, nil, err
	}
	return rec, resolver, nil
}

// settle scores rec, prices its wager and stores the terminal record.
func (m *Manager) settle(ctx context.Context, rec storage.SessionRecord, resolver game.Resolver, bailOut bool) (storage.SessionRecord, game.Result, error) {
	turnsRemaining := resolver.TurnsRemaining(rec.State)
	final, res, err := resolver.Settle(rec.State)
	if err != nil {
		if apperrors.CodeOf(err).Fatal() {
			if _, ferr := m.terminate(ctx, rec, game.StatusForfeited, "Invariant Violation"); ferr != nil {
				return storage.SessionRecord{}, game.Result{}, errors.Join(err, ferr)
			}
		}
		return storage.SessionRecord{}, game.Result{}, fmt.Errorf("settle %s: %w", rec.ID(), err)
	}

	streak, err := m.store.Streak(ctx, rec.State.ActorID)
	if err != nil {
		return storage.SessionRecord{}, game.Result{}, err
	}
	if stake := rec.State.Wager; stake != nil {
		res.Payout = wager.Payout(m.balance.Wager, *stake, rec.State.Difficulty, res.Success, streak)
		if bailOut {
			res.Payout = wager.BailOut(m.balance.Wager, res.Payout, turnsRemaining)
		}
	}
	res.BailedOut = bailOut
	res.Streak = wager.NextStreak(streak, res.Success)
	res.Status = game.StatusLost
	if res.Success {
		res.Status = game.StatusWon
	}
	res.SettledAt = m.now()

	final.Status = res.Status
	rec.State = final
	rec.Result = &res
	stored, won, err := m.commitTerminal(ctx, rec)
	if err != nil || !won {
		if err != nil {
			return storage.SessionRecord{}, game.Result{}, err
		}
		r, err := storedResult(stored)
		return stored, r, err
	}

	if err := m.store.SetStreak(ctx, rec.State.ActorID, res.Streak); err != nil {
		m.logger.Warn("store streak", "actor_id", rec.State.ActorID, "error", err)
	}
	if err := m.energy.Commit(ctx, rec.ID()); err != nil {
		m.logger.Warn("commit energy", "session_id", rec.ID(), "error", err)
	}
	m.archiveResult(stored, map[string]string{"bailed_out": fmt.Sprint(bailOut)})
	m.logger.Info("session settled",
		"session_id", rec.ID(),
		"status", res.Status,
		"score", res.Score,
		"target", res.Target,
		"grade", res.RewardsHint.Grade,
		"payout", res.Payout,
		"streak", res.Streak,
	)
	settled, err := storedResult(stored)
	return stored, settled, err
}

// terminate stores a failure result with the given terminal status.
func (m *Manager) terminate(ctx context.Context, rec storage.SessionRecord, status game.Status, reason string) (storage.SessionRecord, error) {
	res := game.Result{
		Success:         false,
		Target:          m.balance.Games.Scoring.Target(rec.State.Difficulty),
		HandDescription: reason,
		RewardsHint:     game.RewardsHint{Grade: game.GradeNone},
		Status:          status,
		SettledAt:       m.now(),
	}
	rec.State.Status = status
	rec.Result = &res
	stored, won, err := m.commitTerminal(ctx, rec)
	if err != nil || !won {
		return stored, err
	}
	if err := m.store.SetStreak(ctx, rec.State.ActorID, 0); err != nil {
		m.logger.Warn("reset streak", "actor_id", rec.State.ActorID, "error", err)
	}
	if err := m.energy.Release(ctx, rec.ID()); err != nil {
		m.logger.Warn("release energy", "session_id", rec.ID(), "error", err)
	}
	m.archiveResult(stored, map[string]string{"reason": reason})
	m.logger.Info("session ended", "session_id", rec.ID(), "status", status, "reason", reason)
	return stored, nil
}

// commitTerminal compare-and-swaps a terminal record. When another writer
// already ended the session, the stored record is returned with won false.
func (m *Manager) commitTerminal(ctx context.Context, rec storage.SessionRecord) (storage.SessionRecord, bool, error) {
	stored, err := m.store.Update(ctx, rec, rec.Version)
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, storage.ErrVersionConflict) {
		return storage.SessionRecord{}, false, err
	}
	current, gerr := m.store.Get(ctx, rec.ID())
	if gerr != nil {
		return storage.SessionRecord{}, false, gerr
	}
	if current.State.Status.Terminal() {
		return current, false, nil
	}
	return storage.SessionRecord{}, false, err
}

func (m *Manager) archiveResult(rec storage.SessionRecord, extra map[string]string) {
	if rec.Result == nil {
		return
	}
	_, err := m.archive.Append(ledger.Settlement{
		SessionID:  rec.ID(),
		ActorID:    rec.State.ActorID,
		GameType:   rec.State.GameType,
		Difficulty: rec.State.Difficulty,
		SkillLevel: rec.State.SkillLevel,
		Result:     *rec.Result,
	}, extra)
	if err != nil {
		m.logger.Warn("archive settlement", "session_id", rec.ID(), "error", err)
	}
}

func (m *Manager) view(r game.Resolver, rec storage.SessionRecord, privileged bool) game.View {
	v := game.NewView(r, rec.State, privileged)
	if rec.Result != nil {
		res := *rec.Result
		v.Result = &res
	}
	if rec.State.Status == game.StatusInProgress && rec.State.Wager != nil {
		v.Actions = append(v.Actions, game.ActionBailOut)
	}
	return v
}

func (m *Manager) lock(id string) func() {
	m.locksMu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.locksMu.Lock()
		defer m.locksMu.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
	}
}

func storedResult(rec storage.SessionRecord) (game.Result, error) {
	if rec.Result == nil {
		return game.Result{}, apperrors.New(apperrors.CodeInvariantViolation,
			fmt.Sprintf("terminal session %s has no result", rec.ID()))
	}
	res := *rec.Result
	res.Breakdown = append([]game.Contribution(nil), rec.Result.Breakdown...)
	return res, nil
}

func terminalError(rec storage.SessionRecord) error {
	return apperrors.WithMetadata(apperrors.CodeSessionTerminal,
		fmt.Sprintf("session %s is %s", rec.ID(), rec.State.Status),
		map[string]string{"status": string(rec.State.Status)})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		span.SetAttributes(attribute.String("error.code", string(apperrors.CodeOf(err))))
	}
	span.End()
}

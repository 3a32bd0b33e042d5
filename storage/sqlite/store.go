// Package sqlite provides a SQLite-backed session storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/luca-patrignani/action-cards/domain/game"
	"github.com/luca-patrignani/action-cards/storage"
	"github.com/luca-patrignani/action-cards/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists sessions and streaks in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite session store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Create(ctx context.Context, rec storage.SessionRecord) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	if strings.TrimSpace(rec.ID()) == "" {
		return storage.SessionRecord{}, fmt.Errorf("session id is required")
	}
	stateJSON, resultJSON, err := encode(rec)
	if err != nil {
		return storage.SessionRecord{}, err
	}
	now := s.now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	rec.Version = 1

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO sessions (
		   id, actor_id, game_type, status, version, state_json, result_json, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID(),
		rec.State.ActorID,
		string(rec.State.GameType),
		string(rec.State.Status),
		rec.Version,
		stateJSON,
		resultJSON,
		toMillis(rec.CreatedAt),
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		switch {
		case isPrimaryKeyViolation(err):
			return storage.SessionRecord{}, storage.ErrVersionConflict
		case isActiveActorViolation(err):
			return storage.SessionRecord{}, storage.ErrActiveSessionExists
		}
		return storage.SessionRecord{}, fmt.Errorf("create session: %w", err)
	}
	return rec.Clone(), nil
}

const selectSession = `SELECT state_json, result_json, version, created_at, updated_at FROM sessions`

func (s *Store) Get(ctx context.Context, id string) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, selectSession+` WHERE id = ?`, id)
	return scanSession(row)
}

func (s *Store) ActiveForActor(ctx context.Context, actorID string) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		selectSession+` WHERE actor_id = ? AND status = ?`, actorID, string(game.StatusInProgress))
	return scanSession(row)
}

func (s *Store) Update(ctx context.Context, rec storage.SessionRecord, expectedVersion int64) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	stateJSON, resultJSON, err := encode(rec)
	if err != nil {
		return storage.SessionRecord{}, err
	}
	rec.UpdatedAt = s.now().UTC()
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE sessions
		    SET status = ?, version = ?, state_json = ?, result_json = ?, updated_at = ?
		  WHERE id = ? AND version = ?`,
		string(rec.State.Status),
		expectedVersion+1,
		stateJSON,
		resultJSON,
		toMillis(rec.UpdatedAt),
		rec.ID(),
		expectedVersion,
	)
	if err != nil {
		return storage.SessionRecord{}, fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage.SessionRecord{}, fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		if _, err := s.Get(ctx, rec.ID()); err != nil {
			return storage.SessionRecord{}, err
		}
		return storage.SessionRecord{}, storage.ErrVersionConflict
	}
	return s.Get(ctx, rec.ID())
}

func (s *Store) ListInProgress(ctx context.Context) ([]storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		selectSession+` WHERE status = ? ORDER BY id`, string(game.StatusInProgress))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var out []storage.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func (s *Store) Streak(ctx context.Context, actorID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var streak int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT streak FROM actor_streaks WHERE actor_id = ?`, actorID).Scan(&streak)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get streak: %w", err)
	}
	return streak, nil
}

func (s *Store) SetStreak(ctx context.Context, actorID string, streak int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO actor_streaks (actor_id, streak, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(actor_id) DO UPDATE SET streak = excluded.streak, updated_at = excluded.updated_at`,
		actorID, streak, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("set streak: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (storage.SessionRecord, error) {
	var (
		stateJSON  string
		resultJSON sql.NullString
		rec        storage.SessionRecord
		created    int64
		updated    int64
	)
	if err := row.Scan(&stateJSON, &resultJSON, &rec.Version, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.SessionRecord{}, storage.ErrNotFound
		}
		return storage.SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
		return storage.SessionRecord{}, fmt.Errorf("decode session state: %w", err)
	}
	if resultJSON.Valid {
		var res game.Result
		if err := json.Unmarshal([]byte(resultJSON.String), &res); err != nil {
			return storage.SessionRecord{}, fmt.Errorf("decode session result: %w", err)
		}
		rec.Result = &res
	}
	rec.CreatedAt = fromMillis(created)
	rec.UpdatedAt = fromMillis(updated)
	return rec, nil
}

func encode(rec storage.SessionRecord) (string, sql.NullString, error) {
	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("encode session state: %w", err)
	}
	var resultJSON sql.NullString
	if rec.Result != nil {
		b, err := json.Marshal(rec.Result)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("encode session result: %w", err)
		}
		resultJSON = sql.NullString{String: string(b), Valid: true}
	}
	return string(stateJSON), resultJSON, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed: sessions.id")
}

func isActiveActorViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE {
		return strings.Contains(strings.ToLower(err.Error()), "sessions.actor_id")
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed: sessions.actor_id")
}

var _ storage.Store = (*Store)(nil)

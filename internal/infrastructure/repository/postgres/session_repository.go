// Package postgres persists sessions and recommendation history.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lukasmw/kickbase-companion/internal/domain/session"
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) SaveSession(ctx context.Context, s session.Session) error {
	const query = `
		INSERT INTO sessions (id, email, token, user_id, user_name, created_at, updated_at)
		VALUES (:id, :email, :token, :user_id, :user_name, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			user_name = EXCLUDED.user_name,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) LatestSession(ctx context.Context) (*session.Session, error) {
	const query = `
		SELECT id, email, token, user_id, user_name, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC
		LIMIT 1`
	var s session.Session
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load latest session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) SaveBonusState(ctx context.Context, st session.BonusState) error {
	const query = `
		INSERT INTO bonus_state (league_id, collected_at)
		VALUES (:league_id, :collected_at)
		ON CONFLICT (league_id) DO UPDATE SET collected_at = EXCLUDED.collected_at`
	if _, err := r.db.NamedExecContext(ctx, query, st); err != nil {
		return fmt.Errorf("save bonus state: %w", err)
	}
	return nil
}

func (r *SessionRepository) BonusStateByLeague(ctx context.Context, leagueID string) (*session.BonusState, error) {
	const query = `SELECT league_id, collected_at FROM bonus_state WHERE league_id = $1`
	var st session.BonusState
	if err := r.db.GetContext(ctx, &st, query, leagueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load bonus state: %w", err)
	}
	return &st, nil
}

func (r *SessionRepository) SaveRecommendationRun(ctx context.Context, run session.RecommendationRun) error {
	const query = `
		INSERT INTO recommendation_runs (id, league_id, kind, player_count, payload, created_at)
		VALUES (:id, :league_id, :kind, :player_count, :payload, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("save recommendation run: %w", err)
	}
	return nil
}

func (r *SessionRepository) RecommendationRuns(ctx context.Context, leagueID string, limit int) ([]session.RecommendationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, league_id, kind, player_count, payload, created_at
		FROM recommendation_runs
		WHERE league_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	runs := make([]session.RecommendationRun, 0, limit)
	if err := r.db.SelectContext(ctx, &runs, query, leagueID, limit); err != nil {
		return nil, fmt.Errorf("load recommendation runs: %w", err)
	}
	return runs, nil
}

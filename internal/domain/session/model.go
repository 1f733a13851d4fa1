// Package session persists the upstream auth token and per-league
// housekeeping state between runs.
package session

import (
	"context"
	"time"
)

// Session is one persisted login against the upstream API.
type Session struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Token     string    `db:"token" json:"-"`
	UserID    string    `db:"user_id" json:"userId"`
	UserName  string    `db:"user_name" json:"userName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// BonusState tracks when the daily bonus was last collected per league.
type BonusState struct {
	LeagueID    string    `db:"league_id" json:"leagueId"`
	CollectedAt time.Time `db:"collected_at" json:"collectedAt"`
}

// RecommendationRun records one completed recommendation pass so the
// history endpoint can show what the engine suggested and when.
type RecommendationRun struct {
	ID          string    `db:"id" json:"id"`
	LeagueID    string    `db:"league_id" json:"leagueId"`
	Kind        string    `db:"kind" json:"kind"`
	PlayerCount int       `db:"player_count" json:"playerCount"`
	Payload     []byte    `db:"payload" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Repository stores sessions and recommendation history.
type Repository interface {
	SaveSession(ctx context.Context, s Session) error
	LatestSession(ctx context.Context) (*Session, error)
	DeleteSession(ctx context.Context, id string) error

	SaveBonusState(ctx context.Context, st BonusState) error
	BonusStateByLeague(ctx context.Context, leagueID string) (*BonusState, error)

	SaveRecommendationRun(ctx context.Context, run RecommendationRun) error
	RecommendationRuns(ctx context.Context, leagueID string, limit int) ([]RecommendationRun, error)
}

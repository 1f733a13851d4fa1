package usecase

import "context"

// LoginResult carries the bearer token plus the raw login payload so
// the caller can map the embedded user record.
type LoginResult struct {
	Token string
	Raw   map[string]any
}

// KickbaseAPI is the upstream transport boundary. Implementations
// return raw decoded payloads; all shape interpretation stays in the
// parsing layer because the upstream schema is unpublished.
type KickbaseAPI interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	SetToken(token string)
	Leagues(ctx context.Context) (map[string]any, error)
	Ranking(ctx context.Context, leagueID string) (map[string]any, error)
	Me(ctx context.Context, leagueID string) (map[string]any, error)
	Squad(ctx context.Context, leagueID string) (map[string]any, error)
	Market(ctx context.Context, leagueID string) (map[string]any, error)
	PlayerDetail(ctx context.Context, leagueID, playerID string) (map[string]any, error)
	MarketValueHistory(ctx context.Context, leagueID, playerID string, days int) (map[string]any, error)
	PlayerPerformance(ctx context.Context, leagueID, playerID string) (map[string]any, error)
	TeamProfile(ctx context.Context, competitionID, teamID string) (map[string]any, error)
	CollectBonus(ctx context.Context, leagueID string) (map[string]any, error)
}

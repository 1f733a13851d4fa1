package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukasmw/kickbase-companion/internal/domain/league"
	"github.com/lukasmw/kickbase-companion/internal/domain/session"
	"github.com/lukasmw/kickbase-companion/internal/infrastructure/repository/memory"
	"github.com/lukasmw/kickbase-companion/internal/parse"
	"github.com/lukasmw/kickbase-companion/internal/platform/id"
	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
)

func newLeagueService(api KickbaseAPI, sessions session.Repository) *LeagueService {
	mapper := parse.NewMapper(id.NewRandomGenerator())
	return NewLeagueService(api, sessions, mapper, id.NewRandomGenerator(), logging.NewNop())
}

func TestLoginMapsUserAndPersistsSession(t *testing.T) {
	api := &stubAPI{
		loginRaw: map[string]any{
			"tkn": "stub-token",
			"u":   map[string]any{"i": "u1", "n": "alice", "b": float64(3_000_000)},
		},
	}
	sessions := memory.NewSessionRepository()
	svc := newLeagueService(api, sessions)

	user, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, 3_000_000, user.Budget)

	stored, err := sessions.LatestSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "stub-token", stored.Token)
	assert.Equal(t, "u1", stored.UserID)
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc := newLeagueService(&stubAPI{}, nil)

	_, err := svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRestoreSession(t *testing.T) {
	api := &stubAPI{}
	sessions := memory.NewSessionRepository()
	svc := newLeagueService(api, sessions)

	_, err := svc.RestoreSession(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	api.loginRaw = map[string]any{"tkn": "t", "u": map[string]any{"i": "u1"}}
	_, err = svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	stored, err := svc.RestoreSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stub-token", stored.Token)
	assert.Equal(t, "stub-token", api.token)
}

func TestLeaguesMapsSelection(t *testing.T) {
	api := &stubAPI{
		leaguesRaw: map[string]any{"it": []any{
			map[string]any{"i": "l1", "n": "Liga Eins", "cu": map[string]any{"i": "u1", "b": float64(500_000)}},
			map[string]any{"i": "l2", "n": "Liga Zwei"},
		}},
	}
	svc := newLeagueService(api, nil)

	leagues, err := svc.Leagues(context.Background())
	require.NoError(t, err)
	require.Len(t, leagues, 2)
	assert.Equal(t, "Liga Eins", leagues[0].Name)
	assert.Equal(t, 500_000, leagues[0].CurrentUser.Budget)
}

func TestRankingMapsUsers(t *testing.T) {
	api := &stubAPI{
		rankingRaw: map[string]any{"us": []any{
			map[string]any{"i": "u1", "n": "alice", "pl": float64(1)},
			map[string]any{"i": "u2", "n": "bob", "pl": float64(2)},
		}},
	}
	svc := newLeagueService(api, nil)

	users, err := svc.Ranking(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 1, users[0].Placement)
	assert.Equal(t, "bob", users[1].Name)
}

func TestUserStatsKeepsKnownStanding(t *testing.T) {
	api := &stubAPI{meRaw: map[string]any{"tv": float64(80_000_000)}}
	svc := newLeagueService(api, nil)

	known := league.User{Budget: 2_000_000, Placement: 3}
	stats, err := svc.UserStats(context.Background(), "l1", known)
	require.NoError(t, err)

	assert.Equal(t, 80_000_000, stats.TeamValue)
	assert.Equal(t, 2_000_000, stats.Budget)
	assert.Equal(t, 3, stats.Placement)
}

func TestCollectBonusThrottlesToOncePerDay(t *testing.T) {
	api := &stubAPI{}
	sessions := memory.NewSessionRepository()
	svc := newLeagueService(api, sessions)

	require.NoError(t, svc.CollectBonus(context.Background(), "l1"))
	require.NoError(t, svc.CollectBonus(context.Background(), "l1"))

	assert.Equal(t, 1, api.bonusCalls)
}

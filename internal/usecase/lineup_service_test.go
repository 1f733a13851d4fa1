package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukasmw/kickbase-companion/internal/domain/league"
	"github.com/lukasmw/kickbase-companion/internal/domain/player"
)

func TestLineupSlotScore(t *testing.T) {
	// 2*10 with a positive trend bonus, times the goalkeeper factor.
	got := lineupSlotScore(player.PositionGoalkeeper, 10, 100_000, player.StatusFit)
	assert.InDelta(t, (20.0+2.0)*1.2, got, 1e-9)

	// Injury penalty applies before the forward factor.
	got = lineupSlotScore(player.PositionForward, 10, -100_000, player.StatusInjured)
	assert.InDelta(t, (20.0-2.0-5.0)*1.15, got, 1e-9)

	got = lineupSlotScore(player.PositionMidfielder, 8, 0, player.StatusDoubtful)
	assert.InDelta(t, 16.0-2.0, got, 1e-9)
}

func testLineupSquad() []player.TeamPlayer {
	return []player.TeamPlayer{
		{ID: "gk", Position: player.PositionGoalkeeper, AveragePoints: 5},
		{ID: "d1", Position: player.PositionDefender, AveragePoints: 4},
		{ID: "d2", Position: player.PositionDefender, AveragePoints: 3},
		{ID: "m1", Position: player.PositionMidfielder, AveragePoints: 6},
		{ID: "f1", Position: player.PositionForward, AveragePoints: 5},
	}
}

func TestBuildOptimalLineupTeamOnly(t *testing.T) {
	result := buildOptimalLineup([]int{1, 2, 1, 1}, testLineupSquad(), nil, 0)

	require.Len(t, result.TeamOnly, 5)
	assert.Equal(t, "gk", result.TeamOnly[0].PlayerID)
	assert.Equal(t, "d1", result.TeamOnly[1].PlayerID)
	assert.Equal(t, "d2", result.TeamOnly[2].PlayerID)
	assert.Nil(t, result.Hybrid)
	assert.Empty(t, result.Swaps)
	assert.Positive(t, result.TeamScore)
}

func TestBuildOptimalLineupHybridSwap(t *testing.T) {
	market := []player.MarketPlayer{
		// Clears the half-point threshold over f1 (5.0).
		{ID: "mf", Position: player.PositionForward, AveragePoints: 5.6},
		// Does not clear it over m1 (6.0).
		{ID: "mm", Position: player.PositionMidfielder, AveragePoints: 6.4},
	}

	result := buildOptimalLineup([]int{1, 2, 1, 1}, testLineupSquad(), market, 0)

	require.Len(t, result.Swaps, 1)
	assert.Equal(t, "mf", result.Swaps[0].In.ID)
	assert.Equal(t, "f1", result.Swaps[0].Out.ID)
	assert.InDelta(t, 0.6, result.Swaps[0].AvgGain, 1e-9)

	require.Len(t, result.Hybrid, 5)
	last := result.Hybrid[len(result.Hybrid)-1]
	assert.Equal(t, "mf", last.PlayerID)
	assert.True(t, last.FromMarket)
	assert.Greater(t, result.HybridScore, result.TeamScore)
}

func TestBuildOptimalLineupRespectsClubLimit(t *testing.T) {
	team := testLineupSquad()
	for i := range team {
		team[i].TeamID = "club-a"
	}
	market := []player.MarketPlayer{
		{ID: "mf", Position: player.PositionForward, AveragePoints: 9, TeamID: "club-a"},
	}

	result := buildOptimalLineup([]int{1, 2, 1, 1}, team, market, 5)

	// club-a already holds five roster players; the upgrade would
	// breach the per-club cap.
	assert.Empty(t, result.Swaps)
	assert.Nil(t, result.Hybrid)
}

func TestExcludeRosterPlayers(t *testing.T) {
	team := []player.TeamPlayer{{ID: "own"}}
	market := []player.MarketPlayer{{ID: "own"}, {ID: "new"}}

	got := excludeRosterPlayers(market, team)

	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestOptimalLineupHybridSkipsRosterAndLowTotals(t *testing.T) {
	api := &stubAPI{
		squadRaw: map[string]any{"it": []any{
			map[string]any{"i": "gk", "pos": float64(1), "ap": float64(5), "p": float64(150)},
		}},
		marketRaw: map[string]any{"it": []any{
			// The manager's own keeper listed on the market must not
			// swap in for himself.
			map[string]any{"i": "gk", "pos": float64(1), "ap": float64(50), "p": float64(200)},
			// Beats the incumbent on average but has not scored enough
			// over the season to clear the quality floor.
			map[string]any{"i": "fresh", "pos": float64(1), "ap": float64(40), "p": float64(100)},
		}},
	}
	_, recs := newTestServices(t, api)

	got, err := recs.OptimalLineup(context.Background(), "l1", league.User{ID: "me"}, []int{1, 0, 0, 0})
	require.NoError(t, err)

	require.Len(t, got.TeamOnly, 1)
	assert.Equal(t, "gk", got.TeamOnly[0].PlayerID)
	assert.Empty(t, got.Swaps)
	assert.Nil(t, got.Hybrid)
}

func TestBuildOptimalLineupShortSquad(t *testing.T) {
	team := []player.TeamPlayer{{ID: "gk", Position: player.PositionGoalkeeper, AveragePoints: 5}}

	result := buildOptimalLineup([]int{1, 4, 4, 2}, team, nil, 0)

	require.Len(t, result.TeamOnly, 1)
	assert.Equal(t, "gk", result.TeamOnly[0].PlayerID)
}

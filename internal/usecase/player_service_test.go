package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquadEnrichmentDetailWins(t *testing.T) {
	api := &stubAPI{
		squadRaw: map[string]any{"it": []any{
			map[string]any{"i": "p1", "fn": "J.", "ln": "Doe", "mv": float64(1_000_000)},
		}},
		detailRaw: map[string]map[string]any{
			"p1": {"i": "p1", "fn": "John", "mv": float64(1_500_000), "st": float64(2)},
		},
	}
	players, _ := newTestServices(t, api)

	got, err := players.Squad(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "John", got[0].FirstName)
	assert.Equal(t, "Doe", got[0].LastName)
	assert.Equal(t, 1_500_000, got[0].MarketValue)
	assert.Equal(t, 2, got[0].Status)
}

func TestSquadEnrichmentFailureDegrades(t *testing.T) {
	api := &stubAPI{
		squadRaw: map[string]any{"it": []any{
			map[string]any{"i": "p1", "fn": "J.", "ln": "Doe", "mv": float64(1_000_000)},
		}},
		detailErr: assert.AnError,
	}
	players, _ := newTestServices(t, api)

	got, err := players.Squad(context.Background(), "l1")
	require.NoError(t, err, "enrichment failure must not fail the squad load")
	require.Len(t, got, 1)
	assert.Equal(t, 1_000_000, got[0].MarketValue)
}

func TestSquadPrimaryFetchFailureIsHard(t *testing.T) {
	api := &stubAPI{squadErr: assert.AnError}
	players, _ := newTestServices(t, api)

	_, err := players.Squad(context.Background(), "l1")
	assert.Error(t, err)
}

func TestDetailCacheSkipsRepeatFetches(t *testing.T) {
	api := &stubAPI{
		detailRaw: map[string]map[string]any{
			"p1": {"i": "p1", "smdc": float64(12)},
		},
	}
	players, _ := newTestServices(t, api)

	_, err := players.MatchStats(context.Background(), "l1", "p1")
	require.NoError(t, err)
	_, err = players.MatchStats(context.Background(), "l1", "p1")
	require.NoError(t, err)

	assert.Equal(t, 1, api.detailCalls)
}

func TestMatchStatsDefaultsMatchDay(t *testing.T) {
	api := &stubAPI{
		detailRaw: map[string]map[string]any{
			"p1": {"i": "p1", "ismc": float64(4)},
		},
	}
	players, _ := newTestServices(t, api)

	stats, err := players.MatchStats(context.Background(), "l1", "p1")
	require.NoError(t, err)
	assert.Equal(t, fallbackMatchDay, stats.CurrentMatchDay)
	assert.Equal(t, 4, stats.GamesPlayed)
}

func TestMarketValueChangeReadsRootProfitLoss(t *testing.T) {
	api := &stubAPI{
		historyRaw: map[string]any{
			"it": []any{
				map[string]any{"dt": float64(10), "mv": float64(1_000_000)},
				map[string]any{"dt": float64(9), "mv": float64(900_000)},
			},
			"prlo": float64(50_000),
		},
	}
	players, _ := newTestServices(t, api)

	change, err := players.MarketValueChange(context.Background(), "l1", "p1")
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.Equal(t, 100_000, change.AbsoluteChange)
	assert.Equal(t, 50_000, change.ProfitLoss)
}

func TestPerformanceWithTeamsAnnotatesProfiles(t *testing.T) {
	api := &stubAPI{
		perfRaw: map[string]any{"it": []any{
			map[string]any{
				"ph": []any{
					map[string]any{"day": float64(3), "p": float64(80), "mp": float64(90), "t1": "home", "t2": "away", "pt": "home"},
				},
			},
		}},
		teamRaw: map[string]map[string]any{
			"home": {"tid": "home", "tn": "FC Home"},
			"away": {"tid": "away", "tn": "FC Away"},
		},
	}
	players, _ := newTestServices(t, api)

	rows, err := players.PerformanceWithTeams(context.Background(), "l1", "p1")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 3, rows[0].Base.Day)
	require.NotNil(t, rows[0].HomeTeam)
	assert.Equal(t, "FC Home", rows[0].HomeTeam.Name)
	require.NotNil(t, rows[0].OpponentTeam)
	assert.Equal(t, "FC Away", rows[0].OpponentTeam.Name)
}

func TestPerformanceWithTeamsMissingProfileDegrades(t *testing.T) {
	api := &stubAPI{
		perfRaw: map[string]any{"it": []any{
			map[string]any{"day": float64(5), "p": float64(40), "t1": "gone", "t2": "also-gone"},
		}},
	}
	players, _ := newTestServices(t, api)

	rows, err := players.PerformanceWithTeams(context.Background(), "l1", "p1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].HomeTeam)
	assert.Nil(t, rows[0].AwayTeam)
}

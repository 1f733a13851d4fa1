package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukasmw/kickbase-companion/internal/domain/league"
	"github.com/lukasmw/kickbase-companion/internal/domain/player"
	"github.com/lukasmw/kickbase-companion/internal/platform/id"
)

func newTestMapper() *Mapper {
	return NewMapper(id.NewRandomGenerator())
}

func TestMapLeagueWithNestedCurrentUser(t *testing.T) {
	m := map[string]any{
		"i":       "league-1",
		"n":       "Bundesliga Buddies",
		"creator": "alice",
		"cu": map[string]any{
			"i":    "user-1",
			"n":    "bob",
			"b":    float64(2500000),
			"mpst": float64(3),
		},
	}

	got := newTestMapper().League(m)

	assert.Equal(t, "league-1", got.ID)
	assert.Equal(t, "Bundesliga Buddies", got.Name)
	assert.Equal(t, "alice", got.CreatorName)
	assert.Equal(t, "user-1", got.CurrentUser.ID)
	assert.Equal(t, 2500000, got.CurrentUser.Budget)
	assert.Equal(t, 3, got.CurrentUser.MaxPlayersPerTeam)
}

func TestMapLeagueUserBudgetFallback(t *testing.T) {
	fallback := league.User{ID: "u1", Budget: -500000}
	m := map[string]any{"n": "carol"}

	got := newTestMapper().LeagueUser(m, fallback)

	assert.Equal(t, "carol", got.Name)
	// Budget keeps the fallback value, never zero, when the payload
	// omits every budget key.
	assert.Equal(t, -500000, got.Budget)
	assert.Equal(t, "u1", got.ID)
}

func TestMapTeamPlayer(t *testing.T) {
	m := map[string]any{
		"i":      "p1",
		"fn":     "Jamal",
		"ln":     "Musiala",
		"tn":     "Bayern",
		"tid":    "2",
		"pos":    float64(3),
		"nr":     float64(42),
		"ap":     "85.5",
		"p":      float64(171),
		"mv":     float64(25000000),
		"mvt":    float64(600000),
		"tfhmvt": float64(120000),
		"st":     float64(0),
	}

	got := newTestMapper().TeamPlayer(m)

	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "Jamal Musiala", got.FullName())
	assert.Equal(t, player.PositionMidfielder, got.Position)
	assert.Equal(t, 42, got.Number)
	assert.InDelta(t, 85.5, got.AveragePoints, 1e-9)
	assert.Equal(t, 171, got.TotalPoints)
	assert.Equal(t, 120000, got.TwoDayTrend)
	assert.True(t, got.UserOwnsPlayer)
}

func TestMapTeamPlayerDefaults(t *testing.T) {
	got := newTestMapper().TeamPlayer(map[string]any{})

	assert.NotEmpty(t, got.ID, "missing id must be replaced by a synthetic one")
	assert.Equal(t, "Unbekannter", got.FirstName)
	assert.Equal(t, "Spieler", got.LastName)
	assert.Equal(t, player.PositionMidfielder, got.Position)
}

func TestMapMarketPlayerPriceDefaultsToMarketValue(t *testing.T) {
	m := map[string]any{
		"i":  "p2",
		"ln": "Kane",
		"mv": float64(40000000),
	}

	got := newTestMapper().MarketPlayer(m)

	assert.Equal(t, 40000000, got.Price)
	assert.Equal(t, 40000000, got.MarketValue)
}

func TestMapMarketPlayerOwnerRequiresIDAndName(t *testing.T) {
	base := map[string]any{"i": "p3", "ln": "Wirtz", "prc": float64(1000000)}

	withOwner := map[string]any{}
	for k, v := range base {
		withOwner[k] = v
	}
	withOwner["u"] = map[string]any{"i": "u9", "n": "dave"}

	got := newTestMapper().MarketPlayer(withOwner)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "u9", got.Owner.ID)
	assert.Equal(t, "dave", got.Owner.Name)
	assert.Equal(t, "u9", got.Seller.ID)

	missingName := map[string]any{}
	for k, v := range base {
		missingName[k] = v
	}
	missingName["u"] = map[string]any{"i": "u9"}

	got = newTestMapper().MarketPlayer(missingName)
	assert.Nil(t, got.Owner, "owner block without a name must not attach an owner")
	assert.Equal(t, "u9", got.Seller.ID)
}

func TestMapMarketPlayerProfitLossOptional(t *testing.T) {
	mp := newTestMapper()

	got := mp.MarketPlayer(map[string]any{"i": "p4", "ln": "X"})
	assert.Nil(t, got.ProfitLoss)

	got = mp.MarketPlayer(map[string]any{"i": "p4", "ln": "X", "prlo": float64(-300000)})
	require.NotNil(t, got.ProfitLoss)
	assert.Equal(t, -300000, *got.ProfitLoss)
}

func TestMapDetailAndApply(t *testing.T) {
	detail := newTestMapper().Detail(map[string]any{
		"fn": "Florian",
		"mv": float64(35000000),
		"st": float64(2),
	})

	p := player.TeamPlayer{
		ID:          "p5",
		FirstName:   "F.",
		LastName:    "Wirtz",
		MarketValue: 30000000,
		TotalPoints: 200,
	}
	detail.ApplyToTeamPlayer(&p)

	// Detail wins where present, list values survive where absent.
	assert.Equal(t, "Florian", p.FirstName)
	assert.Equal(t, "Wirtz", p.LastName)
	assert.Equal(t, 35000000, p.MarketValue)
	assert.Equal(t, 200, p.TotalPoints)
	assert.Equal(t, player.StatusDoubtful, p.Status)
}

func TestMapMatchStats(t *testing.T) {
	got := newTestMapper().MatchStats(map[string]any{
		"smdc": float64(21),
		"ismc": float64(18),
		"smc":  float64(15),
	})

	assert.Equal(t, 21, got.CurrentMatchDay)
	assert.Equal(t, 18, got.GamesPlayed)
	assert.Equal(t, 15, got.GamesStarted)
}

func TestMapPerformanceOpponent(t *testing.T) {
	got := newTestMapper().Performance(map[string]any{
		"day": float64(12),
		"p":   float64(89),
		"mp":  float64(90),
		"t1":  "home",
		"t2":  "away",
		"pt":  "home",
	})

	assert.True(t, got.HasPlayed())
	assert.Equal(t, "away", got.OpponentTeamID())
}

func TestMapUserStatsFallback(t *testing.T) {
	fallback := league.User{Budget: 1000000, Points: 500, Placement: 4}

	got := newTestMapper().UserStats(map[string]any{"tv": float64(90000000)}, fallback)

	assert.Equal(t, 90000000, got.TeamValue)
	assert.Equal(t, 1000000, got.Budget)
	assert.Equal(t, 500, got.Points)
	assert.Equal(t, 4, got.Placement)
}

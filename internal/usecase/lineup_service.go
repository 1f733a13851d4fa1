package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lukasmw/kickbase-companion/internal/domain/league"
	"github.com/lukasmw/kickbase-companion/internal/domain/player"
	"github.com/lukasmw/kickbase-companion/internal/domain/recommendation"
)

// A market candidate must beat the incumbent by more than this many
// average points before a hybrid swap is suggested.
const lineupSwapThreshold = 0.5

// lineupSlotScore grades one player for a starting slot. Goalkeepers
// and forwards get a multiplier because their slots are scarcer.
func lineupSlotScore(position int, averagePoints float64, marketValueTrend, status int) float64 {
	score := 2.0 * averagePoints

	if marketValueTrend > 0 {
		score += 2.0
	} else if marketValueTrend < 0 {
		score -= 2.0
	}

	switch status {
	case player.StatusInjured:
		score -= 5.0
	case player.StatusDoubtful:
		score -= 2.0
	}

	switch position {
	case player.PositionGoalkeeper:
		score *= 1.2
	case player.PositionForward:
		score *= 1.15
	}
	return score
}

// OptimalLineup fills the formation greedily with the squad's best
// players per slot, then checks whether market candidates would beat
// an incumbent by enough to justify a hybrid lineup.
func (s *RecommendationService) OptimalLineup(ctx context.Context, leagueID string, user league.User, formation []int) (recommendation.OptimalLineupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.OptimalLineup")
	defer span.End()

	if leagueID == "" {
		return recommendation.OptimalLineupResult{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if len(formation) != 4 {
		return recommendation.OptimalLineupResult{}, fmt.Errorf("%w: formation needs one slot count per position", ErrInvalidInput)
	}

	key := "rec:lineup:" + leagueID + ":" + formationKey(formation)
	out, err := s.recCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		team, err := s.players.Squad(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		market, err := s.players.Market(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		candidates := excludeRosterPlayers(prefilterMarket(market, user.ID, floorTotalOnly), team)
		result := buildOptimalLineup(formation, team, candidates, user.MaxPlayersPerTeam)
		s.recordRun(ctx, leagueID, "lineup:"+formationKey(formation), len(result.TeamOnly), result)
		return result, nil
	})
	if err != nil {
		return recommendation.OptimalLineupResult{}, err
	}
	result, ok := out.(recommendation.OptimalLineupResult)
	if !ok {
		return recommendation.OptimalLineupResult{}, fmt.Errorf("unexpected lineup cache payload %T", out)
	}
	return result, nil
}

// excludeRosterPlayers drops market listings for players the manager
// already owns; a hybrid swap that brings in an own player is
// meaningless.
func excludeRosterPlayers(market []player.MarketPlayer, team []player.TeamPlayer) []player.MarketPlayer {
	owned := make(map[string]struct{}, len(team))
	for _, p := range team {
		owned[p.ID] = struct{}{}
	}
	out := make([]player.MarketPlayer, 0, len(market))
	for _, p := range market {
		if _, ok := owned[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// buildOptimalLineup is the pure optimisation core.
func buildOptimalLineup(formation []int, team []player.TeamPlayer, market []player.MarketPlayer, maxPlayersPerTeam int) recommendation.OptimalLineupResult {
	result := recommendation.OptimalLineupResult{Formation: formation}

	byPosition := map[int][]player.TeamPlayer{}
	for _, p := range team {
		byPosition[p.Position] = append(byPosition[p.Position], p)
	}
	for pos := range byPosition {
		pos := pos
		sort.SliceStable(byPosition[pos], func(i, j int) bool {
			a, b := byPosition[pos][i], byPosition[pos][j]
			sa := lineupSlotScore(pos, a.AveragePoints, a.MarketValueTrend, a.Status)
			sb := lineupSlotScore(pos, b.AveragePoints, b.MarketValueTrend, b.Status)
			if sa != sb {
				return sa > sb
			}
			return a.ID < b.ID
		})
	}

	marketByPosition := map[int][]player.MarketPlayer{}
	for _, p := range market {
		marketByPosition[p.Position] = append(marketByPosition[p.Position], p)
	}
	for pos := range marketByPosition {
		pos := pos
		sort.SliceStable(marketByPosition[pos], func(i, j int) bool {
			a, b := marketByPosition[pos][i], marketByPosition[pos][j]
			if a.AveragePoints != b.AveragePoints {
				return a.AveragePoints > b.AveragePoints
			}
			return a.ID < b.ID
		})
	}

	clubCounts := map[string]int{}
	for _, p := range team {
		if p.TeamID != "" {
			clubCounts[p.TeamID]++
		}
	}

	usedMarket := map[string]bool{}
	for posIdx, slots := range formation {
		pos := posIdx + player.PositionGoalkeeper
		starters := byPosition[pos]

		for slot := 0; slot < slots; slot++ {
			if slot >= len(starters) {
				break
			}
			incumbent := starters[slot]
			score := lineupSlotScore(pos, incumbent.AveragePoints, incumbent.MarketValueTrend, incumbent.Status)

			teamSlot := recommendation.LineupSlot{
				PlayerID:      incumbent.ID,
				Name:          incumbent.FullName(),
				Position:      pos,
				AveragePoints: incumbent.AveragePoints,
				Score:         score,
			}
			result.TeamOnly = append(result.TeamOnly, teamSlot)
			result.TeamScore += score

			hybridSlot := teamSlot
			if upgrade := bestMarketUpgrade(incumbent, marketByPosition[pos], usedMarket, clubCounts, maxPlayersPerTeam); upgrade != nil {
				usedMarket[upgrade.ID] = true
				hybridSlot = recommendation.LineupSlot{
					PlayerID:      upgrade.ID,
					Name:          upgrade.FullName(),
					Position:      pos,
					AveragePoints: upgrade.AveragePoints,
					Score:         lineupSlotScore(pos, upgrade.AveragePoints, upgrade.MarketValueTrend, upgrade.Status),
					FromMarket:    true,
				}
				result.Swaps = append(result.Swaps, recommendation.LineupComparison{
					In:       *upgrade,
					Out:      incumbent,
					Position: pos,
					AvgGain:  upgrade.AveragePoints - incumbent.AveragePoints,
				})
			}
			result.Hybrid = append(result.Hybrid, hybridSlot)
			result.HybridScore += hybridSlot.Score
		}
	}

	// No swaps means the hybrid lineup adds nothing over the squad.
	if len(result.Swaps) == 0 {
		result.Hybrid = nil
		result.HybridScore = 0
	}
	return result
}

func bestMarketUpgrade(incumbent player.TeamPlayer, candidates []player.MarketPlayer, used map[string]bool, clubCounts map[string]int, maxPlayersPerTeam int) *player.MarketPlayer {
	for i := range candidates {
		c := candidates[i]
		if used[c.ID] {
			continue
		}
		if c.AveragePoints <= incumbent.AveragePoints+lineupSwapThreshold {
			// Candidates are sorted by average points; nothing later
			// can clear the threshold either.
			return nil
		}
		if maxPlayersPerTeam > 0 && c.TeamID != "" && clubCounts[c.TeamID] >= maxPlayersPerTeam {
			continue
		}
		return &c
	}
	return nil
}

func formationKey(formation []int) string {
	parts := make([]string, len(formation))
	for i, n := range formation {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

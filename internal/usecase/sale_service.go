package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/lukasmw/kickbase-companion/internal/domain/league"
	"github.com/lukasmw/kickbase-companion/internal/domain/player"
	"github.com/lukasmw/kickbase-companion/internal/domain/recommendation"
)

const maxReplacementsPerSale = 3

// Replacement price ceilings relative to the sold player's market
// value. Budget balancing wants strictly cheaper players; risk
// reduction and capital raising may pay a premium for the stand-in.
const (
	budgetReplacementCeiling  = 0.8
	riskReplacementCeiling    = 2.0
	capitalReplacementCeiling = 1.5
)

// saleScore grades how much a player is worth keeping; the lowest
// scores become sale candidates. Injury status pushes a player toward
// the sale list harder than doubtful status.
func saleScore(p player.TeamPlayer) float64 {
	score := float64(p.TotalPoints) + 10.0*p.AveragePoints
	switch p.Status {
	case player.StatusInjured:
		score -= 500
	case player.StatusDoubtful:
		score -= 250
	}
	return score
}

// SaleRecommendations produces ranked sale candidates for one league
// under the selected goal. Results are cached per league and goal.
func (s *RecommendationService) SaleRecommendations(ctx context.Context, leagueID string, user league.User, goal recommendation.SaleGoal) ([]recommendation.SaleRecommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.SaleRecommendations")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	switch goal {
	case recommendation.SaleGoalBalanceBudget,
		recommendation.SaleGoalImprovePosition,
		recommendation.SaleGoalMaxValue,
		recommendation.SaleGoalReduceRisk,
		recommendation.SaleGoalRaiseCapital:
	default:
		return nil, fmt.Errorf("%w: unknown sale goal %q", ErrInvalidInput, goal)
	}

	key := "rec:sale:" + leagueID + ":" + string(goal)
	out, err := s.recCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		team, err := s.players.Squad(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		market, err := s.players.Market(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		candidates := prefilterMarket(market, user.ID, floorAverageOnly)
		analysis := AnalyzeTeam(team, user.Budget, user.MaxPlayersPerTeam)
		sales := buildSaleRecommendations(goal, team, candidates, analysis)
		s.recordRun(ctx, leagueID, "sale:"+string(goal), len(sales), sales)
		return sales, nil
	})
	if err != nil {
		return nil, err
	}
	recs, ok := out.([]recommendation.SaleRecommendation)
	if !ok {
		return nil, fmt.Errorf("unexpected sale cache payload %T", out)
	}
	return recs, nil
}

// buildSaleRecommendations dispatches to the goal-specific strategy.
// Pure over its inputs.
func buildSaleRecommendations(goal recommendation.SaleGoal, team []player.TeamPlayer, market []player.MarketPlayer, analysis recommendation.TeamAnalysis) []recommendation.SaleRecommendation {
	switch goal {
	case recommendation.SaleGoalBalanceBudget:
		return generateBudgetBalancingSales(team, market, analysis)
	case recommendation.SaleGoalImprovePosition:
		return generatePositionImprovementSales(team, market, analysis)
	case recommendation.SaleGoalMaxValue, recommendation.SaleGoalRaiseCapital:
		return generateValueSales(goal, team, market, analysis)
	case recommendation.SaleGoalReduceRisk:
		return generateRiskReductionSales(team, market, analysis)
	default:
		return nil
	}
}

// generateBudgetBalancingSales sells the least-wanted players until
// accumulated savings cover the deficit and at least three
// recommendations exist, or the roster is exhausted.
func generateBudgetBalancingSales(team []player.TeamPlayer, market []player.MarketPlayer, analysis recommendation.TeamAnalysis) []recommendation.SaleRecommendation {
	deficit := -analysis.Budget.Budget
	if deficit <= 0 {
		return nil
	}

	ordered := sortedBySaleScore(team)
	recs := make([]recommendation.SaleRecommendation, 0, len(ordered))
	savings := 0
	for _, p := range ordered {
		ceiling := int(budgetReplacementCeiling * float64(p.MarketValue))
		replacements := findReplacements(p, market, team, analysis.MaxPlayersPerTeam, ceiling)

		saved := p.MarketValue
		if len(replacements) > 0 {
			saved = replacements[0].BudgetSavings
		}
		if saved <= 0 {
			continue
		}

		recs = append(recs, recommendation.SaleRecommendation{
			Player:       p,
			Goal:         recommendation.SaleGoalBalanceBudget,
			Priority:     recommendation.PriorityEssential,
			Replacements: replacements,
			Reason:       fmt.Sprintf("frees %d toward the %d deficit", saved, deficit),
		})
		savings += saved

		if savings >= deficit && len(recs) >= 3 {
			break
		}
	}
	return recs
}

// generatePositionImprovementSales targets the weakest player in each
// weak position, but only when the market offers a clear upgrade.
func generatePositionImprovementSales(team []player.TeamPlayer, market []player.MarketPlayer, analysis recommendation.TeamAnalysis) []recommendation.SaleRecommendation {
	recs := make([]recommendation.SaleRecommendation, 0, len(analysis.WeakPositions))
	for _, pos := range analysis.WeakPositions {
		var worst *player.TeamPlayer
		for i := range team {
			if team[i].Position != pos {
				continue
			}
			if worst == nil || saleScore(team[i]) < saleScore(*worst) {
				worst = &team[i]
			}
		}
		if worst == nil {
			continue
		}

		replacements := findReplacements(*worst, market, team, analysis.MaxPlayersPerTeam, worst.MarketValue)
		upgrades := replacements[:0]
		for _, r := range replacements {
			if r.PerformanceGain > 0 {
				upgrades = append(upgrades, r)
			}
		}
		if len(upgrades) == 0 {
			continue
		}

		recs = append(recs, recommendation.SaleRecommendation{
			Player:       *worst,
			Goal:         recommendation.SaleGoalImprovePosition,
			Priority:     recommendation.PriorityRecommended,
			Replacements: upgrades,
			Reason:       "weakest link in an understaffed position with upgrades on the market",
		})
	}
	return recs
}

// generateValueSales lists the most valuable players first; raising
// capital accepts any sale, maximising value still wants a cheaper
// stand-in.
func generateValueSales(goal recommendation.SaleGoal, team []player.TeamPlayer, market []player.MarketPlayer, analysis recommendation.TeamAnalysis) []recommendation.SaleRecommendation {
	ordered := append([]player.TeamPlayer(nil), team...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].MarketValue != ordered[j].MarketValue {
			return ordered[i].MarketValue > ordered[j].MarketValue
		}
		return ordered[i].ID < ordered[j].ID
	})

	recs := make([]recommendation.SaleRecommendation, 0, 3)
	for _, p := range ordered {
		ceiling := p.MarketValue
		if goal == recommendation.SaleGoalRaiseCapital {
			ceiling = int(capitalReplacementCeiling * float64(p.MarketValue))
		}
		replacements := findReplacements(p, market, team, analysis.MaxPlayersPerTeam, ceiling)
		if goal == recommendation.SaleGoalMaxValue && len(replacements) == 0 {
			continue
		}
		recs = append(recs, recommendation.SaleRecommendation{
			Player:       p,
			Goal:         goal,
			Priority:     recommendation.PriorityOptional,
			Replacements: replacements,
			Reason:       fmt.Sprintf("highest market value in the squad (%d)", p.MarketValue),
		})
		if len(recs) >= 3 {
			break
		}
	}
	return recs
}

// generateRiskReductionSales sells players with availability problems.
func generateRiskReductionSales(team []player.TeamPlayer, market []player.MarketPlayer, analysis recommendation.TeamAnalysis) []recommendation.SaleRecommendation {
	recs := make([]recommendation.SaleRecommendation, 0)
	for _, p := range sortedBySaleScore(team) {
		if p.Status != player.StatusInjured && p.Status != player.StatusDoubtful && p.Status != player.StatusRehab {
			continue
		}
		priority := recommendation.PriorityRecommended
		if p.Status == player.StatusInjured {
			priority = recommendation.PriorityEssential
		}
		ceiling := int(riskReplacementCeiling * float64(p.MarketValue))
		recs = append(recs, recommendation.SaleRecommendation{
			Player:       p,
			Goal:         recommendation.SaleGoalReduceRisk,
			Priority:     priority,
			Replacements: findReplacements(p, market, team, analysis.MaxPlayersPerTeam, ceiling),
			Reason:       "availability risk, better to cash out while the value holds",
		})
	}
	return recs
}

// findReplacements ranks up to three same-position market candidates
// under the goal's price ceiling, respecting the league's limit on
// players per real-world club. Scoring weighs budget savings at 70%
// and performance delta at 30%.
func findReplacements(sold player.TeamPlayer, market []player.MarketPlayer, team []player.TeamPlayer, maxPlayersPerTeam, maxPrice int) []recommendation.ReplacementSuggestion {
	clubCounts := map[string]int{}
	for _, p := range team {
		if p.TeamID != "" {
			clubCounts[p.TeamID]++
		}
	}

	suggestions := make([]recommendation.ReplacementSuggestion, 0, 8)
	for _, candidate := range market {
		if candidate.Position != sold.Position {
			continue
		}
		if candidate.Price > maxPrice {
			continue
		}
		if maxPlayersPerTeam > 0 && candidate.TeamID != "" && candidate.TeamID != sold.TeamID && clubCounts[candidate.TeamID] >= maxPlayersPerTeam {
			continue
		}

		savings := sold.MarketValue - candidate.Price
		perfGain := candidate.AveragePoints - sold.AveragePoints
		score := 0.7*(float64(savings)/1_000_000) + 0.3*perfGain

		suggestions = append(suggestions, recommendation.ReplacementSuggestion{
			Candidate:       candidate,
			Score:           score,
			BudgetSavings:   savings,
			PerformanceGain: perfGain,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Candidate.ID < suggestions[j].Candidate.ID
	})
	if len(suggestions) > maxReplacementsPerSale {
		suggestions = suggestions[:maxReplacementsPerSale]
	}
	return suggestions
}

func sortedBySaleScore(team []player.TeamPlayer) []player.TeamPlayer {
	ordered := append([]player.TeamPlayer(nil), team...)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := saleScore(ordered[i]), saleScore(ordered[j])
		if si != sj {
			return si < sj
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

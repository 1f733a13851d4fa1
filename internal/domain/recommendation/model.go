// Package recommendation holds the result types produced by the
// recommendation engine: transfer targets, sale candidates, squad
// analysis and lineup optimisation.
package recommendation

import "github.com/lukasmw/kickbase-companion/internal/domain/player"

// Priority ranks how urgently a transfer target should be pursued.
type Priority string

const (
	PriorityEssential   Priority = "essential"
	PriorityRecommended Priority = "recommended"
	PriorityOptional    Priority = "optional"
)

// RiskLevel grades the overall risk of signing a player.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// FormTrend describes the direction of a player's recent scoring.
type FormTrend string

const (
	TrendImproving FormTrend = "improving"
	TrendStable    FormTrend = "stable"
	TrendDeclining FormTrend = "declining"
)

// InjuryRisk grades availability risk derived from the player status.
type InjuryRisk string

const (
	InjuryRiskLow    InjuryRisk = "low"
	InjuryRiskMedium InjuryRisk = "medium"
	InjuryRiskHigh   InjuryRisk = "high"
)

// PlayerAnalysis is the per-player breakdown backing a recommendation.
type PlayerAnalysis struct {
	ValueForMoney     float64    `json:"valueForMoney"`
	FormTrend         FormTrend  `json:"formTrend"`
	InjuryRisk        InjuryRisk `json:"injuryRisk"`
	PositionalNeed    bool       `json:"positionalNeed"`
	MarketOpportunity bool       `json:"marketOpportunity"`
	Confidence        float64    `json:"confidence"`
}

// SeasonProjection extrapolates current output to the whole season.
type SeasonProjection struct {
	ProjectedTotalPoints float64 `json:"projectedTotalPoints"`
	ProjectedAppearances int     `json:"projectedAppearances"`
	RemainingMatchDays   int     `json:"remainingMatchDays"`
}

// TransferRecommendation is one ranked market target.
type TransferRecommendation struct {
	Player     player.MarketPlayer `json:"player"`
	Score      float64             `json:"score"`
	Reason     string              `json:"reason"`
	Priority   Priority            `json:"priority"`
	Risk       RiskLevel           `json:"risk"`
	Analysis   PlayerAnalysis      `json:"analysis"`
	Projection *SeasonProjection   `json:"projection,omitempty"`
}

// SaleGoal selects the objective the sale recommendation optimises for.
type SaleGoal string

const (
	SaleGoalBalanceBudget   SaleGoal = "balance_budget"
	SaleGoalImprovePosition SaleGoal = "improve_position"
	SaleGoalMaxValue        SaleGoal = "max_value"
	SaleGoalReduceRisk      SaleGoal = "reduce_risk"
	SaleGoalRaiseCapital    SaleGoal = "raise_capital"
)

// ReplacementSuggestion is one market candidate to replace a sold
// player, with the budget and performance deltas of the swap.
type ReplacementSuggestion struct {
	Candidate       player.MarketPlayer `json:"candidate"`
	Score           float64             `json:"score"`
	BudgetSavings   int                 `json:"budgetSavings"`
	PerformanceGain float64             `json:"performanceGain"`
}

// SaleRecommendation is one player the engine suggests selling, with
// up to three ranked replacements.
type SaleRecommendation struct {
	Player       player.TeamPlayer       `json:"player"`
	Goal         SaleGoal                `json:"goal"`
	Priority     Priority                `json:"priority"`
	Replacements []ReplacementSuggestion `json:"replacements"`
	Reason       string                  `json:"reason"`
}

// PositionCount tallies squad depth per position.
type PositionCount struct {
	Goalkeepers int `json:"goalkeepers"`
	Defenders   int `json:"defenders"`
	Midfielders int `json:"midfielders"`
	Forwards    int `json:"forwards"`
}

// BudgetAnalysis is the spending plan derived from the league budget.
type BudgetAnalysis struct {
	Budget            int  `json:"budget"`
	MaxSingleTransfer int  `json:"maxSingleTransfer"`
	ComfortableSpend  int  `json:"comfortableSpend"`
	ReserveFunds      int  `json:"reserveFunds"`
	NeedsBalancing    bool `json:"needsBalancing"`
}

// TeamAnalysis summarises the current squad before ranking targets.
type TeamAnalysis struct {
	Counts            PositionCount   `json:"counts"`
	WeakPositions     []int           `json:"weakPositions"`
	StrongPositions   []int           `json:"strongPositions"`
	AveragePoints     map[int]float64 `json:"averagePoints"`
	Budget            BudgetAnalysis  `json:"budget"`
	SquadSize         int             `json:"squadSize"`
	MaxPlayersPerTeam int             `json:"maxPlayersPerTeam"`
}

// LineupSlot is one starting-eleven slot. FromMarket marks slots
// filled by a market candidate in the hybrid lineup.
type LineupSlot struct {
	PlayerID      string  `json:"playerId"`
	Name          string  `json:"name"`
	Position      int     `json:"position"`
	AveragePoints float64 `json:"averagePoints"`
	Score         float64 `json:"score"`
	FromMarket    bool    `json:"fromMarket"`
}

// LineupComparison reports one suggested market swap against the
// team-only lineup.
type LineupComparison struct {
	In       player.MarketPlayer `json:"in"`
	Out      player.TeamPlayer   `json:"out"`
	Position int                 `json:"position"`
	AvgGain  float64             `json:"avgGain"`
}

// OptimalLineupResult holds the team-only lineup and, when market
// candidates improve on it, a hybrid lineup for comparison.
type OptimalLineupResult struct {
	Formation   []int              `json:"formation"`
	TeamOnly    []LineupSlot       `json:"teamOnly"`
	Hybrid      []LineupSlot       `json:"hybrid,omitempty"`
	Swaps       []LineupComparison `json:"swaps,omitempty"`
	TeamScore   float64            `json:"teamScore"`
	HybridScore float64            `json:"hybridScore,omitempty"`
}

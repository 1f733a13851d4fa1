package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"

	"github.com/lukasmw/kickbase-companion/internal/domain/league"
	"github.com/lukasmw/kickbase-companion/internal/domain/player"
	"github.com/lukasmw/kickbase-companion/internal/domain/recommendation"
	"github.com/lukasmw/kickbase-companion/internal/domain/session"
	"github.com/lukasmw/kickbase-companion/internal/parse"
	"github.com/lukasmw/kickbase-companion/internal/platform/cache"
	"github.com/lukasmw/kickbase-companion/internal/platform/id"
	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
)

// Scoring constants. The point thresholds assume the upstream stores
// points scaled x10 relative to a per-game rating of 7-14; that is a
// fixed upstream convention, so the raw values are used as-is.
const (
	maxRecommendationScore = 24.0
	minKeepScore           = 2.0
	essentialThreshold     = 0.8 * maxRecommendationScore
	recommendedThreshold   = 12.0

	prefilterMinAveragePoints = 70.0
	prefilterMinTotalPoints   = 140

	weakPositionAvgThreshold   = 100.0
	strongPositionAvgThreshold = 150.0

	budgetComfortableRatio = 0.8
	budgetMaxRatio         = 0.9
	budgetReserveRatio     = 0.1

	scoringBatchSize = 50
	statsPassLimit   = 50
	finalOutputLimit = 20

	fallbackMatchDay = 10
)

// positionMinimums is the minimum viable squad depth per position;
// falling below marks the position weak regardless of scoring.
var positionMinimums = map[int]int{
	player.PositionGoalkeeper: 1,
	player.PositionDefender:   3,
	player.PositionMidfielder: 6,
	player.PositionForward:    1,
}

// RecommendationService runs the transfer/sale/lineup engines. Each
// run is a pure function of the roster, market and league context; the
// only state is the per-league result cache in front of it.
type RecommendationService struct {
	players  *PlayerService
	logger   *logging.Logger
	recCache *cache.Store
	runs     session.Repository
	ids      id.Generator
	now      func() time.Time
}

func NewRecommendationService(players *PlayerService, recCache *cache.Store, runs session.Repository, ids id.Generator, logger *logging.Logger) *RecommendationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RecommendationService{
		players:  players,
		logger:   logger,
		recCache: recCache,
		runs:     runs,
		ids:      ids,
		now:      time.Now,
	}
}

// recordRun persists a run for the history endpoint. History is a nice
// to have, so write failures only log.
func (s *RecommendationService) recordRun(ctx context.Context, leagueID, kind string, playerCount int, payload any) {
	if s.runs == nil || s.ids == nil {
		return
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "recommendation run marshal failed", "kind", kind, "error", err)
		return
	}
	run := session.RecommendationRun{
		ID:          s.ids.NewID(),
		LeagueID:    leagueID,
		Kind:        kind,
		PlayerCount: playerCount,
		Payload:     body,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.runs.SaveRecommendationRun(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "recommendation run save failed", "kind", kind, "error", err)
	}
}

// TransferRecommendations produces the ranked market targets for one
// league. Results are cached per league; the squad and market fetches
// are hard failures, everything downstream degrades.
func (s *RecommendationService) TransferRecommendations(ctx context.Context, leagueID string, user league.User) ([]recommendation.TransferRecommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.TransferRecommendations")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	key := "rec:transfer:" + leagueID
	out, err := s.recCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		recs, err := s.computeTransferRecommendations(ctx, leagueID, user)
		if err != nil {
			return nil, err
		}
		s.recordRun(ctx, leagueID, "transfer", len(recs), recs)
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	recs, ok := out.([]recommendation.TransferRecommendation)
	if !ok {
		return nil, fmt.Errorf("unexpected recommendation cache payload %T", out)
	}
	return recs, nil
}

func (s *RecommendationService) computeTransferRecommendations(ctx context.Context, leagueID string, user league.User) ([]recommendation.TransferRecommendation, error) {
	team, err := s.players.Squad(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	market, err := s.players.Market(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	analysis := AnalyzeTeam(team, user.Budget, user.MaxPlayersPerTeam)
	candidates := prefilterMarket(market, user.ID, floorAverageAndTotal)

	recs := s.scoreCandidates(candidates, analysis)

	sortRecommendations(recs)
	if len(recs) > statsPassLimit {
		recs = recs[:statsPassLimit]
	}

	s.applyMatchStats(ctx, leagueID, recs)

	sortRecommendations(recs)
	if len(recs) > finalOutputLimit {
		recs = recs[:finalOutputLimit]
	}

	s.logger.InfoContext(ctx, "transfer recommendations computed",
		"league_id", leagueID,
		"candidates", len(candidates),
		"recommendations", len(recs),
	)
	return recs, nil
}

// marketFloor selects which scoring floor prefilterMarket applies on
// top of availability and ownership. Transfers require both floors,
// sale replacements only the average, hybrid lineups only the season
// total.
type marketFloor int

const (
	floorAverageAndTotal marketFloor = iota
	floorAverageOnly
	floorTotalOnly
)

// prefilterMarket drops unavailable players, the acting user's own
// listings, and anyone under the flow's scoring floor, so the engine
// only ranks proven players.
func prefilterMarket(market []player.MarketPlayer, currentUserID string, floor marketFloor) []player.MarketPlayer {
	out := make([]player.MarketPlayer, 0, len(market))
	for _, p := range market {
		if p.Status == player.StatusUnavailable || p.Status == player.StatusNotOnMarket {
			continue
		}
		if currentUserID != "" && p.Seller.ID == currentUserID {
			continue
		}
		if floor != floorTotalOnly && p.AveragePoints < prefilterMinAveragePoints {
			continue
		}
		if floor != floorAverageOnly && p.TotalPoints < prefilterMinTotalPoints {
			continue
		}
		out = append(out, p)
	}
	return out
}

// scoreCandidates offloads the pure per-candidate scoring to worker
// goroutines in fixed-size batches; each worker writes only its own
// slot, the merge happens after the batch wait.
func (s *RecommendationService) scoreCandidates(candidates []player.MarketPlayer, analysis recommendation.TeamAnalysis) []recommendation.TransferRecommendation {
	scored := make([]recommendation.TransferRecommendation, len(candidates))

	for start := 0; start < len(candidates); start += scoringBatchSize {
		end := start + scoringBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		workers := pool.New().WithMaxGoroutines(end - start)
		for i := start; i < end; i++ {
			i := i
			workers.Go(func() {
				scored[i] = scoreCandidate(candidates[i], analysis)
			})
		}
		workers.Wait()
	}

	kept := make([]recommendation.TransferRecommendation, 0, len(scored))
	for _, rec := range scored {
		if rec.Score >= minKeepScore {
			kept = append(kept, rec)
		}
	}
	return kept
}

// scoreCandidate computes the additive recommendation score for one
// market candidate. Pure; safe to run concurrently.
func scoreCandidate(p player.MarketPlayer, analysis recommendation.TeamAnalysis) recommendation.TransferRecommendation {
	trend := formTrend(p.MarketValueTrend, p.AveragePoints)
	weak := containsPosition(analysis.WeakPositions, p.Position)
	strong := containsPosition(analysis.StrongPositions, p.Position)

	score := math.Min(p.AveragePoints/1.5, 6.0)

	switch {
	case p.TotalPoints >= 150:
		score += 3.0
	case p.TotalPoints >= 100:
		score += 2.0
	case p.TotalPoints >= 75:
		score += 1.0
	}

	valueForMoney := 0.0
	if p.Price > 0 {
		valueForMoney = float64(p.TotalPoints) / (float64(p.Price) / 1_000_000)
		score += math.Min(valueForMoney/8.0, 4.0)
	}

	switch trend {
	case recommendation.TrendImproving:
		score += 3.0
	case recommendation.TrendStable:
		score += 0.5
	case recommendation.TrendDeclining:
		score -= 2.0
	}

	switch {
	case p.MarketValueTrend > 1_000_000:
		score += 2.0
	case p.MarketValueTrend > 500_000:
		score += 1.0
	case p.MarketValueTrend < -1_000_000:
		score -= 1.5
	}

	switch {
	case weak:
		score += 4.0
	case strong:
		score += 0.5
	default:
		score += 2.0
	}

	// The shirt-number field doubles as a games-played proxy on this
	// endpoint; an upstream quirk the scoring depends on.
	switch {
	case p.Number >= 15:
		score += 1.0
	case p.Number >= 10:
		score += 0.5
	case p.Number < 5:
		score -= 1.0
	}

	switch {
	case p.Price <= 5_000_000 && p.AveragePoints >= 7.0:
		score += 2.0
	case p.Price <= 3_000_000 && p.AveragePoints >= 6.0:
		score += 1.5
	}

	score = clamp(score, 0, maxRecommendationScore)

	injury := injuryRisk(p.Status)
	risk := riskLevel(injury, trend)

	priority := scorePriority(weak, score)

	return recommendation.TransferRecommendation{
		Player:   p,
		Score:    score,
		Reason:   buildReason(p, trend, weak, valueForMoney),
		Priority: priority,
		Risk:     risk,
		Analysis: recommendation.PlayerAnalysis{
			ValueForMoney:     valueForMoney,
			FormTrend:         trend,
			InjuryRisk:        injury,
			PositionalNeed:    weak,
			MarketOpportunity: p.MarketValueTrend > 500_000,
		},
	}
}

// InvalidateLeague drops every cached recommendation for one league.
// Called when league state changes outside the engine, e.g. after a
// bonus collection moves the budget.
func (s *RecommendationService) InvalidateLeague(ctx context.Context, leagueID string) {
	if leagueID == "" {
		return
	}
	s.recCache.Delete(ctx, "rec:transfer:"+leagueID)
	s.recCache.DeletePrefix(ctx, "rec:sale:"+leagueID+":")
	s.recCache.DeletePrefix(ctx, "rec:lineup:"+leagueID+":")
}

// scorePriority assigns the tier for a clamped score. The essential
// tier is reserved for weak-position candidates at or above the
// threshold; everyone else competes for recommended.
func scorePriority(weak bool, score float64) recommendation.Priority {
	switch {
	case weak && score >= essentialThreshold:
		return recommendation.PriorityEssential
	case score >= recommendedThreshold:
		return recommendation.PriorityRecommended
	default:
		return recommendation.PriorityOptional
	}
}

// applyMatchStats is the second pass: real matchday counters for the
// shortlist, recomputing confidence and the season projection. Any
// per-player failure leaves confidence at zero.
func (s *RecommendationService) applyMatchStats(ctx context.Context, leagueID string, recs []recommendation.TransferRecommendation) {
	for i := range recs {
		stats, err := s.players.MatchStats(ctx, leagueID, recs[i].Player.ID)
		if err != nil {
			s.logger.DebugContext(ctx, "match stats unavailable", "player_id", recs[i].Player.ID, "error", err)
			continue
		}

		// MatchStats guarantees a positive matchday.
		matchDay := stats.CurrentMatchDay

		playedRatio := float64(stats.GamesPlayed) / float64(matchDay)
		starterBonus := float64(stats.GamesStarted) / math.Max(float64(stats.GamesPlayed), 1)
		recs[i].Analysis.Confidence = math.Min(playedRatio*(0.7+starterBonus*0.3), 1.0)

		remaining := player.SeasonLength - matchDay
		if remaining < 0 {
			remaining = 0
		}
		perGame := float64(recs[i].Player.TotalPoints) / math.Max(float64(stats.GamesPlayed), 1)
		recs[i].Projection = &recommendation.SeasonProjection{
			ProjectedTotalPoints: float64(recs[i].Player.TotalPoints) + perGame*playedRatio*float64(remaining),
			ProjectedAppearances: stats.GamesPlayed + int(math.Round(playedRatio*float64(remaining))),
			RemainingMatchDays:   remaining,
		}
	}
}

// AnalyzeTeam buckets the roster by position and derives the weak and
// strong position sets plus the fixed-ratio budget split.
func AnalyzeTeam(team []player.TeamPlayer, budget, maxPlayersPerTeam int) recommendation.TeamAnalysis {
	counts := map[int]int{}
	totals := map[int]int{}
	for _, p := range team {
		counts[p.Position]++
		totals[p.Position] += p.TotalPoints
	}

	averages := make(map[int]float64, 4)
	var weak, strong []int
	for pos := player.PositionGoalkeeper; pos <= player.PositionForward; pos++ {
		avg := 0.0
		if counts[pos] > 0 {
			avg = float64(totals[pos]) / float64(counts[pos])
		}
		averages[pos] = avg

		if counts[pos] < positionMinimums[pos] || avg < weakPositionAvgThreshold {
			weak = append(weak, pos)
		} else if avg > strongPositionAvgThreshold {
			strong = append(strong, pos)
		}
	}

	return recommendation.TeamAnalysis{
		Counts: recommendation.PositionCount{
			Goalkeepers: counts[player.PositionGoalkeeper],
			Defenders:   counts[player.PositionDefender],
			Midfielders: counts[player.PositionMidfielder],
			Forwards:    counts[player.PositionForward],
		},
		WeakPositions:   weak,
		StrongPositions: strong,
		AveragePoints:   averages,
		Budget: recommendation.BudgetAnalysis{
			Budget:            budget,
			MaxSingleTransfer: int(float64(budget) * budgetMaxRatio),
			ComfortableSpend:  int(float64(budget) * budgetComfortableRatio),
			ReserveFunds:      int(float64(budget) * budgetReserveRatio),
			NeedsBalancing:    budget < 0,
		},
		SquadSize:         len(team),
		MaxPlayersPerTeam: maxPlayersPerTeam,
	}
}

// CurrentMatchDay extracts the league matchday, falling back to a
// mid-season default when the payload carries none.
func CurrentMatchDay(raw map[string]any) int {
	if raw != nil {
		if day, ok := parse.Int(raw, "matchDay", "day", "md", "smdc"); ok && day > 0 {
			return day
		}
	}
	return fallbackMatchDay
}

func formTrend(marketValueTrend int, averagePoints float64) recommendation.FormTrend {
	switch {
	case marketValueTrend > 500_000 && averagePoints > 8.0:
		return recommendation.TrendImproving
	case marketValueTrend < -500_000 || averagePoints < 4.0:
		return recommendation.TrendDeclining
	default:
		return recommendation.TrendStable
	}
}

func injuryRisk(status int) recommendation.InjuryRisk {
	switch status {
	case player.StatusUnavailable:
		return recommendation.InjuryRiskHigh
	case player.StatusRehab:
		return recommendation.InjuryRiskMedium
	default:
		return recommendation.InjuryRiskLow
	}
}

// riskLevel combines injury risk with form: declining form escalates
// one level.
func riskLevel(injury recommendation.InjuryRisk, trend recommendation.FormTrend) recommendation.RiskLevel {
	level := recommendation.RiskLow
	switch injury {
	case recommendation.InjuryRiskHigh:
		level = recommendation.RiskHigh
	case recommendation.InjuryRiskMedium:
		level = recommendation.RiskMedium
	}
	if trend == recommendation.TrendDeclining {
		switch level {
		case recommendation.RiskLow:
			level = recommendation.RiskMedium
		case recommendation.RiskMedium:
			level = recommendation.RiskHigh
		}
	}
	return level
}

func buildReason(p player.MarketPlayer, trend recommendation.FormTrend, weak bool, valueForMoney float64) string {
	parts := make([]string, 0, 4)
	if weak {
		parts = append(parts, "strengthens a thin position")
	}
	if p.AveragePoints >= 100 {
		parts = append(parts, fmt.Sprintf("%.0f points per game", p.AveragePoints))
	}
	if valueForMoney >= 30 {
		parts = append(parts, "strong value for money")
	}
	switch trend {
	case recommendation.TrendImproving:
		parts = append(parts, "form improving")
	case recommendation.TrendDeclining:
		parts = append(parts, "form declining")
	}
	if len(parts) == 0 {
		parts = append(parts, "solid all-round pick")
	}
	return strings.Join(parts, ", ")
}

// sortRecommendations orders by score descending with the player id as
// a deterministic tiebreak so equal scores rank stably across runs.
func sortRecommendations(recs []recommendation.TransferRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Player.ID < recs[j].Player.ID
	})
}

func containsPosition(positions []int, pos int) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

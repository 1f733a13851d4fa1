package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/lukasmw/kickbase-companion/internal/domain/player"
	"github.com/lukasmw/kickbase-companion/internal/parse"
	"github.com/lukasmw/kickbase-companion/internal/platform/cache"
	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
)

// Batch sizes and cache TTLs are fixed upstream-facing constants, not
// tuning knobs: ten concurrent detail fetches per batch keeps the
// reverse-engineered API from rate-limiting a recommendation run.
const (
	detailBatchSize      = 10
	defaultCompetitionID = "1"
)

// PlayerService owns roster/market reads and the detail enrichment
// pipeline: batched per-player detail fetches with bounded concurrency,
// merged through id-keyed TTL caches so repeat lookups inside a
// session skip the network.
type PlayerService struct {
	api           KickbaseAPI
	mapper        *parse.Mapper
	logger        *logging.Logger
	pool          *ants.Pool
	detailCache   *cache.Store
	perfCache     *cache.Store
	teamCache     *cache.Store
	competitionID string
}

func NewPlayerService(api KickbaseAPI, mapper *parse.Mapper, logger *logging.Logger, detailCache, perfCache, teamCache *cache.Store) (*PlayerService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := ants.NewPool(detailBatchSize)
	if err != nil {
		return nil, fmt.Errorf("create enrichment pool: %w", err)
	}
	return &PlayerService{
		api:           api,
		mapper:        mapper,
		logger:        logger,
		pool:          pool,
		detailCache:   detailCache,
		perfCache:     perfCache,
		teamCache:     teamCache,
		competitionID: defaultCompetitionID,
	}, nil
}

// Close releases the enrichment worker pool.
func (s *PlayerService) Close() {
	s.pool.Release()
}

// SetCompetitionID overrides the competition used for team profile
// lookups.
func (s *PlayerService) SetCompetitionID(id string) {
	if id != "" {
		s.competitionID = id
	}
}

// Squad fetches and maps the manager's roster, then enriches every
// player with detail-endpoint data. The primary fetch is a hard
// failure; enrichment degrades to list-endpoint values.
func (s *PlayerService) Squad(ctx context.Context, leagueID string) ([]player.TeamPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Squad")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	raw, err := s.api.Squad(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("fetch squad league_id=%s: %w", leagueID, err)
	}

	records := parse.Records(raw, parse.KindPlayer)
	players := make([]player.TeamPlayer, 0, len(records))
	for _, rec := range records {
		players = append(players, s.mapper.TeamPlayer(rec))
	}

	s.enrichBatched(ctx, leagueID, len(players), func(i int) string { return players[i].ID }, func(i int, d player.Detail) {
		d.ApplyToTeamPlayer(&players[i])
	})

	s.logger.DebugContext(ctx, "squad mapped", "league_id", leagueID, "count", len(players))
	return players, nil
}

// Market fetches and maps the transfer market listings, enriched the
// same way as the squad.
func (s *PlayerService) Market(ctx context.Context, leagueID string) ([]player.MarketPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Market")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	raw, err := s.api.Market(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("fetch market league_id=%s: %w", leagueID, err)
	}

	records := parse.Records(raw, parse.KindMarketPlayer)
	players := make([]player.MarketPlayer, 0, len(records))
	for _, rec := range records {
		players = append(players, s.mapper.MarketPlayer(rec))
	}

	s.enrichBatched(ctx, leagueID, len(players), func(i int) string { return players[i].ID }, func(i int, d player.Detail) {
		d.ApplyToMarketPlayer(&players[i])
	})

	s.logger.DebugContext(ctx, "market mapped", "league_id", leagueID, "count", len(players))
	return players, nil
}

// enrichBatched runs detail fetches through the worker pool in
// batches, waiting out each batch before starting the next. Individual
// failures leave the entity on list-endpoint data.
func (s *PlayerService) enrichBatched(ctx context.Context, leagueID string, n int, idAt func(int) string, apply func(int, player.Detail)) {
	for start := 0; start < n; start += detailBatchSize {
		end := start + detailBatchSize
		if end > n {
			end = n
		}

		details := make([]*player.Detail, end-start)
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			i := i
			playerID := idAt(i)
			wg.Add(1)
			task := func() {
				defer wg.Done()
				raw, err := s.detailPayload(ctx, leagueID, playerID)
				if err != nil {
					s.logger.DebugContext(ctx, "detail enrichment skipped", "player_id", playerID, "error", err)
					return
				}
				d := s.mapper.Detail(raw)
				details[i-start] = &d
			}
			if err := s.pool.Submit(task); err != nil {
				task()
			}
		}
		wg.Wait()

		for i := start; i < end; i++ {
			if d := details[i-start]; d != nil {
				apply(i, *d)
			}
		}
	}
}

// detailPayload returns the raw detail record for one player through
// the TTL cache.
func (s *PlayerService) detailPayload(ctx context.Context, leagueID, playerID string) (map[string]any, error) {
	key := "detail:" + leagueID + ":" + playerID
	out, err := s.detailCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		raw, err := s.api.PlayerDetail(ctx, leagueID, playerID)
		if err != nil {
			return nil, err
		}
		records := parse.Records(raw, parse.KindPlayer)
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: detail player_id=%s", ErrNotFound, playerID)
		}
		return records[0], nil
	})
	if err != nil {
		return nil, err
	}
	rec, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected detail cache payload %T", out)
	}
	return rec, nil
}

// MatchStats returns the matchday counters for one player from the
// cached detail payload. The matchday is always positive; payloads
// without one get the mid-season default.
func (s *PlayerService) MatchStats(ctx context.Context, leagueID, playerID string) (player.MatchStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.MatchStats")
	defer span.End()

	raw, err := s.detailPayload(ctx, leagueID, playerID)
	if err != nil {
		return player.MatchStats{}, err
	}
	stats := s.mapper.MatchStats(raw)
	if stats.CurrentMatchDay <= 0 {
		stats.CurrentMatchDay = CurrentMatchDay(raw)
	}
	return stats, nil
}

// MarketValueChange analyses the recent market value history of one
// player. Returns nil without error when the upstream has no samples.
func (s *PlayerService) MarketValueChange(ctx context.Context, leagueID, playerID string) (*player.MarketValueChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.MarketValueChange")
	defer span.End()

	raw, err := s.api.MarketValueHistory(ctx, leagueID, playerID, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch market value history player_id=%s: %w", playerID, err)
	}

	records := parse.Records(raw, parse.KindPlayer)
	entries := make([]player.MarketValueEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, s.mapper.MarketValueEntry(rec))
	}

	// prlo sits at the payload root, not inside the sample list.
	profitLoss := parse.IntOr(raw, 0, "prlo")
	return player.AnalyzeMarketValueHistory(entries, profitLoss), nil
}

// PerformanceWithTeams returns per-matchday rows annotated with club
// profiles. Profile lookups go through a 10-minute cache; a failed
// profile fetch leaves the row un-annotated.
func (s *PlayerService) PerformanceWithTeams(ctx context.Context, leagueID, playerID string) ([]player.EnhancedMatchPerformance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.PerformanceWithTeams")
	defer span.End()

	key := "performance:" + leagueID + ":" + playerID
	out, err := s.perfCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.loadPerformanceWithTeams(ctx, leagueID, playerID)
	})
	if err != nil {
		return nil, err
	}
	rows, ok := out.([]player.EnhancedMatchPerformance)
	if !ok {
		return nil, fmt.Errorf("unexpected performance cache payload %T", out)
	}
	return rows, nil
}

func (s *PlayerService) loadPerformanceWithTeams(ctx context.Context, leagueID, playerID string) ([]player.EnhancedMatchPerformance, error) {
	raw, err := s.api.PlayerPerformance(ctx, leagueID, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetch performance player_id=%s: %w", playerID, err)
	}

	perfs := s.mapPerformanceRows(raw)
	rows := make([]player.EnhancedMatchPerformance, 0, len(perfs))
	for _, perf := range perfs {
		row := player.EnhancedMatchPerformance{Base: perf}
		row.HomeTeam = s.teamProfile(ctx, perf.HomeTeamID)
		row.AwayTeam = s.teamProfile(ctx, perf.AwayTeamID)
		if perf.PlayerTeamID != "" {
			row.PlayerTeam = s.teamProfile(ctx, perf.PlayerTeamID)
			row.OpponentTeam = s.teamProfile(ctx, perf.OpponentTeamID())
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mapPerformanceRows flattens the performance payload. The endpoint
// nests matchday rows under "ph" per season on newer payloads and
// returns them flat on older ones.
func (s *PlayerService) mapPerformanceRows(raw map[string]any) []player.MatchPerformance {
	records := parse.Records(raw, parse.KindPlayer)
	perfs := make([]player.MatchPerformance, 0, len(records))
	for _, rec := range records {
		if nested, ok := rec["ph"].([]any); ok {
			for _, el := range nested {
				if m, ok := el.(map[string]any); ok {
					perfs = append(perfs, s.mapper.Performance(m))
				}
			}
			continue
		}
		perfs = append(perfs, s.mapper.Performance(rec))
	}
	return perfs
}

// teamProfile resolves one club profile through the cache; nil on any
// failure.
func (s *PlayerService) teamProfile(ctx context.Context, teamID string) *player.TeamInfo {
	if teamID == "" {
		return nil
	}
	out, err := s.teamCache.GetOrLoad(ctx, "team:"+teamID, func(ctx context.Context) (any, error) {
		raw, err := s.api.TeamProfile(ctx, s.competitionID, teamID)
		if err != nil {
			return nil, err
		}
		info := s.mapper.TeamInfo(raw)
		if info.ID == "" {
			info.ID = teamID
		}
		return info, nil
	})
	if err != nil {
		s.logger.DebugContext(ctx, "team profile unavailable", "team_id", teamID, "error", err)
		return nil
	}
	info, ok := out.(player.TeamInfo)
	if !ok {
		return nil
	}
	return &info
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lukasmw/kickbase-companion/internal/domain/league"
	"github.com/lukasmw/kickbase-companion/internal/domain/session"
	"github.com/lukasmw/kickbase-companion/internal/parse"
	"github.com/lukasmw/kickbase-companion/internal/platform/id"
	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
)

// LeagueService owns authentication and league-level reads: login,
// league selection, manager ranking and the dashboard stats.
type LeagueService struct {
	api      KickbaseAPI
	sessions session.Repository
	mapper   *parse.Mapper
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewLeagueService(api KickbaseAPI, sessions session.Repository, mapper *parse.Mapper, ids id.Generator, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		api:      api,
		sessions: sessions,
		mapper:   mapper,
		ids:      ids,
		logger:   logger,
		now:      time.Now,
	}
}

// Login authenticates against the upstream API and persists the
// session so later runs can skip the password prompt. A failing
// session write is logged but does not fail the login.
func (s *LeagueService) Login(ctx context.Context, email, password string) (league.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Login")
	defer span.End()

	if email == "" || password == "" {
		return league.User{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return league.User{}, fmt.Errorf("login: %w", err)
	}

	var user league.User
	if u, ok := res.Raw["u"].(map[string]any); ok {
		user = s.mapper.LeagueUser(u, league.User{})
	} else {
		user = s.mapper.LeagueUser(res.Raw, league.User{})
	}

	if s.sessions != nil {
		now := s.now().UTC()
		err := s.sessions.SaveSession(ctx, session.Session{
			ID:        s.ids.NewID(),
			Email:     email,
			Token:     res.Token,
			UserID:    user.ID,
			UserName:  user.Name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "persist session failed", "error", err)
		}
	}

	s.logger.InfoContext(ctx, "login succeeded", "user_id", user.ID)
	return user, nil
}

// RestoreSession loads the most recent persisted session and arms the
// API client with its token. ErrNoSession when nothing is stored.
func (s *LeagueService) RestoreSession(ctx context.Context) (*session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.RestoreSession")
	defer span.End()

	if s.sessions == nil {
		return nil, ErrNoSession
	}
	stored, err := s.sessions.LatestSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored == nil || stored.Token == "" {
		return nil, ErrNoSession
	}
	s.api.SetToken(stored.Token)
	return stored, nil
}

// Leagues fetches and maps the league selection. A transport failure
// here is a hard failure; there is nothing to degrade to.
func (s *LeagueService) Leagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Leagues")
	defer span.End()

	raw, err := s.api.Leagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch leagues: %w", err)
	}

	records := parse.Records(raw, parse.KindLeague)
	leagues := make([]league.League, 0, len(records))
	for _, rec := range records {
		leagues = append(leagues, s.mapper.League(rec))
	}

	s.logger.DebugContext(ctx, "leagues mapped", "count", len(leagues))
	return leagues, nil
}

// LeagueUser resolves the authenticated manager's standing inside one
// league from the league selection.
func (s *LeagueService) LeagueUser(ctx context.Context, leagueID string) (league.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.LeagueUser")
	defer span.End()

	if leagueID == "" {
		return league.User{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	leagues, err := s.Leagues(ctx)
	if err != nil {
		return league.User{}, err
	}
	for _, l := range leagues {
		if l.ID == leagueID {
			return l.CurrentUser, nil
		}
	}
	return league.User{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
}

// Ranking fetches the manager table of one league.
func (s *LeagueService) Ranking(ctx context.Context, leagueID string) ([]league.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Ranking")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	raw, err := s.api.Ranking(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("fetch ranking league_id=%s: %w", leagueID, err)
	}

	records := parse.Records(raw, parse.KindUser)
	users := make([]league.User, 0, len(records))
	for _, rec := range records {
		users = append(users, s.mapper.LeagueUser(rec, league.User{}))
	}
	return users, nil
}

// UserStats fetches the authenticated manager's standing in one
// league. Fields the payload omits keep the supplied known standing.
func (s *LeagueService) UserStats(ctx context.Context, leagueID string, known league.User) (league.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.UserStats")
	defer span.End()

	if leagueID == "" {
		return league.Stats{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	raw, err := s.api.Me(ctx, leagueID)
	if err != nil {
		return league.Stats{}, fmt.Errorf("fetch user stats league_id=%s: %w", leagueID, err)
	}
	return s.mapper.UserStats(raw, known), nil
}

// CollectBonus claims the daily bonus and records the collection time
// so callers can throttle to once per day.
func (s *LeagueService) CollectBonus(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CollectBonus")
	defer span.End()

	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	if s.sessions != nil {
		state, err := s.sessions.BonusStateByLeague(ctx, leagueID)
		if err != nil {
			s.logger.WarnContext(ctx, "load bonus state failed", "league_id", leagueID, "error", err)
		} else if state != nil && s.now().UTC().Sub(state.CollectedAt) < 24*time.Hour {
			return nil
		}
	}

	if _, err := s.api.CollectBonus(ctx, leagueID); err != nil {
		return fmt.Errorf("collect bonus league_id=%s: %w", leagueID, err)
	}

	if s.sessions != nil {
		err := s.sessions.SaveBonusState(ctx, session.BonusState{
			LeagueID:    leagueID,
			CollectedAt: s.now().UTC(),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "persist bonus state failed", "league_id", leagueID, "error", err)
		}
	}
	return nil
}

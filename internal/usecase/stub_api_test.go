package usecase

import (
	"context"
	"fmt"
	"sync"
)

// stubAPI is a scriptable KickbaseAPI for service tests.
type stubAPI struct {
	mu sync.Mutex

	token       string
	loginRaw    map[string]any
	loginErr    error
	leaguesRaw  map[string]any
	rankingRaw  map[string]any
	meRaw       map[string]any
	squadRaw    map[string]any
	squadErr    error
	marketRaw   map[string]any
	marketErr   error
	detailRaw   map[string]map[string]any
	detailErr   error
	historyRaw  map[string]any
	perfRaw     map[string]any
	teamRaw     map[string]map[string]any
	bonusCalls  int
	detailCalls int
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if s.loginErr != nil {
		return LoginResult{}, s.loginErr
	}
	token := "stub-token"
	s.token = token
	return LoginResult{Token: token, Raw: s.loginRaw}, nil
}

func (s *stubAPI) SetToken(token string) { s.token = token }

func (s *stubAPI) Leagues(ctx context.Context) (map[string]any, error) {
	return s.leaguesRaw, nil
}

func (s *stubAPI) Ranking(ctx context.Context, leagueID string) (map[string]any, error) {
	return s.rankingRaw, nil
}

func (s *stubAPI) Me(ctx context.Context, leagueID string) (map[string]any, error) {
	return s.meRaw, nil
}

func (s *stubAPI) Squad(ctx context.Context, leagueID string) (map[string]any, error) {
	if s.squadErr != nil {
		return nil, s.squadErr
	}
	return s.squadRaw, nil
}

func (s *stubAPI) Market(ctx context.Context, leagueID string) (map[string]any, error) {
	if s.marketErr != nil {
		return nil, s.marketErr
	}
	return s.marketRaw, nil
}

func (s *stubAPI) PlayerDetail(ctx context.Context, leagueID, playerID string) (map[string]any, error) {
	s.mu.Lock()
	s.detailCalls++
	s.mu.Unlock()
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	raw, ok := s.detailRaw[playerID]
	if !ok {
		return nil, fmt.Errorf("no detail for %s", playerID)
	}
	return raw, nil
}

func (s *stubAPI) MarketValueHistory(ctx context.Context, leagueID, playerID string, days int) (map[string]any, error) {
	return s.historyRaw, nil
}

func (s *stubAPI) PlayerPerformance(ctx context.Context, leagueID, playerID string) (map[string]any, error) {
	return s.perfRaw, nil
}

func (s *stubAPI) TeamProfile(ctx context.Context, competitionID, teamID string) (map[string]any, error) {
	raw, ok := s.teamRaw[teamID]
	if !ok {
		return nil, fmt.Errorf("no profile for %s", teamID)
	}
	return raw, nil
}

func (s *stubAPI) CollectBonus(ctx context.Context, leagueID string) (map[string]any, error) {
	s.mu.Lock()
	s.bonusCalls++
	s.mu.Unlock()
	return map[string]any{}, nil
}

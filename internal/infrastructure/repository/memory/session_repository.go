// Package memory holds in-memory repository implementations used when
// no database is configured, and by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lukasmw/kickbase-companion/internal/domain/session"
)

// SessionRepository keeps sessions, bonus state and recommendation
// runs in process memory.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
	bonus    map[string]session.BonusState
	runs     []session.RecommendationRun
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]session.Session),
		bonus:    make(map[string]session.BonusState),
	}
}

func (r *SessionRepository) SaveSession(_ context.Context, s session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *SessionRepository) LatestSession(_ context.Context) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *session.Session
	for id := range r.sessions {
		s := r.sessions[id]
		if latest == nil || s.UpdatedAt.After(latest.UpdatedAt) {
			latest = &s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *SessionRepository) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *SessionRepository) SaveBonusState(_ context.Context, st session.BonusState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bonus[st.LeagueID] = st
	return nil
}

func (r *SessionRepository) BonusStateByLeague(_ context.Context, leagueID string) (*session.BonusState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.bonus[leagueID]
	if !ok {
		return nil, nil
	}
	copied := st
	return &copied, nil
}

func (r *SessionRepository) SaveRecommendationRun(_ context.Context, run session.RecommendationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *SessionRepository) RecommendationRuns(_ context.Context, leagueID string, limit int) ([]session.RecommendationRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]session.RecommendationRun, 0, limit)
	for _, run := range r.runs {
		if run.LeagueID == leagueID {
			out = append(out, run)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

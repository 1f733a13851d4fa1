package memory

import (
	"context"
	"testing"
	"time"

	"github.com/lukasmw/kickbase-companion/internal/domain/session"
)

func TestSessionRepository_LatestSession(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	old := session.Session{ID: "s1", Email: "a@example.com", UpdatedAt: time.Now().Add(-time.Hour)}
	fresh := session.Session{ID: "s2", Email: "b@example.com", UpdatedAt: time.Now()}
	if err := repo.SaveSession(ctx, old); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := repo.SaveSession(ctx, fresh); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, err := repo.LatestSession(ctx)
	if err != nil {
		t.Fatalf("latest session: %v", err)
	}
	if got == nil || got.ID != "s2" {
		t.Fatalf("expected most recent session, got %+v", got)
	}

	if err := repo.DeleteSession(ctx, "s2"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, err = repo.LatestSession(ctx)
	if err != nil {
		t.Fatalf("latest session: %v", err)
	}
	if got == nil || got.ID != "s1" {
		t.Fatalf("expected remaining session, got %+v", got)
	}
}

func TestSessionRepository_BonusState(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	got, err := repo.BonusStateByLeague(ctx, "l1")
	if err != nil {
		t.Fatalf("bonus state: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no state, got %+v", got)
	}

	st := session.BonusState{LeagueID: "l1", CollectedAt: time.Now()}
	if err := repo.SaveBonusState(ctx, st); err != nil {
		t.Fatalf("save bonus state: %v", err)
	}
	got, err = repo.BonusStateByLeague(ctx, "l1")
	if err != nil {
		t.Fatalf("bonus state: %v", err)
	}
	if got == nil || got.LeagueID != "l1" {
		t.Fatalf("expected stored state, got %+v", got)
	}
}

func TestSessionRepository_RecommendationRuns(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	for i, kind := range []string{"transfer", "sale:max_value", "lineup:1-4-4-2"} {
		run := session.RecommendationRun{
			ID:        kind,
			LeagueID:  "l1",
			Kind:      kind,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		if err := repo.SaveRecommendationRun(ctx, run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}
	if err := repo.SaveRecommendationRun(ctx, session.RecommendationRun{ID: "other", LeagueID: "l2"}); err != nil {
		t.Fatalf("save run: %v", err)
	}

	runs, err := repo.RecommendationRuns(ctx, "l1", 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of two runs, got %d", len(runs))
	}
	if runs[0].Kind != "lineup:1-4-4-2" {
		t.Fatalf("expected newest run first, got %q", runs[0].Kind)
	}
}

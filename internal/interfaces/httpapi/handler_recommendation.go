package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lukasmw/kickbase-companion/internal/domain/recommendation"
	"github.com/lukasmw/kickbase-companion/internal/usecase"
)

// defaultFormation is a 4-4-2 with one goalkeeper slot.
var defaultFormation = []int{1, 4, 4, 2}

type saleGoalQuery struct {
	Goal string `validate:"required,oneof=balance_budget improve_position max_value reduce_risk raise_capital"`
}

func (h *Handler) GetTransferRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTransferRecommendations")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	user, err := h.leagueService.LeagueUser(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	recs, err := h.recommendationService.TransferRecommendations(ctx, leagueID, user)
	if err != nil {
		h.logger.WarnContext(ctx, "transfer recommendations failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recs)
}

func (h *Handler) GetSaleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSaleRecommendations")
	defer span.End()

	query := saleGoalQuery{Goal: r.URL.Query().Get("goal")}
	if query.Goal == "" {
		query.Goal = string(recommendation.SaleGoalBalanceBudget)
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	user, err := h.leagueService.LeagueUser(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sales, err := h.recommendationService.SaleRecommendations(ctx, leagueID, user, recommendation.SaleGoal(query.Goal))
	if err != nil {
		h.logger.WarnContext(ctx, "sale recommendations failed", "league_id", leagueID, "goal", query.Goal, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sales)
}

func (h *Handler) GetOptimalLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOptimalLineup")
	defer span.End()

	formation, err := parseFormation(r.URL.Query().Get("formation"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	user, err := h.leagueService.LeagueUser(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.recommendationService.OptimalLineup(ctx, leagueID, user, formation)
	if err != nil {
		h.logger.WarnContext(ctx, "optimal lineup failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListRecommendationRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecommendationRuns")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	limit := queryIntOr(r, "limit", defaultRunHistoryLimit)
	runs, err := h.sessions.RecommendationRuns(ctx, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "recommendation runs failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runs)
}

// parseFormation turns "4-4-2" or "1-4-4-2" into slot counts per
// position. The goalkeeper slot may be omitted and defaults to one.
func parseFormation(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultFormation, nil
	}

	parts := strings.Split(raw, "-")
	if len(parts) == 3 {
		parts = append([]string{"1"}, parts...)
	}
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: formation %q must have three or four slot counts", usecase.ErrInvalidInput, raw)
	}

	formation := make([]int, len(parts))
	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: formation %q has an invalid slot count", usecase.ErrInvalidInput, raw)
		}
		formation[i] = n
		total += n
	}
	if total != 11 {
		return nil, fmt.Errorf("%w: formation %q must field eleven players", usecase.ErrInvalidInput, raw)
	}
	return formation, nil
}

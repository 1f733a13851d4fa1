package httpapi

import (
	"net/http"
)

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	squad, err := h.playerService.Squad(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "squad failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squad)
}

func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMarket")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	market, err := h.playerService.Market(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "market failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, market)
}

func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchStats")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	playerID := r.PathValue("playerID")
	stats, err := h.playerService.MatchStats(ctx, leagueID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "match stats failed", "league_id", leagueID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetMarketValueChange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMarketValueChange")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	playerID := r.PathValue("playerID")
	change, err := h.playerService.MarketValueChange(ctx, leagueID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "market value change failed", "league_id", leagueID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	// change is nil when the player has no recorded history; the
	// client treats a null body as "no data yet".
	writeSuccess(ctx, w, http.StatusOK, change)
}

func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPerformance")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	playerID := r.PathValue("playerID")
	rows, err := h.playerService.PerformanceWithTeams(ctx, leagueID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "performance failed", "league_id", leagueID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

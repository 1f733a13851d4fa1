package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/lukasmw/kickbase-companion/internal/domain/session"
	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
	"github.com/lukasmw/kickbase-companion/internal/usecase"
)

const defaultRunHistoryLimit = 20

type Handler struct {
	leagueService         *usecase.LeagueService
	playerService         *usecase.PlayerService
	recommendationService *usecase.RecommendationService
	sessions              session.Repository
	logger                *logging.Logger
	validator             *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	playerService *usecase.PlayerService,
	recommendationService *usecase.RecommendationService,
	sessions session.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:         leagueService,
		playerService:         playerService,
		recommendationService: recommendationService,
		sessions:              sessions,
		logger:                logger,
		validator:             validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	user, err := h.leagueService.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "email", req.Email, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, user)
}

func (h *Handler) RestoreSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RestoreSession")
	defer span.End()

	stored, err := h.leagueService.RestoreSession(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stored)
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.Leagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagues)
}

func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRanking")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	ranking, err := h.leagueService.Ranking(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "ranking failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ranking)
}

func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserStats")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	user, err := h.leagueService.LeagueUser(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.leagueService.UserStats(ctx, leagueID, user)
	if err != nil {
		h.logger.WarnContext(ctx, "user stats failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) CollectBonus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CollectBonus")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	if err := h.leagueService.CollectBonus(ctx, leagueID); err != nil {
		h.logger.WarnContext(ctx, "collect bonus failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	// The bonus moves the budget, so cached recommendations are stale.
	h.recommendationService.InvalidateLeague(ctx, leagueID)

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "collected"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func queryIntOr(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

package httpapi

import (
	"net/http"

	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerAuthRoutes(mux, handler)
	registerLeagueRoutes(mux, handler)
	registerPlayerRoutes(mux, handler)
	registerRecommendationRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/session", handler.RestoreSession)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/ranking", handler.GetRanking)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/stats", handler.GetUserStats)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/bonus", handler.CollectBonus)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/squad", handler.GetSquad)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/market", handler.GetMarket)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/players/{playerID}/stats", handler.GetMatchStats)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/players/{playerID}/market-value", handler.GetMarketValueChange)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/players/{playerID}/performance", handler.GetPerformance)
}

func registerRecommendationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/recommendations/transfers", handler.GetTransferRecommendations)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/recommendations/sales", handler.GetSaleRecommendations)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/recommendations/lineup", handler.GetOptimalLineup)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/recommendations/runs", handler.ListRecommendationRuns)
}

package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lukasmw/kickbase-companion/external/kickbase"
	"github.com/lukasmw/kickbase-companion/internal/config"
	"github.com/lukasmw/kickbase-companion/internal/domain/session"
	"github.com/lukasmw/kickbase-companion/internal/infrastructure/repository/memory"
	"github.com/lukasmw/kickbase-companion/internal/infrastructure/repository/postgres"
	"github.com/lukasmw/kickbase-companion/internal/interfaces/httpapi"
	"github.com/lukasmw/kickbase-companion/internal/parse"
	"github.com/lukasmw/kickbase-companion/internal/platform/cache"
	idgen "github.com/lukasmw/kickbase-companion/internal/platform/id"
	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
	"github.com/lukasmw/kickbase-companion/internal/platform/resilience"
	"github.com/lukasmw/kickbase-companion/internal/usecase"

	_ "github.com/lib/pq"
)

// NewHTTPServer wires repositories, the upstream client and the
// services into a ready-to-run HTTP server. The returned cleanup
// releases pooled resources and must run after server shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	sessions, db, err := newSessionRepository(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	client := kickbase.NewClient(kickbase.ClientConfig{
		BaseURL:    cfg.KickbaseBaseURL,
		Timeout:    cfg.KickbaseTimeout,
		MaxRetries: cfg.KickbaseMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.KickbaseCircuitEnabled,
			FailureThreshold: cfg.KickbaseCircuitFailureCount,
			OpenTimeout:      cfg.KickbaseCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.KickbaseCircuitHalfOpenMaxRq,
		},
	})

	ids := idgen.NewRandomGenerator()
	mapper := parse.NewMapper(ids)

	leagueSvc := usecase.NewLeagueService(client, sessions, mapper, ids, logger)
	playerSvc, err := usecase.NewPlayerService(client, mapper, logger,
		cache.NewStore(cfg.DetailCacheTTL),
		cache.NewStore(cfg.PerformanceCacheTTL),
		cache.NewStore(cfg.TeamCacheTTL),
	)
	if err != nil {
		closeDB(db, logger)
		return nil, nil, err
	}
	playerSvc.SetCompetitionID(cfg.CompetitionID)

	recommendationSvc := usecase.NewRecommendationService(playerSvc,
		cache.NewStore(cfg.RecommendationCacheTTL), sessions, ids, logger)

	restoreUpstreamAuth(cfg, leagueSvc, logger)

	handler := httpapi.NewHandler(leagueSvc, playerSvc, recommendationSvc, sessions, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		playerSvc.Close()
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() {
		playerSvc.Close()
		closeDB(db, logger)
	}
	return server, cleanup, nil
}

func newSessionRepository(cfg config.Config, logger *logging.Logger) (session.Repository, *sqlx.DB, error) {
	if !cfg.DBEnabled {
		logger.Info("session store", "backend", "memory")
		return memory.NewSessionRepository(), nil, nil
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("session store", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewSessionRepository(db), db, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database failed", "error", err)
	}
}

// restoreUpstreamAuth puts a bearer token on the upstream client
// before the first request: a persisted session when one exists,
// otherwise a fresh login with configured credentials. Both paths are
// best effort; the login endpoint stays available either way.
func restoreUpstreamAuth(cfg config.Config, leagues *usecase.LeagueService, logger *logging.Logger) {
	ctx := context.Background()

	if _, err := leagues.RestoreSession(ctx); err == nil {
		logger.Info("upstream session restored")
		return
	}

	if cfg.KickbaseEmail == "" || cfg.KickbasePassword == "" {
		logger.Info("no stored session and no configured credentials, waiting for login")
		return
	}

	if _, err := leagues.Login(ctx, cfg.KickbaseEmail, cfg.KickbasePassword); err != nil {
		logger.Warn("startup login failed", "error", err)
		return
	}
	logger.Info("logged in with configured credentials")
}

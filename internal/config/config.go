package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBEnabled bool
	DBURL     string

	CORSAllowedOrigins []string

	KickbaseBaseURL              string
	KickbaseEmail                string
	KickbasePassword             string
	KickbaseTimeout              time.Duration
	KickbaseMaxRetries           int
	KickbaseCircuitEnabled       bool
	KickbaseCircuitFailureCount  int
	KickbaseCircuitOpenTimeout   time.Duration
	KickbaseCircuitHalfOpenMaxRq int
	CompetitionID                string

	DetailCacheTTL         time.Duration
	PerformanceCacheTTL    time.Duration
	TeamCacheTTL           time.Duration
	RecommendationCacheTTL time.Duration

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbEnabled, err := strconv.ParseBool(getEnv("DB_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_ENABLED: %w", err)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbEnabled && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when DB_ENABLED=true")
	}

	kickbaseTimeout, err := time.ParseDuration(getEnv("KICKBASE_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse KICKBASE_TIMEOUT: %w", err)
	}
	if kickbaseTimeout <= 0 {
		return Config{}, fmt.Errorf("KICKBASE_TIMEOUT must be > 0")
	}
	kickbaseMaxRetries, err := getEnvAsInt("KICKBASE_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse KICKBASE_MAX_RETRIES: %w", err)
	}
	if kickbaseMaxRetries < 0 {
		return Config{}, fmt.Errorf("KICKBASE_MAX_RETRIES must be >= 0")
	}
	kickbaseCircuitEnabled, err := strconv.ParseBool(getEnv("KICKBASE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse KICKBASE_CIRCUIT_ENABLED: %w", err)
	}
	kickbaseCircuitFailureCount, err := getEnvAsInt("KICKBASE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse KICKBASE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if kickbaseCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("KICKBASE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	kickbaseCircuitOpenTimeout, err := time.ParseDuration(getEnv("KICKBASE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse KICKBASE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if kickbaseCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("KICKBASE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	kickbaseCircuitHalfOpenMaxRq, err := getEnvAsInt("KICKBASE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse KICKBASE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if kickbaseCircuitHalfOpenMaxRq < 1 {
		return Config{}, fmt.Errorf("KICKBASE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	detailCacheTTL, err := getEnvAsDuration("DETAIL_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	performanceCacheTTL, err := getEnvAsDuration("PERFORMANCE_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	teamCacheTTL, err := getEnvAsDuration("TEAM_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}
	recommendationCacheTTL, err := getEnvAsDuration("RECOMMENDATION_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "kickbase-companion"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DBEnabled: dbEnabled,
		DBURL:     dbURL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		KickbaseBaseURL:              getEnv("KICKBASE_BASE_URL", "https://api.kickbase.com"),
		KickbaseEmail:                strings.TrimSpace(getEnv("KICKBASE_EMAIL", "")),
		KickbasePassword:             os.Getenv("KICKBASE_PASSWORD"),
		KickbaseTimeout:              kickbaseTimeout,
		KickbaseMaxRetries:           kickbaseMaxRetries,
		KickbaseCircuitEnabled:       kickbaseCircuitEnabled,
		KickbaseCircuitFailureCount:  kickbaseCircuitFailureCount,
		KickbaseCircuitOpenTimeout:   kickbaseCircuitOpenTimeout,
		KickbaseCircuitHalfOpenMaxRq: kickbaseCircuitHalfOpenMaxRq,
		CompetitionID:                getEnv("KICKBASE_COMPETITION_ID", "1"),

		DetailCacheTTL:         detailCacheTTL,
		PerformanceCacheTTL:    performanceCacheTTL,
		TeamCacheTTL:           teamCacheTTL,
		RecommendationCacheTTL: recommendationCacheTTL,

		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

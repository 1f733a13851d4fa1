// Package kickbase is the HTTP client for the reverse-engineered
// Kickbase v4 API. It speaks bearer-token auth, retries transient
// failures with linear backoff and shields the upstream behind a
// circuit breaker. Responses are returned as raw decoded maps; shape
// interpretation happens downstream because the API has no published
// schema.
package kickbase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lukasmw/kickbase-companion/internal/parse"
	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
	"github.com/lukasmw/kickbase-companion/internal/platform/resilience"
	"github.com/lukasmw/kickbase-companion/internal/usecase"
)

const (
	defaultBaseURL = "https://api.kickbase.com"
	defaultTimeout = 20 * time.Second
	responseLimit  = 6 << 20
	defaultMaxDays = 365
)

var errKickbaseTransient = crerr.New("kickbase transient failure")

// ErrNoToken is returned when an authenticated endpoint is called
// before a successful login.
var ErrNoToken = crerr.New("no auth token")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	mu    sync.RWMutex
	token string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		token:          strings.TrimSpace(cfg.Token),
	}
}

// SetToken swaps the bearer token, typically after a fresh login or
// when restoring a persisted session.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates with email/password and stores the returned
// token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (usecase.LoginResult, error) {
	body := map[string]any{
		"em":   email,
		"pass": password,
		"loy":  false,
		"rep":  map[string]any{},
	}

	raw, err := c.doJSON(ctx, http.MethodPost, "/v4/user/login", body, false)
	if err != nil {
		return usecase.LoginResult{}, err
	}

	token, _ := parse.String(raw, "tkn", "token")
	if token == "" {
		return usecase.LoginResult{}, fmt.Errorf("login response carried no token")
	}
	c.SetToken(token)

	return usecase.LoginResult{Token: token, Raw: raw}, nil
}

// Leagues fetches the league selection for the authenticated manager.
func (c *Client) Leagues(ctx context.Context) (map[string]any, error) {
	return c.get(ctx, "/v4/leagues/selection")
}

// Ranking fetches the manager table of one league.
func (c *Client) Ranking(ctx context.Context, leagueID string) (map[string]any, error) {
	return c.get(ctx, fmt.Sprintf("/v4/leagues/%s/ranking", leagueID))
}

// Me fetches the authenticated manager's standing in one league,
// including the current budget.
func (c *Client) Me(ctx context.Context, leagueID string) (map[string]any, error) {
	return c.get(ctx, fmt.Sprintf("/v4/leagues/%s/me", leagueID))
}

// Squad fetches the manager's own roster.
func (c *Client) Squad(ctx context.Context, leagueID string) (map[string]any, error) {
	return c.get(ctx, fmt.Sprintf("/v4/leagues/%s/squad", leagueID))
}

// Market fetches the current transfer market listings.
func (c *Client) Market(ctx context.Context, leagueID string) (map[string]any, error) {
	return c.get(ctx, fmt.Sprintf("/v4/leagues/%s/market", leagueID))
}

// PlayerDetail fetches the per-player detail record.
func (c *Client) PlayerDetail(ctx context.Context, leagueID, playerID string) (map[string]any, error) {
	return c.get(ctx, fmt.Sprintf("/v4/leagues/%s/players/%s", leagueID, playerID))
}

// MarketValueHistory fetches up to days of market value samples for
// one player.
func (c *Client) MarketValueHistory(ctx context.Context, leagueID, playerID string, days int) (map[string]any, error) {
	if days <= 0 {
		days = defaultMaxDays
	}
	return c.get(ctx, fmt.Sprintf("/v4/leagues/%s/players/%s/marketvalue/%d", leagueID, playerID, days))
}

// PlayerPerformance fetches per-matchday scoring rows for one player.
func (c *Client) PlayerPerformance(ctx context.Context, leagueID, playerID string) (map[string]any, error) {
	return c.get(ctx, fmt.Sprintf("/v4/leagues/%s/players/%s/performance", leagueID, playerID))
}

// TeamProfile fetches the real-world club profile used to annotate
// performance rows.
func (c *Client) TeamProfile(ctx context.Context, competitionID, teamID string) (map[string]any, error) {
	return c.get(ctx, fmt.Sprintf("/v4/competitions/%s/teams/%s/teamprofile", competitionID, teamID))
}

// CollectBonus claims the daily login bonus of one league.
func (c *Client) CollectBonus(ctx context.Context, leagueID string) (map[string]any, error) {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/v4/leagues/%s/user/bonus", leagueID), nil, true)
}

func (c *Client) get(ctx context.Context, path string) (map[string]any, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil, true)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, needsAuth bool) (map[string]any, error) {
	token := c.currentToken()
	if needsAuth && token == "" {
		return nil, fmt.Errorf("%w: %s", usecase.ErrUnauthorized, ErrNoToken)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "kickbase circuit breaker rejected request", "state", c.breaker.State(), "path", path)
			return nil, fmt.Errorf("%w: kickbase is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	var encoded []byte
	if body != nil {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)
		if err := sonic.ConfigDefault.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		encoded = buf.B
	}

	run := func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, method, path, encoded, token)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errKickbaseTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	}

	var out any
	var err error
	if method == http.MethodGet {
		// Collapse identical concurrent enrichment fetches.
		out, err, _ = c.flight.Do(method+" "+path, run)
	} else {
		out, err = run()
	}
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	decoded := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := sonic.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("decode kickbase payload: %w", err)
		}
	}
	return decoded, nil
}

func (c *Client) executeRequest(ctx context.Context, method, path string, body []byte, token string) ([]byte, error) {
	fullURL := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errKickbaseTransient, sanitizeSensitiveText(err.Error(), token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, responseLimit))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errKickbaseTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusUnauthorized:
				return nil, fmt.Errorf("%w: kickbase rejected token", usecase.ErrUnauthorized)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: kickbase status=%d body=%s", errKickbaseTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("kickbase status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("kickbase request failed")
	}
	c.logger.WarnContext(ctx, "kickbase request failed", "method", method, "path", path, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const max = 256
	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

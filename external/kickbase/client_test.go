package kickbase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukasmw/kickbase-companion/internal/platform/logging"
	"github.com/lukasmw/kickbase-companion/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		Logger:     logging.NewNop(),
	})
	return client, srv
}

func TestLoginStoresToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v4/user/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"tkn":"secret-token","u":{"id":"u1","name":"alice"}}`))
	}))

	res, err := client.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", res.Token)
	assert.Equal(t, "secret-token", client.currentToken())
}

func TestLoginWithoutTokenFails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"u":{"id":"u1"}}`))
	}))

	_, err := client.Login(context.Background(), "a@example.com", "pw")
	assert.Error(t, err)
}

func TestAuthenticatedCallWithoutToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	}))

	_, err := client.Squad(context.Background(), "l1")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestUnauthorizedStatusIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	client.SetToken("stale")
	client.maxRetries = 3

	_, err := client.Market(context.Background(), "l1")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransientStatusIsRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"it":[{"i":"p1"}]}`))
	}))
	client.SetToken("tok")
	client.maxRetries = 2

	raw, err := client.Squad(context.Background(), "l1")
	require.NoError(t, err)
	assert.Contains(t, raw, "it")
	assert.Equal(t, int32(2), calls.Load())
}

func TestBadRequestSurfacesWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"err":"bad league"}`))
	}))
	client.SetToken("tok")
	client.maxRetries = 3

	_, err := client.Ranking(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMalformedPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not-json`))
	}))
	client.SetToken("tok")

	_, err := client.Me(context.Background(), "l1")
	assert.Error(t, err)
}

func TestMarketValueHistoryDefaultsWindow(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/leagues/l1/players/p1/marketvalue/365", r.URL.Path)
		w.Write([]byte(`{"it":[{"dt":10,"mv":1000000}],"prlo":50000}`))
	}))
	client.SetToken("tok")

	raw, err := client.MarketValueHistory(context.Background(), "l1", "p1", 0)
	require.NoError(t, err)
	assert.Contains(t, raw, "prlo")
}

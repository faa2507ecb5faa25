package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/suggestions"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	agg    *analytics.Aggregator
	tokens *auth.TokenManager
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		CORSOrigins:            "*",
		ReadTimeout:            5 * time.Second,
		WriteTimeout:           5 * time.Second,
		JWTSecret:              testSecret,
		JWTExpiry:              7 * 24 * time.Hour,
		RateLimitMax:           1000,
		RateLimitWindow:        15 * time.Minute,
		AuthRateLimitMax:       1000,
		AuthRateLimitWindow:    15 * time.Minute,
		AnalyticsRetentionDays: 90,
	}
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, fn := range mutate {
		fn(cfg)
	}

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	catalog, err := suggestions.DefaultCatalog()
	require.NoError(t, err)

	agg := analytics.New(
		analytics.NewFileStore(filepath.Join(t.TempDir(), "analytics.json"), cfg.AnalyticsRetentionDays, time.Local),
		analytics.Options{},
	)
	require.NoError(t, agg.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = agg.Stop(ctx)
	})

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	app := New(Deps{
		Config:    cfg,
		DB:        db,
		Catalog:   catalog,
		Analytics: agg,
		Metrics:   metrics.New(),
		Tokens:    tokens,
		AccessLog: io.Discard,
	})

	return &testEnv{app: app, db: db, agg: agg, tokens: tokens}
}

type apiResponse struct {
	Status  int
	Header  http.Header
	Body    map[string]any
	RawBody []byte
}

func (r apiResponse) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func (r apiResponse) errorBody() map[string]any {
	e, _ := r.Body["error"].(map[string]any)
	return e
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) apiResponse {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := apiResponse{Status: resp.StatusCode, Header: resp.Header, RawBody: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

func newRequest(t *testing.T, method, path, authorization string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// register creates a user and returns its token.
func (e *testEnv) register(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.do(t, "POST", "/auth/register", map[string]any{"email": email, "password": password}, "")
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.RawBody))
	token, _ := resp.data()["token"].(string)
	require.NotEmpty(t, token)
	return token
}

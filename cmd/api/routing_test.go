package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"booksbackend/internal/config"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:    config.DriverMemory,
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		MaxBodyBytes:   1 << 10,
	}
}

func newTestServer(t *testing.T, st *stores) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	logger, _ := logtest.NewNullLogger()
	srv := httptest.NewServer(newRouter(ctx, testConfig(), logger, st))
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Metadata struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Detail  string `json:"detail"`
	} `json:"metadata"`
	Data map[string][]map[string]any `json:"data"`
}

func do(t *testing.T, method, url, body string) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestV1Routing_CategoryAndBookLifecycle(t *testing.T) {
	srv := newTestServer(t, newMemoryStores())

	resp, env := do(t, http.MethodPost, srv.URL+"/v1/categories", `{"name":"Fiction","description":"Fiction books"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "00", env.Metadata.Code)
	assert.Equal(t, "Response ok", env.Metadata.Message)
	assert.Equal(t, "Category created", env.Metadata.Detail)
	require.Len(t, env.Data["categories"], 1)
	assert.Equal(t, float64(1), env.Data["categories"][0]["id"])

	resp, env = do(t, http.MethodPost, srv.URL+"/v1/books", `{"name":"Dune","description":"Desert planet","category_id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.Data["books"], 1)
	assert.Equal(t, "Fiction", env.Data["books"][0]["category"].(map[string]any)["name"])

	resp, env = do(t, http.MethodGet, srv.URL+"/v1/books", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.Data["books"], 1)

	resp, env = do(t, http.MethodDelete, srv.URL+"/v1/categories/1", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "-1", env.Metadata.Code)
	assert.Equal(t, "Error deleting category", env.Metadata.Detail)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/v1/books/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = do(t, http.MethodGet, srv.URL+"/v1/books/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Response nok", env.Metadata.Message)
	assert.Empty(t, env.Data["books"])

	resp, env = do(t, http.MethodPut, srv.URL+"/v1/categories/1", `{"name":"Sci-Fi","description":"Sci-Fi books"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Category updated", env.Metadata.Detail)
}

func TestV1Routing_PrefixRequired(t *testing.T) {
	srv := newTestServer(t, newMemoryStores())

	resp, err := http.Get(srv.URL + "/categories")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestV1Routing_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, newMemoryStores())

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/v1/categories/1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestV1Routing_Middleware(t *testing.T) {
	srv := newTestServer(t, newMemoryStores())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/categories", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("X-Request-Id", "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, env := do(t, http.MethodPost, srv.URL+"/v1/categories", `{"name":"`+strings.Repeat("x", 2048)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "-1", env.Metadata.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(t, newMemoryStores())

		for _, path := range []string{"/healthz", "/readyz"} {
			resp, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("store down", func(t *testing.T) {
		st := newMemoryStores()
		st.ping = func(context.Context) error { return errors.New("connection refused") }
		srv := newTestServer(t, st)

		resp, err := http.Get(srv.URL + "/readyz")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestOpenStores(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	t.Run("memory", func(t *testing.T) {
		st, err := openStores(context.Background(), testConfig(), logger)
		require.NoError(t, err)
		defer st.close()
		assert.NoError(t, st.ping(context.Background()))
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig()
		cfg.StoreDriver = config.DriverSQLite
		cfg.SQLitePath = t.TempDir() + "/books.db"
		cfg.DBTimeout = 5 * time.Second

		st, err := openStores(context.Background(), cfg, logger)
		require.NoError(t, err)
		defer st.close()
		assert.NoError(t, st.ping(context.Background()))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig()
		cfg.StoreDriver = "mysql"
		_, err := openStores(context.Background(), cfg, logger)
		assert.Error(t, err)
	})
}

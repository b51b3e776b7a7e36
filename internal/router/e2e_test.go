//go:build integration

package router_test

// End-to-end tests against a real SQLite file and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/config"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/infra"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/router"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabasePath:       filepath.Join(t.TempDir(), "pdv_test.db"),
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		StatsCacheTTL:      60,
	}

	db, err := infra.NewDatabase(cfg.DatabasePath)
	require.NoError(t, err)
	require.NoError(t, infra.EnsureSchema(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("pdv2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		ID:           uuid.New(),
		Email:        "admin@e2e.test",
		Name:         "Admin E2E",
		PasswordHash: string(hash),
		Role:         "ADMIN",
		Active:       true,
	}).Error)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "pdv2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func createProduct(t *testing.T, env *testEnv, name string, price float64) string {
	t.Helper()

	catResp := do(t, env.server, "POST", "/v1/categories",
		jsonBody(t, map[string]any{"name": "Categoria " + name}), env.token)
	require.Equal(t, http.StatusCreated, catResp.StatusCode)
	var cat struct {
		ID string `json:"id"`
	}
	decodeJSON(t, catResp, &cat)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":        name,
			"price":       price,
			"category_id": cat.ID,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullOrderCycle(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "X-Salada", 18.90)

	// Two orders get sequential numbers starting at 1.
	var orderID string
	for want := 1; want <= 2; want++ {
		orderResp := do(t, env.server, "POST", "/v1/orders",
			jsonBody(t, map[string]any{
				"items":          []map[string]any{{"product_id": prodID, "quantity": 2}},
				"payment_method": "PIX",
			}), env.token)
		require.Equal(t, http.StatusCreated, orderResp.StatusCode)
		var order struct {
			ID          string `json:"id"`
			OrderNumber int    `json:"order_number"`
			Status      string `json:"status"`
			Total       string `json:"total"`
		}
		decodeJSON(t, orderResp, &order)
		assert.Equal(t, want, order.OrderNumber)
		assert.Equal(t, "PENDING", order.Status)
		assert.Equal(t, "37.8", order.Total)
		orderID = order.ID
	}

	// Free status transitions, including re-cancel.
	for _, status := range []string{"PREPARING", "CANCELLED", "CANCELLED", "READY"} {
		stResp := do(t, env.server, "PATCH", "/v1/orders/"+orderID+"/status",
			jsonBody(t, map[string]any{"status": status}), env.token)
		require.Equal(t, http.StatusOK, stResp.StatusCode)
		var updated struct {
			Status string `json:"status"`
		}
		decodeJSON(t, stResp, &updated)
		assert.Equal(t, status, updated.Status)
	}

	listResp := do(t, env.server, "GET",
		fmt.Sprintf("/v1/orders?date=%s", time.Now().Format("2006-01-02")), nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.EqualValues(t, 2, list.Total)
}

func TestE2E_OrderWithInvalidProductsReportsAll(t *testing.T) {
	env := setupTestEnv(t)
	missing := uuid.NewString()

	orderResp := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"product_id": missing, "quantity": 1},
				{"product_id": uuid.NewString(), "quantity": 1},
			},
			"payment_method": "CASH",
		}), env.token)
	require.Equal(t, http.StatusBadRequest, orderResp.StatusCode)

	var body struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, orderResp, &body)
	assert.Equal(t, "validation_error", body.Code)
	assert.Len(t, body.Fields, 2)
	assert.Equal(t, "not_found", body.Fields[missing])
}

func TestE2E_DashboardServedAndCached(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "Coxinha", 7.50)

	orderResp := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"product_id": prodID, "quantity": 4}},
			"payment_method": "CASH",
		}), env.token)
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)

	var first, second struct {
		TotalSales string `json:"total_sales"`
		OrderCount int    `json:"order_count"`
	}

	resp := do(t, env.server, "GET", "/v1/statistics/dashboard?days=7", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &first)
	assert.Equal(t, "30", first.TotalSales)
	assert.Equal(t, 1, first.OrderCount)

	// Second hit comes from the Redis cache and must agree.
	resp = do(t, env.server, "GET", "/v1/statistics/dashboard?days=7", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &second)
	assert.Equal(t, first, second)
}

func TestE2E_RolePermissions(t *testing.T) {
	env := setupTestEnv(t)

	// Create an attendant and log in as them.
	userResp := do(t, env.server, "POST", "/v1/users",
		jsonBody(t, map[string]any{
			"email":    "atendente@e2e.test",
			"password": "123456",
			"name":     "Atendente E2E",
			"role":     "ATTENDANT",
		}), env.token)
	require.Equal(t, http.StatusCreated, userResp.StatusCode)

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"email": "atendente@e2e.test", "password": "123456"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	// Attendants cannot reach the dashboard or manage users.
	resp := do(t, env.server, "GET", "/v1/statistics/dashboard", nil, login.AccessToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, env.server, "GET", "/v1/users", nil, login.AccessToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// But they can read the catalog.
	resp = do(t, env.server, "GET", "/v1/products", nil, login.AccessToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// N simultaneous creations must come out with order numbers forming exactly
// {1..N}: no duplicates, no gaps. HTTP helpers are inlined here because
// testify's require must not be called off the test goroutine.
func TestE2E_ConcurrentOrderNumbersContiguous(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "Misto Quente", 9.50)

	const n = 10
	payload, err := json.Marshal(map[string]any{
		"items":          []map[string]any{{"product_id": prodID, "quantity": 1}},
		"payment_method": "CASH",
	})
	require.NoError(t, err)

	type result struct {
		number int
		err    error
	}
	results := make(chan result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, env.server.URL+"/v1/orders", bytes.NewReader(payload))
			if err != nil {
				results <- result{err: err}
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+env.token)
			resp, err := env.server.Client().Do(req)
			if err != nil {
				results <- result{err: err}
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				results <- result{err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
				return
			}
			var order struct {
				OrderNumber int `json:"order_number"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
				results <- result{err: err}
				return
			}
			results <- result{number: order.OrderNumber}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool, n)
	for res := range results {
		require.NoError(t, res.err)
		assert.False(t, seen[res.number], "duplicate order number %d", res.number)
		seen[res.number] = true
	}
	for want := 1; want <= n; want++ {
		assert.True(t, seen[want], "missing order number %d", want)
	}
}

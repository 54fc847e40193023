package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/davalosm/papeleria-pos/internal/adapters/memstore"
	redis_a "github.com/davalosm/papeleria-pos/internal/adapters/redis_adapter"
	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
	"github.com/davalosm/papeleria-pos/internal/core/services"
	"github.com/davalosm/papeleria-pos/internal/handlers"
	"github.com/davalosm/papeleria-pos/internal/handlers/middleware"
	"github.com/davalosm/papeleria-pos/test/helpers"
)

const testSecret = "test-secret"

func newCacheForTest(t *testing.T, tr *helpers.TestRedis) ports.CacheRepository {
	t.Helper()
	return redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
}

// testServer wires the real store, services and handlers behind the same
// routes the API registers, optionally with a Redis-backed report cache.
type testServer struct {
	mux   *http.ServeMux
	store *memstore.Store
	sales *services.SaleService
	redis *helpers.TestRedis

	cashierToken string
}

func newTestServer(t *testing.T, withCache bool) *testServer {
	t.Helper()

	logger := helpers.TestLogger()
	store := helpers.SeededStore(t)

	var cache ports.CacheRepository
	var tr *helpers.TestRedis
	if withCache {
		tr = helpers.SetupTestRedis(t)
		cache = newCacheForTest(t, tr)
	}

	branchService, err := services.NewBranchService(store.Branches(), "admin", "admin123", bcrypt.MinCost, logger)
	require.NoError(t, err)
	saleService := services.NewSaleService(store.Sales(), store.Inventory(), store.Branches(), logger)
	saleService.Now = helpers.FixedClock(2025, time.January, 1, 10, 30)
	inventoryService := services.NewInventoryService(store.Inventory(), logger)
	reportService := services.NewReportService(store.Sales(), logger)

	authHandler := handlers.NewAuthHandler(branchService, testSecret, time.Hour, "pos_session", logger)
	branchHandler := handlers.NewBranchHandler(branchService, logger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, logger)
	salesHandler := handlers.NewSalesHandler(saleService, cache, logger)
	reportHandler := handlers.NewReportHandler(reportService, cache, time.Minute, logger)
	healthHandler := handlers.NewHealthHandler(store, cache, "test", logger)

	session := middleware.Session(testSecret, "pos_session")
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return session(middleware.RequireRole(domain.RoleAdmin)(h))
	}
	authenticated := func(h http.HandlerFunc) http.Handler {
		return session(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Readiness)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("GET /api/v1/auth/session", authenticated(authHandler.Session))
	mux.Handle("GET /api/v1/branches", authenticated(branchHandler.ListBranches))
	mux.Handle("POST /api/v1/branches", adminOnly(branchHandler.CreateBranch))
	mux.Handle("PUT /api/v1/branches/{id}", adminOnly(branchHandler.UpdateBranch))
	mux.Handle("GET /api/v1/inventory", authenticated(inventoryHandler.ListInventory))
	mux.Handle("POST /api/v1/inventory", authenticated(inventoryHandler.CreateProduct))
	mux.Handle("POST /api/v1/inventory/{id}/restock", authenticated(inventoryHandler.Restock))
	mux.Handle("POST /api/v1/sales", authenticated(salesHandler.RecordSale))
	mux.Handle("GET /api/v1/sales", authenticated(salesHandler.ListSales))
	mux.Handle("GET /api/v1/reports/summary", authenticated(reportHandler.Summary))
	mux.Handle("GET /api/v1/reports/export/excel", authenticated(reportHandler.ExportExcel))

	return &testServer{mux: mux, store: store, sales: saleService, redis: tr}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

// login returns the session token for the given credentials.
func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", handlers.LoginRequest{
		Username: username,
		Password: password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// doAuth performs the request with a cashier session attached; every route
// past login and health requires one.
func (s *testServer) doAuth(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	if s.cashierToken == "" {
		s.cashierToken = s.login(t, "caja_hellokitty", "123")
	}
	return s.do(t, method, target, body, bearer(s.cashierToken))
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

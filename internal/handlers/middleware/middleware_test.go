package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/handlers/middleware"
	"github.com/davalosm/papeleria-pos/internal/pkg/logger"
	"github.com/davalosm/papeleria-pos/test/helpers"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ := r.Context().Value(logger.ContextKeyRequestID).(string)
		assert.NotEmpty(t, requestID)
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.RequestID(handler)

	t.Run("generates_new_request_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		requestID := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, requestID)
		assert.Len(t, requestID, 36) // UUID length
	})

	t.Run("uses_existing_request_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "existing-id-123")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		assert.Equal(t, "existing-id-123", w.Header().Get("X-Request-ID"))
	})
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	wrapped := middleware.Recovery(helpers.TestLogger())(panicking)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}

func TestRateLimit(t *testing.T) {
	wrapped := middleware.RateLimit(3, time.Minute)(okHandler())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))

	// Limits are tracked per client IP.
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRateLimit_ConcurrentRequests(t *testing.T) {
	wrapped := middleware.RateLimit(1000, time.Minute)(okHandler())

	// Hammer a single IP from many goroutines; the race detector flags
	// unsynchronized last-seen bookkeeping.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.Header.Set("X-Real-IP", "10.0.0.9")
				wrapped.ServeHTTP(httptest.NewRecorder(), req)
			}
		}()
	}
	wg.Wait()
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantHeader string
	}{
		{
			name:       "wildcard_allows_any_origin",
			allowed:    []string{"*"},
			origin:     "http://localhost:3000",
			wantHeader: "http://localhost:3000",
		},
		{
			name:       "exact_match",
			allowed:    []string{"https://pos.example.com"},
			origin:     "https://pos.example.com",
			wantHeader: "https://pos.example.com",
		},
		{
			name:       "unlisted_origin_gets_no_header",
			allowed:    []string{"https://pos.example.com"},
			origin:     "https://evil.example.com",
			wantHeader: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.CORS(tt.allowed)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	t.Run("preflight_short_circuits", func(t *testing.T) {
		wrapped := middleware.CORS([]string{"*"})(okHandler())

		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestSecureHeaders(t *testing.T) {
	wrapped := middleware.SecureHeaders(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRequireRole(t *testing.T) {
	wrapped := middleware.RequireRole(domain.RoleAdmin)(okHandler())

	t.Run("missing_session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong_role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		ctx := middleware.WithIdentity(req.Context(), &domain.Identity{ID: "1", Role: domain.RoleCashier})
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("allowed_role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		ctx := middleware.WithIdentity(req.Context(), &domain.Identity{ID: "admin", Role: domain.RoleAdmin})
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSession_TokenSources(t *testing.T) {
	const secret = "test-secret"

	sign := func(t *testing.T, secret string, identity *domain.Identity) string {
		t.Helper()
		now := time.Now()
		claims := middleware.SessionClaims{
			Name: identity.Name,
			Role: string(identity.Role),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   identity.ID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	issue := func(t *testing.T) string {
		return sign(t, secret, &domain.Identity{ID: "2", Name: "Norte", Role: domain.RoleCashier})
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, "2", identity.ID)
		assert.Equal(t, domain.RoleCashier, identity.Role)
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.Session(secret, "pos_session")(inner)

	t.Run("bearer_header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t))
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("session_cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.AddCookie(&http.Cookie{Name: "pos_session", Value: issue(t)})
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		token := sign(t, "other-secret", &domain.Identity{ID: "2", Role: domain.RoleCashier})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

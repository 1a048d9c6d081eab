package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID int64
	}{
		{name: "valid header", header: "42", wantStatus: http.StatusOK, wantUserID: 42},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "non-numeric header", header: "abc", wantStatus: http.StatusUnauthorized},
		{name: "zero id", header: "0", wantStatus: http.StatusUnauthorized},
		{name: "negative id", header: "-5", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.header != "" {
				req.Header.Set("X-User-ID", tt.header)
			}
			rec := httptest.NewRecorder()

			Auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.True(t, nextCalled)
				assert.Equal(t, tt.wantUserID, gotUserID)
			} else {
				assert.False(t, nextCalled)
				assert.JSONEq(t, `{"error":true,"msg":"`+unauthorizedMsg(tt.header)+`","data":null}`, rec.Body.String())
			}
		})
	}
}

func unauthorizedMsg(header string) string {
	if header == "" {
		return msgMissingUserID
	}
	return msgInvalidUserID
}

func TestOptionalAuth(t *testing.T) {
	t.Run("missing header passes through as guest", func(t *testing.T) {
		var hasUserID bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasUserID = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		rec := httptest.NewRecorder()

		OptionalAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, hasUserID)
	})

	t.Run("valid header injects user id", func(t *testing.T) {
		var gotUserID int64
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, _ = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.Header.Set("X-User-ID", "42")
		rec := httptest.NewRecorder()

		OptionalAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), gotUserID)
	})

	t.Run("malformed header is still rejected", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be called")
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.Header.Set("X-User-ID", "abc")
		rec := httptest.NewRecorder()

		OptionalAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/http/middleware"
)

func TestPrincipalLimiterIsPerUser(t *testing.T) {
	limiter := middleware.NewPrincipalLimiter(2)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(id string) int {
		req := httptest.NewRequest(http.MethodPost, "/leads/import", nil)
		req = req.WithContext(middleware.WithPrincipal(req.Context(), entity.Principal{ID: id}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("alice"))
	assert.Equal(t, http.StatusOK, call("alice"))
	assert.Equal(t, http.StatusTooManyRequests, call("alice"))
	assert.Equal(t, http.StatusOK, call("bob"))
}

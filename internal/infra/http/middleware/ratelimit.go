package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PrincipalLimiter limita requisições por usuário autenticado.
type PrincipalLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

// NewPrincipalLimiter allows perMinute requests per principal, bursting to
// the same amount.
func NewPrincipalLimiter(perMinute int) *PrincipalLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &PrincipalLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Every(time.Minute / time.Duration(perMinute)),
		b: perMinute,
	}
}

func (pl *PrincipalLimiter) limiterFor(id string) *rate.Limiter {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if lim, ok := pl.m[id]; ok {
		return lim
	}
	lim := rate.NewLimiter(pl.r, pl.b)
	pl.m[id] = lim
	return lim
}

// Handler must run after RequirePrincipal.
func (pl *PrincipalLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromContext(r.Context())
		if !pl.limiterFor(p.ID).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"code":    "RATE_LIMITED",
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

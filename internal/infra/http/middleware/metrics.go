package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xavierca1/ligue-prospect/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_imported_total",
			Help: "Total number of leads written by bulk imports",
		},
		[]string{"channel"},
	)

	orphansMigrated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orphans_migrated_total",
			Help: "Total number of ownerless leads assigned to a user",
		},
	)

	stageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stage_transitions_total",
			Help: "Total number of pipeline stage changes",
		},
		[]string{"from", "to"},
	)

	outreachSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_sent_total",
			Help: "Total number of outreach e-mails attempted",
		},
		[]string{"status"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics rotula pelo padrão da rota (/leads/{id}) para não explodir a
// cardinalidade com ids.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// PrometheusEvents publica os eventos de domínio como métricas.
type PrometheusEvents struct{}

func (PrometheusEvents) StageChanged(from, to entity.Stage) {
	stageTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func (PrometheusEvents) LeadsImported(channel string, count int) {
	if count > 0 {
		leadsImported.WithLabelValues(channel).Add(float64(count))
	}
}

func (PrometheusEvents) OrphansMigrated(count int) {
	orphansMigrated.Add(float64(count))
}

func (PrometheusEvents) OutreachSent(ok bool) {
	status := "sent"
	if !ok {
		status = "failed"
	}
	outreachSent.WithLabelValues(status).Inc()
}

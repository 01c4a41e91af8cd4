package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opoboost",
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas, por método, ruta y estado.",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "opoboost",
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AttemptCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "opoboost",
			Name:      "attempts_submitted_total",
			Help:      "Intentos de test corregidos y guardados.",
		},
	)

	AttemptScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "opoboost",
			Name:      "attempt_score",
			Help:      "Distribución de notas (0-10) de los intentos corregidos.",
			Buckets:   []float64{2, 4, 5, 6, 8, 10},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter, RequestDuration, AttemptCounter, AttemptScore)
}

// ObserveAttempt records one graded submission and its final score.
func ObserveAttempt(score float64) {
	AttemptCounter.Inc()
	AttemptScore.Observe(score)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

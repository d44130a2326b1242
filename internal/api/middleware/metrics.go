// metrics.go — Prometheus HTTP метрики textpolish.
// Регистрирует метрики: tp_http_requests_total, tp_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tp_http_requests_total",
			Help: "Общее количество HTTP-запросов к textpolish",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	// Верхние bucket'ы покрывают ожидание сервиса генерации.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tp_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к textpolish в секундах",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Идентификаторы записей заменяются на {id}
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// historyPrefix — префикс страниц записей истории.
const historyPrefix = "/app/history/"

// normalizePath ограничивает кардинальность лейбла path.
// /app/history/42/ → /app/history/{id}/
// /app/history/42/delete/ → /app/history/{id}/delete/
// Неизвестные пути сводятся к "other".
func normalizePath(path string) string {
	switch path {
	case "/", "/app/", "/app/login/", "/app/logout/", historyPrefix,
		"/app/set-language", "/health/live", "/health/ready", "/metrics":
		return path
	}

	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	if rest, ok := strings.CutPrefix(path, historyPrefix); ok {
		id, suffix, _ := strings.Cut(rest, "/")
		if _, err := strconv.ParseInt(id, 10, 64); err == nil {
			switch suffix {
			case "":
				return historyPrefix + "{id}/"
			case "delete/":
				return historyPrefix + "{id}/delete/"
			}
		}
	}

	return "other"
}

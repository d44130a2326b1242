// metrics.go — Prometheus метрики улучшения текста.
package improver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения лейбла outcome.
const (
	outcomeSuccess     = "success"
	outcomeEmptyInput  = "empty_input"
	outcomeConfigError = "config_error"
	outcomeGenError    = "generation_error"
)

var (
	// improveRequestsTotal — количество вызовов Improve по результату.
	improveRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tp_improve_requests_total",
			Help: "Количество запросов на улучшение текста",
		},
		[]string{"outcome"},
	)

	// improveDuration — длительность обращения к сервису генерации.
	improveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tp_improve_duration_seconds",
			Help:    "Длительность улучшения текста в секундах",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
	)

	// modelInfo — выбранная модель генерации (значение всегда 1).
	modelInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tp_generation_model_info",
			Help: "Модель генерации, выбранная при первом обращении",
		},
		[]string{"model", "source"},
	)
)

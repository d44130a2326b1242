// Пакет handlers — служебные HTTP endpoints textpolish.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (PostgreSQL доступен, состояние сервиса генерации)
// /metrics — Prometheus метрики
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/textpolish/internal/config"
	"github.com/bigkaa/textpolish/internal/improver"
	"github.com/bigkaa/textpolish/internal/service"
)

// serviceName — имя сервиса в ответах health.
const serviceName = "textpolish"

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// DependencyStatus — состояние зависимостей по данным мониторинга.
type DependencyStatus interface {
	Status(dep string) (ok, known bool)
}

// ModelInfo — выбранная модель генерации.
type ModelInfo interface {
	Model() (string, bool)
	Source() string
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	pgChecker   ReadinessChecker
	deps        DependencyStatus
	models      ModelInfo
	apiKey      improver.APIKeySource
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// pgChecker — проверка PostgreSQL (nil — "fail").
// deps и models могут быть nil: мониторинг не запущен, модель не выбрана.
func NewHealthHandler(pgChecker ReadinessChecker, deps DependencyStatus, models ModelInfo, apiKey improver.APIKeySource) *HealthHandler {
	return &HealthHandler{
		pgChecker:   pgChecker,
		deps:        deps,
		models:      models,
		apiKey:      apiKey,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// modelResult — модель, которой выполняются улучшения.
type modelResult struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		PostgreSQL healthCheckResult `json:"postgresql"`
		Gemini     healthCheckResult `json:"gemini"`
	} `json:"checks"`
	Model *modelResult `json:"model,omitempty"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthReady — readiness probe.
// PostgreSQL обязателен: его недоступность даёт 503.
// Сервис генерации влияет только на degraded: без него работают вход и история.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	if h.pgChecker != nil {
		pgStatus, pgMsg := h.pgChecker.CheckReady()
		resp.Checks.PostgreSQL = healthCheckResult{Status: pgStatus, Message: pgMsg}
	} else {
		resp.Checks.PostgreSQL = healthCheckResult{Status: "fail", Message: "не инициализирован"}
	}

	resp.Checks.Gemini = h.geminiCheck()

	if h.models != nil {
		if name, ok := h.models.Model(); ok {
			resp.Model = &modelResult{Name: name, Source: h.models.Source()}
		}
	}

	resp.Status = overallStatus(resp.Checks.PostgreSQL.Status, resp.Checks.Gemini.Status)

	status := http.StatusOK
	if resp.Status == "fail" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// geminiCheck оценивает сервис генерации. Результат не бывает "fail".
func (h *HealthHandler) geminiCheck() healthCheckResult {
	if h.apiKey != nil && h.apiKey() == "" {
		return healthCheckResult{Status: "degraded", Message: config.APIKeyEnv + " не задан"}
	}
	if h.deps == nil {
		return healthCheckResult{Status: "ok", Message: "мониторинг не запущен"}
	}
	ok, known := h.deps.Status(service.DepGemini)
	switch {
	case !known:
		return healthCheckResult{Status: "ok", Message: "ожидается первая проверка"}
	case !ok:
		return healthCheckResult{Status: "degraded", Message: "Gemini API недоступен"}
	default:
		return healthCheckResult{Status: "ok", Message: "доступен"}
	}
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Если хотя бы одна зависимость fail — итог fail.
// Если хотя бы одна degraded — итог degraded.
// Иначе — ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package improver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// Источник выбранной модели.
const (
	SourceDiscovered = "discovered"
	SourceFallback   = "fallback"
)

// DefaultFallbackModel используется, если определить модель не удалось.
const DefaultFallbackModel = "gemini-pro"

// DefaultPreferences — приоритет выбора модели по вхождению в имя.
var DefaultPreferences = []string{"gemini-1.5-pro", "gemini-1.5-flash", "gemini-pro"}

// Resolver определяет модель генерации один раз за время жизни экземпляра.
// Resolve никогда не возвращает ошибку: при любом сбое кэшируется
// резервная модель, а сбой только логируется.
type Resolver struct {
	backend     Backend
	apiKey      APIKeySource
	preferences []string
	fallback    string
	logger      *slog.Logger

	// mu сериализует определение модели; наблюдатели его не берут.
	mu     sync.Mutex
	result atomic.Pointer[resolution]
}

// resolution — выбранная модель и её источник.
type resolution struct {
	model  string
	source string
}

// NewResolver создаёт Resolver. Пустой fallback заменяется на DefaultFallbackModel.
func NewResolver(backend Backend, apiKey APIKeySource, fallback string, logger *slog.Logger) *Resolver {
	if fallback == "" {
		fallback = DefaultFallbackModel
	}
	return &Resolver{
		backend:     backend,
		apiKey:      apiKey,
		preferences: DefaultPreferences,
		fallback:    fallback,
		logger:      logger.With(slog.String("component", "model_resolver")),
	}
}

// Resolve возвращает имя модели. Первый вызов опрашивает сервис,
// последующие возвращают закэшированное значение.
// Отмена ctx вызывающего не прерывает определение модели:
// запрос ограничен таймаутом HTTP-клиента сервиса.
func (r *Resolver) Resolve(ctx context.Context) string {
	if res := r.result.Load(); res != nil {
		return res.model
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if res := r.result.Load(); res != nil {
		return res.model
	}

	res := &resolution{source: SourceDiscovered}
	model, err := r.discover(context.WithoutCancel(ctx))
	if err != nil {
		r.logger.Warn("Не удалось определить модель, используется резервная",
			slog.String("fallback", r.fallback),
			slog.String("error", err.Error()),
		)
		model = r.fallback
		res.source = SourceFallback
	}
	res.model = model

	r.result.Store(res)
	modelInfo.WithLabelValues(res.model, res.source).Set(1)
	r.logger.Info("Модель генерации выбрана",
		slog.String("model", res.model),
		slog.String("source", res.source),
	)
	return res.model
}

// Source возвращает источник выбранной модели (discovered, fallback)
// или пустую строку, если модель ещё не выбрана.
func (r *Resolver) Source() string {
	if res := r.result.Load(); res != nil {
		return res.source
	}
	return ""
}

// Model возвращает закэшированное имя модели без обращения к сервису
// и без ожидания идущего определения.
func (r *Resolver) Model() (string, bool) {
	if res := r.result.Load(); res != nil {
		return res.model, true
	}
	return "", false
}

// discover опрашивает сервис и выбирает модель по приоритету.
func (r *Resolver) discover(ctx context.Context) (string, error) {
	key := r.apiKey()
	if key == "" {
		return "", fmt.Errorf("%w: ключ API не задан", ErrConfiguration)
	}

	models, err := r.backend.ListModels(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: получение списка моделей: %v", ErrConfiguration, err)
	}

	var names []string
	for _, m := range models {
		if m.Supports(CapabilityGenerateContent) {
			names = append(names, m.Name)
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: нет моделей с поддержкой %s", ErrConfiguration, CapabilityGenerateContent)
	}

	return stripModelPrefix(selectModel(names, r.preferences)), nil
}

// selectModel выбирает первую модель, содержащую тег с наивысшим приоритетом.
// Если ни один тег не подошёл, возвращается первая модель списка.
func selectModel(names, preferences []string) string {
	for _, pref := range preferences {
		for _, name := range names {
			if strings.Contains(name, pref) {
				return name
			}
		}
	}
	return names[0]
}

// stripModelPrefix отбрасывает путь вида "models/" перед именем модели.
func stripModelPrefix(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

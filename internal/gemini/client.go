// Пакет gemini — адаптер сервиса генерации на Google Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/bigkaa/textpolish/internal/improver"
)

// DefaultBaseURL — публичный endpoint Gemini API.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Backend реализует improver.Backend поверх genai.Client.
// Клиенты SDK создаются лениво и кэшируются по ключу API:
// ключ читается из окружения при каждом запросе и может смениться.
type Backend struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.Mutex
	clients map[string]*genai.Client
}

var _ improver.Backend = (*Backend)(nil)

// NewBackend создаёт адаптер. Пустой baseURL — DefaultBaseURL.
// httpClient может быть nil (используется клиент SDK по умолчанию).
func NewBackend(baseURL string, httpClient *http.Client, logger *slog.Logger) *Backend {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Backend{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "gemini")),
		clients:    make(map[string]*genai.Client),
	}
}

// ListModels возвращает все модели, доступные по ключу.
func (b *Backend) ListModels(ctx context.Context, apiKey string) ([]improver.ModelDescriptor, error) {
	client, err := b.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var out []improver.ModelDescriptor
	for m, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("список моделей Gemini: %w", err)
		}
		out = append(out, improver.ModelDescriptor{
			Name:             m.Name,
			SupportedActions: m.SupportedActions,
		})
	}

	b.logger.Debug("Список моделей получен",
		slog.Int("count", len(out)),
		slog.Duration("duration", time.Since(start)),
	)
	return out, nil
}

// Generate выполняет один запрос generateContent и возвращает текст ответа.
func (b *Backend) Generate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := b.client(ctx, apiKey)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generateContent %s: %w", model, err)
	}
	return resp.Text(), nil
}

// client возвращает закэшированный genai.Client для ключа.
func (b *Backend) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.clients[apiKey]; ok {
		return c, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: b.httpClient,
	}
	if b.baseURL != DefaultBaseURL {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: b.baseURL + "/"}
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("создание клиента Gemini: %w", err)
	}

	// Ключ сменился — старые клиенты больше не нужны
	clear(b.clients)
	b.clients[apiKey] = c
	return c, nil
}

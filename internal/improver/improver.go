// Пакет improver — улучшение текста через внешний сервис генерации:
// выбор модели (Resolver) и построение запроса (Client).
package improver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// promptTemplate — инструкция для модели, %s заменяется исходным текстом.
const promptTemplate = `以下の文章をより客観的で端的な表現に改善してください。
改善のポイント:
- 主観的な表現を客観的に
- 冗長な部分を簡潔に
- 曖昧な表現を明確に
- 感情的な表現を中立的に

元の文章:
%s

改善された文章のみを出力してください。説明や前置きは不要です。`

// BuildPrompt подставляет текст в инструкцию без изменений.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// ModelResolver возвращает имя модели для генерации.
type ModelResolver interface {
	Resolve(ctx context.Context) string
}

// Client улучшает текст: один синхронный вызов сервиса, без повторов.
type Client struct {
	backend  Backend
	apiKey   APIKeySource
	resolver ModelResolver
	logger   *slog.Logger
}

// NewClient создаёт клиент улучшения текста.
func NewClient(backend Backend, apiKey APIKeySource, resolver ModelResolver, logger *slog.Logger) *Client {
	return &Client{
		backend:  backend,
		apiKey:   apiKey,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "improver")),
	}
}

// Improve возвращает улучшенный текст без ведущих и замыкающих пробелов.
//
// Ошибки:
//   - ErrEmptyText — исходный текст пуст после trim
//   - ErrConfiguration — ключ API не задан (проверяется до выбора модели)
//   - ErrGeneration — вызов сервиса не удался или ответ пуст
func (c *Client) Improve(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		improveRequestsTotal.WithLabelValues(outcomeEmptyInput).Inc()
		return "", ErrEmptyText
	}

	key := c.apiKey()
	if key == "" {
		improveRequestsTotal.WithLabelValues(outcomeConfigError).Inc()
		return "", fmt.Errorf("%w: ключ API не задан", ErrConfiguration)
	}

	model := c.resolver.Resolve(ctx)

	start := time.Now()
	out, err := c.backend.Generate(ctx, key, model, BuildPrompt(text))
	improveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		improveRequestsTotal.WithLabelValues(outcomeGenError).Inc()
		c.logger.Error("Ошибка генерации текста",
			slog.String("model", model),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		improveRequestsTotal.WithLabelValues(outcomeGenError).Inc()
		c.logger.Warn("Сервис генерации вернул пустой ответ", slog.String("model", model))
		return "", fmt.Errorf("%w: пустой ответ модели %s", ErrGeneration, model)
	}

	improveRequestsTotal.WithLabelValues(outcomeSuccess).Inc()
	c.logger.Debug("Текст улучшен",
		slog.String("model", model),
		slog.Int("input_len", len([]rune(text))),
		slog.Int("output_len", len([]rune(out))),
	)
	return out, nil
}

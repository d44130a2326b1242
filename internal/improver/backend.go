package improver

import (
	"context"
	"os"
	"slices"
	"strings"
)

// CapabilityGenerateContent — действие модели, необходимое для улучшения текста.
const CapabilityGenerateContent = "generateContent"

// ModelDescriptor описывает модель, доступную в сервисе генерации.
type ModelDescriptor struct {
	// Полное имя модели, например "models/gemini-1.5-flash-001"
	Name string
	// Поддерживаемые действия (generateContent, embedContent, ...)
	SupportedActions []string
}

// Supports сообщает, поддерживает ли модель указанное действие.
func (d ModelDescriptor) Supports(action string) bool {
	return slices.Contains(d.SupportedActions, action)
}

// Backend — граница внешнего сервиса генерации.
// Ключ API передаётся в каждый вызов: он читается из окружения
// в момент обращения и не кэшируется клиентом.
type Backend interface {
	// ListModels возвращает список моделей, доступных по ключу.
	ListModels(ctx context.Context, apiKey string) ([]ModelDescriptor, error)
	// Generate отправляет prompt в модель и возвращает текст ответа.
	Generate(ctx context.Context, apiKey, model, prompt string) (string, error)
}

// APIKeySource возвращает текущий ключ API (пустая строка — ключ не задан).
type APIKeySource func() string

// EnvAPIKey читает ключ API из переменной окружения name при каждом вызове.
func EnvAPIKey(name string) APIKeySource {
	return func() string {
		return strings.TrimSpace(os.Getenv(name))
	}
}

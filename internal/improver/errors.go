// errors.go — ошибки клиента улучшения текста.
package improver

import "errors"

var (
	// ErrConfiguration — не задан ключ API или не удалось определить модель.
	ErrConfiguration = errors.New("ошибка конфигурации сервиса генерации")
	// ErrGeneration — вызов сервиса генерации завершился ошибкой или вернул пустой текст.
	ErrGeneration = errors.New("ошибка генерации текста")
	// ErrEmptyText — исходный текст пуст.
	ErrEmptyText = errors.New("исходный текст пуст")
)

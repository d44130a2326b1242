package model

import "time"

// Text — запись истории улучшения текста.
// Всегда принадлежит ровно одному пользователю (UserID).
// Хранится в таблице texts, по умолчанию сортируется по CreatedAt DESC.
type Text struct {
	// ID — идентификатор записи (BIGSERIAL)
	ID int64
	// UserID — владелец записи
	UserID int64
	// OriginalText — исходный текст
	OriginalText string
	// ImprovedText — улучшенный текст (может быть пустым)
	ImprovedText string
	// CreatedAt — время создания, не меняется
	CreatedAt time.Time
	// UpdatedAt — время последнего изменения
	UpdatedAt time.Time
}

// Preview возвращает первые n символов исходного текста,
// добавляя "..." если текст длиннее.
func (t *Text) Preview(n int) string {
	runes := []rune(t.OriginalText)
	if len(runes) <= n {
		return t.OriginalText
	}
	return string(runes[:n]) + "..."
}

// history.go — история улучшенных текстов пользователя.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bigkaa/textpolish/internal/domain/model"
	"github.com/bigkaa/textpolish/internal/repository"
)

// Improver улучшает текст через сервис генерации.
type Improver interface {
	Improve(ctx context.Context, text string) (string, error)
}

// HistoryService — операции над историей. Каждый метод принимает
// идентификатор владельца; чужие записи не видны (ErrNotFound).
type HistoryService struct {
	texts    repository.TextRepository
	improver Improver
	now      func() time.Time
	logger   *slog.Logger
}

// NewHistoryService создаёт сервис истории.
func NewHistoryService(texts repository.TextRepository, improver Improver, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		texts:    texts,
		improver: improver,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "history_service")),
	}
}

// Improve улучшает текст без сохранения. Ошибки improver возвращаются как есть.
func (s *HistoryService) Improve(ctx context.Context, original string) (string, error) {
	original = strings.TrimSpace(original)
	if original == "" {
		return "", fmt.Errorf("%w: исходный текст пуст", ErrValidation)
	}
	return s.improver.Improve(ctx, original)
}

// Save создаёт запись истории. Улучшенный текст должен быть уже получен.
func (s *HistoryService) Save(ctx context.Context, ownerID int64, original, improved string) (*model.Text, error) {
	original = strings.TrimSpace(original)
	if original == "" {
		return nil, fmt.Errorf("%w: исходный текст пуст", ErrValidation)
	}
	if strings.TrimSpace(improved) == "" {
		return nil, fmt.Errorf("%w: улучшенный текст пуст", ErrValidation)
	}

	t := &model.Text{
		UserID:       ownerID,
		OriginalText: original,
		ImprovedText: improved,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.texts.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("сохранение истории: %w", err)
	}

	s.logger.Info("Запись истории создана",
		slog.Int64("user_id", ownerID),
		slog.Int64("text_id", t.ID),
	)
	return t, nil
}

// List возвращает записи владельца, новые первыми. query — подстрока поиска.
func (s *HistoryService) List(ctx context.Context, ownerID int64, query string) ([]*model.Text, error) {
	texts, err := s.texts.List(ctx, ownerID, repository.TextFilter{Query: query})
	if err != nil {
		return nil, fmt.Errorf("список истории: %w", err)
	}
	return texts, nil
}

// Get возвращает запись владельца.
func (s *HistoryService) Get(ctx context.Context, ownerID, id int64) (*model.Text, error) {
	t, err := s.texts.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение записи %d: %w", id, err)
	}
	return t, nil
}

// Reimprove заново улучшает (возможно изменённый) исходный текст записи
// и перезаписывает оба текста. При ошибке генерации запись не меняется.
func (s *HistoryService) Reimprove(ctx context.Context, ownerID, id int64, original string) (*model.Text, error) {
	t, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	improved, err := s.Improve(ctx, original)
	if err != nil {
		return nil, err
	}

	return s.overwrite(ctx, t, strings.TrimSpace(original), improved)
}

// Update сохраняет отредактированные тексты. Оба поля обязательны.
func (s *HistoryService) Update(ctx context.Context, ownerID, id int64, original, improved string) (*model.Text, error) {
	original = strings.TrimSpace(original)
	improved = strings.TrimSpace(improved)

	t, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if original == "" || improved == "" {
		return nil, fmt.Errorf("%w: оба текста обязательны", ErrValidation)
	}

	return s.overwrite(ctx, t, original, improved)
}

// Delete удаляет запись владельца.
func (s *HistoryService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.texts.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление записи %d: %w", id, err)
	}

	s.logger.Info("Запись истории удалена",
		slog.Int64("user_id", ownerID),
		slog.Int64("text_id", id),
	)
	return nil
}

// overwrite записывает новые тексты. UpdatedAt строго растёт,
// даже если часы вернули то же значение.
func (s *HistoryService) overwrite(ctx context.Context, t *model.Text, original, improved string) (*model.Text, error) {
	updated := *t
	updated.OriginalText = original
	updated.ImprovedText = improved
	updated.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)
	if !updated.UpdatedAt.After(t.UpdatedAt) {
		updated.UpdatedAt = t.UpdatedAt.Add(time.Microsecond)
	}

	if err := s.texts.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление записи %d: %w", t.ID, err)
	}

	s.logger.Info("Запись истории обновлена",
		slog.Int64("user_id", t.UserID),
		slog.Int64("text_id", t.ID),
	)
	return &updated, nil
}

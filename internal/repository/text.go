package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/textpolish/internal/domain/model"
)

// TextFilter — параметры выборки истории пользователя.
type TextFilter struct {
	// Query — подстрока для поиска в исходном и улучшенном тексте (без учёта регистра)
	Query string
	// Limit — максимальное количество записей (0 — без ограничения)
	Limit uint64
}

// TextRepository — интерфейс CRUD для таблицы texts.
// Каждый метод принимает идентификатор владельца; запись другого
// пользователя неотличима от отсутствующей (ErrNotFound).
type TextRepository interface {
	// Create создаёт запись. Заполняет ID, CreatedAt, UpdatedAt.
	Create(ctx context.Context, t *model.Text) error
	// GetByID возвращает запись владельца по ID.
	GetByID(ctx context.Context, ownerID, id int64) (*model.Text, error)
	// List возвращает записи владельца, новые первыми.
	List(ctx context.Context, ownerID int64, filter TextFilter) ([]*model.Text, error)
	// Update перезаписывает оба текста и UpdatedAt записи t.ID владельца t.UserID.
	Update(ctx context.Context, t *model.Text) error
	// Delete удаляет запись владельца по ID.
	Delete(ctx context.Context, ownerID, id int64) error
}

// textRepo — реализация TextRepository.
type textRepo struct {
	db DBTX
}

// NewTextRepository создаёт репозиторий истории текстов.
func NewTextRepository(db DBTX) TextRepository {
	return &textRepo{db: db}
}

const textColumns = `id, user_id, original_text, improved_text, created_at, updated_at`

func (r *textRepo) Create(ctx context.Context, t *model.Text) error {
	query := `
		INSERT INTO texts (user_id, original_text, improved_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		t.UserID, t.OriginalText, t.ImprovedText, t.CreatedAt,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания записи истории: %w", err)
	}
	return nil
}

func (r *textRepo) GetByID(ctx context.Context, ownerID, id int64) (*model.Text, error) {
	query := fmt.Sprintf(`SELECT %s FROM texts WHERE id = $1 AND user_id = $2`, textColumns)

	t, err := scanText(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи истории %d: %w", id, err)
	}
	return t, nil
}

func (r *textRepo) List(ctx context.Context, ownerID int64, filter TextFilter) ([]*model.Text, error) {
	b := psql.Select(strings.Split(textColumns, ", ")...).
		From("texts").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("created_at DESC", "id DESC")

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		b = b.Where(sq.Or{
			sq.ILike{"original_text": pattern},
			sq.ILike{"improved_text": pattern},
		})
	}
	if filter.Limit > 0 {
		b = b.Limit(filter.Limit)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса истории: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка истории: %w", err)
	}
	defer rows.Close()

	var result []*model.Text
	for rows.Next() {
		t, err := scanText(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи истории: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *textRepo) Update(ctx context.Context, t *model.Text) error {
	query := `
		UPDATE texts
		SET original_text = $1, improved_text = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5`

	tag, err := r.db.Exec(ctx, query,
		t.OriginalText, t.ImprovedText, t.UpdatedAt, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи истории %d: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *textRepo) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM texts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("ошибка удаления записи истории %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanText сканирует строку с колонками textColumns.
func scanText(row pgx.Row) (*model.Text, error) {
	t := &model.Text{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.OriginalText, &t.ImprovedText,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/textpolish/internal/domain/model"
)

// UserRepository — интерфейс для таблицы users.
type UserRepository interface {
	// Create создаёт пользователя. ErrConflict если username занят.
	Create(ctx context.Context, u *model.User) error
	// GetByID возвращает пользователя по ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername возвращает пользователя по имени.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// userRepo — реализация UserRepository.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, username, email, password_hash, is_staff, is_superuser, created_at`

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.IsStaff, u.IsSuperuser,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка создания пользователя %q: %w", u.Username, err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя %d: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя %q: %w", username, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsStaff, &u.IsSuperuser, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

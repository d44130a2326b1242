// seeder.go — идемпотентное создание учётных записей при развёртывании.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/textpolish/internal/domain/model"
	"github.com/bigkaa/textpolish/internal/repository"
)

// SeedAccount — учётная запись для начального заполнения.
type SeedAccount struct {
	Username    string
	Email       string
	Password    string
	IsStaff     bool
	IsSuperuser bool
}

// SeedResult — результат обработки одной учётной записи.
type SeedResult struct {
	Username string
	Created  bool
}

// DefaultAccounts возвращает администратора и обычного пользователя.
func DefaultAccounts(adminPassword, userPassword string) []SeedAccount {
	return []SeedAccount{
		{
			Username:    "obot-ai-admin",
			Email:       "admin@example.com",
			Password:    adminPassword,
			IsStaff:     true,
			IsSuperuser: true,
		},
		{
			Username: "obot-ai-user",
			Email:    "user@example.com",
			Password: userPassword,
		},
	}
}

// UserSeeder создаёт отсутствующие учётные записи.
type UserSeeder struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserSeeder создаёт UserSeeder.
func NewUserSeeder(users repository.UserRepository, logger *slog.Logger) *UserSeeder {
	return &UserSeeder{
		users:  users,
		logger: logger.With(slog.String("component", "user_seeder")),
	}
}

// Seed создаёт учётные записи, которых ещё нет. Существующие не изменяются.
func (s *UserSeeder) Seed(ctx context.Context, accounts []SeedAccount) ([]SeedResult, error) {
	results := make([]SeedResult, 0, len(accounts))
	for _, acc := range accounts {
		created, err := s.ensure(ctx, acc)
		if err != nil {
			return results, err
		}
		results = append(results, SeedResult{Username: acc.Username, Created: created})
	}
	return results, nil
}

func (s *UserSeeder) ensure(ctx context.Context, acc SeedAccount) (bool, error) {
	if acc.Username == "" || acc.Password == "" {
		return false, fmt.Errorf("%w: имя и пароль обязательны", ErrValidation)
	}

	_, err := s.users.GetByUsername(ctx, acc.Username)
	if err == nil {
		s.logger.Info("Пользователь уже существует", slog.String("username", acc.Username))
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("поиск пользователя %q: %w", acc.Username, err)
	}

	hash, err := HashPassword(acc.Password)
	if err != nil {
		return false, err
	}

	user := &model.User{
		Username:     acc.Username,
		Email:        acc.Email,
		PasswordHash: hash,
		IsStaff:      acc.IsStaff,
		IsSuperuser:  acc.IsSuperuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Параллельный запуск успел создать пользователя
		if errors.Is(err, repository.ErrConflict) {
			return false, nil
		}
		return false, fmt.Errorf("создание пользователя %q: %w", acc.Username, err)
	}

	s.logger.Info("Пользователь создан",
		slog.String("username", user.Username),
		slog.String("role", user.Role()),
	)
	return true, nil
}

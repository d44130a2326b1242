// auth.go — проверка учётных данных пользователя.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/textpolish/internal/domain/model"
	"github.com/bigkaa/textpolish/internal/repository"
)

// dummyHash сравнивается с паролем неизвестного пользователя,
// чтобы время ответа не выдавало существование учётной записи.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("textpolish-dummy-password"), bcrypt.DefaultCost)

// HashPassword возвращает bcrypt-хеш пароля.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("хеширование пароля: %w", err)
	}
	return string(hash), nil
}

// AuthService — аутентификация по имени пользователя и паролю.
type AuthService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger.With(slog.String("component", "auth_service")),
	}
}

// Authenticate проверяет учётные данные.
// Неизвестный пользователь и неверный пароль неразличимы: ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.logger.Info("Вход отклонён: пользователь не найден", slog.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("получение пользователя %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Вход отклонён: неверный пароль", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("Пользователь вошёл",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID),
	)
	return user, nil
}

// GetUser возвращает пользователя по ID.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение пользователя %d: %w", id, err)
	}
	return user, nil
}

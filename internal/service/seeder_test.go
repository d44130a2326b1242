package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestUserSeeder_Idempotent(t *testing.T) {
	users := newMemUserRepo()
	seeder := NewUserSeeder(users, testLogger())
	accounts := DefaultAccounts("admin-qwer", "user-qwer")

	first, err := seeder.Seed(context.Background(), accounts)
	if err != nil {
		t.Fatalf("Seed() ошибка: %v", err)
	}
	for _, r := range first {
		if !r.Created {
			t.Errorf("%s: Created = false при первом запуске", r.Username)
		}
	}

	second, err := seeder.Seed(context.Background(), DefaultAccounts("other", "other"))
	if err != nil {
		t.Fatalf("повторный Seed() ошибка: %v", err)
	}
	for _, r := range second {
		if r.Created {
			t.Errorf("%s: Created = true при повторном запуске", r.Username)
		}
	}
	if users.creates != 2 {
		t.Errorf("создано %d пользователей, ожидается 2", users.creates)
	}

	// Повторный запуск не меняет пароль
	admin, err := users.GetByUsername(context.Background(), "obot-ai-admin")
	if err != nil {
		t.Fatalf("GetByUsername() ошибка: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin-qwer")) != nil {
		t.Error("пароль администратора изменён повторным запуском")
	}
	if !admin.IsStaff || !admin.IsSuperuser || admin.Email != "admin@example.com" {
		t.Errorf("атрибуты администратора: %+v", admin)
	}

	user, err := users.GetByUsername(context.Background(), "obot-ai-user")
	if err != nil {
		t.Fatalf("GetByUsername() ошибка: %v", err)
	}
	if user.IsStaff || user.IsSuperuser {
		t.Errorf("обычный пользователь получил права: %+v", user)
	}
}

func TestUserSeeder_Validation(t *testing.T) {
	seeder := NewUserSeeder(newMemUserRepo(), testLogger())
	results, err := seeder.Seed(context.Background(), []SeedAccount{
		{Username: "ok", Password: "pw"},
		{Username: "no-password"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Seed() ошибка = %v, ожидается ErrValidation", err)
	}
	if len(results) != 1 || results[0].Username != "ok" {
		t.Errorf("results = %+v, ожидается только ok", results)
	}
}

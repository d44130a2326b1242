package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/textpolish/internal/config"
	"github.com/bigkaa/textpolish/internal/database"
	"github.com/bigkaa/textpolish/internal/domain/model"
)

// --- Unit-тесты без БД ---

// recordingDB — DBTX, запоминающий последний запрос и возвращающий ошибку.
type recordingDB struct {
	sql  string
	args []any
}

var errRecorded = errors.New("recorded")

func (d *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.sql, d.args = sql, args
	return pgconn.CommandTag{}, errRecorded
}

func (d *recordingDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.sql, d.args = sql, args
	return nil, errRecorded
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.sql, d.args = sql, args
	return nil
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc", "%abc%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\dir`, `%c:\\dir%`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := likePattern(tt.input); got != tt.expected {
				t.Errorf("likePattern(%q) = %q, ожидается %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTextList_QueryAlwaysScopedByOwner(t *testing.T) {
	tests := []struct {
		name         string
		filter       TextFilter
		wantFragment []string
		wantArgs     int
	}{
		{
			name:         "без фильтра",
			filter:       TextFilter{},
			wantFragment: []string{"WHERE user_id = $1", "ORDER BY created_at DESC, id DESC"},
			wantArgs:     1,
		},
		{
			name:         "с поиском",
			filter:       TextFilter{Query: "  отчёт "},
			wantFragment: []string{"user_id = $1", "original_text ILIKE $2", "improved_text ILIKE $3"},
			wantArgs:     3,
		},
		{
			name:         "с лимитом",
			filter:       TextFilter{Limit: 20},
			wantFragment: []string{"user_id = $1", "LIMIT 20"},
			wantArgs:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &recordingDB{}
			_, err := NewTextRepository(db).List(context.Background(), 42, tt.filter)
			if !errors.Is(err, errRecorded) {
				t.Fatalf("List() ошибка = %v, ожидается errRecorded", err)
			}
			for _, frag := range tt.wantFragment {
				if !strings.Contains(db.sql, frag) {
					t.Errorf("SQL %q не содержит %q", db.sql, frag)
				}
			}
			if len(db.args) != tt.wantArgs {
				t.Fatalf("args = %v, ожидается %d аргументов", db.args, tt.wantArgs)
			}
			if db.args[0] != int64(42) {
				t.Errorf("первый аргумент = %v, ожидается владелец 42", db.args[0])
			}
		})
	}
}

func TestTextDelete_ScopedByOwner(t *testing.T) {
	db := &recordingDB{}
	_ = NewTextRepository(db).Delete(context.Background(), 7, 99)
	if !strings.Contains(db.sql, "user_id = $2") {
		t.Errorf("DELETE без фильтра владельца: %q", db.sql)
	}
	if len(db.args) != 2 || db.args[0] != int64(99) || db.args[1] != int64(7) {
		t.Errorf("args = %v, ожидается [99 7]", db.args)
	}
}

// --- Интеграционные тесты (PostgreSQL в testcontainers) ---

// setupTestDB запускает PostgreSQL контейнер и применяет миграции.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("textpolish_test"),
		postgres.WithUsername("textpolish"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	t.Setenv("TP_DB_HOST", host)
	t.Setenv("TP_DB_PORT", port.Port())
	t.Setenv("TP_DB_NAME", "textpolish_test")
	t.Setenv("TP_DB_USER", "textpolish")
	t.Setenv("TP_DB_PASSWORD", "test-password")

	cfg, err := config.LoadDatabase()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

// createUser создаёт пользователя для тестов истории.
func createUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "x"}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create(%s) ошибка: %v", username, err)
	}
	return u
}

func TestUserCRUD(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	u := createUser(t, repo, "alice")
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("ID/CreatedAt не заполнены: %+v", u)
	}

	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername() ошибка: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID = %d, хотели %d", got.ID, u.ID)
	}

	if _, err := repo.GetByID(ctx, u.ID); err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}

	// Повторное создание — конфликт
	if err := repo.Create(ctx, &model.User{Username: "alice", PasswordHash: "y"}); !errors.Is(err, ErrConflict) {
		t.Errorf("повторный Create() = %v, ожидали ErrConflict", err)
	}

	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByUsername(nobody) = %v, ожидали ErrNotFound", err)
	}
}

func TestTextCRUD_OwnerScoped(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	repo := NewTextRepository(pool)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	base := time.Now().UTC().Truncate(time.Microsecond)
	first := &model.Text{UserID: alice.ID, OriginalText: "первый", ImprovedText: "first", CreatedAt: base}
	second := &model.Text{UserID: alice.ID, OriginalText: "второй", ImprovedText: "second", CreatedAt: base.Add(time.Second)}
	foreign := &model.Text{UserID: bob.ID, OriginalText: "чужой", ImprovedText: "foreign", CreatedAt: base}
	for _, txt := range []*model.Text{first, second, foreign} {
		if err := repo.Create(ctx, txt); err != nil {
			t.Fatalf("Create() ошибка: %v", err)
		}
	}

	// List: только записи владельца, новые первыми
	list, err := repo.List(ctx, alice.ID, TextFilter{})
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() вернул %d записей, хотели 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("порядок = [%d %d], хотели [%d %d]", list[0].ID, list[1].ID, second.ID, first.ID)
	}

	// Поиск по улучшенному тексту
	found, err := repo.List(ctx, alice.ID, TextFilter{Query: "FIRST"})
	if err != nil {
		t.Fatalf("List(query) ошибка: %v", err)
	}
	if len(found) != 1 || found[0].ID != first.ID {
		t.Errorf("поиск вернул %v, хотели только запись %d", found, first.ID)
	}

	// Чужая запись не видна
	if _, err := repo.GetByID(ctx, alice.ID, foreign.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(чужая) = %v, ожидали ErrNotFound", err)
	}

	// Update
	first.OriginalText = "первый (правка)"
	first.ImprovedText = "first (edited)"
	first.UpdatedAt = base.Add(time.Minute)
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update() ошибка: %v", err)
	}
	got, err := repo.GetByID(ctx, alice.ID, first.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.OriginalText != "первый (правка)" || !got.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("после Update: %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt изменился: %v, хотели %v", got.CreatedAt, base)
	}

	// Update чужой записи от имени другого владельца
	hijack := *foreign
	hijack.UserID = alice.ID
	hijack.OriginalText = "взлом"
	if err := repo.Update(ctx, &hijack); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(чужая) = %v, ожидали ErrNotFound", err)
	}

	// Delete чужой записи — not found, запись остаётся
	if err := repo.Delete(ctx, alice.ID, foreign.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(чужая) = %v, ожидали ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, bob.ID, foreign.ID); err != nil {
		t.Errorf("чужая запись пропала после отказа в удалении: %v", err)
	}

	// Delete своей записи и повторный Delete
	if err := repo.Delete(ctx, alice.ID, first.ID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}
	if err := repo.Delete(ctx, alice.ID, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Delete() = %v, ожидали ErrNotFound", err)
	}
}

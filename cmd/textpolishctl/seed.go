// seed.go — команда seed-users.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bigkaa/textpolish/internal/config"
	"github.com/bigkaa/textpolish/internal/database"
	"github.com/bigkaa/textpolish/internal/repository"
	"github.com/bigkaa/textpolish/internal/service"
)

func newSeedUsersCmd() *cobra.Command {
	var adminPassword, userPassword string

	cmd := &cobra.Command{
		Use:   "seed-users",
		Short: "Создать администратора и пользователя, если их нет",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			logger := config.SetupLogger(cfg)

			if err := database.Migrate(cfg, logger); err != nil {
				return fmt.Errorf("миграции: %w", err)
			}

			ctx := cmd.Context()
			pool, err := database.Connect(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("подключение к PostgreSQL: %w", err)
			}
			defer pool.Close()

			seeder := service.NewUserSeeder(repository.NewUserRepository(pool), logger)
			return runSeedUsers(ctx, cmd.OutOrStdout(), seeder, service.DefaultAccounts(adminPassword, userPassword), logger)
		},
	}

	cmd.Flags().StringVar(&adminPassword, "admin-password", "admin-qwer", "пароль obot-ai-admin")
	cmd.Flags().StringVar(&userPassword, "user-password", "user-qwer", "пароль obot-ai-user")
	return cmd
}

// accountSeeder — создание учётных записей.
type accountSeeder interface {
	Seed(ctx context.Context, accounts []service.SeedAccount) ([]service.SeedResult, error)
}

// runSeedUsers создаёт учётные записи и печатает результат по каждой.
func runSeedUsers(ctx context.Context, out io.Writer, seeder accountSeeder, accounts []service.SeedAccount, logger *slog.Logger) error {
	results, err := seeder.Seed(ctx, accounts)
	for _, r := range results {
		fmt.Fprintln(out, seedMessage(r, accounts))
	}
	if err != nil {
		return err
	}
	logger.Debug("Учётные записи обработаны", slog.Int("count", len(results)))
	return nil
}

func seedMessage(r service.SeedResult, accounts []service.SeedAccount) string {
	kind := "ユーザー"
	for _, a := range accounts {
		if a.Username == r.Username && a.IsSuperuser {
			kind = "スーパーユーザー"
		}
	}
	if r.Created {
		return fmt.Sprintf("✓ %s %s を作成しました", kind, r.Username)
	}
	return fmt.Sprintf("- %s %s は既に存在します", kind, r.Username)
}

// Точка входа textpolish — веб-приложения для улучшения японских текстов.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт клиент сервиса генерации, сервисный слой и UI,
// запускает мониторинг зависимостей и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"

	apihandlers "github.com/bigkaa/textpolish/internal/api/handlers"
	"github.com/bigkaa/textpolish/internal/config"
	"github.com/bigkaa/textpolish/internal/database"
	"github.com/bigkaa/textpolish/internal/gemini"
	"github.com/bigkaa/textpolish/internal/improver"
	"github.com/bigkaa/textpolish/internal/repository"
	"github.com/bigkaa/textpolish/internal/server"
	"github.com/bigkaa/textpolish/internal/service"
	"github.com/bigkaa/textpolish/internal/ui/auth"
	uihandlers "github.com/bigkaa/textpolish/internal/ui/handlers"
	"github.com/bigkaa/textpolish/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/textpolish/internal/ui/middleware"
)

// generationTimeout — таймаут HTTP-запроса к сервису генерации.
const generationTimeout = 60 * time.Second

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("textpolish запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	apiKey := improver.EnvAPIKey(config.APIKeyEnv)
	if apiKey() == "" {
		logger.Warn(config.APIKeyEnv + " не задан, улучшение текстов будет недоступно")
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics.
	// Проверка PostgreSQL идёт через общий пул и обнаруживает его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Repositories
	userRepo := repository.NewUserRepository(pool)
	textRepo := repository.NewTextRepository(pool)

	// 6. Сервис генерации: определение модели и клиент улучшения
	backend := gemini.NewBackend(cfg.GeminiBaseURL, &http.Client{Timeout: generationTimeout}, logger)
	resolver := improver.NewResolver(backend, apiKey, cfg.GeminiFallbackModel, logger)
	improverClient := improver.NewClient(backend, apiKey, resolver, logger)

	// 7. Services
	authSvc := service.NewAuthService(userRepo, logger)
	historySvc := service.NewHistoryService(textRepo, improverClient, logger)

	// 8. topologymetrics — мониторинг зависимостей (PostgreSQL + Gemini API)
	var deps apihandlers.DependencyStatus
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"textpolish",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.GeminiBaseURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		deps = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 9. Health endpoints
	healthHandler := apihandlers.NewHealthHandler(database.NewReadinessChecker(pool), deps, resolver, apiKey)

	// 10. Переводы UI
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. UI: сессии, обработчики, middleware
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SecureCookie, cfg.SessionTTL)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("TP_SESSION_SECRET не задан, сессии не сохраняются между рестартами")
	}

	renderer := uihandlers.NewRenderer(cfg.SiteName, cfg.SecureCookie, logger)
	uiComponents := &server.UIComponents{
		AuthHandler:    uihandlers.NewAuthHandler(authSvc, sessionMgr, renderer, logger),
		AuthMiddleware: uimiddleware.NewUIAuth(sessionMgr, logger),
		TextHandler:    uihandlers.NewTextHandler(historySvc, renderer, time.Local, logger),
	}

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, healthHandler, uiComponents)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 13. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("textpolish остановлен")
}

// Пакет server — HTTP-сервер textpolish с graceful shutdown.
// Без TLS: TLS termination выполняет reverse proxy.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apihandlers "github.com/bigkaa/textpolish/internal/api/handlers"
	"github.com/bigkaa/textpolish/internal/api/middleware"
	"github.com/bigkaa/textpolish/internal/config"
	uihandlers "github.com/bigkaa/textpolish/internal/ui/handlers"
	"github.com/bigkaa/textpolish/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/textpolish/internal/ui/middleware"
	"github.com/bigkaa/textpolish/internal/ui/static"
)

// UIComponents — зависимости пользовательского интерфейса.
type UIComponents struct {
	AuthHandler    *uihandlers.AuthHandler
	AuthMiddleware *uimiddleware.UIAuth
	TextHandler    *uihandlers.TextHandler
}

// Server — HTTP-сервер textpolish.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, health *apihandlers.HealthHandler, ui *UIComponents) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, logger, health, ui),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger.With(slog.String("component", "server")),
		cfg:        cfg,
	}
}

// NewRouter собирает chi-маршруты приложения.
func NewRouter(cfg *config.Config, logger *slog.Logger, health *apihandlers.HealthHandler, ui *UIComponents) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Health и metrics — без сессии
	router.Get("/health/live", health.HealthLive)
	router.Get("/health/ready", health.HealthReady)
	router.Get("/metrics", health.GetMetrics)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, uihandlers.HomePath, http.StatusFound)
	})

	router.Route("/app", func(r chi.Router) {
		r.Use(i18n.Middleware(cfg.DefaultLang))

		// Публичные страницы
		r.Get("/login/", ui.AuthHandler.HandleLoginPage)
		r.Post("/login/", ui.AuthHandler.HandleLogin)
		r.Post("/logout/", ui.AuthHandler.HandleLogout)
		r.Post("/set-language", uihandlers.HandleSetLanguage)

		// Страницы, требующие входа
		r.Group(func(r chi.Router) {
			r.Use(ui.AuthMiddleware.Middleware())

			r.Get("/", ui.TextHandler.HandleHome)
			r.Post("/", ui.TextHandler.HandleHomeSubmit)
			r.Get("/history/", ui.TextHandler.HandleHistoryList)
			r.Get("/history/{id}/", ui.TextHandler.HandleHistoryDetail)
			r.Post("/history/{id}/", ui.TextHandler.HandleHistoryDetailSubmit)
			r.Post("/history/{id}/delete/", ui.TextHandler.HandleHistoryDelete)
		})
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}

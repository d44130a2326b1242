package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apihandlers "github.com/bigkaa/textpolish/internal/api/handlers"
	"github.com/bigkaa/textpolish/internal/config"
	"github.com/bigkaa/textpolish/internal/domain/model"
	"github.com/bigkaa/textpolish/internal/service"
	"github.com/bigkaa/textpolish/internal/ui/auth"
	uihandlers "github.com/bigkaa/textpolish/internal/ui/handlers"
	uimiddleware "github.com/bigkaa/textpolish/internal/ui/middleware"
)

type noUsers struct{}

func (noUsers) Authenticate(context.Context, string, string) (*model.User, error) {
	return nil, service.ErrInvalidCredentials
}

// emptyHistory — история без записей.
type emptyHistory struct{}

func (emptyHistory) Improve(context.Context, string) (string, error) { return "", nil }
func (emptyHistory) Save(context.Context, int64, string, string) (*model.Text, error) {
	return &model.Text{}, nil
}
func (emptyHistory) List(context.Context, int64, string) ([]*model.Text, error) { return nil, nil }
func (emptyHistory) Get(context.Context, int64, int64) (*model.Text, error) {
	return nil, service.ErrNotFound
}
func (emptyHistory) Reimprove(context.Context, int64, int64, string) (*model.Text, error) {
	return nil, service.ErrNotFound
}
func (emptyHistory) Update(context.Context, int64, int64, string, string) (*model.Text, error) {
	return nil, service.ErrNotFound
}
func (emptyHistory) Delete(context.Context, int64, int64) error { return service.ErrNotFound }

func newTestRouter(t *testing.T) (http.Handler, *auth.SessionManager) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sm, err := auth.NewSessionManager("router-test", false, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager() ошибка: %v", err)
	}
	renderer := uihandlers.NewRenderer("textpolish", false, logger)
	ui := &UIComponents{
		AuthHandler:    uihandlers.NewAuthHandler(noUsers{}, sm, renderer, logger),
		AuthMiddleware: uimiddleware.NewUIAuth(sm, logger),
		TextHandler:    uihandlers.NewTextHandler(emptyHistory{}, renderer, time.UTC, logger),
	}
	cfg := &config.Config{DefaultLang: "ja"}
	health := apihandlers.NewHealthHandler(nil, nil, nil, nil)
	return NewRouter(cfg, logger, health, ui), sm
}

func TestRouter_PublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name         string
		method       string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{"корень на главную", http.MethodGet, "/", http.StatusFound, "/app/"},
		{"главная без входа", http.MethodGet, "/app/", http.StatusFound, uimiddleware.LoginPath},
		{"история без входа", http.MethodGet, "/app/history/", http.StatusFound, uimiddleware.LoginPath},
		{"удаление без входа", http.MethodPost, "/app/history/1/delete/", http.StatusFound, uimiddleware.LoginPath},
		{"страница входа", http.MethodGet, "/app/login/", http.StatusOK, ""},
		{"liveness", http.MethodGet, "/health/live", http.StatusOK, ""},
		{"readiness без PostgreSQL", http.MethodGet, "/health/ready", http.StatusServiceUnavailable, ""},
		{"метрики", http.MethodGet, "/metrics", http.StatusOK, ""},
		{"статика", http.MethodGet, "/static/css/style.css", http.StatusOK, ""},
		{"удаление только POST", http.MethodGet, "/app/history/1/delete/", http.StatusMethodNotAllowed, ""},
		{"выход только POST", http.MethodGet, "/app/logout/", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("статус = %d, ожидается %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Errorf("Location = %q, ожидается %q", rec.Header().Get("Location"), tt.wantLocation)
			}
		})
	}
}

func TestRouter_AuthenticatedRoutes(t *testing.T) {
	router, sm := newTestRouter(t)

	// Cookie сессии получаем через SetSessionCookie
	cookieRec := httptest.NewRecorder()
	if err := sm.SetSessionCookie(cookieRec, sm.NewSession(&model.User{ID: 1, Username: "alice"})); err != nil {
		t.Fatalf("SetSessionCookie() ошибка: %v", err)
	}
	cookies := cookieRec.Result().Cookies()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"главная", "/app/", http.StatusOK},
		{"история", "/app/history/", http.StatusOK},
		{"несуществующая запись", "/app/history/5/", http.StatusNotFound},
		{"некорректный id", "/app/history/abc/", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for _, c := range cookies {
				req.AddCookie(c)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

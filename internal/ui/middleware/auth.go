// Пакет middleware — HTTP middleware для UI.
// auth.go — проверка сессии (cookie-based).
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bigkaa/textpolish/internal/ui/auth"
)

// LoginPath — страница входа, куда перенаправляются неаутентифицированные запросы.
const LoginPath = "/app/login/"

// contextKey — тип для ключей контекста UI.
type contextKey string

const (
	// ContextKeyUISession — данные сессии в контексте запроса.
	ContextKeyUISession contextKey = "ui_session"
)

// UIAuth — middleware для проверки аутентификации пользователей.
type UIAuth struct {
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewUIAuth создаёт новый UIAuth middleware.
func NewUIAuth(sessionManager *auth.SessionManager, logger *slog.Logger) *UIAuth {
	return &UIAuth{
		sessionManager: sessionManager,
		logger:         logger.With(slog.String("component", "ui_auth_middleware")),
	}
}

// Middleware возвращает HTTP middleware для проверки сессии.
// Применяется ко всем маршрутам /app/*, кроме входа и выхода.
func (ua *UIAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := ua.sessionManager.GetSessionFromRequest(r)
			if err != nil {
				ua.logger.Debug("Ошибка чтения сессии",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				// Повреждённый cookie — очищаем и redirect на login
				ua.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			if session == nil {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			if session.IsExpired() {
				ua.logger.Info("Сессия истекла, redirect на login",
					slog.String("username", session.Username),
				)
				ua.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession помещает SessionData в контекст.
func WithSession(ctx context.Context, session *auth.SessionData) context.Context {
	return context.WithValue(ctx, ContextKeyUISession, session)
}

// SessionFromContext извлекает SessionData из контекста запроса.
// Возвращает nil если сессия не найдена (не прошёл через UIAuth middleware).
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(ContextKeyUISession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}

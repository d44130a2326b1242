// auth.go — вход и выход по имени пользователя и паролю.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bigkaa/textpolish/internal/domain/model"
	"github.com/bigkaa/textpolish/internal/service"
	"github.com/bigkaa/textpolish/internal/ui/auth"
	"github.com/bigkaa/textpolish/internal/ui/flash"
	uimiddleware "github.com/bigkaa/textpolish/internal/ui/middleware"
	"github.com/bigkaa/textpolish/internal/ui/pages"
)

// HomePath — страница после входа.
const HomePath = "/app/"

// Authenticator проверяет учётные данные.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	authSvc        Authenticator
	sessionManager *auth.SessionManager
	renderer       *Renderer
	logger         *slog.Logger
}

// NewAuthHandler создаёт новый AuthHandler.
func NewAuthHandler(
	authSvc Authenticator,
	sessionManager *auth.SessionManager,
	renderer *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authSvc:        authSvc,
		sessionManager: sessionManager,
		renderer:       renderer,
		logger:         logger.With(slog.String("component", "ui.auth")),
	}
}

// HandleLoginPage — GET /app/login/
// Аутентифицированный пользователь сразу перенаправляется на главную.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.hasValidSession(r) {
		http.Redirect(w, r, HomePath, http.StatusFound)
		return
	}
	h.renderer.render(w, r, http.StatusOK, pages.Login(h.renderer.meta(w, r, nil), pages.LoginData{}))
}

// HandleLogin — POST /app/login/
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if h.hasValidSession(r) {
		http.Redirect(w, r, HomePath, http.StatusFound)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.authSvc.Authenticate(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.renderer.internalError(w, r, nil, err)
			return
		}
		meta := h.renderer.meta(w, r, nil, flash.Error("error.invalid_credentials"))
		h.renderer.render(w, r, http.StatusOK, pages.Login(meta, pages.LoginData{Username: username}))
		return
	}

	if err := h.sessionManager.SetSessionCookie(w, h.sessionManager.NewSession(user)); err != nil {
		h.renderer.internalError(w, r, nil, err)
		return
	}

	h.renderer.redirect(w, r, HomePath, flash.Success("notice.logged_in"))
}

// HandleLogout — POST /app/logout/
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessionManager.GetSessionFromRequest(r); err == nil && session != nil {
		h.logger.Info("Пользователь вышел", slog.String("username", session.Username))
	}
	h.sessionManager.ClearSessionCookie(w)
	h.renderer.redirect(w, r, uimiddleware.LoginPath, flash.Success("notice.logged_out"))
}

func (h *AuthHandler) hasValidSession(r *http.Request) bool {
	session, err := h.sessionManager.GetSessionFromRequest(r)
	return err == nil && session != nil && !session.IsExpired()
}

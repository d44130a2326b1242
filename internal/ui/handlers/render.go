// Пакет handlers — HTTP-обработчики UI.
// render.go — общая отрисовка страниц, уведомления и страницы ошибок.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/bigkaa/textpolish/internal/improver"
	"github.com/bigkaa/textpolish/internal/service"
	"github.com/bigkaa/textpolish/internal/ui/auth"
	"github.com/bigkaa/textpolish/internal/ui/flash"
	"github.com/bigkaa/textpolish/internal/ui/i18n"
	"github.com/bigkaa/textpolish/internal/ui/pages"
)

// Renderer собирает PageMeta, выводит страницы и уведомления.
type Renderer struct {
	siteName     string
	secureCookie bool
	logger       *slog.Logger
}

// NewRenderer создаёт Renderer.
func NewRenderer(siteName string, secureCookie bool, logger *slog.Logger) *Renderer {
	return &Renderer{
		siteName:     siteName,
		secureCookie: secureCookie,
		logger:       logger.With(slog.String("component", "ui.render")),
	}
}

// meta собирает общие данные страницы: пользователя, flash-уведомление
// предыдущего запроса и уведомления текущей отрисовки.
func (rd *Renderer) meta(w http.ResponseWriter, r *http.Request, session *auth.SessionData, inline ...flash.Notice) pages.PageMeta {
	m := pages.PageMeta{
		SiteName:    rd.siteName,
		CurrentPath: r.URL.RequestURI(),
	}
	if session != nil {
		m.Username = session.Username
		m.IsStaff = session.IsStaff
	}

	notices := inline
	if n, ok := flash.ReadAndClear(w, r, rd.secureCookie); ok {
		notices = append([]flash.Notice{n}, notices...)
	}
	for _, n := range notices {
		m.Notices = append(m.Notices, pages.Notice{
			Kind: string(n.Kind),
			Text: i18n.T(r.Context(), n.Key),
		})
	}
	return m
}

// render выводит страницу с указанным статусом.
func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		rd.logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// redirect сохраняет уведомление и выполняет redirect (303 See Other).
func (rd *Renderer) redirect(w http.ResponseWriter, r *http.Request, url string, notice flash.Notice) {
	flash.Write(w, notice, rd.secureCookie)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// notFound выводит страницу 404.
func (rd *Renderer) notFound(w http.ResponseWriter, r *http.Request, session *auth.SessionData) {
	rd.render(w, r, http.StatusNotFound, pages.NotFound(rd.meta(w, r, session)))
}

// internalError логирует ошибку и выводит страницу 500.
func (rd *Renderer) internalError(w http.ResponseWriter, r *http.Request, session *auth.SessionData, err error) {
	rd.logger.Error("Внутренняя ошибка обработки запроса",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	rd.render(w, r, http.StatusInternalServerError, pages.InternalError(rd.meta(w, r, session)))
}

// userErrorKey возвращает ключ перевода для ошибки, показываемой пользователю.
// Пустая строка — ошибка внутренняя.
func userErrorKey(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, improver.ErrEmptyText):
		return "error.empty_text"
	case errors.Is(err, improver.ErrConfiguration):
		return "error.configuration"
	case errors.Is(err, improver.ErrGeneration):
		return "error.generation"
	default:
		return ""
	}
}

// texts.go — главная страница и история улучшений.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/textpolish/internal/domain/model"
	"github.com/bigkaa/textpolish/internal/service"
	"github.com/bigkaa/textpolish/internal/ui/auth"
	"github.com/bigkaa/textpolish/internal/ui/flash"
	uimiddleware "github.com/bigkaa/textpolish/internal/ui/middleware"
	"github.com/bigkaa/textpolish/internal/ui/pages"
)

// HistoryPath — список истории.
const HistoryPath = "/app/history/"

// Действия формы (значение кнопки name="action").
const (
	actionImprove = "improve"
	actionSave    = "save"
)

// History — операции над историей пользователя.
type History interface {
	Improve(ctx context.Context, original string) (string, error)
	Save(ctx context.Context, ownerID int64, original, improved string) (*model.Text, error)
	List(ctx context.Context, ownerID int64, query string) ([]*model.Text, error)
	Get(ctx context.Context, ownerID, id int64) (*model.Text, error)
	Reimprove(ctx context.Context, ownerID, id int64, original string) (*model.Text, error)
	Update(ctx context.Context, ownerID, id int64, original, improved string) (*model.Text, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// TextHandler — обработчики главной страницы и истории.
type TextHandler struct {
	history  History
	renderer *Renderer
	location *time.Location
	logger   *slog.Logger
}

// NewTextHandler создаёт новый TextHandler. location — часовой пояс
// отображения дат (nil — UTC).
func NewTextHandler(history History, renderer *Renderer, location *time.Location, logger *slog.Logger) *TextHandler {
	return &TextHandler{
		history:  history,
		renderer: renderer,
		location: location,
		logger:   logger.With(slog.String("component", "ui.texts")),
	}
}

// HandleHome — GET /app/
func (h *TextHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusFound)
		return
	}
	h.renderer.render(w, r, http.StatusOK, pages.Home(h.renderer.meta(w, r, session), pages.HomeData{}))
}

// HandleHomeSubmit — POST /app/
// action=improve показывает результат, action=save сохраняет его в историю.
func (h *TextHandler) HandleHomeSubmit(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusFound)
		return
	}

	data := pages.HomeData{
		OriginalText: r.FormValue("original_text"),
		ImprovedText: r.FormValue("improved_text"),
	}
	fail := func(key string) {
		meta := h.renderer.meta(w, r, session, flash.Error(key))
		h.renderer.render(w, r, http.StatusOK, pages.Home(meta, data))
	}

	if strings.TrimSpace(data.OriginalText) == "" {
		fail("error.empty_text")
		return
	}

	switch r.FormValue("action") {
	case actionImprove:
		improved, err := h.history.Improve(r.Context(), data.OriginalText)
		if err != nil {
			h.handleError(w, r, session, err, fail)
			return
		}
		data.ImprovedText = improved
		h.renderer.render(w, r, http.StatusOK, pages.Home(h.renderer.meta(w, r, session), data))

	case actionSave:
		if strings.TrimSpace(data.ImprovedText) == "" {
			fail("error.no_improved_text")
			return
		}
		if _, err := h.history.Save(r.Context(), session.UserID, data.OriginalText, data.ImprovedText); err != nil {
			h.handleError(w, r, session, err, fail)
			return
		}
		h.renderer.redirect(w, r, HistoryPath, flash.Success("notice.saved_to_history"))

	default:
		h.renderer.render(w, r, http.StatusOK, pages.Home(h.renderer.meta(w, r, session), data))
	}
}

// HandleHistoryList — GET /app/history/?q=
func (h *TextHandler) HandleHistoryList(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusFound)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	texts, err := h.history.List(r.Context(), session.UserID, query)
	if err != nil {
		h.renderer.internalError(w, r, session, err)
		return
	}

	h.renderer.render(w, r, http.StatusOK, pages.HistoryList(h.renderer.meta(w, r, session), pages.HistoryListData{
		Query:    query,
		Texts:    texts,
		Location: h.location,
	}))
}

// HandleHistoryDetail — GET /app/history/{id}/
func (h *TextHandler) HandleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusFound)
		return
	}

	t, ok := h.loadText(w, r, session)
	if !ok {
		return
	}

	h.renderer.render(w, r, http.StatusOK, pages.HistoryDetail(h.renderer.meta(w, r, session), pages.HistoryDetailData{
		Text:         t,
		OriginalText: t.OriginalText,
		ImprovedText: t.ImprovedText,
		Location:     h.location,
	}))
}

// HandleHistoryDetailSubmit — POST /app/history/{id}/
// action=improve заново улучшает исходный текст, action=save сохраняет правку.
func (h *TextHandler) HandleHistoryDetailSubmit(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusFound)
		return
	}

	t, ok := h.loadText(w, r, session)
	if !ok {
		return
	}

	data := pages.HistoryDetailData{
		Text:         t,
		OriginalText: r.FormValue("original_text"),
		ImprovedText: r.FormValue("improved_text"),
		Location:     h.location,
	}
	fail := func(key string) {
		meta := h.renderer.meta(w, r, session, flash.Error(key))
		h.renderer.render(w, r, http.StatusOK, pages.HistoryDetail(meta, data))
	}
	detailURL := detailPath(t.ID)

	switch r.FormValue("action") {
	case actionImprove:
		if strings.TrimSpace(data.OriginalText) == "" {
			fail("error.empty_text")
			return
		}
		if _, err := h.history.Reimprove(r.Context(), session.UserID, t.ID, data.OriginalText); err != nil {
			h.handleError(w, r, session, err, fail)
			return
		}
		h.renderer.redirect(w, r, detailURL, flash.Success("notice.reimproved"))

	case actionSave:
		if _, err := h.history.Update(r.Context(), session.UserID, t.ID, data.OriginalText, data.ImprovedText); err != nil {
			h.handleError(w, r, session, err, fail)
			return
		}
		h.renderer.redirect(w, r, detailURL, flash.Success("notice.saved"))

	default:
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
	}
}

// HandleHistoryDelete — POST /app/history/{id}/delete/
func (h *TextHandler) HandleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, uimiddleware.LoginPath, http.StatusFound)
		return
	}

	id, ok := parseID(r)
	if !ok {
		h.renderer.notFound(w, r, session)
		return
	}

	if err := h.history.Delete(r.Context(), session.UserID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderer.notFound(w, r, session)
			return
		}
		h.renderer.internalError(w, r, session, err)
		return
	}

	h.renderer.redirect(w, r, HistoryPath, flash.Success("notice.deleted"))
}

// loadText получает запись владельца по id из URL.
// Чужая, отсутствующая запись и некорректный id дают 404.
func (h *TextHandler) loadText(w http.ResponseWriter, r *http.Request, session *auth.SessionData) (*model.Text, bool) {
	id, ok := parseID(r)
	if !ok {
		h.renderer.notFound(w, r, session)
		return nil, false
	}

	t, err := h.history.Get(r.Context(), session.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderer.notFound(w, r, session)
			return nil, false
		}
		h.renderer.internalError(w, r, session, err)
		return nil, false
	}
	return t, true
}

// handleError показывает пользовательскую ошибку в форме,
// отсутствующую запись как 404, остальное как 500.
func (h *TextHandler) handleError(w http.ResponseWriter, r *http.Request, session *auth.SessionData, err error, fail func(key string)) {
	if errors.Is(err, service.ErrNotFound) {
		h.renderer.notFound(w, r, session)
		return
	}
	if key := userErrorKey(err); key != "" {
		h.logger.Warn("Запрос отклонён",
			slog.Int64("user_id", session.UserID),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		fail(key)
		return
	}
	h.renderer.internalError(w, r, session, err)
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func detailPath(id int64) string {
	return HistoryPath + strconv.FormatInt(id, 10) + "/"
}

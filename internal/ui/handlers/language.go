// language.go — обработчик переключения языка UI.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/bigkaa/textpolish/internal/ui/i18n"
)

// HandleSetLanguage обрабатывает POST /app/set-language.
// Устанавливает cookie "lang" и перенаправляет обратно.
// Параметр lang: "ja" или "en" (из query или form).
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if lang == "" {
		lang = r.URL.Query().Get("lang")
	}

	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang
	}

	// Cookie "lang" на 1 год
	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})

	http.Redirect(w, r, returnPath(r.FormValue("next")), http.StatusSeeOther)
}

// returnPath допускает только локальные пути, иначе — главная.
func returnPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return HomePath
	}
	return next
}

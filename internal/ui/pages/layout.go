package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/bigkaa/textpolish/internal/ui/i18n"
)

// Notice — уведомление, уже переведённое на язык запроса.
type Notice struct {
	// Kind — success, info, error
	Kind string
	Text string
}

// PageMeta — общие данные каждой страницы.
type PageMeta struct {
	SiteName string
	// Username — пусто для неаутентифицированных страниц
	Username string
	IsStaff  bool
	// CurrentPath — для возврата после смены языка
	CurrentPath string
	Notices     []Notice
}

// Layout — общий каркас страницы: шапка, навигация, уведомления.
// titleKey — ключ перевода заголовка (пусто — только название приложения).
func Layout(meta PageMeta, titleKey string, body templ.Component) templ.Component {
	return page(func(ctx context.Context, hw *htmlWriter) {
		lang := i18n.LangFromContext(ctx)

		hw.raw(`<!DOCTYPE html><html lang="`)
		hw.text(lang)
		hw.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if titleKey != "" {
			hw.text(i18n.T(ctx, titleKey))
			hw.raw(` | `)
		}
		hw.text(meta.SiteName)
		hw.raw(`</title><link rel="stylesheet" href="/static/css/style.css"></head><body><header><a class="brand" href="/app/">`)
		hw.text(meta.SiteName)
		hw.raw(`</a><nav>`)

		if meta.Username != "" {
			hw.raw(`<a href="/app/">`)
			hw.text(i18n.T(ctx, "nav.home"))
			hw.raw(`</a><a href="/app/history/">`)
			hw.text(i18n.T(ctx, "nav.history"))
			hw.raw(`</a><span class="user">`)
			hw.text(meta.Username)
			if meta.IsStaff {
				hw.raw(` (`)
				hw.text(i18n.T(ctx, "nav.staff"))
				hw.raw(`)`)
			}
			hw.raw(`</span><form class="inline" method="post" action="/app/logout/"><button class="link" type="submit">`)
			hw.text(i18n.T(ctx, "nav.logout"))
			hw.raw(`</button></form>`)
		}

		languageSwitch(ctx, hw, lang, meta.CurrentPath)
		hw.raw(`</nav></header><main>`)

		for _, n := range meta.Notices {
			hw.raw(`<div class="notice notice-`)
			hw.text(n.Kind)
			hw.raw(`" role="status">`)
			hw.text(n.Text)
			hw.raw(`</div>`)
		}

		hw.component(ctx, body)
		hw.raw(`</main></body></html>`)
	})
}

// languageSwitch — форма POST /app/set-language с переключением на другой язык.
func languageSwitch(ctx context.Context, hw *htmlWriter, lang, next string) {
	other, label := "en", "English"
	if lang == "en" {
		other, label = "ja", "日本語"
	}
	hw.raw(`<form class="inline" method="post" action="/app/set-language"><input type="hidden" name="lang" value="`)
	hw.text(other)
	hw.raw(`"><input type="hidden" name="next" value="`)
	hw.text(next)
	hw.raw(`"><button class="link" type="submit" title="`)
	hw.text(i18n.T(ctx, "nav.language"))
	hw.raw(`">`)
	hw.text(label)
	hw.raw(`</button></form>`)
}

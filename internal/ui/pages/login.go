package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/bigkaa/textpolish/internal/ui/i18n"
)

// LoginData — данные страницы входа.
type LoginData struct {
	Username string
}

// Login — форма входа.
func Login(meta PageMeta, data LoginData) templ.Component {
	return Layout(meta, "login.title", page(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section class="card"><h1>`)
		hw.text(i18n.T(ctx, "login.title"))
		hw.raw(`</h1><form method="post" action="/app/login/"><label for="username">`)
		hw.text(i18n.T(ctx, "login.username"))
		hw.raw(`</label><input type="text" id="username" name="username" autocomplete="username" required value="`)
		hw.text(data.Username)
		hw.raw(`"><label for="password">`)
		hw.text(i18n.T(ctx, "login.password"))
		hw.raw(`</label><input type="password" id="password" name="password" autocomplete="current-password" required><div class="actions"><button type="submit">`)
		hw.text(i18n.T(ctx, "login.submit"))
		hw.raw(`</button></div></form></section>`)
	}))
}

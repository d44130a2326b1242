package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/bigkaa/textpolish/internal/ui/i18n"
)

// HomeData — данные главной страницы.
type HomeData struct {
	OriginalText string
	// ImprovedText — пусто, пока улучшение не выполнено
	ImprovedText string
}

// Home — ввод текста, улучшение и сохранение в историю.
func Home(meta PageMeta, data HomeData) templ.Component {
	return Layout(meta, "home.title", page(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section class="card"><h1>`)
		hw.text(i18n.T(ctx, "home.title"))
		hw.raw(`</h1><form method="post" action="/app/"><label for="original_text">`)
		hw.text(i18n.T(ctx, "home.original"))
		hw.raw(`</label><textarea id="original_text" name="original_text" placeholder="`)
		hw.text(i18n.T(ctx, "home.placeholder"))
		hw.raw(`">`)
		hw.text(data.OriginalText)
		hw.raw(`</textarea>`)

		if data.ImprovedText != "" {
			hw.raw(`<label for="improved_text">`)
			hw.text(i18n.T(ctx, "home.improved"))
			hw.raw(`</label><textarea id="improved_text" name="improved_text" readonly>`)
			hw.text(data.ImprovedText)
			hw.raw(`</textarea>`)
		}

		hw.raw(`<div class="actions"><button type="submit" name="action" value="improve">`)
		hw.text(i18n.T(ctx, "home.improve"))
		hw.raw(`</button>`)
		if data.ImprovedText != "" {
			hw.raw(`<button class="secondary" type="submit" name="action" value="save">`)
			hw.text(i18n.T(ctx, "home.save"))
			hw.raw(`</button>`)
		}
		hw.raw(`</div></form></section>`)
	}))
}

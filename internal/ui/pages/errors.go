package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/bigkaa/textpolish/internal/ui/i18n"
)

// NotFound — страница 404.
func NotFound(meta PageMeta) templ.Component {
	return errorPage(meta, "error.not_found_title", "error.not_found")
}

// InternalError — страница 500.
func InternalError(meta PageMeta) templ.Component {
	return errorPage(meta, "error.internal_title", "error.internal")
}

func errorPage(meta PageMeta, titleKey, messageKey string) templ.Component {
	return Layout(meta, titleKey, page(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section class="card"><h1>`)
		hw.text(i18n.T(ctx, titleKey))
		hw.raw(`</h1><p>`)
		hw.text(i18n.T(ctx, messageKey))
		hw.raw(`</p><p><a href="/app/">`)
		hw.text(i18n.T(ctx, "nav.home"))
		hw.raw(`</a></p></section>`)
	}))
}

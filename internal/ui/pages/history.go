package pages

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/bigkaa/textpolish/internal/domain/model"
	"github.com/bigkaa/textpolish/internal/ui/i18n"
)

// previewRunes — длина превью текста в списке истории.
const previewRunes = 50

// timeLayout — формат дат в истории.
const timeLayout = "2006-01-02 15:04"

// HistoryListData — данные списка истории.
type HistoryListData struct {
	Query string
	Texts []*model.Text
	// Location — часовой пояс отображения (nil — UTC)
	Location *time.Location
}

// HistoryList — записи пользователя, новые первыми, с поиском и удалением.
func HistoryList(meta PageMeta, data HistoryListData) templ.Component {
	return Layout(meta, "history.title", page(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section class="card"><h1>`)
		hw.text(i18n.T(ctx, "history.title"))
		hw.raw(` <span class="muted">`)
		hw.text(i18n.Tf(ctx, "history.count", len(data.Texts)))
		hw.raw(`</span></h1><form method="get" action="/app/history/"><input type="search" name="q" value="`)
		hw.text(data.Query)
		hw.raw(`" placeholder="`)
		hw.text(i18n.T(ctx, "history.search_placeholder"))
		hw.raw(`"><div class="actions"><button class="secondary" type="submit">`)
		hw.text(i18n.T(ctx, "history.search"))
		hw.raw(`</button></div></form></section>`)

		if len(data.Texts) == 0 {
			hw.raw(`<p class="muted">`)
			hw.text(i18n.T(ctx, "history.empty"))
			hw.raw(`</p>`)
			return
		}

		hw.raw(`<table><thead><tr><th>`)
		hw.text(i18n.T(ctx, "home.original"))
		hw.raw(`</th><th>`)
		hw.text(i18n.T(ctx, "home.improved"))
		hw.raw(`</th><th>`)
		hw.text(i18n.T(ctx, "history.created_at"))
		hw.raw(`</th><th></th></tr></thead><tbody>`)

		for _, t := range data.Texts {
			id := strconv.FormatInt(t.ID, 10)
			hw.raw(`<tr><td><a href="/app/history/` + id + `/">`)
			hw.text(t.Preview(previewRunes))
			hw.raw(`</a></td><td>`)
			hw.text(truncate(t.ImprovedText, previewRunes))
			hw.raw(`</td><td class="meta">`)
			hw.text(formatTime(t.CreatedAt, data.Location))
			hw.raw(`</td><td><form class="inline" method="post" action="/app/history/` + id + `/delete/" onsubmit="return confirm(this.dataset.confirm)" data-confirm="`)
			hw.text(i18n.T(ctx, "history.delete_confirm"))
			hw.raw(`"><button class="danger" type="submit">`)
			hw.text(i18n.T(ctx, "history.delete"))
			hw.raw(`</button></form></td></tr>`)
		}
		hw.raw(`</tbody></table>`)
	}))
}

// HistoryDetailData — данные страницы записи.
type HistoryDetailData struct {
	Text *model.Text
	// OriginalText/ImprovedText — значения формы (после неудачной отправки
	// отличаются от сохранённых)
	OriginalText string
	ImprovedText string
	Location     *time.Location
}

// HistoryDetail — просмотр, правка, повторное улучшение и удаление записи.
func HistoryDetail(meta PageMeta, data HistoryDetailData) templ.Component {
	return Layout(meta, "history.detail_title", page(func(ctx context.Context, hw *htmlWriter) {
		id := strconv.FormatInt(data.Text.ID, 10)

		hw.raw(`<section class="card"><h1>`)
		hw.text(i18n.T(ctx, "history.detail_title"))
		hw.raw(`</h1><p class="muted">`)
		hw.text(i18n.T(ctx, "history.created_at"))
		hw.raw(`: `)
		hw.text(formatTime(data.Text.CreatedAt, data.Location))
		hw.raw(` / `)
		hw.text(i18n.T(ctx, "history.updated_at"))
		hw.raw(`: `)
		hw.text(formatTime(data.Text.UpdatedAt, data.Location))
		hw.raw(`</p><form method="post" action="/app/history/` + id + `/"><label for="original_text">`)
		hw.text(i18n.T(ctx, "home.original"))
		hw.raw(`</label><textarea id="original_text" name="original_text">`)
		hw.text(data.OriginalText)
		hw.raw(`</textarea><label for="improved_text">`)
		hw.text(i18n.T(ctx, "home.improved"))
		hw.raw(`</label><textarea id="improved_text" name="improved_text">`)
		hw.text(data.ImprovedText)
		hw.raw(`</textarea><div class="actions"><button type="submit" name="action" value="improve">`)
		hw.text(i18n.T(ctx, "history.reimprove"))
		hw.raw(`</button><button class="secondary" type="submit" name="action" value="save">`)
		hw.text(i18n.T(ctx, "history.save"))
		hw.raw(`</button></div></form><form method="post" action="/app/history/` + id + `/delete/" onsubmit="return confirm(this.dataset.confirm)" data-confirm="`)
		hw.text(i18n.T(ctx, "history.delete_confirm"))
		hw.raw(`"><div class="actions"><button class="danger" type="submit">`)
		hw.text(i18n.T(ctx, "history.delete"))
		hw.raw(`</button><a href="/app/history/">`)
		hw.text(i18n.T(ctx, "history.back"))
		hw.raw(`</a></div></form></section>`)
	}))
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timeLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

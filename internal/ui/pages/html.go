// Пакет pages — HTML-страницы UI в виде templ.Component.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter копит первую ошибку записи, чтобы разметка читалась подряд.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw пишет доверенную разметку без экранирования.
func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text пишет пользовательские данные с HTML-экранированием.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// component вставляет вложенный компонент.
func (hw *htmlWriter) component(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// page оборачивает функцию отрисовки в templ.Component.
func page(fn func(ctx context.Context, hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		fn(ctx, hw)
		return hw.err
	})
}

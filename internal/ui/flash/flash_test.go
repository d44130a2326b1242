package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteReadAndClear(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, Success("notice.saved"), false)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("ожидался 1 cookie, получено %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/app/history/", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()

	notice, ok := ReadAndClear(rec, req, false)
	if !ok {
		t.Fatal("уведомление не прочитано")
	}
	if notice.Kind != KindSuccess || notice.Key != "notice.saved" {
		t.Errorf("notice = %+v", notice)
	}

	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("cookie не очищен: %v", cleared)
	}
}

func TestReadAndClear_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"пустое значение", ""},
		{"не base64", "***"},
		{"не JSON", "bm90LWpzb24"},
		{"неизвестный тип", "eyJraW5kIjoiYm9vbSIsImtleSI6IngifQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.value})
			if _, ok := ReadAndClear(httptest.NewRecorder(), req, false); ok {
				t.Error("ожидался отказ")
			}
		})
	}
}

func TestWrite_EmptyKeyIgnored(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, Error("  "), false)
	if len(w.Result().Cookies()) != 0 {
		t.Error("уведомление без ключа не должно записываться")
	}
}

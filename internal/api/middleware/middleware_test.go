package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/app/", "/app/"},
		{"/app/login/", "/app/login/"},
		{"/app/history/", "/app/history/"},
		{"/app/history/42/", "/app/history/{id}/"},
		{"/app/history/42/delete/", "/app/history/{id}/delete/"},
		{"/app/history/abc/", "other"},
		{"/app/history/42/edit/", "other"},
		{"/static/css/style.css", "/static/*"},
		{"/health/ready", "/health/ready"},
		{"/wp-login.php", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.expected {
				t.Errorf("normalizePath(%q) = %q, ожидается %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestMetricsMiddleware_PassesStatus(t *testing.T) {
	h := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/history/1/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("статус = %d, ожидается 418", rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		requestID string
		wantLevel string
	}{
		{"успешный запрос", http.StatusOK, "", "INFO"},
		{"redirect", http.StatusSeeOther, "", "INFO"},
		{"не найдено", http.StatusNotFound, "client-id-1", "WARN"},
		{"ошибка сервера", http.StatusInternalServerError, "", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			var seenID string
			h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenID = RequestIDFromContext(r.Context())
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/app/", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("лог не является JSON: %v (%q)", err, buf.String())
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, ожидается %s", entry["level"], tt.wantLevel)
			}
			if entry["bytes"] != float64(4) {
				t.Errorf("bytes = %v, ожидается 4", entry["bytes"])
			}

			gotID := rec.Header().Get(RequestIDHeader)
			if gotID != seenID || entry["request_id"] != gotID {
				t.Errorf("request_id не совпадает: header=%q ctx=%q log=%v", gotID, seenID, entry["request_id"])
			}
			if tt.requestID != "" {
				if gotID != tt.requestID {
					t.Errorf("X-Request-ID = %q, ожидается клиентский %q", gotID, tt.requestID)
				}
			} else if _, err := uuid.Parse(gotID); err != nil {
				t.Errorf("X-Request-ID = %q не UUID", gotID)
			}
		})
	}
}

func TestRequestLogger_RejectsLongRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(slog.New(slog.NewJSONHandler(&buf, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("длинный X-Request-ID не заменён: %v", err)
	}
}

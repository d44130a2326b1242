// Пакет config — загрузка и валидация конфигурации textpolish
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// APIKeyEnv — переменная окружения с ключом API сервиса генерации.
// Читается при каждом обращении к сервису, в Config не хранится.
const APIKeyEnv = "GOOGLE_API_KEY"

// Config содержит все параметры конфигурации textpolish.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- UI ---

	// Название приложения в заголовке каждой страницы
	SiteName string
	// Язык по умолчанию (ja, en)
	DefaultLang string
	// Ключ шифрования сессий (пустой — случайный на время жизни процесса)
	SessionSecret string
	// Время жизни сессии
	SessionTTL time.Duration
	// Secure flag для cookie (включать за HTTPS)
	SecureCookie bool

	// --- Сервис генерации (Gemini) ---

	// Базовый URL Gemini API
	GeminiBaseURL string
	// Модель, используемая при неудачном определении доступной модели
	GeminiFallbackModel string

	// --- Мониторинг зависимостей ---

	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// TP_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("TP_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("TP_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("TP_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// TP_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("TP_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("TP_LOG_LEVEL: %w", err)
	}

	// TP_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("TP_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("TP_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	if err := cfg.loadDatabase(); err != nil {
		return nil, err
	}

	// --- UI ---

	cfg.SiteName = getEnvDefault("TP_SITE_NAME", "文章改善ツール")

	// TP_DEFAULT_LANG — язык по умолчанию (ja, en)
	cfg.DefaultLang = getEnvDefault("TP_DEFAULT_LANG", "ja")
	if cfg.DefaultLang != "ja" && cfg.DefaultLang != "en" {
		return nil, fmt.Errorf("TP_DEFAULT_LANG: недопустимое значение %q, допустимые: ja, en", cfg.DefaultLang)
	}

	cfg.SessionSecret = getEnvDefault("TP_SESSION_SECRET", "")

	// TP_SESSION_TTL — время жизни сессии (по умолчанию две недели)
	cfg.SessionTTL, err = getEnvDuration("TP_SESSION_TTL", 14*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("TP_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL < time.Minute {
		return nil, fmt.Errorf("TP_SESSION_TTL: значение %s меньше минимального 1m", cfg.SessionTTL)
	}

	cfg.SecureCookie, err = getEnvBool("TP_SECURE_COOKIE", false)
	if err != nil {
		return nil, fmt.Errorf("TP_SECURE_COOKIE: %w", err)
	}

	// --- Gemini ---

	cfg.GeminiBaseURL = strings.TrimRight(
		getEnvDefault("TP_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/")
	if u, parseErr := url.Parse(cfg.GeminiBaseURL); parseErr != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("TP_GEMINI_BASE_URL: некорректный URL %q", cfg.GeminiBaseURL)
	}

	cfg.GeminiFallbackModel = getEnvDefault("TP_GEMINI_FALLBACK_MODEL", "gemini-pro")

	// --- Мониторинг зависимостей ---

	cfg.DephealthGroup = getEnvDefault("TP_DEPHEALTH_GROUP", "textpolish")

	cfg.DephealthCheckInterval, err = getEnvDuration("TP_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("TP_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("TP_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("TP_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// LoadDatabase загружает только параметры PostgreSQL и логирования.
// Используется утилитами (textpolishctl), которым не нужен HTTP-сервер.
func LoadDatabase() (*Config, error) {
	cfg := &Config{LogLevel: slog.LevelInfo, LogFormat: "text"}
	if err := cfg.loadDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadDatabase() error {
	var err error

	// TP_DB_HOST — обязательный
	c.DBHost, err = getEnvRequired("TP_DB_HOST")
	if err != nil {
		return err
	}

	// TP_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	c.DBPort, err = getEnvInt("TP_DB_PORT", 5432)
	if err != nil {
		return fmt.Errorf("TP_DB_PORT: %w", err)
	}

	c.DBName, err = getEnvRequired("TP_DB_NAME")
	if err != nil {
		return err
	}

	c.DBUser, err = getEnvRequired("TP_DB_USER")
	if err != nil {
		return err
	}

	c.DBPassword, err = getEnvRequired("TP_DB_PASSWORD")
	if err != nil {
		return err
	}

	// TP_DB_SSL_MODE — режим SSL (по умолчанию disable)
	c.DBSSLMode = getEnvDefault("TP_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[c.DBSSLMode] {
		return fmt.Errorf("TP_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", c.DBSSLMode)
	}
	return nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL без пароля (для метрик и лейблов).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%d/%s", c.DBHost, c.DBPort, c.DBName)
}

// MigrateURL возвращает URL для golang-migrate (драйвер pgx5).
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает логическое значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Session
	SessionMaxAge int // セッション有効期間（秒）

	// Rate Limit（req/min/user）
	RateLimitGeneral    int
	RateLimitEntryWrite int

	// Reminder
	ReminderHour   int // 日次リマインダーの時（0-23）
	ReminderMinute int // 日次リマインダーの分（0-59）

	// Cleanup
	SessionCleanupInterval time.Duration

	// Timezone
	Timezone string // 暦日計算に使うIANAタイムゾーン名。空はサーバーローカル

	// Server
	ServerPort  string
	MetricsPort string
	BaseURL     string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	// モバイルクライアントを想定してセッションはデフォルト30日
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 30*86400)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitEntryWrite = getEnvInt("RATE_LIMIT_ENTRY_WRITE", 30)
	cfg.ReminderHour = getEnvInt("REMINDER_HOUR", 20)
	cfg.ReminderMinute = getEnvInt("REMINDER_MINUTE", 0)
	cfg.SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 24*time.Hour)
	cfg.Timezone = getEnvString("TIMEZONE", "")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "9090")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return nil, fmt.Errorf("REMINDER_HOUR out of range: %d", cfg.ReminderHour)
	}
	if cfg.ReminderMinute < 0 || cfg.ReminderMinute > 59 {
		return nil, fmt.Errorf("REMINDER_MINUTE out of range: %d", cfg.ReminderMinute)
	}

	return cfg, nil
}

// Location はTimezone設定に対応する*time.Locationを返す。
// 未設定の場合はサーバーローカルを返す。
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

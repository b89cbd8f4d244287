package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAddr            = ":8080"
	defaultRedirectTimeout = 15 * time.Second
	defaultPageLoadTimeout = 15 * time.Second
	defaultElementWait     = 5 * time.Second
	defaultScrapeCacheTTL  = time.Hour
	defaultMaxLoadMore     = 5
	defaultLoadMoreRetries = 2
)

type Config struct {
	Addr    string
	BaseURL string

	StoreBackend string // "file" or "mysql"
	RoomsDir     string
	LogsDir      string

	DBHost string
	DBUser string
	DBPass string
	DBName string

	Headless        bool
	RedirectTimeout time.Duration
	PageLoadTimeout time.Duration
	ElementWait     time.Duration
	ScrapeCacheTTL  time.Duration
	MaxLoadMore     int
	LoadMoreRetries int

	// AdminPasswordHash empty disables the admin API entirely.
	AdminPasswordHash string
	JWTSecret         []byte
}

func Load() (Config, error) {
	_ = godotenv.Load()

	headless, err := parseHeadless(os.Getenv("HEADLESS"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:            valueOrDefault(os.Getenv("ADDR"), defaultAddr),
		BaseURL:         detectBaseURL(),
		StoreBackend:    valueOrDefault(os.Getenv("STORE_BACKEND"), "file"),
		RoomsDir:        valueOrDefault(os.Getenv("ROOMS_DIR"), "rooms"),
		LogsDir:         valueOrDefault(os.Getenv("LOGS_DIR"), "logs"),
		DBHost:          valueOrDefault(os.Getenv("DB_HOST"), "127.0.0.1:3306"),
		DBUser:          valueOrDefault(os.Getenv("DB_USER"), "smio"),
		DBPass:          valueOrDefault(os.Getenv("DB_PASSWORD"), "smio"),
		DBName:          valueOrDefault(os.Getenv("DB_NAME"), "smio"),
		Headless:        headless,
		RedirectTimeout: parseDurationEnv("REDIRECT_TIMEOUT_MS", int(defaultRedirectTimeout/time.Millisecond)),
		PageLoadTimeout: parseDurationEnv("PAGE_LOAD_TIMEOUT_MS", int(defaultPageLoadTimeout/time.Millisecond)),
		ElementWait:     parseDurationEnv("ELEMENT_WAIT_MS", int(defaultElementWait/time.Millisecond)),
		ScrapeCacheTTL:  parseDurationEnv("SCRAPE_CACHE_TTL_MS", int(defaultScrapeCacheTTL/time.Millisecond)),
		MaxLoadMore:     parseIntEnv("MAX_LOAD_MORE_CLICKS", defaultMaxLoadMore),
		LoadMoreRetries: parseIntEnv("LOAD_MORE_RETRIES", defaultLoadMoreRetries),
	}

	switch cfg.StoreBackend {
	case "file", "mysql":
	default:
		return Config{}, fmt.Errorf("invalid STORE_BACKEND %q (want file or mysql)", cfg.StoreBackend)
	}

	cfg.AdminPasswordHash = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))
	if cfg.AdminPasswordHash == "" {
		if pw := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")); pw != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
			if err != nil {
				return Config{}, err
			}
			cfg.AdminPasswordHash = string(hashed)
		}
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY"))
	if secret == "" && cfg.AdminPasswordHash != "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is required when the admin API is enabled")
	}
	cfg.JWTSecret = []byte(secret)

	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		c.DBUser, c.DBPass, c.DBHost, c.DBName,
	)
}

// detectBaseURL picks the public base for room share links. Railway
// exposes the deploy domain through env vars; everything else falls back
// to localhost.
func detectBaseURL() string {
	if base := strings.TrimSpace(os.Getenv("SHARE_BASE_URL")); base != "" {
		return strings.TrimRight(base, "/")
	}
	if domain := strings.TrimSpace(os.Getenv("RAILWAY_PUBLIC_DOMAIN")); domain != "" {
		return "https://" + domain
	}
	if static := strings.TrimSpace(os.Getenv("RAILWAY_STATIC_URL")); static != "" {
		return strings.TrimRight(static, "/")
	}
	return "http://localhost:8080"
}

func parseHeadless(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid HEADLESS value: %w", err)
	}
	return b, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func parseDurationEnv(key string, defaultMs int) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return time.Duration(defaultMs) * time.Millisecond
	}
	ms, err := strconv.Atoi(value)
	if err != nil || ms < 0 {
		return time.Duration(defaultMs) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

func parseIntEnv(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

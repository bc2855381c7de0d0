package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	JWTSecret          string
	FrontendURL        string
	AllowedEmails      []string
	AllowedOrigins     []string
	LogLevel           string

	ReconcileTimeout     time.Duration
	ReconcileConcurrency int
	AnalyticsTimezone    string
	AnalyticsDays        int
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:db.sqlite"),
		AppEnv:             getEnv("APP_ENV", "local"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:8080/dashboard"),
		AllowedEmails:      getList("ALLOWED_EMAILS"),
		AllowedOrigins:     getList("ALLOWED_ORIGINS"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),

		ReconcileTimeout:     getDuration("RECONCILE_TIMEOUT", 10*time.Second),
		ReconcileConcurrency: getInt("RECONCILE_CONCURRENCY", 4),
		AnalyticsTimezone:    getEnv("ANALYTICS_TIMEZONE", "Local"),
		AnalyticsDays:        getInt("ANALYTICS_DAYS", 7),
	}
}

func (c *Config) IsLocal() bool {
	return c.AppEnv == "local"
}

// Location resolves AnalyticsTimezone, falling back to the host zone.
func (c *Config) Location() *time.Location {
	if c.AnalyticsTimezone == "" || c.AnalyticsTimezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.AnalyticsTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

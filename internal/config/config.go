package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
type AppConfig struct {
	AppName string
	Port    string
	GinMode string
	SiteURL string

	DBDriver    string // postgres or sqlite
	DatabaseURL string

	SessionSecret string
	SessionName   string

	GoogleClientID     string
	GoogleClientSecret string

	TemplatesDir string
	StaticDir    string
	AvatarDir    string

	RateLimitPerMinute int
	AllowedOrigins     []string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// Load reads .env (if present) and the process environment.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := AppConfig{
		AppName: getEnv("APP_NAME", "ShareStuff"),
		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "release"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionName:   getEnv("SESSION_NAME", "sharestuff_session"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		TemplatesDir: getEnv("TEMPLATES_DIR", "./web/templates"),
		StaticDir:    getEnv("STATIC_DIR", "./web/static"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       os.Getenv("LOG_PATH"),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7),
		LogCompress:   getEnvBool("LOG_COMPRESS", false),
	}
	cfg.SiteURL = getEnv("SITE_URL", "http://localhost:"+cfg.Port)
	cfg.AvatarDir = getEnv("AVATAR_DIR", cfg.StaticDir+"/images")

	if cfg.DatabaseURL == "" {
		// Fallback for local dev if not set
		if cfg.DBDriver == "sqlite" {
			cfg.DatabaseURL = "database.db"
		} else {
			cfg.DatabaseURL = "host=localhost user=postgres password=postgres dbname=sharestuff port=5432 sslmode=disable"
		}
	}

	if cfg.SessionSecret == "" {
		if cfg.GinMode == "release" {
			log.Fatal("SESSION_SECRET must be set in release mode")
		}
		cfg.SessionSecret = "secret_key_change_me"
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func getEnvBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

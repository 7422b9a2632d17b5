package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	Schema             string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings. Any S3-compatible endpoint works,
// including AWS S3 itself (endpoint "s3.amazonaws.com").
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicBaseURL is the prefix used to build public object URLs. When empty
	// the virtual-hosted AWS form https://<bucket>.s3.<region>.amazonaws.com is used.
	PublicBaseURL string
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	EmailTokenTTL  time.Duration
}

// GoogleConfig holds the OAuth client used for Google sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// RecaptchaConfig holds reCAPTCHA server-side verification settings.
type RecaptchaConfig struct {
	SecretKey string
	VerifyURL string
}

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// RedisConfig holds the ranking cache connection. An empty Addr disables caching.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	RankingTTL time.Duration
}

// RateLimitConfig holds per-client request budgets for abuse-prone endpoints.
type RateLimitConfig struct {
	AuthPerMinute   int
	ResendPerMinute int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost         string
	Port            string
	PublicOrigin    string
	CORSOrigins     string
	LogLevel        string
	URLsPerSitemap  int
	ShutdownTimeout time.Duration
	Database        DatabaseConfig
	MinIO           MinIOConfig
	Auth            AuthConfig
	Google          GoogleConfig
	Recaptcha       RecaptchaConfig
	SMTP            SMTPConfig
	Redis           RedisConfig
	RateLimit       RateLimitConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:         getEnv("APP_HOST", "localhost:8080"),
		Port:            getEnv("PORT", "8080"),
		PublicOrigin:    strings.TrimRight(getEnv("PUBLIC_ORIGIN", "https://toonranks.com"), "/"),
		CORSOrigins:     getEnv("CORS_ALLOW_ORIGINS", "*"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		URLsPerSitemap:  getEnvInt("SITEMAP_URLS_PER_FILE", 50000),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			Schema:             getEnv("DB_SCHEMA", "man_review"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", ""),
			Region:        getEnv("MINIO_REGION", "us-east-1"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		},
		Auth: AuthConfig{
			SecretKey:      getEnv("SECRET_KEY", ""),
			AccessTokenTTL: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 4320)) * time.Minute,
			EmailTokenTTL:  getEnvDuration("EMAIL_TOKEN_TTL", time.Hour),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		Recaptcha: RecaptchaConfig{
			SecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),
			VerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("FROM_EMAIL", ""),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			RankingTTL: getEnvDuration("RANKING_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute:   getEnvInt("RATE_LIMIT_AUTH_PER_MINUTE", 5),
			ResendPerMinute: getEnvInt("RATE_LIMIT_RESEND_PER_MINUTE", 3),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

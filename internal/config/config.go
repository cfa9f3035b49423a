// Package config lê a configuração do processo do ambiente (e de um .env opcional).
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	LogMode string
	Port    string

	DatabaseURL string
	RabbitMQURL string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins         []string
	ReconcileInterval   time.Duration
	SyncSellerSummaries bool

	AdminEmail    string
	AdminPassword string

	// Fallbacks guarda as variáveis que não parsearam e caíram no default.
	Fallbacks []string
}

const devSecret = "dev-secret-change-me"

var ErrMissingSecret = errors.New("JWT_SECRET is required when APP_ENV=prod")

// Load carrega o .env se existir e monta a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv monta a Config a partir de getenv; separado de Load para teste.
func FromEnv(getenv func(string) string) (*Config, error) {
	r := reader{getenv: getenv}

	cfg := &Config{
		AppEnv:              r.str("APP_ENV", "dev"),
		Port:                r.str("PORT", "8080"),
		DatabaseURL:         r.str("DATABASE_URL", ""),
		RabbitMQURL:         r.str("RABBITMQ_URL", ""),
		SMTPHost:            r.str("SMTP_HOST", ""),
		SMTPPort:            r.num("SMTP_PORT", 587),
		SMTPUser:            r.str("SMTP_USER", ""),
		SMTPPass:            r.str("SMTP_PASS", ""),
		MailFrom:            r.str("MAIL_FROM", "nao-responda@ligue-crm.local"),
		JWTSecret:           r.str("JWT_SECRET", ""),
		TokenTTL:            r.duration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:         r.list("CORS_ORIGINS", []string{"*"}),
		ReconcileInterval:   r.duration("RECONCILE_INTERVAL", 0),
		SyncSellerSummaries: r.flag("SYNC_SELLER_SUMMARIES", false),
		AdminEmail:          r.str("ADMIN_EMAIL", ""),
		AdminPassword:       r.str("ADMIN_PASSWORD", ""),
	}
	cfg.LogMode = r.str("LOG_MODE", cfg.AppEnv)
	cfg.Fallbacks = r.fallbacks

	if cfg.JWTSecret == "" {
		if cfg.IsProd() {
			return nil, ErrMissingSecret
		}
		cfg.JWTSecret = devSecret
	}
	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.AppEnv == "prod"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

type reader struct {
	getenv    func(string) string
	fallbacks []string
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) num(key string, def int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fallbacks = append(r.fallbacks, key)
		return def
	}
	return n
}

func (r *reader) flag(key string, def bool) bool {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fallbacks = append(r.fallbacks, key)
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		r.fallbacks = append(r.fallbacks, key)
		return def
	}
	return d
}

func (r *reader) list(key string, def []string) []string {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

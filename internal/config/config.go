package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string        `validate:"required,numeric"`
	SessionSecret  string        `validate:"required,min=32"`
	DBPath         string        `validate:"required"`
	DraftBackend   string        `validate:"oneof=sqlite file"`
	DraftDir       string        `validate:"required_if=DraftBackend file"`
	TiersFile      string
	NotifyTTL      time.Duration `validate:"gt=0"`
	SearchDelay    time.Duration `validate:"gte=0"`
	ResetDelay     time.Duration `validate:"gte=0"`
	WelcomeDelay   time.Duration `validate:"gte=0"`
	MinAge         int           `validate:"gte=0,lte=120"`
	MaxUploadMB    float64       `validate:"gt=0"`
	SessionIdle    time.Duration `validate:"gt=0"`
	SecureCookies  bool
	MetricsEnabled bool
	LogLevel       string `validate:"oneof=debug info warn error"`

	// Warnings collects non-fatal problems found while loading.
	Warnings []string `validate:"-"`
}

var validate = validator.New()

// Load reads the server configuration. SESSION_SECRET is required.
func Load() (*Config, error) {
	return load(true)
}

// LoadOffline reads the configuration for the CLI and MCP server, which never
// sign visitor cookies and so do not need SESSION_SECRET.
func LoadOffline() (*Config, error) {
	return load(false)
}

func load(needSecret bool) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("APP_PORT", "3000"),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		DBPath:         getEnv("DB_PATH", "./givingbank.db"),
		DraftBackend:   strings.ToLower(getEnv("DRAFT_BACKEND", "sqlite")),
		DraftDir:       getEnv("DRAFT_DIR", "./drafts"),
		TiersFile:      getEnv("TIERS_FILE", ""),
		NotifyTTL:      getEnvMillis("NOTIFY_TTL_MS", 5000),
		SearchDelay:    getEnvMillis("SEARCH_DELAY_MS", 1500),
		ResetDelay:     getEnvMillis("RESET_DELAY_MS", 2000),
		WelcomeDelay:   getEnvMillis("WELCOME_DELAY_MS", 1000),
		MinAge:         getEnvInt("MIN_AGE", 16),
		MaxUploadMB:    getEnvFloat("MAX_UPLOAD_MB", 5),
		SessionIdle:    time.Duration(getEnvInt("SESSION_IDLE_MIN", 30)) * time.Minute,
		SecureCookies:  getEnvBool("SECURE_COOKIES", false),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if needSecret {
		if cfg.SessionSecret == "" {
			return nil, fmt.Errorf("SESSION_SECRET is required")
		}
		if err := validate.Struct(cfg); err != nil {
			return nil, describe(err)
		}
	} else if err := validate.StructExcept(cfg, "SessionSecret"); err != nil {
		return nil, describe(err)
	}

	if cfg.DraftBackend == "file" {
		if err := os.MkdirAll(cfg.DraftDir, 0750); err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("could not create DRAFT_DIR %q: %v", cfg.DraftDir, err))
		}
	}
	if !cfg.SecureCookies {
		cfg.Warnings = append(cfg.Warnings, "SECURE_COOKIES is off; enable it behind TLS")
	}

	return cfg, nil
}

var envNames = map[string]string{
	"Port":          "APP_PORT",
	"SessionSecret": "SESSION_SECRET",
	"DBPath":        "DB_PATH",
	"DraftBackend":  "DRAFT_BACKEND",
	"DraftDir":      "DRAFT_DIR",
	"NotifyTTL":     "NOTIFY_TTL_MS",
	"SearchDelay":   "SEARCH_DELAY_MS",
	"ResetDelay":    "RESET_DELAY_MS",
	"WelcomeDelay":  "WELCOME_DELAY_MS",
	"MinAge":        "MIN_AGE",
	"MaxUploadMB":   "MAX_UPLOAD_MB",
	"SessionIdle":   "SESSION_IDLE_MIN",
	"LogLevel":      "LOG_LEVEL",
}

// describe turns validator errors into messages naming the environment key.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s fails %s=%s", name, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s fails %s", name, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}

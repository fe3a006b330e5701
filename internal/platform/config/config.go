// Package config loads process configuration from the environment and an
// optional welfare.env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/platform/auth/token"
)

const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"

	AuthModeToken = "token"
	AuthModeDev   = "dev"
)

type Config struct {
	Port string

	StorageBackend string
	DatabaseURL    string
	MongoURI       string
	MongoDatabase  string

	AuthMode            string
	TokenSymmetricKey   string
	AccessTokenDuration time.Duration
	DevSubject          string
	DevRole             domain.Role

	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration

	ChatCooldown time.Duration
	SeedSchemes  bool

	LogLevel  slog.Level
	LogFormat string
}

// raw mirrors the environment before validation.
type raw struct {
	Port                   string `mapstructure:"PORT"`
	StorageBackend         string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL            string `mapstructure:"DATABASE_URL"`
	MongoURI               string `mapstructure:"MONGO_URI"`
	MongoDatabase          string `mapstructure:"MONGO_DATABASE"`
	AuthMode               string `mapstructure:"AUTH_MODE"`
	TokenSymmetricKey      string `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration    string `mapstructure:"ACCESS_TOKEN_DURATION"`
	DevSubject             string `mapstructure:"DEV_SUBJECT"`
	DevRole                string `mapstructure:"DEV_ROLE"`
	BootstrapAdminEmail    string `mapstructure:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `mapstructure:"BOOTSTRAP_ADMIN_PASSWORD"`
	OpenAIAPIKey           string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL          string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel            string `mapstructure:"OPENAI_MODEL"`
	OpenAITimeout          string `mapstructure:"OPENAI_TIMEOUT"`
	ChatCooldown           string `mapstructure:"CHAT_COOLDOWN"`
	SeedSchemes            bool   `mapstructure:"SEED_SCHEMES"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                     "8080",
	"STORAGE_BACKEND":          BackendMemory,
	"DATABASE_URL":             "",
	"MONGO_URI":                "",
	"MONGO_DATABASE":           "welfare",
	"AUTH_MODE":                AuthModeToken,
	"TOKEN_SYMMETRIC_KEY":      "",
	"ACCESS_TOKEN_DURATION":    "168h",
	"DEV_SUBJECT":              "dev-user",
	"DEV_ROLE":                 "personnel",
	"BOOTSTRAP_ADMIN_EMAIL":    "",
	"BOOTSTRAP_ADMIN_PASSWORD": "",
	"OPENAI_API_KEY":           "",
	"OPENAI_BASE_URL":          "",
	"OPENAI_MODEL":             "",
	"OPENAI_TIMEOUT":           "15s",
	"CHAT_COOLDOWN":            "2s",
	"SEED_SCHEMES":             true,
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "json",
}

// Load reads configuration. dir is searched for welfare.env; a missing
// file is not an error. Environment variables take precedence over the file.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("welfare")
	v.SetConfigType("env")
	v.AutomaticEnv()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read welfare.env: %w", err)
		}
	}

	var r raw
	if err := v.Unmarshal(&r); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return r.validate()
}

func (r raw) validate() (Config, error) {
	cfg := Config{
		Port:                   r.Port,
		StorageBackend:         strings.ToLower(strings.TrimSpace(r.StorageBackend)),
		DatabaseURL:            r.DatabaseURL,
		MongoURI:               r.MongoURI,
		MongoDatabase:          r.MongoDatabase,
		AuthMode:               strings.ToLower(strings.TrimSpace(r.AuthMode)),
		TokenSymmetricKey:      r.TokenSymmetricKey,
		DevSubject:             r.DevSubject,
		BootstrapAdminEmail:    strings.TrimSpace(r.BootstrapAdminEmail),
		BootstrapAdminPassword: r.BootstrapAdminPassword,
		OpenAIAPIKey:           r.OpenAIAPIKey,
		OpenAIBaseURL:          r.OpenAIBaseURL,
		OpenAIModel:            r.OpenAIModel,
		SeedSchemes:            r.SeedSchemes,
		LogFormat:              strings.ToLower(strings.TrimSpace(r.LogFormat)),
	}

	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_BACKEND=mongo")
		}
		if cfg.MongoDatabase == "" {
			return Config{}, fmt.Errorf("MONGO_DATABASE must not be empty")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be one of memory, mongo, postgres (got %q)", r.StorageBackend)
	}

	var err error
	if cfg.AccessTokenDuration, err = parseDuration("ACCESS_TOKEN_DURATION", r.AccessTokenDuration, "168h"); err != nil {
		return Config{}, err
	}
	if cfg.OpenAITimeout, err = parseDuration("OPENAI_TIMEOUT", r.OpenAITimeout, "15s"); err != nil {
		return Config{}, err
	}
	if cfg.ChatCooldown, err = parseDuration("CHAT_COOLDOWN", r.ChatCooldown, "2s"); err != nil {
		return Config{}, err
	}

	switch cfg.AuthMode {
	case AuthModeToken:
	case AuthModeDev:
		role, err := domain.ParseRole(r.DevRole)
		if err != nil {
			return Config{}, fmt.Errorf("DEV_ROLE must be one of personnel, officer, admin: %w", err)
		}
		cfg.DevRole = role
	default:
		return Config{}, fmt.Errorf("AUTH_MODE must be token or dev (got %q)", r.AuthMode)
	}
	// Register and login issue tokens in every mode, so the key is always needed.
	if len(cfg.TokenSymmetricKey) < token.MinSecretKeySize {
		return Config{}, fmt.Errorf("TOKEN_SYMMETRIC_KEY must be at least %d characters", token.MinSecretKeySize)
	}

	if (cfg.BootstrapAdminEmail == "") != (cfg.BootstrapAdminPassword == "") {
		return Config{}, fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(r.LogLevel)); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text (got %q)", r.LogFormat)
	}
	return cfg, nil
}

func parseDuration(key, v, example string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. %s): %w", key, example, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive (got %s)", key, v)
	}
	return d, nil
}

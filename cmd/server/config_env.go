package main

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/pressroomhq/pressroom/pkg/pressroom/config"
)

// envConfig is the process environment surface, kept in the executable so
// the library stays environment-agnostic.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	StorageURL      string `env:"STORAGE_URL" env-default:"file://./uploads"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX" env-default:"/uploads"`

	AdminEmail    string        `env:"ADMIN_EMAIL" env-default:""`
	AdminPassword string        `env:"ADMIN_PASSWORD" env-default:""`
	JWTSecret     string        `env:"JWT_SECRET" env-default:""`
	TokenTTL      time.Duration `env:"TOKEN_TTL" env-default:"8h"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-separator:","`

	EnableEventLogging bool `env:"ENABLE_EVENT_LOGGING" env-default:"true"`
	StrictWorkflow     bool `env:"STRICT_WORKFLOW" env-default:"false"`
}

// loadServerConfigFromEnv constructs a ServerConfig by reading process
// environment variables.
func loadServerConfigFromEnv() (*config.ServerConfig, error) {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, err
	}

	cfg := config.ServerConfig{
		Port:               env.Port,
		Environment:        env.Environment,
		DatabaseType:       "memory",
		DatabaseURL:        env.DatabaseURL,
		StorageURL:         env.StorageURL,
		UploadURLPrefix:    env.UploadURLPrefix,
		AdminEmail:         env.AdminEmail,
		AdminPassword:      env.AdminPassword,
		JWTSecret:          env.JWTSecret,
		TokenTTL:           env.TokenTTL,
		AllowedOrigins:     env.AllowedOrigins,
		EnableEventLogging: env.EnableEventLogging,
		StrictWorkflow:     env.StrictWorkflow,
	}
	if env.DatabaseURL != "" {
		cfg.DatabaseType = "postgres"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

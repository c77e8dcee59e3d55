// Package config assembles a pressroom service and auth gate from a single
// declarative server configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
	"github.com/pressroomhq/pressroom/pkg/pressroom/auth"
	"github.com/pressroomhq/pressroom/pkg/pressroom/repo/memory"
	repopg "github.com/pressroomhq/pressroom/pkg/pressroom/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := Defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Defaults returns the baseline configuration: in-memory persistence and
// storage, suitable for development and tests.
func Defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		DatabaseType:       "memory",
		StorageURL:         "memory://",
		UploadURLPrefix:    "/uploads",
		TokenTTL:           auth.DefaultTokenTTL,
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the pressroom service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration: memory://, file://<dir>, or
	// s3://bucket?region=...&endpoint=...
	StorageURL string

	// Public path prefix uploaded attachments are served under
	UploadURLPrefix string

	// Authentication gate
	AdminEmail    string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration

	// Origins allowed to call the API from a browser; empty allows none
	AllowedOrigins []string

	// Server options
	EnableEventLogging bool
	StrictWorkflow     bool
}

// WithValues replaces the whole config. Convenient for executables that
// assemble the struct from their own environment handling.
func WithValues(values ServerConfig) Option {
	return func(c *ServerConfig) error {
		*c = values
		return nil
	}
}

// WithAdminIdentity sets the static administrator credential pair and
// signing secret.
func WithAdminIdentity(email, password, secret string) Option {
	return func(c *ServerConfig) error {
		c.AdminEmail = email
		c.AdminPassword = password
		c.JWTSecret = secret
		return nil
	}
}

// WithDatabase points the service at a postgres database.
func WithDatabase(databaseURL string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = "postgres"
		c.DatabaseURL = databaseURL
		return nil
	}
}

// WithStorage sets the attachment storage URL.
func WithStorage(storageURL string) Option {
	return func(c *ServerConfig) error {
		c.StorageURL = storageURL
		return nil
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if _, err := ParseStorageURL(c.StorageURL); err != nil {
		return err
	}

	if c.AdminEmail == "" || c.AdminPassword == "" {
		return errors.New("admin email and password are required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (pressroom.Service, error) {
	var options []pressroom.Option

	// Repository
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := repopg.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		options = append(options, pressroom.WithRepository(repopg.NewWithPool(pool)))
	default:
		options = append(options, pressroom.WithRepository(memory.New()))
	}

	// Attachment storage
	spec, err := ParseStorageURL(c.StorageURL)
	if err != nil {
		return nil, err
	}
	store, err := spec.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}
	options = append(options,
		pressroom.WithBlobStore(spec.Type, store),
		pressroom.WithDefaultBackend(spec.Type),
		pressroom.WithURLPrefix(c.UploadURLPrefix),
	)

	if c.EnableEventLogging {
		options = append(options, pressroom.WithEventSink(pressroom.NewLoggingEventSink(slog.Default())))
	}
	if c.StrictWorkflow {
		options = append(options, pressroom.WithStrictWorkflow(true))
	}

	return pressroom.New(options...)
}

// BuildAuth creates the authentication gate from the server configuration
func (c *ServerConfig) BuildAuth() *auth.Service {
	return auth.New(auth.Config{
		AdminEmail:    c.AdminEmail,
		AdminPassword: c.AdminPassword,
		JWTSecret:     c.JWTSecret,
		TokenTTL:      c.TokenTTL,
	})
}

// FSBaseDir returns the local directory attachments are stored in, or ""
// when the configured backend is not filesystem-based. Executables use it to
// mount static file serving over the upload tree.
func (c *ServerConfig) FSBaseDir() string {
	spec, err := ParseStorageURL(c.StorageURL)
	if err != nil || spec.Type != "fs" {
		return ""
	}
	return spec.BaseDir
}

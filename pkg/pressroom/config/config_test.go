package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressroomhq/pressroom/pkg/pressroom/config"
)

func TestParseStorageURL(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		for _, input := range []string{"", "memory://", "memory"} {
			spec, err := config.ParseStorageURL(input)
			require.NoError(t, err, "input %q", input)
			assert.Equal(t, "memory", spec.Type)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		spec, err := config.ParseStorageURL("file://./uploads")
		require.NoError(t, err)
		assert.Equal(t, "fs", spec.Type)
		assert.Equal(t, "./uploads", spec.BaseDir)

		_, err = config.ParseStorageURL("file://")
		assert.Error(t, err)
	})

	t.Run("s3", func(t *testing.T) {
		spec, err := config.ParseStorageURL(
			"s3://press-assets?region=us-west-2&endpoint=http://localhost:9000&access_key_id=minio&secret_access_key=minio123&path_style=true&create_bucket=true")
		require.NoError(t, err)

		assert.Equal(t, "s3", spec.Type)
		assert.Equal(t, "press-assets", spec.S3.Bucket)
		assert.Equal(t, "us-west-2", spec.S3.Region)
		assert.Equal(t, "http://localhost:9000", spec.S3.Endpoint)
		assert.Equal(t, "minio", spec.S3.AccessKeyID)
		assert.Equal(t, "minio123", spec.S3.SecretAccessKey)
		assert.True(t, spec.S3.UsePathStyle)
		assert.True(t, spec.S3.CreateBucketIfNotExist)

		_, err = config.ParseStorageURL("s3://")
		assert.Error(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := config.ParseStorageURL("ftp://somewhere")
		assert.Error(t, err)
	})
}

func TestStorageSpecBuild(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		spec, err := config.ParseStorageURL("memory://")
		require.NoError(t, err)

		store, err := spec.Build()
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("filesystem", func(t *testing.T) {
		spec := &config.StorageSpec{Type: "fs", BaseDir: t.TempDir()}
		store, err := spec.Build()
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("unknown type", func(t *testing.T) {
		spec := &config.StorageSpec{Type: "tape"}
		_, err := spec.Build()
		assert.Error(t, err)
	})
}

func validConfig() config.ServerConfig {
	cfg := config.Defaults()
	cfg.AdminEmail = "admin@example.com"
	cfg.AdminPassword = "s3cret"
	cfg.JWTSecret = "signing-secret"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.ServerConfig)
		wantErr bool
	}{
		{
			name:    "valid defaults with admin identity",
			mutate:  func(c *config.ServerConfig) {},
			wantErr: false,
		},
		{
			name:    "missing port",
			mutate:  func(c *config.ServerConfig) { c.Port = "" },
			wantErr: true,
		},
		{
			name:    "unknown database type",
			mutate:  func(c *config.ServerConfig) { c.DatabaseType = "mongo" },
			wantErr: true,
		},
		{
			name:    "postgres without a url",
			mutate:  func(c *config.ServerConfig) { c.DatabaseType = "postgres" },
			wantErr: true,
		},
		{
			name: "postgres with a url",
			mutate: func(c *config.ServerConfig) {
				c.DatabaseType = "postgres"
				c.DatabaseURL = "postgres://localhost:5432/pressroom"
			},
			wantErr: false,
		},
		{
			name:    "bad storage url",
			mutate:  func(c *config.ServerConfig) { c.StorageURL = "ftp://x" },
			wantErr: true,
		},
		{
			name:    "missing admin password",
			mutate:  func(c *config.ServerConfig) { c.AdminPassword = "" },
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *config.ServerConfig) { c.JWTSecret = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(
		config.WithAdminIdentity("admin@example.com", "s3cret", "signing-secret"),
		config.WithStorage("memory://"),
	)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
}

func TestBuildService(t *testing.T) {
	cfg := validConfig()

	svc, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestBuildAuth(t *testing.T) {
	cfg := validConfig()

	authService := cfg.BuildAuth()
	require.NotNil(t, authService)

	token, err := authService.Login("admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestFSBaseDir(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, cfg.FSBaseDir())

	cfg.StorageURL = "file://./uploads"
	assert.Equal(t, "./uploads", cfg.FSBaseDir())
}

//go:build integration

// Package pgtest starts disposable postgres containers for integration
// tests. It is only compiled with the integration build tag.
package pgtest

import (
	"context"
	"testing"
	"time"

	"custodia/internal/config"
	"custodia/internal/repositories"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// Start runs a postgres container for the lifetime of t and returns the
// connection settings for it.
func Start(t *testing.T) config.DBConfig {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("custodia"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DBConfig{
		Host:            host,
		Port:            port.Port(),
		User:            "test",
		Password:        "test",
		Name:            "custodia",
		SSLMode:         "disable",
		MaxIdleConns:    4,
		MaxOpenConns:    16,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	}
}

// DB starts a container and returns a migrated connection to it.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repositories.InitDB(Start(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repositories.CloseDB(db) })
	return db
}

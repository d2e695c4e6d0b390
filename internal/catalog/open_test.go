package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nutritrack/food-catalog/pkg/config"
	"github.com/nutritrack/food-catalog/pkg/enums"
	"github.com/nutritrack/food-catalog/pkg/logger"
)

func TestOpenBackendSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Store: config.StoreConfig{Driver: config.StoreDriverSQLite, AutoMigrate: true},
		DB:    config.DBConfig{DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), MaxOpenConns: 2, MaxIdleConns: 2},
	}

	backend, err := OpenBackend(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close(ctx) })

	require.NoError(t, backend.Ping(ctx))
	n, err := backend.Store.CountBySource(ctx, enums.SourceManual)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestOpenBackendUnknownDriver(t *testing.T) {
	_, err := OpenBackend(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "csv"}}, logger.Nop())
	require.ErrorContains(t, err, "unsupported store driver")
}

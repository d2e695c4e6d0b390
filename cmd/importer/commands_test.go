package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/nutritrack/food-catalog/pkg/config"
)

func setSQLiteEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvStoreDriver, config.StoreDriverSQLite)
	t.Setenv(config.EnvDBDSN, filepath.Join(t.TempDir(), "foods.db"))
	t.Setenv(config.EnvRedisURL, "")
	t.Setenv(config.EnvLogLevel, "error")
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out, prometheus.NewRegistry())
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

func TestSamplesCommandImportsThenSkips(t *testing.T) {
	setSQLiteEnv(t)

	out, err := runApp(t, "samples", "--mode", "force")
	require.NoError(t, err)
	require.Contains(t, out, "import manual (force): done")
	require.Contains(t, out, "deleted 0, inserted 54")
	require.Contains(t, out, "manual: 54")

	out, err = runApp(t, "samples", "--mode", "skip-if-exists")
	require.NoError(t, err)
	require.Contains(t, out, "import manual (skip-if-exists): skipped")
	require.Contains(t, out, "54 existing manual records kept")

	out, err = runApp(t, "samples", "--mode", "force")
	require.NoError(t, err)
	require.Contains(t, out, "deleted 54, inserted 54")
}

func TestImportRejectsUnknownMode(t *testing.T) {
	setSQLiteEnv(t)

	_, err := runApp(t, "samples", "--mode", "sometimes")
	require.Error(t, err)
}

func TestImportRequiresMode(t *testing.T) {
	setSQLiteEnv(t)

	_, err := runApp(t, "openfoodfacts")
	require.ErrorContains(t, err, "mode")
}

func TestIntOr(t *testing.T) {
	require.Equal(t, 7, intOr(7, 3))
	require.Equal(t, 3, intOr(0, 3))
	require.Equal(t, 3, intOr(-1, 3))
}

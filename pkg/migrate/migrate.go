package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/nutritrack/food-catalog/pkg/db"
	"github.com/nutritrack/food-catalog/pkg/logger"
)

//go:embed migrations/*.sql
var embedded embed.FS

const dir = "migrations"

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

func gooseDialect(gormDialect string) (string, error) {
	switch gormDialect {
	case "postgres":
		return "postgres", nil
	case "sqlite":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no goose dialect for %q", gormDialect)
	}
}

// Up applies the embedded foods schema. It is idempotent.
func Up(ctx context.Context, sqlDB *sql.DB, gormDialect string) error {
	if sqlDB == nil {
		return fmt.Errorf("db is required")
	}
	dialect, err := gooseDialect(gormDialect)
	if err != nil {
		return err
	}
	if err := ValidateFS(embedded, dir); err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Bootstrap runs Up against the client's connection when enabled.
func Bootstrap(ctx context.Context, enabled bool, client *db.Client, logg *logger.Logger) error {
	if !enabled {
		return nil
	}
	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "dialect", client.Dialect())
	logg.Info(ctx, "bootstrapping foods schema")
	if err := Up(ctx, sqlDB, client.Dialect()); err != nil {
		return fmt.Errorf("bootstrapping foods schema: %w", err)
	}
	logg.Info(ctx, "foods schema ready")
	return nil
}

package catalog

import (
	"context"
	"fmt"

	"github.com/nutritrack/food-catalog/pkg/config"
	"github.com/nutritrack/food-catalog/pkg/db"
	"github.com/nutritrack/food-catalog/pkg/logger"
	"github.com/nutritrack/food-catalog/pkg/migrate"
	pkgmongo "github.com/nutritrack/food-catalog/pkg/mongo"
)

// Backend is an opened Store together with its health check and shutdown.
type Backend struct {
	Store  Store
	Driver string
	pinger db.Pinger
	close  func(context.Context) error
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.pinger.Ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// OpenBackend connects the store selected by the configured driver. SQL
// backends get the foods table bootstrapped when auto-migrate is on.
func OpenBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		client, err := db.New(ctx, cfg.Store.Driver, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.Bootstrap(ctx, cfg.Store.AutoMigrate, client, logg); err != nil {
			_ = client.Close()
			return nil, err
		}
		return &Backend{
			Store:  NewRepository(client.DB()),
			Driver: cfg.Store.Driver,
			pinger: client,
			close:  func(context.Context) error { return client.Close() },
		}, nil
	case config.StoreDriverMongo:
		client, err := pkgmongo.New(ctx, cfg.Mongo, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap mongo: %w", err)
		}
		return &Backend{
			Store:  NewMongoRepository(client.Foods()),
			Driver: cfg.Store.Driver,
			pinger: client,
			close:  client.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nutritrack/food-catalog/pkg/config"
	"github.com/nutritrack/food-catalog/pkg/logger"
)

// Client owns the driver connection and the configured foods collection.
type Client struct {
	raw        *mongo.Client
	database   string
	collection string
}

// New connects, verifies the primary is reachable and returns a scoped client.
func New(ctx context.Context, cfg config.MongoConfig, logg *logger.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New("mongo database and collection are required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	raw, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := raw.Ping(ctx, readpref.Primary()); err != nil {
		_ = raw.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"database": cfg.Database, "collection": cfg.Collection})
		logg.Info(ctx, "mongo connection established")
	}

	return &Client{raw: raw, database: cfg.Database, collection: cfg.Collection}, nil
}

// Foods returns the configured foods collection.
func (c *Client) Foods() *mongo.Collection {
	return c.raw.Database(c.database).Collection(c.collection)
}

// Ping verifies the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.raw.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	return c.raw.Disconnect(ctx)
}

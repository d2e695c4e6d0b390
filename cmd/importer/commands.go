package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/nutritrack/food-catalog/internal/catalog"
	"github.com/nutritrack/food-catalog/internal/importer"
	"github.com/nutritrack/food-catalog/internal/transform"
	"github.com/nutritrack/food-catalog/pkg/config"
	"github.com/nutritrack/food-catalog/pkg/enums"
	"github.com/nutritrack/food-catalog/pkg/logger"
	"github.com/nutritrack/food-catalog/pkg/metrics"
	"github.com/nutritrack/food-catalog/pkg/openfoodfacts"
	"github.com/nutritrack/food-catalog/pkg/redis"
)

const name = "food-importer"

func modeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "mode",
		Usage:    "what to do when the source already has records (force, skip-if-exists)",
		Required: true,
	}
}

type runner struct {
	out io.Writer
	reg prometheus.Registerer
}

func newApp(out io.Writer, reg prometheus.Registerer) *cli.Command {
	r := &runner{out: out, reg: reg}
	return &cli.Command{
		Name:   name,
		Usage:  "Populate the food catalog from external datasets",
		Writer: out,
		Commands: []*cli.Command{
			r.openFoodFactsCmd(),
			r.samplesCmd(),
		},
	}
}

func (r *runner) openFoodFactsCmd() *cli.Command {
	return &cli.Command{
		Name:  "openfoodfacts",
		Usage: "Replace the openfoodfacts records with products from the Open Food Facts search API",
		Description: `Fetches products sold in the configured country page by page, keeps the
ones with a name and an energy value, and replaces every openfoodfacts record
in the store. Manual records are never touched.

  food-importer openfoodfacts --mode force --target 500`,
		Flags: []cli.Flag{
			modeFlag(),
			&cli.IntFlag{
				Name:  "target",
				Usage: "number of gated products to collect (defaults to FOODCATALOG_IMPORT_TARGET)",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "products requested per page (defaults to FOODCATALOG_IMPORT_PAGE_SIZE)",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "pages fetched in parallel (defaults to FOODCATALOG_IMPORT_CONCURRENCY)",
			},
			&cli.StringFlag{
				Name:  "country",
				Usage: "country tag used to filter products (defaults to FOODCATALOG_OFF_COUNTRY)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mode, err := enums.ParseImportMode(cmd.String("mode"))
			if err != nil {
				return err
			}
			return r.runImport(ctx, mode, enums.SourceOpenFoodFacts, func(cfg *config.Config) (importer.Fetcher, importer.Mapper, int, error) {
				imp := cfg.Import
				target := intOr(cmd.Int("target"), imp.Target)
				pageSize := intOr(cmd.Int("page-size"), imp.PageSize)
				country := imp.OFFCountry
				if v := cmd.String("country"); v != "" {
					country = v
				}

				client := openfoodfacts.NewClient(
					openfoodfacts.WithBaseURL(imp.OFFBaseURL),
					openfoodfacts.WithCountry(country),
					openfoodfacts.WithUserAgent(imp.UserAgent),
					openfoodfacts.WithRequestInterval(imp.RequestInterval),
				)
				fetcher, err := importer.NewFeedFetcher(importer.FeedFetcherParams{
					Feed:        client,
					PageSize:    pageSize,
					PageTimeout: imp.PageTimeout,
					Concurrency: intOr(cmd.Int("concurrency"), imp.Concurrency),
				})
				if err != nil {
					return nil, nil, 0, err
				}
				return fetcher, transform.New(enums.SourceOpenFoodFacts), target, nil
			})
		},
	}
}

func (r *runner) samplesCmd() *cli.Command {
	return &cli.Command{
		Name:  "samples",
		Usage: "Replace the manual records with the bundled sample foods",
		Flags: []cli.Flag{modeFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mode, err := enums.ParseImportMode(cmd.String("mode"))
			if err != nil {
				return err
			}
			return r.runImport(ctx, mode, enums.SourceManual, func(*config.Config) (importer.Fetcher, importer.Mapper, int, error) {
				fetcher, err := importer.NewStaticFetcher(nil)
				if err != nil {
					return nil, nil, 0, err
				}
				return fetcher, importer.NewSampleMapper(), 0, nil
			})
		},
	}
}

type sourceFactory func(cfg *config.Config) (importer.Fetcher, importer.Mapper, int, error)

func (r *runner) runImport(ctx context.Context, mode enums.ImportMode, source enums.Source, build sourceFactory) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: name,
		Version:     cfg.App.Version,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	backend, err := catalog.OpenBackend(ctx, cfg, logg)
	if err != nil {
		return fmt.Errorf("open food store: %w", err)
	}
	defer func() {
		if err := backend.Close(context.WithoutCancel(ctx)); err != nil {
			logg.Error(ctx, "error closing food store", err)
		}
	}()

	fetcher, mapper, target, err := build(cfg)
	if err != nil {
		return err
	}

	var lock importer.Lock
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis client", err)
			}
		}()
		redisLock, err := importer.NewRedisLock(redisClient, source, cfg.Import.LockTTL)
		if err != nil {
			return err
		}
		lock = redisLock
	}

	pipeline, err := importer.New(importer.Params{
		Source:  source,
		Mode:    mode,
		Target:  target,
		Fetcher: fetcher,
		Mapper:  mapper,
		Store:   backend.Store,
		Lock:    lock,
		Logger:  logg,
		Metrics: metrics.NewImportMetrics(r.reg),
		Now:     time.Now,
	})
	if err != nil {
		return err
	}

	report, runErr := pipeline.Run(ctx)
	if report != nil {
		if err := report.Write(r.out); err != nil {
			logg.Error(ctx, "failed to write import report", err)
		}
	}
	return runErr
}

func intOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

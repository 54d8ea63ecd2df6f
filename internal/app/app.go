// Package app assembles the long-lived components shared by the server and
// the command line tool.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/trogers1052/portfolio-tracker/internal/cache"
	"github.com/trogers1052/portfolio-tracker/internal/config"
	"github.com/trogers1052/portfolio-tracker/internal/database"
	"github.com/trogers1052/portfolio-tracker/internal/mongostore"
	"github.com/trogers1052/portfolio-tracker/internal/portfolio"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

// OpenStore connects to the configured backend. PostgreSQL schemas are
// migrated on open.
func OpenStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (store.Store, error) {
	switch cfg.Storage {
	case config.BackendPostgres:
		db, err := OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close(ctx)
			return nil, err
		}
		log.WithField("backend", cfg.Storage).Info("connected to PostgreSQL")
		return db, nil
	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
		defer cancel()
		s, err := mongostore.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		log.WithField("backend", cfg.Storage).WithField("database", cfg.Mongo.Database).Info("connected to MongoDB")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// OpenPostgres connects to PostgreSQL without migrating.
func OpenPostgres(cfg *config.Config) (*database.DB, error) {
	return database.New(cfg.Database.ConnectionString())
}

// PriceCache wraps st with the Redis latest-price cache when REDIS_ADDR is
// set. It returns nil, nil when the cache is disabled.
func PriceCache(ctx context.Context, cfg *config.Config, st store.PriceStore, log logrus.FieldLogger) (*cache.PriceCache, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return cache.NewPriceCache(client, st, cfg.Redis.TTL, log), client, nil
}

// PortfolioService builds the valuation service over st, reading latest
// prices through prices when it is not nil.
func PortfolioService(cfg *config.Config, st store.Store, prices portfolio.PriceSource) *portfolio.Service {
	if prices == nil {
		prices = st
	}
	return portfolio.NewService(st, prices, portfolio.Engine{StrictOversell: cfg.Portfolio.StrictOversell})
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/coursehub/internal/config"
	"github.com/geocoder89/coursehub/internal/db"
	"github.com/geocoder89/coursehub/internal/repo/file"
	"github.com/geocoder89/coursehub/internal/repo/memory"
	"github.com/geocoder89/coursehub/internal/repo/postgres"
	"github.com/geocoder89/coursehub/internal/repo/redisstore"
	"github.com/geocoder89/coursehub/internal/storage"
)

// openStorage builds the configured persistence backend and its cleanup.
func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (storage.Storage, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case "memory":
		log.Warn("using in-memory storage, state is lost on restart")
		return memory.NewKV(), noop, nil

	case "file", "":
		kv, err := file.NewKV(cfg.DataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("open data dir: %w", err)
		}
		return kv, noop, nil

	case "redis":
		kv := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})

		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		if err := kv.Ping(pctx); err != nil {
			_ = kv.Close()
			return nil, noop, fmt.Errorf("redis ping: %w", err)
		}
		return kv, func() { _ = kv.Close() }, nil

	case "postgres":
		pool, err := db.NewPool(cfg.DBURL)
		if err != nil {
			return nil, noop, fmt.Errorf("db connect: %w", err)
		}

		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := db.EnsureSchema(sctx, pool); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return postgres.NewKVStore(pool), pool.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

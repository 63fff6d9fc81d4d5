package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"discountd/internal/config"
	"discountd/internal/http/handlers"
	applog "discountd/internal/log"
	"discountd/internal/metrics"
	"discountd/internal/repos"
	"discountd/internal/seed"
	"discountd/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	applog.Init(cfg.LogLevel, out)
	zl := applog.Logger()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		zl.Fatal().Err(err).Msg("open database")
	}

	// Item snapshots, optionally cached in Redis
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, item cache disabled")
			_ = rdb.Close()
			rdb = nil
		}
		cancel()
	}
	itemRepo := repos.NewItemRepo(db)
	items := repos.NewCachedItems(itemRepo, rdb, cfg.ItemCacheTTL, zl)

	catalog, err := services.NewDiscountCatalog(repos.NewDiscountRepo(db, nil), items)
	if err != nil {
		zl.Fatal().Err(err).Msg("discount catalog")
	}
	products := services.NewProductService(itemRepo, items)

	if cfg.SeedFile != "" {
		f, err := seed.Load(cfg.SeedFile)
		if err != nil {
			zl.Fatal().Err(err).Msg("load seed")
		}
		n, err := seed.Apply(f, products, catalog)
		if err != nil {
			zl.Warn().Err(err).Msg("seed applied with errors")
		}
		zl.Info().Int("entries", n).Str("file", cfg.SeedFile).Msg("seed applied")
	}

	auth := services.NewAdminAuth(cfg.AdminKeyHash)
	if len(auth.Hash) == 0 {
		zl.Warn().Msg("ADMIN_KEY_HASH not set, discount changes are disabled")
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: out}))
	app.Use(helmet.New())

	deps := handlers.NewDeps(catalog, products, auth, metrics.New())
	handlers.Mount(app, deps)

	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal().Err(err).Msg("listen")
	}
}

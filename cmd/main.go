package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
	"github.com/mdobak/go-xerrors"
	"github.com/redis/go-redis/v9"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/cache"
	"github.com/siahsang/postfeed/internal/config"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/database"
	"github.com/siahsang/postfeed/internal/store"
	"github.com/siahsang/postfeed/internal/store/memory"
	"github.com/siahsang/postfeed/internal/store/postgres"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/models"
)

type application struct {
	config       *config.Config
	core         *core.Core
	auth         *auth.Auth
	listingCache cache.Cache
	logger       *slog.Logger
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("Errors loading configuration", slog.String("error", xerrors.Sprint(err)))
		os.Exit(1)
	}

	logger := configLogger(cfg)
	logger.Info("Starting application...", "env", cfg.Env, "db_driver", cfg.DB.Driver, "cache_backend", cfg.Cache.Backend)

	ctx := context.Background()

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Errors opening store", slog.String("error", xerrors.Sprint(err)))
		os.Exit(1)
	}
	defer closeStore()

	listingCache, closeCache := openCache(cfg)
	defer closeCache()

	followOrder, err := core.ParseFollowOrder(cfg.Feed.FollowOrder)
	if err != nil {
		logger.Error("Invalid feed configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := newApplication(cfg, core.NewCore(st, logger, followOrder), listingCache, logger)

	if err := app.core.SeedGroups(ctx, seedGroups(cfg)); err != nil {
		logger.Error("Errors seeding groups", slog.String("error", xerrors.Sprint(err)))
		os.Exit(1)
	}

	if err := app.serve(); err != nil {
		logger.Error("Errors running server", slog.String("error", xerrors.Sprint(err)))
		os.Exit(1)
	}
}

func newApplication(cfg *config.Config, c *core.Core, listingCache cache.Cache, logger *slog.Logger) *application {
	return &application{
		config:       cfg,
		core:         c,
		auth:         auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		listingCache: listingCache,
		logger:       logger,
	}
}

func configLogger(cfg *config.Config) *slog.Logger {
	if !cfg.IsDevelopment() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.DB.Driver == "memory" {
		logger.Warn("Using in-memory store, data will not survive a restart")
		return memory.New(), func() {}, nil
	}

	db, err := database.Open(ctx, database.Options{
		DSN:             cfg.DB.DSN,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection established successfully")

	session := databaseutils.NewSession(db, logger)
	sqlTemplate := databaseutils.NewSQLTemplate(session, cfg.DB.QueryTimeout)

	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Error("Errors closing database connection", slog.String("error", err.Error()))
		}
	}
	return postgres.New(session, sqlTemplate, logger), closeFn, nil
}

func openCache(cfg *config.Config) (cache.Cache, func()) {
	if cfg.Cache.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return cache.NewRedis(rdb, cfg.Cache.TTL, cfg.Cache.Prefix), func() { _ = rdb.Close() }
	}
	return cache.NewMemory(cfg.Cache.TTL), func() {}
}

func seedGroups(cfg *config.Config) []models.Group {
	groups := make([]models.Group, 0, len(cfg.Seed.Groups))
	for _, g := range cfg.Seed.Groups {
		groups = append(groups, models.Group{Title: g.Title, Slug: g.Slug, Description: g.Description})
	}
	return groups
}

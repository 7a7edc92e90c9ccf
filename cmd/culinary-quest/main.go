// Package main is the entry point for the Culinary Quest terminal game.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"culinary-quest/internal/catalog"
	"culinary-quest/internal/config"
	"culinary-quest/internal/game"
	"culinary-quest/internal/model"
	"culinary-quest/internal/pkg/db"
	"culinary-quest/internal/repository"
	"culinary-quest/internal/service"
	"culinary-quest/internal/storage/memory"
	"culinary-quest/internal/storage/sqlite"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Str("storage", cfg.Storage.Driver).Msg("Configuration loaded successfully")

	// Cancel on SIGINT/SIGTERM so a running countdown stops cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer st.close()

	loc, err := cfg.Game.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load timezone")
	}

	cat, err := loadCatalog(cfg, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	sessions := service.NewSessionService(cat, st.gateways,
		game.WithTickInterval(cfg.Game.TickInterval),
		game.WithLocation(loc),
		game.WithPoolSizes(poolSizes(cfg.Game.PoolSizes)),
	)
	ranking := service.NewRankingService(st.board)

	engine, err := sessions.Engine(ctx, cfg.Player.ID, cfg.Player.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game engine")
	}
	defer sessions.Release(context.Background(), cfg.Player.ID)

	r := newREPL(engine, ranking, cfg.Player.ID, os.Stdout)
	unsubscribe := engine.Subscribe(r.onEvent)
	defer unsubscribe()

	log.Info().Str("player", cfg.Player.ID).Msg("Game is ready")
	if err := r.run(ctx, os.Stdin); err != nil {
		log.Error().Err(err).Msg("Input error")
	}
	log.Info().Msg("Goodbye")
}

// storage bundles the persistence pieces the game needs.
type storage struct {
	gateways service.GatewayFactory
	board    service.ScoreBoard
	close    func()
}

// openStorage builds the configured persistence backend.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return &storage{
			gateways: func(playerID string) game.Gateway { return store.ForPlayer(playerID) },
			board:    store.ForPlayer(cfg.Player.ID),
			close:    func() {},
		}, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Storage.SQLitePath).Msg("SQLite storage opened")
		return &storage{
			gateways: func(playerID string) game.Gateway { return store.ForPlayer(playerID) },
			board:    store,
			close: func() {
				if err := store.Close(); err != nil {
					log.Error().Err(err).Msg("Failed to close SQLite storage")
				}
			},
		}, nil

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool.Pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{
			gateways: func(playerID string) game.Gateway { return repository.NewGateway(pool.Pool, playerID) },
			board:    repository.NewGateway(pool.Pool, cfg.Player.ID),
			close:    pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Storage.Driver)
	}
}

func loadCatalog(cfg *config.Config, loc *time.Location) (*catalog.Catalog, error) {
	opts := []catalog.Option{
		catalog.WithSeed(cfg.Game.Seed),
		catalog.WithLocation(loc),
	}
	if cfg.Game.CatalogPath != "" {
		log.Info().Str("path", cfg.Game.CatalogPath).Msg("Loading catalog file")
		return catalog.LoadFile(cfg.Game.CatalogPath, opts...)
	}
	return catalog.Default(opts...)
}

func poolSizes(c config.PoolSizesConfig) map[model.GameMode]game.PoolSizes {
	sizes := make(map[model.GameMode]game.PoolSizes)
	for mode, s := range c.ByMode() {
		sizes[mode] = game.PoolSizes{Easy: s.Easy, Medium: s.Medium, Hard: s.Hard}
	}
	return sizes
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/residencia-nna/residencia-api/internal/api"
	"github.com/residencia-nna/residencia-api/internal/core/service"
	mongodb "github.com/residencia-nna/residencia-api/internal/infrastructure/db/mongo"
	redisdb "github.com/residencia-nna/residencia-api/internal/infrastructure/db/redis"
	"github.com/residencia-nna/residencia-api/internal/pkg/config"
	"github.com/residencia-nna/residencia-api/pkg/logger"
)

const (
	serviceName     = "residencia-api"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		ClientName: serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to Redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing Redis client")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("could not create indexes")
	}

	userService := service.NewUserService(mongodb.NewUserRepository(db), service.AdminSeed{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Nombre:   cfg.Admin.Nombre,
	}, log)
	if err := userService.EnsureAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not seed the root administrator")
	}

	e := api.NewRouter(db, rdb, cfg)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// ensureIndexes creates every collection index the repositories rely on,
// including the partial unique index that deduplicates open alerts.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexers := []interface {
		EnsureIndexes(context.Context) error
	}{
		mongodb.NewUserRepository(db),
		mongodb.NewNNARepository(db),
		mongodb.NewIntervencionRepository(db),
		mongodb.NewTallerRepository(db),
		mongodb.NewSeguimientoRepository(db),
		mongodb.NewAlertaRepository(db),
		mongodb.NewMedidaRepository(db),
		mongodb.NewRestriccionRepository(db),
		mongodb.NewRedApoyoRepository(db),
		mongodb.NewPlanificacionRepository(db),
	}
	for _, idx := range indexers {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

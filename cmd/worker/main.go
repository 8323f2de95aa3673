package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/random-spot/internal/bootstrap"
	"github.com/random-spot/internal/config"
	"github.com/random-spot/internal/domain/repository"
	"github.com/random-spot/internal/pkg/logger"
	"github.com/random-spot/internal/repository/cache"
	"github.com/random-spot/internal/repository/postgres"
	"github.com/random-spot/internal/repository/postgresosm"
	redisRepo "github.com/random-spot/internal/repository/redis"
	"github.com/random-spot/internal/sampler"
	"github.com/random-spot/internal/usecase"
	"github.com/random-spot/internal/worker"
	"github.com/random-spot/internal/worker/spot"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Random Spot Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("boundaries_source", cfg.Boundaries.Source),
		zap.String("roads_provider", cfg.Roads.Provider))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Connect to OSM PostgreSQL (только для источников osm)
	var osmDB *postgresosm.DB
	if cfg.UsesOSMDatabase() {
		osmDB, err = postgresosm.New(&cfg.OSMDB, log)
		if err != nil {
			log.Fatal("Failed to connect to OSM PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := osmDB.Close(); err != nil {
				log.Error("Failed to close OSM PostgreSQL connection", zap.Error(err))
			}
		}()
	}

	// 5. Connect to history PostgreSQL
	var spotRepo repository.SpotRepository
	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		spotRepo = postgres.NewSpotRepository(db)
	}

	// 6. Initialize repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	regionRepo, err := bootstrap.RegionRepository(cfg, osmDB, cacheRepo, log)
	if err != nil {
		log.Fatal("Failed to initialize boundaries source", zap.Error(err))
	}
	roadRepo, err := bootstrap.RoadRepository(cfg, osmDB, log)
	if err != nil {
		log.Fatal("Failed to initialize roads provider", zap.Error(err))
	}

	// 7. Initialize use cases
	regionUC := usecase.NewRegionUseCase(regionRepo, log)
	roadUC := usecase.NewRoadUseCase(roadRepo, cacheRepo, cfg.Roads, cfg.Cache.RoadsCacheTTL, log)
	spotUC := usecase.NewSpotUseCase(
		regionUC,
		sampler.New(sampler.WithMaxAttempts(cfg.Sampler.MaxAttempts)),
		roadUC,
		spotRepo,
		log,
	)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := regionUC.Load(loadCtx); err != nil {
		log.Error("Failed to load boundaries at startup", zap.Error(err))
	}
	loadCancel()

	// 8. Initialize workers
	spotWorker := spot.NewSpotWorker(
		streamRepo,
		spotUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)

	// 9. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(spotWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 10. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Сначала даем воркеру закончить текущий batch, затем отменяем контекст
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}

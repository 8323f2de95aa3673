package main

// @title Random Spot API
// @version 1.0.0
// @description Сервис генерации случайных точек внутри границ стран и территорий.
// @description
// @description Основные возможности:
// @description - Каталог регионов (GeoJSON, shapefile или OSM PostGIS) с группировкой по статусу
// @description - Точка, равномерно распределенная по площади региона (rejection sampling по bbox)
// @description - Выбор региона пропорционально площади среди нескольких или всех регионов
// @description - Ближайшая дорога к точке (Overpass API или OSM PostGIS)
// @description - GeoJSON слой для карты, история точек и статистика

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/random-spot/docs"
	"github.com/random-spot/internal/bootstrap"
	"github.com/random-spot/internal/config"
	httpDelivery "github.com/random-spot/internal/delivery/http"
	"github.com/random-spot/internal/delivery/http/handler"
	"github.com/random-spot/internal/domain/repository"
	"github.com/random-spot/internal/pkg/logger"
	"github.com/random-spot/internal/repository/cache"
	"github.com/random-spot/internal/repository/postgres"
	"github.com/random-spot/internal/repository/postgresosm"
	"github.com/random-spot/internal/sampler"
	"github.com/random-spot/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Random Spot API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("boundaries_source", cfg.Boundaries.Source),
		zap.String("roads_provider", cfg.Roads.Provider),
		zap.Bool("history_enabled", cfg.Database.Enabled),
	)

	checks := make(map[string]handler.HealthCheck)

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
	checks["redis"] = redisClient.Health

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
		checks["osm_db"] = osmDB.Health
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

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = db.EnsureSchema(ctx)
		cancel()
		if err != nil {
			log.Fatal("Failed to ensure history schema", zap.Error(err))
		}

		spotRepo = postgres.NewSpotRepository(db)
		checks["postgres"] = db.Health
	}

	// 6. Initialize Repositories
	cacheRepo := cache.NewCacheRepository(redisClient)

	regionRepo, err := bootstrap.RegionRepository(cfg, osmDB, cacheRepo, log)
	if err != nil {
		log.Fatal("Failed to initialize boundaries source", zap.Error(err))
	}

	roadRepo, err := bootstrap.RoadRepository(cfg, osmDB, log)
	if err != nil {
		log.Fatal("Failed to initialize roads provider", zap.Error(err))
	}

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	regionUC := usecase.NewRegionUseCase(regionRepo, log)
	roadUC := usecase.NewRoadUseCase(roadRepo, cacheRepo, cfg.Roads, cfg.Cache.RoadsCacheTTL, log)
	spotUC := usecase.NewSpotUseCase(
		regionUC,
		sampler.New(sampler.WithMaxAttempts(cfg.Sampler.MaxAttempts)),
		roadUC,
		spotRepo,
		log,
	)
	statsUC := usecase.NewStatsUseCase(spotRepo, cacheRepo, cfg.Cache.StatsCacheTTL, log)

	// Набор границ загружается один раз при старте; ошибка не фатальна, загрузка повторится при запросе
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := regionUC.Load(loadCtx); err != nil {
		log.Error("Failed to load boundaries at startup", zap.Error(err))
	}
	loadCancel()

	log.Info("Use cases initialized", zap.Int("regions", regionUC.Count()))

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, httpDelivery.Handlers{
		Region: handler.NewRegionHandler(regionUC, log),
		Spot:   handler.NewSpotHandler(spotUC, log),
		Road:   handler.NewRoadHandler(roadUC, log),
		Stats:  handler.NewStatsHandler(statsUC, log),
		Health: handler.NewHealthHandler(regionUC, checks, log),
	})

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mansoorceksport/restshop/internal/config"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/logging"
	"github.com/mansoorceksport/restshop/internal/repository"
	"github.com/mansoorceksport/restshop/internal/server"
	"github.com/mansoorceksport/restshop/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logging.Setup(cfg.Server)

	log.Info("starting rest-shop",
		"upload_backend", cfg.Upload.Backend,
		"upload_root", cfg.Upload.Root,
		"max_upload", humanize.IBytes(uint64(cfg.Upload.MaxBytes)),
	)

	ctx := context.Background()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.ConfigFrom(cfg.OTEL))
	if err != nil {
		log.Warn("failed to initialize OpenTelemetry", "err", err)
	}
	if otelProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			otelProvider.Shutdown(shutdownCtx)
		}()
	}

	// Connect to MongoDB with OpenTelemetry instrumentation
	ctxMongo, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoOpts := options.Client().ApplyURI(cfg.MongoDB.URI)
	if cfg.OTEL.Enabled {
		mongoOpts.SetMonitor(otelmongo.NewMonitor())
	}

	mongoClient, err := mongo.Connect(ctxMongo, mongoOpts)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "err", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("error disconnecting from MongoDB", "err", err)
		}
	}()

	if err := mongoClient.Ping(ctxMongo, nil); err != nil {
		log.Fatal("failed to ping MongoDB", "err", err)
	}
	log.Info("MongoDB connected", "database", cfg.MongoDB.Database)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("failed to connect to Redis", "err", err)
	}
	log.Info("Redis connected", "addr", cfg.Redis.Addr)

	fileStore, err := newFileStore(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize upload storage", "backend", cfg.Upload.Backend, "err", err)
	}

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     mongoClient.Database(cfg.MongoDB.Database),
		RedisClient: redisClient,
		FileStore:   fileStore,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("shutting down gracefully")
		app.Shutdown()
	}()

	log.Info("server starting", "port", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("failed to start server", "err", err)
	}
}

// newFileStore picks the product image backend named by UPLOAD_BACKEND
func newFileStore(ctx context.Context, cfg *config.Config) (domain.FileStore, error) {
	switch cfg.Upload.Backend {
	case config.BackendS3:
		store, err := repository.NewS3FileStore(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMinIO:
		store, err := repository.NewMinIOFileStore(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		if err := os.MkdirAll(cfg.Upload.Root, 0o755); err != nil {
			return nil, err
		}
		return repository.NewDiskFileStore(afero.NewOsFs()), nil
	}
}

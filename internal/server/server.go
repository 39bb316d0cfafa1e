package server

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/restshop/internal/config"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/handler"
	"github.com/mansoorceksport/restshop/internal/middleware"
	"github.com/mansoorceksport/restshop/internal/repository"
	"github.com/mansoorceksport/restshop/internal/service"
	"github.com/mansoorceksport/restshop/internal/telemetry"
	"github.com/mansoorceksport/restshop/internal/upload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const idempotencyTTL = 24 * time.Hour

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	FileStore   domain.FileStore
	// Metrics receives the HTTP collectors and backs /metrics. A fresh registry is used when nil.
	Metrics *prometheus.Registry
}

// repositories are the persistence ports the routes are built on
type repositories struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	users    domain.UserRepository
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	return newApp(deps, repositories{
		products: repository.NewMongoProductRepository(deps.MongoDB),
		orders:   repository.NewMongoOrderRepository(deps.MongoDB),
		users:    repository.NewMongoUserRepository(deps.MongoDB),
	})
}

func newApp(deps AppDependencies, repos repositories) *fiber.App {
	cfg := deps.Config

	// Product reads go through Redis
	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)
	productRepo := repository.NewCachedProductRepository(repos.products, cacheRepo)

	// Initialize services
	ingestor := upload.NewIngestor(upload.Config{
		UploadRoot:         cfg.Upload.Root,
		MaxBytes:           cfg.Upload.MaxBytes,
		AcceptedMediaTypes: cfg.Upload.AcceptedMediaTypes,
	}, deps.FileStore)
	productService := service.NewProductService(productRepo, ingestor, deps.FileStore, cfg.Upload.RejectedPolicy)
	orderService := service.NewOrderService(repos.orders, productRepo)
	tokenService := service.NewTokenService(cfg.JWT)
	authService := service.NewAuthService(repos.users, tokenService, 0)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService, cfg.Server.BaseURL)
	orderHandler := handler.NewOrderHandler(orderService, cfg.Server.BaseURL)
	userHandler := handler.NewUserHandler(authService)
	fileHandler := handler.NewFileHandler(deps.FileStore, cfg.Upload.Root)

	// The body limit sits above the upload ceiling so oversized images reach the size limiter
	app := fiber.New(fiber.Config{
		AppName:      "rest-shop",
		BodyLimit:    int(cfg.Server.BodyLimitMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	reg := deps.Metrics
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:request_id} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "PUT, POST, PATCH, DELETE, GET",
	}))
	app.Use(telemetry.FiberMiddleware())
	if prom, err := middleware.NewPrometheusMiddleware(reg); err != nil {
		log.Warn("HTTP metrics disabled", "err", err)
	} else {
		app.Use(prom.Handler())
	}

	app.Get("/health", healthHandler(deps))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Stored product images
	app.Get("/uploads/*", fileHandler.ServeFile)

	requireAuth := middleware.RequireAuth(cfg.JWT.Secret)

	products := app.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", requireAuth, productHandler.CreateProduct)
	products.Get("/:productId", productHandler.GetProduct)
	products.Patch("/:productId", requireAuth, productHandler.PatchProduct)
	products.Delete("/:productId", requireAuth, productHandler.DeleteProduct)

	orders := app.Group("/orders", requireAuth, middleware.IdempotencyMiddleware(deps.RedisClient, idempotencyTTL))
	orders.Get("/", orderHandler.ListOrders)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:orderId", orderHandler.GetOrder)
	orders.Delete("/:orderId", orderHandler.DeleteOrder)

	user := app.Group("/user")
	user.Post("/signup", userHandler.Signup)
	user.Post("/login", userHandler.Login)
	user.Delete("/:userId", requireAuth, userHandler.DeleteUser)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	return app
}

// healthHandler pings MongoDB and Redis concurrently
func healthHandler(deps AppDependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)
		if deps.MongoDB != nil {
			g.Go(func() error {
				return deps.MongoDB.Client().Ping(ctx, nil)
			})
		}
		g.Go(func() error {
			return deps.RedisClient.Ping(ctx).Err()
		})

		if err := g.Wait(); err != nil {
			log.Warn("health check failed", "err", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "unhealthy",
				"service": "rest-shop",
			})
		}
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "rest-shop",
		})
	}
}

// customErrorHandler renders {"error": {"message": ...}}. Only *fiber.Error
// messages reach the client; anything else is logged and reported generically.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Error("request failed",
			"request_id", c.Locals(middleware.RequestIDLocalKey),
			"method", c.Method(),
			"path", c.Path(),
			"err", err,
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"message": message,
		},
	})
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	archiveconfig "motive-archive/internal/archive/config"
	authconfig "motive-archive/internal/auth/config"
	"motive-archive/internal/di"
	mediaconfig "motive-archive/internal/media/config"
	"motive-archive/internal/notify"
	searchconfig "motive-archive/internal/search/config"
	"motive-archive/internal/shared/logger"
)

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Host         string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port         string `env:"SERVER_PORT" envDefault:"3000"`
	MongoURI     string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"motive_archive"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Motive Archive starting")

	authCfg, err := authconfig.LoadAuthConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}
	archiveCfg, err := archiveconfig.LoadArchiveConfig()
	if err != nil {
		log.Fatalf("Failed to load archive configuration: %v", err)
	}
	searchCfg, err := searchconfig.LoadSearchConfig()
	if err != nil {
		log.Fatalf("Failed to load search configuration: %v", err)
	}
	mediaCfg, err := mediaconfig.LoadMediaConfig()
	if err != nil {
		log.Fatalf("Failed to load media configuration: %v", err)
	}
	notifyCfg, err := notify.LoadNotifyConfig()
	if err != nil {
		log.Fatalf("Failed to load notify configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(serverCfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	appLogger.Info("MongoDB connection established")

	mongoDB := mongoClient.Database(serverCfg.DatabaseName)

	redisClient := archiveconfig.NewRedisClient(archiveCfg)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Warnf("Redis unreachable, activity feed disabled: %v", err)
		redisClient = nil
	} else {
		appLogger.Info("Redis connection established")
		defer redisClient.Close()
	}

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	container.InitializeInfrastructure(mongoDB, redisClient)
	if err := container.InitializeAuth(ctx, authCfg); err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}
	if err := container.InitializeArchive(archiveCfg); err != nil {
		log.Fatalf("Failed to initialize archive module: %v", err)
	}
	if err := container.InitializeSearch(searchCfg); err != nil {
		log.Fatalf("Failed to initialize search module: %v", err)
	}
	if err := container.InitializeMedia(mediaCfg); err != nil {
		log.Fatalf("Failed to initialize media module: %v", err)
	}
	if err := container.InitializeNotify(notifyCfg); err != nil {
		log.Fatalf("Failed to initialize notifications: %v", err)
	}
	appLogger.Info("All modules initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Motive Archive API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    mediaCfg.MaxUploadBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appLogger.Errorf("HTTP error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
		})
	})

	api := app.Group("/api/v1")
	protect := container.AuthModule.Middleware().Protect()
	requireAdmin := container.AuthModule.Middleware().RequireAdmin()

	container.AuthModule.RegisterRoutes(api)
	container.ArchiveModule.RegisterRoutes(api, protect)
	container.SearchModule.RegisterRoutes(api, protect)
	container.MediaModule.RegisterRoutes(api, protect, requireAdmin)
	container.ArchiveModule.RegisterWebSocket(app)
	appLogger.Info("Routes registered")

	serverAddr := serverCfg.Host + ":" + serverCfg.Port
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}

	appLogger.Info("Motive Archive stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procurement-app/config"
	"procurement-app/controllers"
	"procurement-app/controllers/idgen"
	"procurement-app/database"
	"procurement-app/middleware"
	"procurement-app/migration"
	"procurement-app/procurement/allocation"
	"procurement-app/routes"
	"procurement-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	if err := config.InitLogger(); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	logger := config.Log
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	if err := idgen.Init(config.SnowflakeNode); err != nil {
		logger.Fatal("Failed to init id generator", zap.Error(err))
	}

	if err := database.EnsureDatabaseExists(config.DBName); err != nil {
		logger.Fatal("Failed to prepare master database", zap.Error(err))
	}
	mainDB, err := database.OpenMasterDB()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := migration.Migrate(mainDB); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}
	if err := database.SeedUnit(mainDB); err != nil {
		logger.Fatal("Failed to register unit", zap.Error(err))
	}
	if _, err := database.PrepareUnit(config.DBUnit); err != nil {
		logger.Fatal("Failed to prepare unit database", zap.Error(err))
	}
	defer database.CloseAll()

	deps := routes.Deps{
		Notifier: services.NopNotifier{},
		Memo:     allocation.NewMemo(4096),
		Logger:   logger,
	}

	if config.InventoryAPIURL != "" {
		var cache *redis.Client
		if config.RedisAddr != "" {
			cache = redis.NewClient(&redis.Options{
				Addr:     config.RedisAddr,
				Password: config.RedisPassword,
				DB:       config.RedisDB,
			})
			defer cache.Close()
			if err := cache.Ping(context.Background()).Err(); err != nil {
				logger.Warn("Redis unavailable, stock cache disabled", zap.Error(err))
				cache = nil
			}
		}
		deps.RemoteStock = services.NewRemoteStockProvider(config.InventoryAPIURL, config.InventoryAPITimeout, cache, config.StockCacheTTL, logger)
		logger.Info("Using remote inventory service", zap.String("url", config.InventoryAPIURL))
	}

	switch {
	case config.SendGridAPIKey != "":
		deps.Notifier = services.NewSendGridNotifier(config.SendGridAPIKey, config.SMTPFrom, config.ApprovalNotifyTo)
	case config.SMTPHost != "":
		deps.Notifier = services.NewMailNotifier(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword, config.SMTPFrom, config.ApprovalNotifyTo)
	}

	if config.MinioEndpoint != "" {
		store, err := services.NewMinioReceiptStore(config.MinioEndpoint, config.MinioAccessKey, config.MinioSecretKey, config.MinioBucket, config.MinioUseSSL)
		if err != nil {
			logger.Fatal("Failed to init receipt store", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("Receipt bucket check failed", zap.Error(err))
		}
		cancel()
		deps.Receipts = store
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: controllers.ErrorHandler,
		BodyLimit:    config.MaxReceiptSize + 1<<20,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	config.SetupCORS(app)

	routes.SetupRoutes(app, deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", config.APP_PORT))
	if err := app.Listen(":" + config.APP_PORT); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

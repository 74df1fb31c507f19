package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog_service/config"
	"catalog_service/internal/clients"
	"catalog_service/internal/delivery"
	grpcdelivery "catalog_service/internal/delivery/grpc"
	"catalog_service/internal/domain"
	"catalog_service/internal/repository"
	"catalog_service/internal/seed"
	"catalog_service/internal/usecase"
	"catalog_service/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)
	configureLogger(logger, cfg)
	gin.SetMode(cfg.GinMode)

	logger.Info("Starting Catalog Service...")

	// --- Dependency Injection ---
	deps := delivery.RouterDeps{}
	var source domain.ProductSource
	var cleanup func()

	if cfg.StorefrontOnly() {
		source = clients.NewCatalogHTTPClient(cfg.BackendURL, cfg.BackendTimeout, logger)
		cleanup = func() {}
		logger.Infof("Storefront reads products from %s", cfg.BackendURL)
	} else {
		repo, closeRepo, err := openRepository(cfg, logger)
		if err != nil {
			log.Fatalf("FATAL: Failed to open %s storage: %v", cfg.StorageDriver, err)
		}
		cleanup = closeRepo
		logger.Info("Repository initialized.")

		seedProducts, err := seed.Products()
		if err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		catalog := usecase.NewCatalog(repo, seedProducts, logger)
		if err := catalog.Load(context.Background()); err != nil {
			log.Fatalf("FATAL: Failed to load catalog: %v", err)
		}
		source = catalog

		if cfg.AdminEnabled() {
			deps.Products = usecase.NewProductUseCase(catalog, logger)
			deps.Categories = usecase.NewCategoryUseCase(catalog, logger)
			deps.Auth = usecase.NewAuthUseCase(usecase.AuthSettings{
				AdminEmail:        cfg.AdminEmail,
				AdminPasswordHash: cfg.AdminPasswordHash,
				JWTSecret:         cfg.JWTSecret,
				TokenTTL:          cfg.JWTTTL,
			}, logger)
		}
	}
	defer cleanup()

	deps.Storefront = usecase.NewStorefrontUseCase(source, logger)
	logger.Info("Use cases initialized.")

	router := delivery.NewRouter(deps, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcdelivery.RegisterStorefrontServer(grpcServer, grpcdelivery.NewStorefrontHandler(deps.Storefront, logger))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		log.Fatalf("FATAL: Failed to listen on gRPC port %s: %v", cfg.GrpcPort, err)
	}

	go func() {
		logger.Infof("gRPC server listening on %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Errorf("gRPC server stopped: %v", err)
		}
	}()

	go func() {
		logger.Infof("Starting HTTP server on port %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down Catalog Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Catalog Service stopped.")
}

func configureLogger(logger *logrus.Logger, cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.LogFile != "" {
		logger.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}))
	}
}

func openRepository(cfg *config.Config, logger *logrus.Logger) (domain.CatalogRepository, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		client, err := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("Connected to Redis at %s", cfg.RedisAddr)
		return repository.NewRedisCatalogRepository(client, logger), func() { client.Close() }, nil

	case config.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.EnsurePostgresSchema(ctx, database); err != nil {
			database.Close()
			return nil, nil, err
		}
		logger.Info("Database connection established.")
		return repository.NewPostgresCatalogRepository(database, logger), func() { database.Close() }, nil

	case config.StorageMemory:
		logger.Warn("Using in-memory storage, changes are lost on restart")
		return repository.NewMemoryCatalogRepository(), func() {}, nil

	default:
		boltDB, err := repository.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("Opened bolt storage at %s", cfg.BoltPath)
		return repository.NewBoltCatalogRepository(boltDB, logger), func() { boltDB.Close() }, nil
	}
}

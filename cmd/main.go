package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/immxrtalbeast/basha_lagbe/internal/api/http"
	"github.com/immxrtalbeast/basha_lagbe/internal/config"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
	"github.com/immxrtalbeast/basha_lagbe/internal/storage"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/slogpretty"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	if cfg.Auth.JWTSecret == "" {
		log.Error("jwt secret is empty")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := setupStore(ctx, cfg.Store, log)
	if err != nil {
		log.Error("failed to set up store", sl.Err(err))
		os.Exit(1)
	}
	defer closeStore()

	broker, err := setupBroker(ctx, cfg.PubSub, log)
	if err != nil {
		log.Error("failed to set up pubsub", sl.Err(err))
		os.Exit(1)
	}
	defer broker.Close()

	images, err := setupStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to set up object storage", sl.Err(err))
		os.Exit(1)
	}

	notifier := service.NewNotifier(broker, log)
	authService := service.NewAuthService(store.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	userService := service.NewUserService(store.Users, log)
	listingService := service.NewListingService(store.Listings, store.LeaseRequests, images, cfg.Storage.MaxUploadSize, log)
	bookingService := service.NewBookingService(store, notifier, log)
	leaseService := service.NewLeaseService(store.LeaseRequests, store.Listings, store.Users, bookingService, notifier, log)
	chatService := service.NewChatService(store, broker, notifier, log)
	communityService := service.NewCommunityService(store, log)

	if err := httpapi.RegisterValidators(); err != nil {
		log.Error("failed to register validators", sl.Err(err))
		os.Exit(1)
	}

	router := httpapi.SetupRouter(cfg.HTTP.AllowedOrigins, log, authService, httpapi.Controllers{
		Users:       httpapi.NewUserController(authService, userService, log),
		Listings:    httpapi.NewListingController(listingService, log),
		Leases:      httpapi.NewLeaseController(leaseService, bookingService, log),
		Chat:        httpapi.NewChatController(chatService, cfg.HTTP.AllowedOrigins, cfg.HTTP.StreamKeepAlive, log),
		Communities: httpapi.NewCommunityController(communityService, log),
	})

	go bookingService.Run(ctx, cfg.Booking.ReconcileInterval)

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("starting application", slog.String("addr", cfg.HTTP.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
	}
}

func setupStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (*repository.Store, func(), error) {
	switch cfg.Driver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return repository.NewInMemoryStore(), func() {}, nil
	case config.StoreDriverMongo:
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.MongoURI == "" {
		return nil, nil, errors.New("mongo uri is empty")
	}
	client, err := repository.NewMongoClient(ctx, cfg.MongoURI, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.Database)

	indexCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := repository.EnsureIndexes(indexCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info("connected to mongo", slog.String("database", cfg.Database))
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error("mongo disconnect failed", sl.Err(err))
		}
	}
	return repository.NewMongoStore(db), closeFn, nil
}

func setupBroker(ctx context.Context, cfg config.PubSubConfig, log *slog.Logger) (pubsub.Broker, error) {
	switch cfg.Driver {
	case config.PubSubDriverMemory:
		return pubsub.NewMemoryBroker(cfg.BufferSize), nil
	case config.PubSubDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		log.Info("connected to redis", slog.String("addr", cfg.Redis.Addr))
		return pubsub.NewRedisBroker(client, cfg.Redis.Prefix, cfg.BufferSize, log), nil
	}
	return nil, fmt.Errorf("unknown pubsub driver %q", cfg.Driver)
}

func setupStorage(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (storage.Storage, error) {
	if cfg.Endpoint == "" {
		log.Warn("object storage endpoint is empty, keeping images in memory")
		return storage.NewMemoryStorage("http://localhost", cfg.Bucket), nil
	}

	minioStorage, err := storage.NewMinIOStorage(cfg)
	if err != nil {
		return nil, err
	}
	if err := minioStorage.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return minioStorage, nil
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

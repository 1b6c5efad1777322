package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fundihub/fundihub-backend/api/routes"
	"github.com/fundihub/fundihub-backend/internal/auth"
	"github.com/fundihub/fundihub-backend/internal/bookings"
	"github.com/fundihub/fundihub-backend/internal/cart"
	"github.com/fundihub/fundihub-backend/internal/catalog"
	"github.com/fundihub/fundihub-backend/internal/chat"
	"github.com/fundihub/fundihub-backend/internal/media"
	"github.com/fundihub/fundihub-backend/internal/notifications"
	"github.com/fundihub/fundihub-backend/internal/orders"
	"github.com/fundihub/fundihub-backend/internal/providers"
	"github.com/fundihub/fundihub-backend/internal/rentals"
	"github.com/fundihub/fundihub-backend/internal/reviews"
	"github.com/fundihub/fundihub-backend/internal/roles"
	"github.com/fundihub/fundihub-backend/internal/support"
	"github.com/fundihub/fundihub-backend/internal/users"
	"github.com/fundihub/fundihub-backend/pkg/auth/session"
	"github.com/fundihub/fundihub-backend/pkg/config"
	"github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/logger"
	"github.com/fundihub/fundihub-backend/pkg/metrics"
	"github.com/fundihub/fundihub-backend/pkg/migrate"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
	"github.com/fundihub/fundihub-backend/pkg/pubsub"
	"github.com/fundihub/fundihub-backend/pkg/redis"
	"github.com/fundihub/fundihub-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	svcs, cleanup, err := buildServices(cfg, logg, dbClient, redisClient, gcsClient, sessionManager, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			pubsubClient,
			registry,
			httpMetrics,
			sessionManager,
			svcs,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown error", err)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	gcsClient *gcs.Client,
	sessionManager *session.Manager,
	outboxSvc *outbox.Service,
) (routes.Services, func(), error) {
	cleanup := func() {}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		ProviderRepo:   providers.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	usersService, err := users.NewService(dbClient)
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	providersService, err := providers.NewService(dbClient, outboxSvc)
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	rolesService, err := roles.NewService(dbClient)
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	catalogService, err := catalog.NewService(dbClient)
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	bookingsService, err := bookings.NewService(dbClient, bookings.NewSlotGrid(cfg.Booking), outboxSvc, cfg.Booking.MaxDaysAhead)
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    cart.NewStore(redisClient),
		Products: catalog.NewRepository(dbClient.DB()),
	})
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	ordersService, err := orders.NewService(orders.ServiceParams{
		DB:     dbClient,
		Carts:  cartService,
		Outbox: outboxSvc,
		Logger: logg,
	})
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	rentalsService, err := rentals.NewService(dbClient, outboxSvc)
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	reviewsService, err := reviews.NewService(dbClient, outboxSvc)
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	chatService, err := chat.NewService(chat.ServiceParams{
		DB:        dbClient,
		Outbox:    outboxSvc,
		Publisher: redisClient,
		Logger:    logg,
	})
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	notificationsService, err := notifications.NewService(dbClient)
	if err != nil {
		return routes.Services{}, cleanup, err
	}
	mediaService, err := media.NewService(dbClient, gcsClient, cfg.GCS.BucketName, cfg.GCS.UploadURLExpiry, cfg.GCS.DownloadURLExpiry)
	if err != nil {
		return routes.Services{}, cleanup, err
	}

	var supportService support.Service
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := support.NewGeminiClient(context.Background(), cfg.Gemini)
		if err != nil {
			return routes.Services{}, cleanup, err
		}
		cleanup = func() {
			if err := geminiClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing gemini client", err)
			}
		}
		supportService, err = support.NewService(geminiClient)
		if err != nil {
			return routes.Services{}, cleanup, err
		}
	} else {
		logg.Warn(context.Background(), "gemini api key not set, support chat disabled")
	}

	return routes.Services{
		Auth:          authService,
		Register:      registerService,
		Users:         usersService,
		Providers:     providersService,
		Roles:         rolesService,
		Catalog:       catalogService,
		Bookings:      bookingsService,
		Cart:          cartService,
		Orders:        ordersService,
		Rentals:       rentalsService,
		Reviews:       reviewsService,
		Chat:          chatService,
		ChatHub:       chat.NewHub(redisClient, logg),
		Notifications: notificationsService,
		Media:         mediaService,
		Support:       supportService,
	}, cleanup, nil
}

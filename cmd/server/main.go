package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/founderbridge/backend/internal/cache"
	"github.com/founderbridge/backend/internal/config"
	"github.com/founderbridge/backend/internal/dashboard"
	"github.com/founderbridge/backend/internal/db"
	"github.com/founderbridge/backend/internal/goroutine"
	httpHandlers "github.com/founderbridge/backend/internal/http/handlers"
	"github.com/founderbridge/backend/internal/http/middleware"
	httpRouter "github.com/founderbridge/backend/internal/http/router"
	"github.com/founderbridge/backend/internal/identity"
	"github.com/founderbridge/backend/internal/intent"
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/repository"
	"github.com/founderbridge/backend/internal/service"
	"github.com/founderbridge/backend/internal/session"
	"github.com/founderbridge/backend/internal/storage"
	"github.com/founderbridge/backend/internal/ws"
)

// documentStore — всё, что от хранилища нужно сервисам и привязке аккаунтов.
type documentStore interface {
	service.DocumentStore
	identity.AccountStore
	Ping(ctx context.Context) error
}

const memoryDatabaseURL = "memory"

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}
	logger.Init(cfg.Env)
	logr := logger.Get()

	healthChecks := map[string]httpHandlers.HealthCheck{}

	// Хранилище документов.
	var store documentStore
	if cfg.DatabaseURL == memoryDatabaseURL {
		logr.Warn("main: используется хранилище в памяти, данные не переживут перезапуск")
		store = repository.NewMemoryDocumentRepository()
	} else {
		dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logr.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logr.Errorf("main: ошибка закрытия базы: %v", err)
			}
		}()

		if err := db.RunMigrations(ctx, dbConn, os.DirFS(cfg.MigrationsPath)); err != nil {
			logr.Fatalf("main: ошибка миграций: %v", err)
		}
		store = repository.NewDocumentRepository(dbConn)
	}
	healthChecks["database"] = store.Ping

	// Выбранная роль: Redis переживает перезапуски, память — для разработки.
	var (
		intents     intent.Store
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient, err = db.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logr.Fatalf("main: ошибка подключения к redis: %v", err)
		}
		defer redisClient.Close()

		intents = intent.NewRedisStore(redisClient, cfg.Identity.ProjectID, cfg.IntentTTL)
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		intents = intent.NewMemoryStore()
	}

	rateStore, err := middleware.NewRateLimitStore(redisClient, cfg.Identity.ProjectID)
	if err != nil {
		logr.Fatalf("main: %v", err)
	}

	photos, err := storage.NewPhotoStorage(cfg.Identity.StorageBucket, cfg.MaxUploadSizeMB)
	if err != nil {
		logr.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Push-канал во вкладки.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, "ws.hub", hub.Run)
	notifier := ws.NewNotifier(hub)

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.Identity.AppID, cfg.AccessTokenTTL, cfg.OAuthStateTTL)
	shared := cache.New(ctx)

	// Вход и наблюдение за состоянием сессий.
	broker := identity.NewBroker()
	provider := identity.NewGitHubProvider(cfg.Identity.ClientID, cfg.Identity.ClientSecret, cfg.Identity.CallbackURL())
	gateway := identity.NewGateway(provider, tokens, store, broker, shared, notifier)

	observer := session.NewObserver(broker, intents, tokens, ws.NewNavigator(hub))
	goroutine.SafeGoWithContext(ctx, "session.observer", func(ctx context.Context) {
		if err := observer.Run(ctx); err != nil {
			logr.WithError(err).Error("main: наблюдатель сессий остановлен")
		}
	})
	completer := session.NewRedirectCompleter(gateway, intents, tokens)
	healthChecks["session_observer"] = broker.Ping

	// Сервисы.
	profileService := service.NewProfileService(store)
	listingService := service.NewListingService(store)
	applicationService := service.NewApplicationService(store, listingService)
	dashboards := dashboard.NewService(profileService, listingService, applicationService, shared, notifier)

	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Health:       httpHandlers.NewHealthHandler(healthChecks),
		Intent:       httpHandlers.NewIntentHandler(intents),
		Auth:         httpHandlers.NewAuthHandler(gateway, observer, completer, cfg.FrontendURL),
		Signup:       httpHandlers.NewSignupHandler(profileService, observer, tokens),
		Dashboard:    httpHandlers.NewDashboardHandler(dashboards, dashboard.NewMounts()),
		Listing:      httpHandlers.NewListingHandler(listingService),
		Application:  httpHandlers.NewApplicationHandler(applicationService),
		Media:        httpHandlers.NewMediaHandler(photos, profileService),
		WS:           httpHandlers.NewWSHandler(hub, observer, cfg.AllowedOrigins),
		MediaRoot:    photos.Root(),
		RateLimiter:  rateStore,
		AccessTokens: tokens,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logr.Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"identity-web-server/config"
	_ "identity-web-server/docs"
	"identity-web-server/internal/handler"
	"identity-web-server/internal/metrics"
	"identity-web-server/internal/notifier"
	"identity-web-server/internal/provider"
	"identity-web-server/internal/repository"
	"identity-web-server/internal/security"
	"identity-web-server/internal/service"
)

// @title Identity-web-server
// @version 1.0
// @description Мультитенантный identity-сервис: OAuth-логин, ротация refresh-токенов, push-уведомления

// @host localhost:8080

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	gracePeriod, err := security.ParseLifetime(cfg.JWT.RotationGracePeriod)
	if err != nil {
		log.Fatalf("Некорректный rotation_grace_period: %v", err)
	}

	srv, router := config.SetupServer(cfg.ServerAddr)

	appRepo := repository.NewAppRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	pushRepo := repository.NewPushRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.AppCache)*time.Second)

	jwtService := security.NewJWTService(&cfg.JWT)
	appResolver := service.NewAppResolver(appRepo, cacheRepo)
	webhookNotifier := notifier.NewWebhookNotifier(&cfg.Webhook)
	fcmSender := notifier.NewFCMSender(&cfg.Push)

	rotationEngine := service.NewRotationService(tokenRepo, jwtService, appResolver, userRepo, webhookNotifier, gracePeriod)
	authService := service.NewAuthenticationService(appResolver, userRepo, rotationEngine, provider.NewOAuthProvider)
	pushService := service.NewPushService(pushRepo, fcmSender)

	authHandler := handler.NewAuthenticationHandler(authService)
	pushHandler := handler.NewPushHandler(pushService)
	authMiddleware := handler.NewAuthMiddleware(jwtService, appResolver)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	setupAuthRoutes(router, authHandler)
	setupPushRoutes(router, pushHandler, authMiddleware)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/oauth", h.OAuthLogin)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
	})
}

func setupPushRoutes(r chi.Router, h *handler.PushHandler, middleware *handler.AuthMiddleware) {
	r.Route("/api/push", func(r chi.Router) {
		r.Use(middleware.Handle)

		r.Route("/devices", func(r chi.Router) {
			r.Post("/", h.RegisterDevice)
			r.Get("/", h.ListDevices)
			r.Delete("/{id}", h.DeactivateDevice)
		})

		r.Post("/send", h.SendPush)

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.ListAlerts)
			r.Get("/{id}", h.GetAlert)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}

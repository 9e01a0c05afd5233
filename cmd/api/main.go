package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/cache"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/config"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/db"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/leads"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/middleware"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/notes"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/notifications"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/transport"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisCache.Close()
		logger.Info("redis connected", slog.Duration("ttl", cfg.CacheTTL()))
		cacheStore = redisCache
	}

	var notifier leads.Notifier
	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.ReminderNotifyEmail, cfg.BrevoSandbox, cfg.Timezone)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
		notifier = mailer
	}

	val := validation.New()

	leadsRepo := leads.NewRepository(cols.Leads)
	leadsService := leads.NewService(leadsRepo, cacheStore, cfg.CacheTTL(), cfg.Timezone, notifier, logger)
	leadsHandler := leads.NewHandler(leadsService, val, logger, cfg.ImportMaxBytes)

	notesRepo := notes.NewRepository(cols.Notes)
	notesService := notes.NewService(notesRepo, cfg.Timezone)
	notesHandler := notes.NewHandler(notesService, val, logger)

	importLimiter := middleware.NewRateLimiter(cfg.RateLimitImport, cfg.RateLimitWindow())

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthz(client))
	r.Handle("/metrics", promhttp.Handler())

	registerRoutes := func(api chi.Router) {
		leadsHandler.Routes(api, importLimiter.Middleware)
		notesHandler.Routes(api)
	}

	// /api is kept as an alias of /api/v1 for older clients.
	r.Route("/api", registerRoutes)
	r.Route("/api/v1", registerRoutes)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env), slog.String("tz", cfg.Timezone.String()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}

func healthz(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx, nil); err != nil {
			transport.WriteErrorCode(w, http.StatusServiceUnavailable, transport.CodeStoreUnavailable, "store unavailable", nil)
			return
		}
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

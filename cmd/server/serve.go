package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jrc-server/internal/api"
	"jrc-server/internal/config"
	"jrc-server/internal/messaging"
	"jrc-server/internal/prompts"
	"jrc-server/internal/replay"
	"jrc-server/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// --- State ---
	backend, err := openStateBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.close()

	store := service.NewSessionStore(backend.repo, cfg.HistoryLimit, log)
	store.Restore(ctx)

	// --- AI ---
	catalog, err := prompts.Load(log)
	if err != nil {
		return err
	}
	aiClient, err := service.NewAIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	generator := service.NewPlanGenerator(aiClient, catalog, service.PlanGeneratorConfig{
		Language:     cfg.PromptLanguage,
		QualityModel: cfg.AIModel,
		FastModel:    cfg.AIFastModel,
	}, log)

	// --- Events ---
	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rmq, err := messaging.ConnectRabbitMQ(ctx, cfg.RabbitMQURL, cfg.PlanEventsQueue, log)
		if err != nil {
			return err
		}
		publisher = rmq
	} else {
		log.Info("RABBITMQ_URL is not set, plan events are not published")
	}
	defer func() { _ = publisher.Close() }()

	replays := replay.NewRegistry(cfg.ReplayDuration, log)
	defer replays.Close()

	handler := api.NewPlanHandler(store, generator, replays, publisher, catalog, api.HandlerConfig{
		Language:        cfg.PromptLanguage,
		LoadingInterval: cfg.LoadingRotateInterval,
	}, log)

	// Лимиты в redis, если он уже поднят как хранилище состояния.
	rateStore := api.NewRateLimitStore(backend.redis, cfg.RateLimitPerMinute)

	// --- HTTP ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(api.ZapLoggingMiddleware(log))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	p := ginprometheus.NewPrometheus("gin")
	handler.RegisterRoutes(router, handler.RateLimitMiddleware(rateStore))
	p.Use(router)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		// WriteTimeout не задаём: генерация и WebSocket длятся дольше AI_TIMEOUT.
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting HTTP server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server forced to shutdown", zap.Error(err))
			return err
		}
		return nil
	})

	err = g.Wait()
	log.Info("Server exiting")
	return err
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	origins := cfg.GetCORSAllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	c.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	c.ExposeHeaders = []string{"X-Request-ID"}
	c.MaxAge = 12 * time.Hour
	return c
}

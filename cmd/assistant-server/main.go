package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"assistant-core/internal/channel"
	"assistant-core/internal/common/config"
	"assistant-core/internal/common/database"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/coordinator"
	"assistant-core/internal/executor"
	"assistant-core/internal/executors"
	"assistant-core/internal/health"
	"assistant-core/internal/intent"
	"assistant-core/internal/memory"
	"assistant-core/internal/resolver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "json")
		fallback.Fatal("failed to load configuration", zap.Error(err))
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("starting assistant-core", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	// Redis is optional; without it the service runs stateless.
	var memStore *memory.Store
	if cfg.Redis.Enabled {
		redisClient, err := connectRedisWithRetry(cfg.Redis, log)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, conversation memory disabled", nil)
		} else {
			defer redisClient.Close()
			memStore = memory.NewStore(
				redisClient.GetClient(),
				time.Duration(cfg.Memory.TTLSecs)*time.Second,
				cfg.Memory.Limit,
			)
		}
	}

	tieBreak := resolver.TieBreak(cfg.Directory.TieBreak)
	contacts := resolver.NewMatcher(cfg.Directory.Contacts, cfg.Directory.StripWords, tieBreak)
	apps := resolver.NewMatcher(cfg.Directory.Apps, cfg.Directory.StripWords, tieBreak)

	registry := executor.NewRegistry(map[intent.Category]executor.Executor{
		intent.Messaging:    executors.NewWhatsAppExecutor(contacts, log),
		intent.Email:        executors.NewEmailExecutor(contacts, log),
		intent.Calendar:     executors.NewCalendarExecutor(log),
		intent.Phone:        executors.NewPhoneExecutor(contacts, log),
		intent.Payment:      executors.NewPaymentExecutor(contacts, log),
		intent.AppLaunch:    executors.NewAppLaunchExecutor(apps, log),
		intent.WebSearch:    executors.NewWebSearchExecutor(log),
		intent.FileLookup:   executors.NewFileLookupExecutor(cfg.Executors.FileRoots, log),
		intent.Conversation: executors.NewConversationExecutor(memStore, log),
	})

	genai, err := intent.NewGenAIClient(
		cfg.Classifier.GenAIBaseURL,
		time.Duration(cfg.Classifier.TimeoutMS)*time.Millisecond,
	)
	if err != nil {
		zapLogger.Fatal("failed to build classifier client", zap.Error(err))
	}

	monitor := health.NewMonitor(
		cfg.Classifier.GenAIBaseURL,
		time.Duration(cfg.Health.IntervalSecs)*time.Second,
		time.Duration(cfg.Health.TimeoutMS)*time.Millisecond,
		log,
	)
	monitor.Start()
	defer monitor.Stop()

	classifier := intent.NewClassifier(genai, monitor, log)
	coord := coordinator.New(
		classifier,
		registry,
		memStore,
		time.Duration(cfg.Executors.TimeoutMS)*time.Millisecond,
		log,
	)

	srv := channel.NewServer(
		coord,
		cfg.Channel,
		time.Duration(cfg.Server.StatelessTimeoutSecs)*time.Second,
		registry.Names(),
		monitor,
		log,
	)
	srv.Start()
	defer srv.Stop()

	router := srv.Router()
	router.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived
	}

	go func() {
		log.Info("http server listening", map[string]interface{}{
			"addr": cfg.Server.Addr(),
		})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown did not complete cleanly", nil)
	}
	log.Info("stopped", nil)
}

// connectRedisWithRetry pings Redis a few times with backoff before
// giving up, so a slow container start does not kill the service.
func connectRedisWithRetry(cfg config.RedisConfig, log logger.Logger) (*database.RedisClient, error) {
	client, err := database.NewRedis(cfg)
	if err != nil {
		return nil, err
	}

	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		lastErr = client.Ping(ctx)
		cancel()
		if lastErr == nil {
			log.Info("redis connected", map[string]interface{}{
				"address": cfg.Address,
			})
			return client, nil
		}
		log.WithError(lastErr).Warn("redis ping failed, retrying", map[string]interface{}{
			"attempt": attempt,
		})
		time.Sleep(backoff)
		backoff *= 2
	}
	client.Close()
	return nil, lastErr
}

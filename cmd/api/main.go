package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BeenaAbe/dify-mental-health/internal/adapters/cache"
	"github.com/BeenaAbe/dify-mental-health/internal/adapters/database"
	"github.com/BeenaAbe/dify-mental-health/internal/adapters/events"
	"github.com/BeenaAbe/dify-mental-health/internal/adapters/snapshots"
	"github.com/BeenaAbe/dify-mental-health/internal/api/handlers"
	"github.com/BeenaAbe/dify-mental-health/internal/api/routes"
	"github.com/BeenaAbe/dify-mental-health/internal/application/services"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/catalog"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/providers"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/repositories"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/clients/dify"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/clients/postgres"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/clients/redis"
	"github.com/BeenaAbe/dify-mental-health/internal/infrastructure/observability"
	"github.com/BeenaAbe/dify-mental-health/pkg/config"
	"github.com/BeenaAbe/dify-mental-health/pkg/secrets"
)

func main() {
	// Pull secrets from Vault into the environment before reading config
	vaultCfg := secrets.LoadVaultConfigFromEnv("")
	if vaultCfg.Enabled {
		result, err := secrets.ApplyVaultSecrets(context.Background(), vaultCfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load secrets from Vault")
		} else {
			log.Info().Str("path", result.Path).Int("loaded", result.Loaded).Msg("Vault secrets applied")
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory snapshots")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Initialize PostgreSQL client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("PostgreSQL unavailable, completed sessions will not be archived")
		pgClient = nil
	} else {
		defer pgClient.Close()
	}

	// Snapshot store: Redis when available, in-memory otherwise
	var snapshotStore repositories.SessionSnapshotRepository
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider := cache.NewRedisAdapter(redisClient)
		snapshotStore = snapshots.NewRedisSnapshotStore(cacheProvider, cfg.Assessment.SnapshotTTL, metrics)
		eventBus = events.NewRedisEventBus(redisClient)
	} else {
		snapshotStore = snapshots.NewMemorySnapshotStore()
	}

	// Session archive: only when Postgres is up
	var archive repositories.SessionArchiveRepository
	if pgClient != nil {
		archive = database.NewSessionArchiveAdapter(pgClient)
	}

	// Assessment engine
	questionCatalog, err := catalog.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load question catalog")
	}

	weights := services.NewWeightTable(&cfg.Assessment)
	engine, err := services.NewProbabilityEngine(weights, services.InitialProbabilities())
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid diagnosis weight table")
	}

	riskMonitor := services.NewRiskMonitor(&cfg.Assessment)

	assessmentService := services.NewAssessmentService(
		questionCatalog,
		engine,
		riskMonitor,
		snapshotStore,
		archive,
		eventBus,
		metrics,
	)

	// Conversational assessment proxy
	var conversationHandler *handlers.ConversationHandler
	if cfg.Dify.APIKey != "" {
		difyClient, err := dify.NewClient(&cfg.Dify)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Dify client")
		} else {
			conversationHandler = handlers.NewConversationHandler(difyClient, cfg.Dify.DefaultUser)
			log.Info().Msg("Dify conversation proxy initialized")
		}
	}

	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)

	var eventsHandler *handlers.EventsHandler
	if eventBus != nil {
		eventsHandler = handlers.NewEventsHandler(eventBus)
	}

	// Set up router
	router := routes.NewRouter(assessmentHandler, conversationHandler, eventsHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}

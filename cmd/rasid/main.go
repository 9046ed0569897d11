package main

import (
	"context"

	"rasid/internal/assistant"
	"rasid/internal/audit"
	rasidconfig "rasid/internal/config"
	"rasid/internal/ratelimit"
	"rasid/internal/store"
	"rasid/pkg/auth"
	"rasid/pkg/config"
	"rasid/pkg/database"
	"rasid/pkg/kafka"
	"rasid/pkg/llm"
	"rasid/pkg/logging"
	"rasid/pkg/monitoring"
	"rasid/pkg/server"
	"rasid/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("rasid")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Rasid (Smart Assistant API)")

	cfg := rasidconfig.LoadConfig()

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer func() { _ = db.Close() }()

	llmConfig := llm.LoadConfig()

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("rasid", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("rasid", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("llm_gateway", monitoring.LLMGatewayHealthCheck(llmConfig.APIURL))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"JWT_SECRET":   cfg.JWTSecret,
	}))

	var auditProducer audit.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaClusterID, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to create audit Kafka producer - audit events stay database-only")
		} else {
			auditProducer = producer
			healthChecker.AddCheck("kafka", monitoring.KafkaProducerHealthCheck(producer.GetClient()))
			defer func() { _ = producer.Close() }()
		}
	} else {
		logger.Warn("KAFKA_BROKERS not set - audit events stay database-only")
	}
	auditLogger := audit.NewLogger(db, auditProducer, cfg.AuditKafkaTopic, logger)

	rateLimiter := ratelimit.NewRateLimiter(cfg.ChatRateLimitHour, cfg.RateLimitOverrides)
	rateLimiter.StartCleanup(context.Background())

	llmProvider, err := llm.NewProvider(llmConfig)
	if err != nil {
		logger.WithError(err).Warn("Failed to initialize LLM provider")
		llmProvider = nil
	}

	platformStore := store.NewStore(db)
	executor, err := assistant.NewExecutor(platformStore, logger)
	if err != nil {
		logger.WithError(err).Fatal("Tool registry validation failed")
	}
	orchestrator := assistant.NewOrchestrator(assistant.OrchestratorConfig{
		Provider:   llmProvider,
		Executor:   executor,
		Stats:      platformStore,
		Audit:      auditLogger,
		Logger:     logger,
		MaxRounds:  cfg.MaxToolRounds,
		MaxHistory: cfg.MaxHistoryMessages,
	})
	conversationStore := assistant.NewConversationStore(db)
	chatHandler := assistant.NewChatHandler(conversationStore, orchestrator, logger)

	// Setup router with unified monitoring (health/metrics only)
	router := server.SetupServiceRouter(logger, "rasid", healthChecker, metricsCollector)
	apiGroup := router.Group("/api/rasid")
	apiGroup.Use(auth.JWTAuthMiddleware([]byte(cfg.JWTSecret)))
	apiGroup.Use(ratelimit.Middleware(rateLimiter))
	assistant.RegisterRoutes(apiGroup, chatHandler)

	// Start HTTP server with graceful shutdown
	serverConfig := server.DefaultConfig("rasid", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}

package main

import (
	"github.com/Qualiasolutions/chainwise-advisor/internal/advisor"
	"github.com/Qualiasolutions/chainwise-advisor/internal/billing"
	"github.com/Qualiasolutions/chainwise-advisor/internal/config"
	"github.com/Qualiasolutions/chainwise-advisor/internal/docs"
	"github.com/Qualiasolutions/chainwise-advisor/internal/handlers"
	"github.com/Qualiasolutions/chainwise-advisor/internal/ledger"
	"github.com/Qualiasolutions/chainwise-advisor/internal/market"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/cache"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/clients"
	pkgconfig "github.com/Qualiasolutions/chainwise-advisor/pkg/config"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/database"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/kafka"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/llm"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/middleware"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/monitoring"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/server"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	logger := logging.NewLoggerWithService("chainwise-advisor")
	pkgconfig.LoadEnv(logger)

	cfg := config.Load()

	db := database.MustConnect(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: database.DefaultConfig().ConnMaxLifetime,
	}, logger)
	defer db.Close()

	var events *ledger.UsageEventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.ServiceName, logger)
		if err != nil {
			logger.WithError(err).Warn("Kafka unavailable; usage events disabled")
		} else {
			defer producer.Close()
			events = ledger.NewUsageEventPublisher(producer, logger)
		}
	}
	creditLedger := ledger.New(db, logger, events)

	metrics := monitoring.NewMetricsCollector(cfg.ServiceName, version, commit)
	cacheHits := metrics.NewCounter("market_cache_events_total",
		"Market snapshot cache events", []string{"event"})

	marketCache := cache.New(cache.Options{
		TTL:        cfg.MarketCacheTTL,
		MaxEntries: 16,
	}, cache.MetricsHooks{
		OnHit:   func(string) { cacheHits.WithLabelValues("hit").Inc() },
		OnMiss:  func(string) { cacheHits.WithLabelValues("miss").Inc() },
		OnError: func(string) { cacheHits.WithLabelValues("error").Inc() },
	})
	cbCfg := clients.DefaultCircuitBreakerConfig()
	cbCfg.Name = "coingecko"
	cbCfg.Logger = logger
	coingecko := market.NewCoinGeckoClient(market.CoinGeckoConfig{
		BaseURL:              cfg.CoinGeckoURL,
		APIKey:               cfg.CoinGeckoAPIKey,
		Logger:               logger,
		CircuitBreakerConfig: &cbCfg,
	})
	marketProvider := market.NewProvider(coingecko, marketCache, logger)

	docsProvider := docs.NewProvider(docs.Config{
		BaseURL: cfg.DocsBaseURL,
		APIKey:  cfg.DocsAPIKey,
		Logger:  logger,
	})

	var backend llm.Provider
	if provider, err := llm.NewProvider(llm.LoadConfig()); err != nil {
		logger.WithError(err).Warn("No completion backend configured; serving mock responses only")
	} else {
		backend = provider
	}

	advisorSvc := advisor.NewService(advisor.Config{
		Backend: backend,
		Docs:    docsProvider,
		Market:  marketProvider,
		Logger:  logger,
		Metrics: advisor.NewMetrics(metrics),
	})

	limiter := handlers.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateWindow, nil)
	api := handlers.New(advisorSvc, creditLedger, limiter, logger)
	webhook := billing.NewWebhookHandler(cfg.StripeWebhookSecret, creditLedger, logger, cfg.StripePriceTiers)

	health := monitoring.NewHealthChecker(cfg.ServiceName, version)
	health.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	health.AddCheck("configuration", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"JWT_SECRET":   cfg.JWTSecret,
	}))

	router := server.SetupRouter(logger)
	router.Use(metrics.MetricsMiddleware())

	router.GET("/health", health.Handler())
	router.GET("/metrics", metrics.Handler())
	router.POST("/api/webhooks/stripe", webhook.Handle)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware([]byte(cfg.JWTSecret)))
	api.Register(protected)

	serverCfg := server.DefaultConfig(cfg.ServiceName, cfg.Port)
	if err := server.Start(serverCfg, router, logger); err != nil {
		logger.WithError(err).Fatal("Server exited with error")
	}
}

package config

import (
	"time"

	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/config"
)

// Config holds the advisor service configuration resolved from environment.
type Config struct {
	ServiceName string
	Port        string

	DatabaseURL string
	JWTSecret   string

	StripeWebhookSecret string
	StripePriceTiers    map[string]subscription.Tier

	CoinGeckoURL    string
	CoinGeckoAPIKey string
	MarketCacheTTL  time.Duration

	DocsBaseURL string
	DocsAPIKey  string

	KafkaBrokers []string

	ChatRateLimit  int
	ChatRateWindow time.Duration
}

// Load resolves service configuration from the environment. Secrets that
// the service cannot run without are fetched with RequireEnv.
func Load() *Config {
	priceTiers := make(map[string]subscription.Tier)
	if id := config.GetEnv("STRIPE_PRICE_PRO", ""); id != "" {
		priceTiers[id] = subscription.TierPro
	}
	if id := config.GetEnv("STRIPE_PRICE_ELITE", ""); id != "" {
		priceTiers[id] = subscription.TierElite
	}

	return &Config{
		ServiceName: "chainwise-advisor",
		Port:        config.GetEnv("PORT", "18020"),

		DatabaseURL: config.RequireEnv("DATABASE_URL"),
		JWTSecret:   config.RequireEnv("JWT_SECRET"),

		StripeWebhookSecret: config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceTiers:    priceTiers,

		CoinGeckoURL:    config.GetEnv("COINGECKO_API_URL", ""),
		CoinGeckoAPIKey: config.GetEnv("COINGECKO_API_KEY", ""),
		MarketCacheTTL:  config.GetEnvDuration("MARKET_CACHE_TTL", 120*time.Second),

		DocsBaseURL: config.GetEnv("DOCS_API_URL", ""),
		DocsAPIKey:  config.GetEnv("DOCS_API_KEY", ""),

		KafkaBrokers: config.GetEnvSlice("KAFKA_BROKERS"),

		ChatRateLimit:  config.GetEnvInt("CHAT_RATE_LIMIT", 60),
		ChatRateWindow: config.GetEnvDuration("CHAT_RATE_WINDOW", time.Hour),
	}
}

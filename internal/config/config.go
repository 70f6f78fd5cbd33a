package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string

	// UpstreamURL is the bookstore API that owns all persistence.
	UpstreamURL string

	// Card processor endpoint and publishable key.
	ProcessorURL string
	ProcessorKey string

	// SessionDBPath is the sqlite file holding the one local token record.
	SessionDBPath string

	// KafkaBrokers is optional; empty disables the activity stream.
	KafkaBrokers  []string
	ActivityTopic string

	LogLevel string

	// Requests per second and burst for the global rate limiter.
	RateLimit float64
	RateBurst int
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ListenAddr:    getenv("STOREFRONT_ADDR", ":8080"),
		UpstreamURL:   must(os.Getenv("UPSTREAM_URL"), "UPSTREAM_URL"),
		ProcessorURL:  getenv("PROCESSOR_URL", "https://api.stripe.com"),
		ProcessorKey:  must(os.Getenv("PROCESSOR_PUBLISHABLE_KEY"), "PROCESSOR_PUBLISHABLE_KEY"),
		SessionDBPath: getenv("SESSION_DB_PATH", "storefront.db"),
		ActivityTopic: getenv("ACTIVITY_TOPIC", "storefront_activity"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		RateLimit:     20,
		RateBurst:     40,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

// Package config содержит логику чтения конфигурации сервиса оформления заказов.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress   string   `env:"RUN_ADDRESS"`
	DatabaseURI  string   `env:"DATABASE_URI"`
	BaseURL      string   `env:"BASE_URL"`
	RedisAddress string   `env:"REDIS_ADDRESS"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	KafkaTopic              string        `env:"KAFKA_TOPIC" envDefault:"ucp-events"`
	BusinessName            string        `env:"BUSINESS_NAME" envDefault:"Cymbal Coffee Shop"`
	RequestTimeout          time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	RequireReadyForComplete bool          `env:"REQUIRE_READY_FOR_COMPLETE" envDefault:"false"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envBaseURL := cfg.BaseURL
	envRedisAddress := cfg.RedisAddress
	envKafkaBrokers := cfg.KafkaBrokers

	var kafkaBrokers string

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI, in-memory store when empty")
	flag.StringVar(&cfg.BaseURL, "b", "http://localhost:8080", "public base URL for continue and order links")
	flag.StringVar(&cfg.RedisAddress, "redis", "", "redis address for the event sink")
	flag.StringVar(&kafkaBrokers, "kafka", "", "comma separated kafka brokers for the event sink")

	flag.Parse()

	cfg.KafkaBrokers = splitList(kafkaBrokers)

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envBaseURL != "" {
		cfg.BaseURL = envBaseURL
	}
	if envRedisAddress != "" {
		cfg.RedisAddress = envRedisAddress
	}
	if len(envKafkaBrokers) > 0 {
		cfg.KafkaBrokers = splitList(strings.Join(envKafkaBrokers, ","))
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://" + cfg.RunAddress
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

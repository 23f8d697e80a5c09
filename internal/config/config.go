package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Storage
	DatabaseURL string

	// Broker
	NatsURL string

	// GraphQL servers
	GraphQLPort   int
	GraphQLWSPort int

	// Monitoring
	DownloadTimeoutMinutes int // Minutes before an active download is reported stuck

	// Logging
	LokiHost string
	LogLevel string
}

// Load loads configuration from environment variables and an optional
// .env file. Required values missing is a startup failure.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	v.SetDefault("GRAPHQL_PORT", 4004)
	v.SetDefault("GRAPHQL_WS_PORT", 4005)
	v.SetDefault("DOWNLOAD_TIMEOUT_MINUTES", 30)
	v.SetDefault("LOG_LEVEL", "info")

	config := &Config{
		DatabaseURL:            v.GetString("DATABASE_URL"),
		NatsURL:                v.GetString("NATS_URL"),
		GraphQLPort:            v.GetInt("GRAPHQL_PORT"),
		GraphQLWSPort:          v.GetInt("GRAPHQL_WS_PORT"),
		DownloadTimeoutMinutes: v.GetInt("DOWNLOAD_TIMEOUT_MINUTES"),
		LokiHost:               v.GetString("LOKI_HOST"),
		LogLevel:               v.GetString("LOG_LEVEL"),
	}

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if config.NatsURL == "" {
		return nil, fmt.Errorf("NATS_URL is required")
	}

	return config, nil
}

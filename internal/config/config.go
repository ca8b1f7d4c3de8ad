package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backend names accepted in the STORE environment variable.
const (
	StoreGateway = "gateway"
	StoreMemory  = "memory"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Gateway  GatewayConfig
	Auth     AuthConfig
	Store    string
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// GatewayConfig points at the hosted auth+database service. AnonKey is the
// public row-level-security-constrained key; ServiceKey is privileged and
// must only ever be used server-side.
type GatewayConfig struct {
	URL        string
	AnonKey    string
	ServiceKey string
}

// AuthConfig holds dev bearer tokens accepted when running against the
// in-memory store, where no hosted auth service exists to verify against.
type AuthConfig struct {
	DevTokens []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Gateway: GatewayConfig{
			URL:        getEnv("GATEWAY_URL", ""),
			AnonKey:    getEnv("GATEWAY_ANON_KEY", ""),
			ServiceKey: getEnv("GATEWAY_SERVICE_KEY", ""),
		},
		Auth: AuthConfig{
			DevTokens: getEnvAsSlice("DEV_TOKENS", []string{"devtoken"}),
		},
		Store:    getEnv("STORE", StoreGateway),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store {
	case StoreGateway:
		if c.Gateway.URL == "" {
			return fmt.Errorf("GATEWAY_URL is required when STORE=gateway")
		}
		if c.Gateway.AnonKey == "" {
			return fmt.Errorf("GATEWAY_ANON_KEY is required when STORE=gateway")
		}
		if c.Gateway.ServiceKey == "" {
			return fmt.Errorf("GATEWAY_SERVICE_KEY is required when STORE=gateway")
		}
	case StoreMemory:
		if len(c.Auth.DevTokens) == 0 {
			return fmt.Errorf("at least one dev token must be configured when STORE=memory")
		}
	default:
		return fmt.Errorf("invalid store: %s (must be gateway or memory)", c.Store)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

// Package config provides configuration for the board server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds the settings the board server reads from the
// environment.
type ServerConfig struct {
	Port           int
	DatabaseURL    string
	RedisURL       string
	AllowedOrigins []string
	WindowDays     int
}

// NewServerConfig builds the server configuration from environment
// variables. DATABASE_URL is required; everything else has a default.
// REDIS_URL is optional and enables the refresh-token session store.
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		port = p
	}

	windowDays := 30
	if daysStr := os.Getenv("BOARD_WINDOW_DAYS"); daysStr != "" {
		d, err := strconv.Atoi(daysStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BOARD_WINDOW_DAYS: %v", err)
		}
		windowDays = d
	}

	origins := []string{"*"}
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		origins = nil
		for _, origin := range strings.Split(originsStr, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	config := &ServerConfig{
		Port:           port,
		DatabaseURL:    databaseURL,
		RedisURL:       os.Getenv("REDIS_URL"),
		AllowedOrigins: origins,
		WindowDays:     windowDays,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	if c.WindowDays < 1 {
		return fmt.Errorf("BOARD_WINDOW_DAYS must be at least 1, got: %d", c.WindowDays)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS cannot be empty")
	}
	return nil
}

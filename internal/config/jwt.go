package config

import (
	"fmt"
	"os"
	"strconv"
)

// maxTokenLifetimeHours caps access-token lifetime. Long-lived access is
// the refresh token's job, so anything beyond a week is a misconfiguration.
const maxTokenLifetimeHours = 168

// JWTConfig holds the signing secret and access-token lifetime.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS
// (default 24, capped at one week).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	hours := 24
	if raw := os.Getenv("JWT_EXPIRATION_HOURS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		hours = parsed
	}

	if hours < 1 || hours > maxTokenLifetimeHours {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be between 1 and %d, got: %d", maxTokenLifetimeHours, hours)
	}

	return &JWTConfig{Secret: secret, ExpirationHours: hours}, nil
}

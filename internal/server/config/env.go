package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with env tags. env.Parse leaves a field untouched
// when its variable is unset, so prefilled values act as the fallback.
type envConfig struct {
	EndpointAddr    string        `env:"PASSPORT_ADDRESS"`
	DatabaseDSN     string        `env:"PASSPORT_DATABASE_DSN"`
	SecretKey       string        `env:"PASSPORT_SECRET_KEY"`
	AccessTokenTTL  time.Duration `env:"PASSPORT_ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `env:"PASSPORT_REFRESH_TOKEN_TTL"`
	BcryptCost      int           `env:"PASSPORT_BCRYPT_COST"`
	TokenLeeway     time.Duration `env:"PASSPORT_TOKEN_LEEWAY"`
}

// parseEnv overlays environment variables onto config. Malformed values
// panic for the same reason a broken JSON file does.
func parseEnv(config *Config) {
	e := envConfig{
		EndpointAddr:    config.EndpointAddr,
		DatabaseDSN:     config.DatabaseDSN,
		SecretKey:       config.SecretKey,
		AccessTokenTTL:  config.AccessTokenTTL,
		RefreshTokenTTL: config.RefreshTokenTTL,
		BcryptCost:      config.BcryptCost,
		TokenLeeway:     config.TokenLeeway,
	}

	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	config.EndpointAddr = e.EndpointAddr
	config.DatabaseDSN = e.DatabaseDSN
	config.SecretKey = e.SecretKey
	config.AccessTokenTTL = e.AccessTokenTTL
	config.RefreshTokenTTL = e.RefreshTokenTTL
	config.BcryptCost = e.BcryptCost
	config.TokenLeeway = e.TokenLeeway
}

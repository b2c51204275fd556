package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	AccessTokenTTLMinutes int `env:"ACCESS_TOKEN_TTL_MINUTES, default=30"`
	RefreshTokenTTLDays   int `env:"REFRESH_TOKEN_TTL_DAYS,   default=7"`

	Mongo MongoConfig
	Redis RedisConfig
	Admin AdminConfig
	Rate  RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=residencia_nna"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// AdminConfig seeds the root administrator account at startup. That
// account is protected from deletion through the API.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL,    default=admin@residencia.cl"`
	Password string `env:"ADMIN_PASSWORD"`
	Nombre   string `env:"ADMIN_NOMBRE,   default=Administrador del Sistema"`
}

// RateLimitConfig bounds login attempts per client over a fixed window.
type RateLimitConfig struct {
	Requests      int `env:"RATE_LIMIT_REQUESTS,       default=100"`
	PeriodSeconds int `env:"RATE_LIMIT_PERIOD_SECONDS, default=60"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

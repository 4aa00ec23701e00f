package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=30m"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// PersonaCreateAdminOnly restricts POST /roles/ to admin users. Off by
	// default, matching the permissive policy the API shipped with.
	PersonaCreateAdminOnly bool `env:"PERSONA_CREATE_ADMIN_ONLY, default=false"`

	Mongo MongoConfig
	Redis RedisConfig
	LLM   LLMConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=roleplay_chat"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// LLMConfig points the completion gateway at an OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL     string        `env:"LLM_BASE_URL"`
	APIKey      string        `env:"LLM_API_KEY"`
	Model       string        `env:"LLM_MODEL,       default=qwen3-235b-a22b-thinking-2507"`
	Temperature float32       `env:"LLM_TEMPERATURE, default=0.7"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS,  default=500"`
	Timeout     time.Duration `env:"LLM_TIMEOUT,     default=60s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`
	CryptoKey string        `mapstructure:"CRYPTO_KEY"`

	StoreDriver string `mapstructure:"STORE_DRIVER"` // memory|sqlite|postgres
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`

	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisChannel string `mapstructure:"REDIS_CHANNEL"`

	AIProvider     string        `mapstructure:"AI_PROVIDER"` // gemini|deepseek
	AIModel        string        `mapstructure:"AI_MODEL"`
	AITimeout      time.Duration `mapstructure:"AI_TIMEOUT"`
	GeminiAPIKey   string        `mapstructure:"GEMINI_API_KEY"`
	DeepseekAPIKey string        `mapstructure:"DEEPSEEK_API_KEY"`
	DeepseekURL    string        `mapstructure:"DEEPSEEK_API_URL"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

var keys = []string{
	"ENV", "HTTP_ADDR", "LOG_LEVEL",
	"JWT_SECRET", "TOKEN_TTL", "CRYPTO_KEY",
	"STORE_DRIVER", "DATABASE_DSN",
	"REDIS_ADDR", "REDIS_CHANNEL",
	"AI_PROVIDER", "AI_MODEL", "AI_TIMEOUT", "GEMINI_API_KEY", "DEEPSEEK_API_KEY", "DEEPSEEK_API_URL",
	"CORS_ORIGINS",
}

// Load reads config.yaml when present, then the environment. Every key can be
// given either plain (JWT_SECRET) or prefixed (QUIZZICAL_JWT_SECRET).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TOKEN_TTL", "720h")
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:quizzical.db?_busy_timeout=5000")
	v.SetDefault("REDIS_CHANNEL", "quizzical:changes")
	v.SetDefault("AI_PROVIDER", "gemini")
	v.SetDefault("AI_TIMEOUT", "60s")
	v.SetDefault("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("QUIZZICAL")
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k, "QUIZZICAL_"+k, k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSOrigins = splitCSV(cfg.CORSOrigins)

	if cfg.AIModel == "" {
		cfg.AIModel = defaultModel(cfg.AIProvider)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

func defaultModel(provider string) string {
	if strings.EqualFold(provider, "deepseek") {
		return "deepseek-chat"
	}
	return "gemini-2.0-flash"
}

// viper hands env lists over as a single comma separated element.
func splitCSV(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

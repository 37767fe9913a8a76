package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mongo     MongoConfig     `yaml:"mongo"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	WordBank  WordBankConfig  `yaml:"word_bank"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MongoConfig contains the room store connection settings
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// CORSConfig contains the CORS allow-list
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// RateLimitConfig covers the HTTP endpoints. Per-socket game event
// limits are fixed in the ratelimit package.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size"`
}

// WordBankConfig contains the word bank file path
type WordBankConfig struct {
	File string `yaml:"file"`
}

// Load reads the YAML config file, falls back to defaults when it is
// missing, then applies environment overrides. A .env file in the
// working directory is honored. MONGODB_URI has no default and must be
// set one way or the other.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := loadFromFile(configPath)
	if err != nil {
		fmt.Printf("Warning: Could not load config from %s, using defaults: %v\n", configPath, err)
		cfg = Default()
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "4000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Mongo: MongoConfig{
			Database: "drawzzl",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
			AllowedMethods: []string{
				"GET", "POST", "OPTIONS",
			},
			AllowedHeaders: []string{
				"Origin", "Content-Type", "Accept",
			},
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         10,
		},
		WordBank: WordBankConfig{
			File: "data/words.json",
		},
	}
}

// applyEnvOverrides lets the environment win over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORS.AllowedOrigins = origins
	}
	if v := os.Getenv("WORD_BANK_FILE"); v != "" {
		cfg.WordBank.File = v
	}
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if cfg.Mongo.URI == "" {
		return fmt.Errorf("MONGODB_URI must be set")
	}
	if cfg.Mongo.Database == "" {
		return fmt.Errorf("mongo database cannot be empty")
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS allowed origins cannot be empty")
	}
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests per minute must be positive")
	}
	if cfg.RateLimit.BurstSize <= 0 {
		return fmt.Errorf("burst size must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "github.com/ZanzyTHEbar/neuroweave/internal/errors"
)

// Config is the complete server configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	DataDir  string `env:"DATA_DIR" envDefault:"./data"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ModelServerURL string        `env:"MODEL_SERVER_URL" envDefault:"http://localhost:8500"`
	ModelTimeout   time.Duration `env:"MODEL_TIMEOUT" envDefault:"5s"`

	FFmpegPath   string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	FrameSize    int    `env:"FRAME_SIZE" envDefault:"224"`
	FrameWorkers int    `env:"FRAME_WORKERS" envDefault:"1"`

	UploadDir   string `env:"UPLOAD_DIR"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB" envDefault:"100"`

	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	RateLimitPerMin int    `env:"RATE_LIMIT_PER_MIN" envDefault:"10"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	EnableHSTS  bool     `env:"ENABLE_HSTS" envDefault:"false"`

	ClinicianJWTSecret string        `env:"CLINICIAN_JWT_SECRET"`
	ClinicianTokenTTL  time.Duration `env:"CLINICIAN_TOKEN_TTL" envDefault:"12h"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`

	// GoogleAPIKey is read only when GEMINI_API_KEY is unset
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`

	PredictionCacheTTL time.Duration `env:"PREDICTION_CACHE_TTL" envDefault:"10m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads .env.local and .env when present, then parses the environment.
// Variables already set in the process environment win over both files.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	return Parse()
}

// Parse reads the process environment only
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, apperrors.NewConfigurationError("parse env: "+err.Error(), err)
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = cfg.GoogleAPIKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError(err.Error(), err)
	}
	return &cfg, nil
}

func loadEnvFiles() error {
	// .env.local is loaded first so it overrides .env
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Validate checks ranges env parsing cannot express
func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("PORT must not be empty")
	case c.FrameSize < 16 || c.FrameSize > 1024:
		return fmt.Errorf("FRAME_SIZE must be between 16 and 1024, got %d", c.FrameSize)
	case c.FrameWorkers < 1:
		return fmt.Errorf("FRAME_WORKERS must be at least 1, got %d", c.FrameWorkers)
	case c.MaxUploadMB < 1:
		return fmt.Errorf("MAX_UPLOAD_MB must be at least 1, got %d", c.MaxUploadMB)
	case c.RateLimitPerMin < 1:
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be at least 1, got %d", c.RateLimitPerMin)
	case c.ModelTimeout <= 0:
		return fmt.Errorf("MODEL_TIMEOUT must be positive")
	case len(c.CORSOrigins) == 0:
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return nil
}

// MaxUploadBytes is MaxUploadMB in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// UploadDirectory returns UploadDir, or the OS temp dir when unset
func (c *Config) UploadDirectory() string {
	if c.UploadDir != "" {
		return c.UploadDir
	}
	return os.TempDir()
}

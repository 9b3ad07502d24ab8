package config

import (
	"log"
	"os"
	"time"

	"github.com/covox/callaudit/pkg/logger"
	"github.com/covox/callaudit/pkg/utils"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Addr          string `env:"ADDR"`
	Mode          string `env:"MODE"`
	DBDriver      string `env:"DB_DRIVER"`
	DSN           string `env:"DSN"`
	APIPrefix     string `env:"API_PREFIX"`
	SessionSecret string `env:"SESSION_SECRET"`

	// Audio store
	UploadDir   string `env:"UPLOAD_DIR"`
	MediaPrefix string `env:"MEDIA_PREFIX"`
	MaxUploadMB int    `env:"MAX_UPLOAD_MB"`

	// Transcription service
	TranscribeProvider string        `env:"TRANSCRIBE_PROVIDER"` // whisper, openai
	TranscribeTimeout  time.Duration `env:"TRANSCRIBE_TIMEOUT"`
	WhisperURL         string        `env:"WHISPER_URL"`
	WhisperModel       string        `env:"WHISPER_MODEL"`
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL"`
	OpenAIModel        string        `env:"OPENAI_MODEL"`

	// Connection pool
	DBMaxOpenConns int `env:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int `env:"DB_MAX_IDLE_CONNS"`

	// Rate limiting, e.g. "1000-M" for 1000 requests per minute
	RateLimit string `env:"RATE_LIMIT"`

	// Orphan audio sweep
	OrphanSweepSchedule string `env:"ORPHAN_SWEEP_SCHEDULE"`
	OrphanSweepDelete   bool   `env:"ORPHAN_SWEEP_DELETE"`

	Log logger.LogConfig
}

var GlobalConfig *Config

// Load reads .env (if present) and builds GlobalConfig with defaults so the
// server starts without any environment at all.
func Load() error {
	env := os.Getenv("APP_ENV")
	if err := utils.LoadEnv(env); err != nil {
		log.Printf("Note: .env file not found or failed to load: %v (using default values)", err)
	}

	GlobalConfig = &Config{
		Addr:          getStringOrDefault("ADDR", ":7080"),
		Mode:          getStringOrDefault("MODE", "development"),
		DBDriver:      getStringOrDefault("DB_DRIVER", "sqlite"),
		DSN:           getStringOrDefault("DSN", "./callaudit.db"),
		APIPrefix:     getStringOrDefault("API_PREFIX", "/api"),
		SessionSecret: getStringOrDefault("SESSION_SECRET", "dev-secret-change-in-production-"+utils.RandText(16)),

		UploadDir:   getStringOrDefault("UPLOAD_DIR", "./calls"),
		MediaPrefix: getStringOrDefault("MEDIA_PREFIX", "/media"),
		MaxUploadMB: getIntOrDefault("MAX_UPLOAD_MB", 64),

		TranscribeProvider: getStringOrDefault("TRANSCRIBE_PROVIDER", "whisper"),
		TranscribeTimeout:  getDurationOrDefault("TRANSCRIBE_TIMEOUT", 2*time.Minute),
		WhisperURL:         getStringOrDefault("WHISPER_URL", "http://localhost:8080/inference"),
		WhisperModel:       getStringOrDefault("WHISPER_MODEL", "base"),
		OpenAIAPIKey:       getStringOrDefault("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getStringOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:        getStringOrDefault("OPENAI_MODEL", "whisper-1"),

		DBMaxOpenConns: getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getIntOrDefault("DB_MAX_IDLE_CONNS", 5),

		RateLimit: getStringOrDefault("RATE_LIMIT", "1000-M"),

		OrphanSweepSchedule: getStringOrDefault("ORPHAN_SWEEP_SCHEDULE", "0 3 * * *"),
		OrphanSweepDelete:   utils.GetBoolEnv("ORPHAN_SWEEP_DELETE"),

		Log: logger.LogConfig{
			Level:      getStringOrDefault("LOG_LEVEL", "info"),
			Filename:   getStringOrDefault("LOG_FILENAME", "./logs/app.log"),
			MaxSize:    getIntOrDefault("LOG_MAX_SIZE", 100),
			MaxAge:     getIntOrDefault("LOG_MAX_AGE", 30),
			MaxBackups: getIntOrDefault("LOG_MAX_BACKUPS", 5),
		},
	}
	return nil
}

func getStringOrDefault(key, defaultValue string) string {
	value := utils.GetEnv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := utils.GetIntEnv(key)
	if value == 0 {
		return defaultValue
	}
	return value
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := utils.GetEnv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

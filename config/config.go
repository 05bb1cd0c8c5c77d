package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Host is the fixed bind address.
const Host = "0.0.0.0"

type Config struct {
	// Server settings
	ServerPort      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	// TranscriptTimeout bounds the provider interaction of one request.
	// Zero disables the bound.
	TranscriptTimeout time.Duration

	Env      string
	Debug    bool
	LogDir   string
	LogLevel string

	MetricsEnabled bool

	CORS    CORSConfig
	YouTube YouTubeConfig
}

type CORSConfig struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

type YouTubeConfig struct {
	BaseURL     string
	UserAgent   string
	Languages   []string
	HTTPTimeout time.Duration
	RateLimit   float64
	RateBurst   int
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// LoadEnvFile loads variables from ENV_FILE, or ./.env, when the file exists.
// Variables already present in the environment win.
func LoadEnvFile() error {
	path := GetEnv("ENV_FILE", ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading env file %s", path)
	}
	logrus.WithField("file", path).Debug("Loaded environment file")
	return nil
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:        GetEnv("PORT", "5000"),
		ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxBodyBytes:      int64(getEnvAsInt("MAX_BODY_BYTES", 1<<20)),
		TranscriptTimeout: getEnvAsDuration("TRANSCRIPT_TIMEOUT", 30*time.Second),

		Env:      GetEnv("ENV", "development"),
		Debug:    getEnvAsBool("DEBUG", false),
		LogDir:   GetEnv("LOG_DIR", ""),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),

		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
			MaxAge:         getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		YouTube: YouTubeConfig{
			BaseURL:     strings.TrimRight(GetEnv("YOUTUBE_BASE_URL", "https://www.youtube.com"), "/"),
			UserAgent:   GetEnv("YOUTUBE_USER_AGENT", defaultUserAgent),
			Languages:   getEnvAsStringSlice("YOUTUBE_LANGUAGES", []string{"en"}),
			HTTPTimeout: getEnvAsDuration("YOUTUBE_HTTP_TIMEOUT", 15*time.Second),
			RateLimit:   getEnvAsFloat("YOUTUBE_RATE_LIMIT", 5),
			RateBurst:   getEnvAsInt("YOUTUBE_RATE_BURST", 5),
		},
	}
}

// Load reads the env file, builds the configuration and validates it.
func Load() (*Config, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, err
	}
	cfg := LoadConfig()
	if err := ValidateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return Host + ":" + c.ServerPort
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid number, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid boolean, using default")
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		return errors.Errorf("server port %q is not a valid port number", cfg.ServerPort)
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if cfg.TranscriptTimeout < 0 {
		return errors.New("transcript timeout must not be negative")
	}
	if cfg.MaxBodyBytes <= 0 {
		return errors.New("max body size must be greater than 0")
	}
	if cfg.YouTube.BaseURL == "" {
		return errors.New("youtube base URL is required")
	}
	if cfg.YouTube.RateLimit <= 0 {
		return errors.New("youtube rate limit must be greater than 0")
	}
	if cfg.YouTube.RateBurst <= 0 {
		return errors.New("youtube rate burst must be greater than 0")
	}
	return nil
}

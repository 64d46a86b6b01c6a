package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Hoyolab HoyolabConfig
	Mihomo  MihomoConfig
	Cache   CacheConfig
	Strict  StrictConfig
	Assets  AssetsConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host             string
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	TLSCertFile      string
	TLSKeyFile       string
	Environment      string
	ShowErrorDetails bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

// HoyolabConfig carries the HoYoLAB client settings plus the server-wide
// fallback credentials used when a record carries no cookie material.
type HoyolabConfig struct {
	LtUID   int64
	LToken  string
	Timeout time.Duration
}

type MihomoConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig groups every TTL the gateway hands to the transaction store.
type CacheConfig struct {
	// TransactionTTL bounds how long an exchanged HoYoLAB credential session lives.
	TransactionTTL time.Duration
	// MihomoTTL bounds the Mihomo profile snapshot captured at exchange time.
	MihomoTTL time.Duration
	// ImageTTL bounds rendered card images in the generation cache.
	ImageTTL time.Duration
}

// StrictConfig gates the raw-data info routes behind a shared secret header.
// Strict mode is enabled implicitly by configuring a non-empty secret.
type StrictConfig struct {
	Secret string
}

type AssetsConfig struct {
	Dir string
	// MaxCacheBytes caps the in-memory decoded asset cache.
	MaxCacheBytes int64
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:             getEnv("SERVER_HOST", "0.0.0.0"),
			Port:             getEnv("SERVER_PORT", "8080"),
			ReadTimeout:      getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:     getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:      getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
			Environment:      getEnv("APP_ENV", "production"),
			ShowErrorDetails: getBoolEnv("APP_SHOW_ERROR_DETAILS", false),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Hoyolab: HoyolabConfig{
			LtUID:   getInt64Env("HOYOLAB_LTUID", 0),
			LToken:  getEnv("HOYOLAB_LTOKEN", ""),
			Timeout: getDurationEnv("HOYOLAB_TIMEOUT", 15*time.Second),
		},
		Mihomo: MihomoConfig{
			BaseURL: getEnv("MIHOMO_BASE_URL", "https://api.mihomo.me"),
			Timeout: getDurationEnv("MIHOMO_TIMEOUT", 15*time.Second),
		},
		Cache: CacheConfig{
			TransactionTTL: getDurationEnv("TRANSACTION_TTL", 72*time.Hour),
			MihomoTTL:      getDurationEnv("MIHOMO_TTL", 5*time.Minute),
			ImageTTL:       getDurationEnv("IMAGE_TTL", 15*time.Minute),
		},
		Strict: StrictConfig{
			Secret: getEnv("STRICT_SECRET", ""),
		},
		Assets: AssetsConfig{
			Dir:           getEnv("ASSETS_DIR", "./assets"),
			MaxCacheBytes: getInt64Env("ASSETS_CACHE_MAX_BYTES", 256<<20),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Cache.TransactionTTL <= 0 {
		return nil, fmt.Errorf("TRANSACTION_TTL must be positive, got %s", cfg.Cache.TransactionTTL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

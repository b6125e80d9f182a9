package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort        string
	StorageBackend  string
	DatabaseURL     string
	DBPoolSize      int
	RedisURL        string
	RedisPoolSize   int
	KVPrefix        string
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaPartitions int
	JWTSecret       string
	SaveDelay       time.Duration
	Locale          language.Tag
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env, after .env).
func Get() *Config {
	cfgOnce.Do(func() {
		_ = godotenv.Load()
		cfg = FromEnv()
	})
	return cfg
}

// FromEnv reads the configuration from the current environment.
func FromEnv() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBPoolSize:      getIntEnv("DB_POOL_SIZE", 4),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPoolSize:   getIntEnv("REDIS_POOL_SIZE", 4),
		KVPrefix:        getEnv("KV_PREFIX", "pocketdesk:"),
		KafkaBrokers:    getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_EVENTS_TOPIC", "record-events"),
		KafkaPartitions: getIntEnv("KAFKA_PARTITIONS", 1),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SaveDelay:       time.Duration(getIntEnv("SAVE_DELAY_MS", 0)) * time.Millisecond,
		Locale:          getLocaleEnv("APP_LOCALE", language.BrazilianPortuguese),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// getSliceEnv splits a comma list; unset means an empty list.
func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getLocaleEnv(key string, defaultVal language.Tag) language.Tag {
	if v := os.Getenv(key); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
	}
	return defaultVal
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "STORAGE_BACKEND", "KAFKA_BROKERS", "SAVE_DELAY_MS", "APP_LOCALE", "KV_PREFIX"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	assert.Equal(t, "8080", c.HTTPPort)
	assert.Equal(t, BackendMemory, c.StorageBackend)
	assert.Empty(t, c.KafkaBrokers)
	assert.Zero(t, c.SaveDelay)
	assert.Equal(t, language.BrazilianPortuguese, c.Locale)
	assert.Equal(t, "pocketdesk:", c.KVPrefix)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("SAVE_DELAY_MS", "250")
	t.Setenv("APP_LOCALE", "de")
	t.Setenv("DB_POOL_SIZE", "not-a-number")

	c := FromEnv()
	assert.Equal(t, BackendRedis, c.StorageBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, c.SaveDelay)
	assert.Equal(t, language.German, c.Locale)
	assert.Equal(t, 4, c.DBPoolSize)
}

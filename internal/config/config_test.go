package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "TOKEN_STORE", "CART_UNDO_WINDOW", "CART_SERIALIZE_MUTATIONS", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, TokenStoreMemory, cfg.TokenStore)
	assert.Equal(t, 5*time.Second, cfg.CartUndoWindow)
	assert.False(t, cfg.CartSerializeMutations)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("TOKEN_STORE", "Redis")
	t.Setenv("CART_UNDO_WINDOW", "8s")
	t.Setenv("CART_SERIALIZE_MUTATIONS", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("API_BREAKER_MAX_FAILURES", "not-a-number")

	cfg := Load()
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, TokenStoreRedis, cfg.TokenStore)
	assert.Equal(t, 8*time.Second, cfg.CartUndoWindow)
	assert.True(t, cfg.CartSerializeMutations)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, uint32(5), cfg.BreakerMaxFailures)
}

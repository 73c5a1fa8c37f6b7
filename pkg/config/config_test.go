package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 300*time.Millisecond, cfg.Cart.Debounce)
	assert.Equal(t, 5*time.Second, cfg.Cart.StockReloadDelay)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "postgres", cfg.Session.Store)
	assert.Equal(t, "0.0.0.0:4200", cfg.HTTP.Addr())
}

func TestFromViper_EnvComoString(t *testing.T) {
	v := viper.New()
	v.Set("CART_DEBOUNCE_MS", "150")
	v.Set("API_BASE_URL", "https://laptophub.example.com/")
	v.Set("SESSION_STORE", "MEMORY")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 150*time.Millisecond, cfg.Cart.Debounce)
	assert.Equal(t, "https://laptophub.example.com", cfg.API.BaseURL, "la barra final se elimina")
	assert.Equal(t, "memory", cfg.Session.Store)
}

func TestFromViper_SessionStoreInvalido(t *testing.T) {
	v := viper.New()
	v.Set("SESSION_STORE", "redis")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "store", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/store?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://x@y/z"
	assert.Equal(t, "postgresql://x@y/z", c.ConnectionString())
}

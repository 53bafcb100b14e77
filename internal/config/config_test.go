package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_NAME", "receipts_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Contains(t, cfg.DB.DSN(), "/receipts_test?")
}

func TestDBConfig_DSN(t *testing.T) {
	db := DBConfig{
		Host: "db", Port: "5432", User: "app", Password: "secret",
		Name: "emisor", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://app:secret@db:5432/emisor?sslmode=disable", db.DSN())
}

func TestCORSConfig_Origins(t *testing.T) {
	assert.Nil(t, CORSConfig{}.Origins())
	assert.Equal(t,
		[]string{"http://localhost:3000", "https://app.example.com"},
		CORSConfig{AllowedOrigins: "http://localhost:3000, https://app.example.com"}.Origins(),
	)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitListTrimsAndDropsEmpties(t *testing.T) {
	assert.Equal(t, []string{"app.example.com", "localhost:*"},
		splitList("app.example.com, localhost:* ,"))
	assert.Nil(t, splitList(""))
}

func TestLoadParsesAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "app.example.com,admin.example.com")

	cfg := Load()
	assert.Equal(t, []string{"app.example.com", "admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoadDefaultsToLocalhostOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, []string{"localhost:*"}, cfg.AllowedOrigins)
}

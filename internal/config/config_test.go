package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	base := Config{
		Port:       "8480",
		DBName:     "devhub",
		DBPassword: "password",
		Env:        "development",
	}

	t.Run("development defaults pass", func(t *testing.T) {
		cfg := base
		require.NoError(t, cfg.Validate())
	})

	t.Run("port is required", func(t *testing.T) {
		cfg := base
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("db name is required", func(t *testing.T) {
		cfg := base
		cfg.DBName = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects the default password", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		assert.Error(t, cfg.Validate())

		cfg.DBPassword = "4-rolls-of-dice"
		assert.NoError(t, cfg.Validate())
	})
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: ""}).IsProduction())
}

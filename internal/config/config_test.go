package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
user = "booking"
dbname = "barbershop"

[auth]
jwt_secret = "secret"

[business]
grace_period_seconds = 15
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 15*time.Second, cfg.Business.GracePeriod())
	assert.Equal(t, time.Hour, cfg.Business.SlotUnit())
	assert.Equal(t, 2*time.Hour, cfg.Business.CancellationCutoff())
	assert.Equal(t, "Asia/Kuala_Lumpur", cfg.Business.Timezone)
	assert.Equal(t, 14, cfg.Business.MaxDaysAhead)
	assert.Contains(t, cfg.Database.DSN(), "dbname=barbershop")
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("RESEND_API_KEY", "re_123")

	cfg, err := Load(writeConfig(t, "[auth]\njwt_secret = \"from-file\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "re_123", cfg.Resend.APIKey)
}

func TestValidate(t *testing.T) {
	t.Run("unknown timezone", func(t *testing.T) {
		cfg := defaults()
		cfg.Auth.JWTSecret = "s"
		cfg.Business.Timezone = "Mars/Olympus"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("inverted break", func(t *testing.T) {
		cfg := defaults()
		cfg.Auth.JWTSecret = "s"
		cfg.Business.BreakStart = "20:00"
		cfg.Business.BreakEnd = "19:00"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("negative booking horizon", func(t *testing.T) {
		cfg := defaults()
		cfg.Auth.JWTSecret = "s"
		cfg.Business.MaxDaysAhead = -1
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := defaults()
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("defaults with secret are valid", func(t *testing.T) {
		cfg := defaults()
		cfg.Auth.JWTSecret = "s"
		assert.NoError(t, cfg.Validate())
	})
}

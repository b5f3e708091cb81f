package config

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, 8*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "0 9 * * *", cfg.Notices.Schedule)
		assert.Equal(t, 3, cfg.Notices.DaysOverdue)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.False(t, cfg.Redis.Enabled)
		assert.Contains(t, cfg.Database.DSN(), "host=localhost port=5432")
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SALON_APP_PORT", "9000")
		t.Setenv("SALON_DATABASE_URL", "postgres://u:p@db:5432/salon")
		t.Setenv("SALON_JWT_EXPIRATION", "2h")
		t.Setenv("SALON_CORS_ALLOW_ORIGINS", "https://a.cl, https://b.cl,")
		t.Setenv("SALON_NOTICES_DAYS_OVERDUE", "5")
		t.Setenv("SALON_REDIS_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "postgres://u:p@db:5432/salon", cfg.Database.DSN())
		assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, []string{"https://a.cl", "https://b.cl"}, cfg.CORS.AllowOrigins)
		assert.Equal(t, 5, cfg.Notices.DaysOverdue)
		assert.True(t, cfg.Redis.Enabled)
	})

	t.Run("platform admin needs both fields", func(t *testing.T) {
		t.Setenv("SALON_PLATFORM_ADMIN_EMAIL", "ops@salon.cl")
		_, err := Load()
		assert.ErrorContains(t, err, "platform.admin_password")

		t.Setenv("SALON_PLATFORM_ADMIN_PASSWORD", "secreto1")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "ops@salon.cl", cfg.Platform.AdminEmail)
	})

	t.Run("production requires secrets", func(t *testing.T) {
		t.Setenv("SALON_APP_ENV", "production")
		_, err := Load()
		assert.ErrorContains(t, err, "jwt.secret")

		t.Setenv("SALON_JWT_SECRET", "s3cret")
		_, err = Load()
		assert.ErrorContains(t, err, "close_access_key")

		t.Setenv("SALON_CLOSE_ACCESS_KEY", "k")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	require.NoError(t, cfg.Validate())

	cfg.Database.MaxIdleConns = 50
	assert.Error(t, cfg.Validate())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)), Recovery(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[2].ContextMap()["status"])
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))

	logger, err := NewLogger(LogConfig{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	return Setup(pflag.NewFlagSet("test", pflag.ContinueOnError), args)
}

func TestSetupDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := setup(t)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "sqlite:///healthcare_portal.db", cfg.DatabaseURL)
	assert.True(t, cfg.Upload.Enabled)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.EqualValues(t, 16<<20, cfg.Upload.MaxSize)
	assert.Equal(t, "db", cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Zero(t, cfg.RateLimit)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestSetupFromEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://portal@db/portal")
	t.Setenv("UPLOAD_MAX_SIZE", "4")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_LIFETIME", "30m")
	t.Setenv("HOST_CORS", "https://a.example, https://b.example")
	t.Setenv("SECURITY_RATE_LIMIT", "10")

	cfg, err := setup(t)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "postgres://portal@db/portal", cfg.DatabaseURL)
	assert.EqualValues(t, 4<<20, cfg.Upload.MaxSize)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.Lifetime)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.RateLimit)
}

func TestSetupVercelDisablesUploads(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("VERCEL", "1")

	cfg, err := setup(t)
	require.NoError(t, err)
	assert.False(t, cfg.Upload.Enabled)
}

func TestSetupFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("PORT", "8081")

	cfg, err := setup(t, "--port", "9000", "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestSetupConfigFile(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	path := filepath.Join(t.TempDir(), "portal.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
secret_key = "from-file"

[upload]
enabled = false

[session]
store = "memory"
`), 0o600))

	cfg, err := setup(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.False(t, cfg.Upload.Enabled)
	assert.Equal(t, "memory", cfg.Session.Store)

	_, err = setup(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestSetupRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := setup(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LogLevel:    "info",
			SecretKey:   "k",
			Port:        5000,
			DatabaseURL: "sqlite:///x.db",
			Upload:      Upload{Enabled: true, Dir: "uploads", MaxSize: 1 << 20},
			Session:     Session{Store: "db", Lifetime: time.Hour, CookieName: "s"},
		}
	}

	require.NoError(t, valid().Validate())

	for name, mutate := range map[string]func(*Config){
		"log level":     func(c *Config) { c.LogLevel = "loud" },
		"port":          func(c *Config) { c.Port = 70000 },
		"ssl cert":      func(c *Config) { c.SSL.Enabled = true },
		"max size":      func(c *Config) { c.Upload.MaxSize = 0 },
		"session store": func(c *Config) { c.Session.Store = "file" },
		"lifetime":      func(c *Config) { c.Session.Lifetime = 0 },
		"rate limit":    func(c *Config) { c.RateLimit = -1 },
	} {
		c := valid()
		mutate(c)
		assert.Error(t, c.Validate(), name)
	}
}

// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "error", "fatal"}
	validSessionStores = []string{"db", "redis", "memory"}
)

type Config struct {
	LogLevel  string
	SecretKey string

	Port        int
	SSL         SSL
	CORSOrigins []string

	DatabaseURL string

	Upload  Upload
	Session Session
	Redis   Redis

	// Allowed login and registration attempts per IP per minute, 0 disables it
	RateLimit int
}

type SSL struct {
	Enabled            bool
	CertificatePath    string
	CertificateKeyPath string
}

type Upload struct {
	Enabled bool
	Dir     string
	// In bytes. Also caps every request body
	MaxSize int64
}

type Session struct {
	Store           string
	Lifetime        time.Duration
	CookieName      string
	CleanupSchedule string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup parses args into fs, then reads config.toml (when present) and the
// environment. Environment variables win over the file. Function will return
// an error if something is critically wrong and the application can't run
// because of that
func Setup(fs *pflag.FlagSet, args []string) (*Config, error) {
	configPath := fs.String("config", "", "Path to a TOML config file")
	fs.Int("port", 0, "Port to listen on")
	fs.String("log-level", "", "Log level (debug, info, warn, error, fatal)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()

	v.BindPFlag("host.port", fs.Lookup("port"))
	v.BindPFlag("app.log_level", fs.Lookup("log-level"))

	if *configPath != "" {
		v.SetConfigFile(*configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "LOG_LEVEL")
	v.BindEnv("app.secret_key", "SECRET_KEY")

	v.BindEnv("host.port", "PORT")
	v.BindEnv("host.cors_origins", "HOST_CORS")

	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH")

	v.BindEnv("database.url", "DATABASE_URL")

	v.BindEnv("upload.enabled", "UPLOAD_ENABLED")
	v.BindEnv("upload.dir", "UPLOAD_DIR")
	v.BindEnv("upload.max_size", "UPLOAD_MAX_SIZE")
	// Vercel sets this on every deployment, its filesystem is read-only
	v.BindEnv("upload.read_only", "VERCEL")

	v.BindEnv("session.store", "SESSION_STORE")
	v.BindEnv("session.lifetime", "SESSION_LIFETIME")
	v.BindEnv("session.cookie_name", "SESSION_COOKIE_NAME")
	v.BindEnv("session.cleanup_schedule", "SESSION_CLEANUP_SCHEDULE")

	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 5000)
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.url", "sqlite:///healthcare_portal.db")

	v.SetDefault("upload.enabled", true)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_size", 16)

	v.SetDefault("session.store", "db")
	v.SetDefault("session.lifetime", "24h")
	v.SetDefault("session.cookie_name", "portal_session")
	v.SetDefault("session.cleanup_schedule", "@every 1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.rate_limit", 0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	cfg := &Config{
		LogLevel:  strings.ToLower(v.GetString("app.log_level")),
		SecretKey: v.GetString("app.secret_key"),
		Port:      v.GetInt("host.port"),
		SSL: SSL{
			Enabled:            v.GetBool("host.ssl.enabled"),
			CertificatePath:    v.GetString("host.ssl.certificate_path"),
			CertificateKeyPath: v.GetString("host.ssl.certificate_key_path"),
		},
		CORSOrigins: splitList(v.GetStringSlice("host.cors_origins")),
		DatabaseURL: v.GetString("database.url"),
		Upload: Upload{
			Enabled: v.GetBool("upload.enabled") && v.GetString("upload.read_only") == "",
			Dir:     v.GetString("upload.dir"),
			MaxSize: v.GetInt64("upload.max_size") << 20,
		},
		Session: Session{
			Store:           v.GetString("session.store"),
			Lifetime:        v.GetDuration("session.lifetime"),
			CookieName:      v.GetString("session.cookie_name"),
			CleanupSchedule: v.GetString("session.cleanup_schedule"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: v.GetInt("security.rate_limit"),
	}

	return cfg, cfg.Validate()
}

// Validate reports the first setting that makes the config unusable
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if c.SecretKey == "" {
		return fmt.Errorf("no secret key set, please set SECRET_KEY or app.secret_key. Here's a random one you can use:\n\n%s", genSecret())
	}

	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("invalid port provided")
	}

	if c.SSL.Enabled {
		if c.SSL.CertificatePath == "" {
			return errors.New("no ssl certificate path provided")
		}

		if c.SSL.CertificateKeyPath == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if c.DatabaseURL == "" {
		return errors.New("no database url provided")
	}

	if c.Upload.MaxSize <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if c.Upload.Enabled && c.Upload.Dir == "" {
		return errors.New("upload.dir can't be empty when uploads are enabled")
	}

	if !slices.Contains(validSessionStores, c.Session.Store) {
		return errors.New("invalid session store provided")
	}

	if c.Session.Lifetime <= 0 {
		return errors.New("session.lifetime must be bigger than 0")
	}

	if c.Session.CookieName == "" {
		return errors.New("session.cookie_name can't be empty")
	}

	if c.Session.Store == "redis" && c.Redis.Addr == "" {
		return errors.New("redis.addr can't be empty when using the redis session store")
	}

	if c.RateLimit < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	return nil
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration. Every field can be set from the environment
// (or a .env file in the working directory); cobra flags override on top.
type Config struct {
	APIURL string `env:"BOOKCLUB_API_URL" envDefault:"http://localhost:8000/api"`

	// Dir holds the session database and the log file. Defaults to ~/.bookclub.
	Dir string `env:"BOOKCLUB_CONFIG_DIR"`

	Session Session
	Log     Log

	Format string `env:"BOOKCLUB_FORMAT" envDefault:"json"`
}

type Session struct {
	// Backend is one of: sqlite|redis|memory
	Backend string `env:"BOOKCLUB_SESSION_BACKEND" envDefault:"sqlite"`
	Redis   Redis
}

type Redis struct {
	Addr     string `env:"BOOKCLUB_REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"BOOKCLUB_REDIS_PASSWORD"`
	DB       int    `env:"BOOKCLUB_REDIS_DB" envDefault:"0"`
	Prefix   string `env:"BOOKCLUB_REDIS_PREFIX" envDefault:"bookclub"`
}

type Log struct {
	File  string `env:"BOOKCLUB_LOG_FILE"`
	Level string `env:"BOOKCLUB_LOG_LEVEL" envDefault:"info"`
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Parse reads an optional .env file and then the environment. Callers apply flag
// overrides and then call Finalize.
func Parse() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Finalize fills derived defaults and validates. It is called again after flag overrides.
func (c *Config) Finalize() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return errors.New("api url is empty (set BOOKCLUB_API_URL or --api-url)")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url %q", c.APIURL)
	}

	if strings.TrimSpace(c.Dir) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.Dir = filepath.Join(home, ".bookclub")
	}
	c.Dir = filepath.Clean(c.Dir)

	if strings.TrimSpace(c.Log.File) == "" {
		c.Log.File = filepath.Join(c.Dir, "bookclub.log")
	}

	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	switch c.Session.Backend {
	case "":
		c.Session.Backend = BackendSQLite
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q (expected sqlite|redis|memory)", c.Session.Backend)
	}
	return nil
}

// SessionDBPath is the sqlite file used by the default session backend.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Dir, "session.sqlite")
}

// Package config loads the hostkit server configuration from an optional
// YAML or JSON file, a .env file and the process environment.
package config

import (
	"errors"
	"io"
	"io/fs"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/hostkit/middlewares"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/cookie"
	"github.com/dmitrymomot/hostkit/pkg/db"
	"github.com/dmitrymomot/hostkit/pkg/identity"
	"github.com/dmitrymomot/hostkit/pkg/jwt"
	"github.com/dmitrymomot/hostkit/pkg/logger"
	"github.com/dmitrymomot/hostkit/pkg/oauth"
	"github.com/dmitrymomot/hostkit/pkg/redis"
	"github.com/dmitrymomot/hostkit/pkg/tablecache"
	"github.com/dmitrymomot/hostkit/pkg/telemetry"
)

var (
	ErrEnvFile = errors.New("config: could not load env file")
	ErrRead    = errors.New("config: could not read config")
)

// HTTP holds the listener settings.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s" yaml:"shutdown_timeout"`
	// Zero disables the per-request deadline.
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s" yaml:"request_timeout"`
	MaxBodySize    int64         `env:"HTTP_MAX_BODY_SIZE" env-default:"1048576" yaml:"max_body_size"`
}

// App holds process-level settings.
type App struct {
	Name        string `env:"APP_NAME" env-default:"hostkit" yaml:"name"`
	Env         string `env:"APP_ENV" env-default:"development" yaml:"env"`
	AutoMigrate bool   `env:"APP_AUTO_MIGRATE" env-default:"true" yaml:"auto_migrate"`
}

// Config aggregates the settings of every package the server wires.
type Config struct {
	App        App                    `yaml:"app"`
	HTTP       HTTP                   `yaml:"http"`
	Log        logger.Config          `yaml:"log"`
	Database   db.Config              `yaml:"database"`
	Redis      redis.Config           `yaml:"redis"`
	TableCache tablecache.Options     `yaml:"table_cache"`
	JWT        jwt.Config             `yaml:"jwt"`
	Identity   identity.Options       `yaml:"identity"`
	Cookie     cookie.Config          `yaml:"cookie"`
	AuthCookie auth.CookieOptions     `yaml:"auth_cookie"`
	OAuth      oauth.Config           `yaml:"oauth"`
	CORS       middlewares.CORSConfig `yaml:"cors"`
	Metrics    telemetry.Config       `yaml:"metrics"`
}

// IsProduction reports whether App.Env is "production".
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load reads the configuration. Variables from envFiles (".env" when none
// are given) are added to the environment first; missing files are
// skipped and variables already set win. When path is set the file is read
// and the environment is overlaid on it, otherwise only the environment is
// used.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(ErrEnvFile, err)
		}
	}

	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	return &cfg, nil
}

// Usage writes the list of supported environment variables to w.
func Usage(w io.Writer) error {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text+"\n")
	return err
}

// Write dumps cfg as YAML. Secrets are either excluded by their yaml tags or
// redacted from connection URLs.
func Write(w io.Writer, cfg *Config) error {
	out := *cfg
	out.Database.ConnectionString = redactURL(out.Database.ConnectionString)
	out.Redis.URL = redactURL(out.Redis.URL)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return err
	}
	return enc.Close()
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "xxxxx"
	}
	return u.Redacted()
}

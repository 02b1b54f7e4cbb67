package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "TODO"

type Config struct {
	// Server is the base URL of the todo backend, e.g. http://localhost:8058.
	Server string
	// DataDir holds the session file and the interactive UI log.
	DataDir string
	// Token is an API key sent as a bearer token instead of a session cookie.
	Token string
	Theme string
	// FlashDelay is how long success/error banners stay visible.
	FlashDelay time.Duration
	// Timeout applies to requests whose context has no deadline.
	Timeout time.Duration

	Log  LogConfig
	Rate RateConfig
}

type LogConfig struct {
	Level string
	// File, when set, receives log output instead of stderr.
	File string
}

type RateConfig struct {
	PerSecond float64
	Burst     int
}

// New returns a viper instance with defaults and TODO_* environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("server", "http://localhost:8058")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("token", "")
	v.SetDefault("theme", "classic")
	v.SetDefault("flash_delay", time.Second)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("rate.per_second", 1.0)
	v.SetDefault("rate.burst", 10)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the environment.
// Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(err, "dotenv %s", f)
		}
	}
	return nil
}

// Load reads file (if not empty, otherwise $HOME/.todo/config.yaml when present)
// into v and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "read config")
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	cfg := &Config{
		Server:     strings.TrimRight(v.GetString("server"), "/"),
		DataDir:    v.GetString("data_dir"),
		Token:      v.GetString("token"),
		Theme:      v.GetString("theme"),
		FlashDelay: v.GetDuration("flash_delay"),
		Timeout:    v.GetDuration("timeout"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Rate: RateConfig{
			PerSecond: v.GetFloat64("rate.per_second"),
			Burst:     v.GetInt("rate.burst"),
		},
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil {
		return errors.Wrap(err, "server")
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("server must be an absolute http(s) url, got %q", c.Server)
	}

	switch {
	case c.DataDir == "":
		return errors.New("data_dir is required")
	case c.FlashDelay <= 0:
		return errors.New("flash_delay must be positive")
	case c.Timeout <= 0:
		return errors.New("timeout must be positive")
	case c.Rate.PerSecond <= 0 || c.Rate.Burst <= 0:
		return errors.New("rate.per_second and rate.burst must be positive")
	}

	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return errors.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

// SessionFile is where the logged-in session is persisted.
func (c *Config) SessionFile() string { return filepath.Join(c.DataDir, "session.json") }

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(home, ".todo")
}

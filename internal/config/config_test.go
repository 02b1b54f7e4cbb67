package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/idilsaglam/todolists/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	v := config.New()
	v.Set("data_dir", t.TempDir())

	cfg, err := config.Load(v, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server != "http://localhost:8058" {
		t.Errorf("unexpected server %q", cfg.Server)
	}
	if cfg.FlashDelay != time.Second {
		t.Errorf("want 1s flash delay got %v", cfg.FlashDelay)
	}
	if cfg.Rate.PerSecond != 1 || cfg.Rate.Burst != 10 {
		t.Errorf("unexpected rate %+v", cfg.Rate)
	}
	if got, want := cfg.SessionFile(), filepath.Join(cfg.DataDir, "session.json"); got != want {
		t.Errorf("want %q got %q", want, got)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	body := "server: https://todo.example.com/\ntheme: neon\nflash_delay: 250ms\nlog:\n  level: debug\n"
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODO_LOG_LEVEL", "warn")

	v := config.New()
	v.Set("data_dir", dir)
	cfg, err := config.Load(v, file)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server != "https://todo.example.com" {
		t.Errorf("want trailing slash trimmed got %q", cfg.Server)
	}
	if cfg.Theme != "neon" || cfg.FlashDelay != 250*time.Millisecond {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("want env to override file, got level %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Server:     "http://localhost:8058",
			DataDir:    "x",
			Theme:      "classic",
			FlashDelay: time.Second,
			Timeout:    time.Second,
			Rate:       config.RateConfig{PerSecond: 1, Burst: 1},
		}
	}

	tt := []struct {
		Name   string
		Mutate func(*config.Config)
		OK     bool
	}{
		{"ok", func(*config.Config) {}, true},
		{"relative server", func(c *config.Config) { c.Server = "/api" }, false},
		{"ftp server", func(c *config.Config) { c.Server = "ftp://host" }, false},
		{"zero flash", func(c *config.Config) { c.FlashDelay = 0 }, false},
		{"zero burst", func(c *config.Config) { c.Rate.Burst = 0 }, false},
		{"bad theme", func(c *config.Config) { c.Theme = "pink" }, false},
		{"mono theme", func(c *config.Config) { c.Theme = "MONO" }, true},
	}
	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			c := base()
			tc.Mutate(&c)
			if err := c.Validate(); (err == nil) != tc.OK {
				t.Fatalf("want ok=%v got %v", tc.OK, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, ".env")
	if err := os.WriteFile(f, []byte("TODO_THEME_TEST_ONLY=mono\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODO_THEME_TEST_ONLY", "")
	os.Unsetenv("TODO_THEME_TEST_ONLY")

	if err := config.LoadDotEnv(filepath.Join(dir, "missing.env"), f); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("TODO_THEME_TEST_ONLY"); got != "mono" {
		t.Fatalf("want mono got %q", got)
	}
}

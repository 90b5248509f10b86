// Package config loads server settings. Values are layered: built-in
// defaults, then the optional YAML site file named by SITE_FILE, then
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr            string        `env:"ADDR" yaml:"addr"`
	StoreDriver     string        `env:"STORE_DRIVER" yaml:"store_driver"`
	SQLitePath      string        `env:"SQLITE_PATH" yaml:"sqlite_path"`
	RedisAddr       string        `env:"REDIS_ADDR" yaml:"redis_addr"`
	SessionTTL      time.Duration `env:"SESSION_TTL" yaml:"session_ttl"`
	StaticDir       string        `env:"STATIC_DIR" yaml:"static_dir"`
	TemplatesDir    string        `env:"TEMPLATES_DIR" yaml:"templates_dir"`
	FragmentBaseURL string        `env:"FRAGMENT_BASE_URL" yaml:"fragment_base_url"`
	SheetFont       string        `env:"SHEET_FONT" yaml:"sheet_font"`
	SecureCookie    bool          `env:"SECURE_COOKIE" yaml:"secure_cookie"`
}

type siteFile struct {
	Path string `env:"SITE_FILE"`
}

func Default() Config {
	return Config{
		Addr:         ":8080",
		StoreDriver:  "memory",
		SQLitePath:   "adventurelog.db",
		RedisAddr:    "localhost:6379",
		SessionTTL:   30 * 24 * time.Hour,
		StaticDir:    "static",
		TemplatesDir: "templates",
	}
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom resolves configuration against the given environment.
func LoadFrom(environ map[string]string) (Config, error) {
	cfg := Default()
	opts := env.Options{Environment: environ}

	var site siteFile
	if err := env.ParseWithOptions(&site, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if site.Path != "" {
		if err := loadSiteFile(site.Path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func loadSiteFile(path string, cfg *Config) error {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read site file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse site file %s: %w", path, err)
	}
	return nil
}

var errInvalid = errors.New("config: invalid")

func (c Config) Validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("%w: STORE_DRIVER %q", errInvalid, c.StoreDriver)
	}
	if c.StoreDriver == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("%w: SQLITE_PATH is required for sqlite", errInvalid)
	}
	if c.StoreDriver == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("%w: REDIS_ADDR is required for redis", errInvalid)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: ADDR is empty", errInvalid)
	}
	return nil
}

// Warnings lists settings that work but degrade output.
func (c Config) Warnings() []string {
	var out []string
	if c.SheetFont == "" {
		out = append(out, "SHEET_FONT is empty: worksheet PDFs will print Japanese text as placeholders; point it at a CJK TTF font such as Noto Sans JP")
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for the posts backend and the web frontend.
// Values come from defaults, then an optional YAML file named by
// CONFIG_FILE, then environment variables.
type Config struct {
	Port          string        `yaml:"port"`
	WebPort       string        `yaml:"web_port"`
	DBPath        string        `yaml:"db_path"`
	APIPrefix     string        `yaml:"api_prefix"`
	APIBase       string        `yaml:"api_base"`
	CORSOrigins   []string      `yaml:"cors_origins"`
	ClientTimeout time.Duration `yaml:"client_timeout"`
	MaxViewers    int           `yaml:"max_viewers"`
	Debug         bool          `yaml:"debug"`
}

func defaults() Config {
	return Config{
		Port:      "8000",
		WebPort:   "5173",
		DBPath:    "posts.db",
		APIPrefix: "/api/v1",
		APIBase:   "http://localhost:8000/api/v1",
		CORSOrigins: []string{
			"http://localhost:5173",
			"http://localhost:8080",
		},
		MaxViewers: 1000,
	}
}

// Load reads configuration with sensible defaults.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOrDefault("PORT", cfg.Port)
	cfg.WebPort = envOrDefault("WEB_PORT", cfg.WebPort)
	cfg.DBPath = envOrDefault("DB_PATH", cfg.DBPath)
	cfg.APIPrefix = envOrDefault("API_PREFIX", cfg.APIPrefix)
	cfg.APIBase = envOrDefault("API_BASE", cfg.APIBase)
	cfg.CORSOrigins = envOrDefaultList("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.ClientTimeout = envOrDefaultDuration("CLIENT_TIMEOUT", cfg.ClientTimeout)
	cfg.MaxViewers = envOrDefaultInt("MAX_VIEWERS", cfg.MaxViewers)
	cfg.Debug = envOrDefaultBool("DEBUG", cfg.Debug)

	cfg.APIPrefix = "/" + strings.Trim(cfg.APIPrefix, "/")
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port must not be empty")
	}
	if c.WebPort == "" {
		return errors.New("config: web_port must not be empty")
	}
	u, err := url.Parse(c.APIBase)
	if err != nil {
		return fmt.Errorf("config: api_base: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: api_base %q must be an http(s) URL", c.APIBase)
	}
	if c.MaxViewers < 1 {
		return errors.New("config: max_viewers must be positive")
	}
	if c.ClientTimeout < 0 {
		return errors.New("config: client_timeout must not be negative")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envOrDefaultBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envOrDefaultList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultsYAML embed.FS

// DevBaseURL is the fallback API host for local development.
const DevBaseURL = "http://localhost:5000"

type bookmarksConfig struct {
	Backend       string `yaml:"backend"`
	File          string `yaml:"file"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type chatConfig struct {
	MergePolicy string `yaml:"merge_policy"`
}

type notificationsConfig struct {
	RefreshIntervalSeconds int `yaml:"refresh_interval_seconds"`
}

type matchConfig struct {
	Limit int `yaml:"limit"`
}

// Config carries every tunable of the client. The single source of truth for
// the remote base URL lives here; application code never hardcodes hosts.
type Config struct {
	APIBaseURL            string              `yaml:"api_base_url"`
	RequestTimeoutSeconds int                 `yaml:"request_timeout_seconds"`
	LogLevel              string              `yaml:"log_level"`
	PrettyLog             bool                `yaml:"pretty_log"`
	Bookmarks             bookmarksConfig     `yaml:"bookmarks"`
	Chat                  chatConfig          `yaml:"chat"`
	Notifications         notificationsConfig `yaml:"notifications"`
	Match                 matchConfig         `yaml:"match"`
}

// RequestTimeout returns the bounded timeout applied to every outbound call.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// NotifyRefreshInterval returns the periodic recompute interval, 0 meaning
// login-only computation.
func (c *Config) NotifyRefreshInterval() time.Duration {
	if c.Notifications.RefreshIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Notifications.RefreshIntervalSeconds) * time.Second
}

// BookmarkFile resolves the durable bookmark path, defaulting to a versioned
// file under the user's home directory.
func (c *Config) BookmarkFile() string {
	if c.Bookmarks.File != "" {
		return c.Bookmarks.File
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookmarks.v1.json"
	}
	return filepath.Join(home, ".bokjikok", "bookmarks.v1.json")
}

// Load reads the embedded defaults, optionally merges an on-disk override
// file, then applies BOKJIKOK_* environment variables.
func Load(path string) (*Config, error) {
	data, err := defaultsYAML.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse embedded config: %w", err)
	}

	if path != "" {
		override, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(override))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BOKJIKOK_API_URL"); v != "" {
		cfg.APIBaseURL = v
	} else if dev, _ := strconv.ParseBool(os.Getenv("BOKJIKOK_DEV")); dev {
		cfg.APIBaseURL = DevBaseURL
	}
	if v := os.Getenv("BOKJIKOK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BOKJIKOK_BOOKMARK_FILE"); v != "" {
		cfg.Bookmarks.File = v
	}
	if v := os.Getenv("BOKJIKOK_BOOKMARK_BACKEND"); v != "" {
		cfg.Bookmarks.Backend = v
	}
	if v := os.Getenv("BOKJIKOK_REDIS_ADDR"); v != "" {
		cfg.Bookmarks.RedisAddr = v
	}
	if v := os.Getenv("BOKJIKOK_CHAT_MERGE_POLICY"); v != "" {
		cfg.Chat.MergePolicy = v
	}
	if v, err := strconv.Atoi(os.Getenv("BOKJIKOK_REQUEST_TIMEOUT_SECONDS")); err == nil && v > 0 {
		cfg.RequestTimeoutSeconds = v
	}
}

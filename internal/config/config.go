package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL           string        `yaml:"server_url"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	VaultPath           string        `yaml:"vault_path"`
	DefaultTimerMinutes int           `yaml:"default_timer_minutes"`
	LiveFeedBuffer      int           `yaml:"live_feed_buffer"`
}

func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		ServerURL:           "",
		RequestTimeout:      10 * time.Second,
		VaultPath:           filepath.Join(home, ".planr", "vault.db"),
		DefaultTimerMinutes: 25,
		LiveFeedBuffer:      16,
	}
}

// Load layers an optional YAML file, then PLANR_* env vars, over the
// defaults. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	return FromEnv(cfg), nil
}

func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("PLANR_SERVER_URL")); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANR_VAULT_PATH")); v != "" {
		cfg.VaultPath = v
	}
	if v, ok := getEnvInt("PLANR_REQUEST_TIMEOUT_SECONDS"); ok && v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v, ok := getEnvInt("PLANR_DEFAULT_TIMER_MINUTES"); ok && v > 0 {
		cfg.DefaultTimerMinutes = v
	}
	if v, ok := getEnvInt("PLANR_LIVE_FEED_BUFFER"); ok && v > 0 {
		cfg.LiveFeedBuffer = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAIBackendURL  = "http://localhost:3000"
	DefaultCheckInterval = 5 * time.Minute
)

type Config struct {
	DataDir              string        `yaml:"data_dir"`
	DBPath               string        `yaml:"db_path"`
	LogFile              string        `yaml:"log_file"`
	LogMode              string        `yaml:"log_mode"`
	AIBackendURL         string        `yaml:"ai_backend_url"`
	NotificationsEnabled bool          `yaml:"notifications_enabled"`
	CheckInterval        time.Duration `yaml:"check_interval"`
	Risk                 RiskConfig    `yaml:"risk"`
}

type RiskConfig struct {
	// WrapMidnight measures hour distance around the clock, so 23h and 0h
	// are one hour apart.
	WrapMidnight bool `yaml:"wrap_midnight"`
}

// DefaultDir returns ~/.config/winterarc.
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "winterarc"), nil
}

// ResolvePath maps an empty path to ~/.config/winterarc/config.yaml.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	return filepath.Join(Default().DataDir, "config.yaml")
}

func Default() *Config {
	dir, err := DefaultDir()
	if err != nil {
		dir = "."
	}
	return &Config{
		DataDir:              dir,
		DBPath:               filepath.Join(dir, "winterarc.db"),
		LogFile:              filepath.Join(dir, "winterarc.log"),
		LogMode:              "dev",
		AIBackendURL:         DefaultAIBackendURL,
		NotificationsEnabled: true,
		CheckInterval:        DefaultCheckInterval,
		Risk:                 RiskConfig{WrapMidnight: true},
	}
}

// Load reads the YAML config at path. An empty path means
// ~/.config/winterarc/config.yaml; a missing file yields Default().
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	path = ResolvePath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("WINTERARC_AI_BACKEND_URL")); v != "" {
		c.AIBackendURL = v
	}
}

// Init writes the default config to path, or the default location when
// path is empty. An existing file is kept unless force is set.
func Init(path string, force bool) (string, error) {
	path = ResolvePath(path)
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%s already exists", path)
	}
	return path, Default().Save(path)
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

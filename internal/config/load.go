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

// FileName is the optional per-user config file, resolved under $HOME.
const FileName = ".tasklab.yaml"

// DefaultEnvLookup reads from the process environment.
func DefaultEnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Load resolves the client configuration. Precedence, lowest to highest:
// built-in defaults, ~/.tasklab.yaml, TASKLAB_* environment variables,
// caller overrides.
func Load(opts ...Option) (Config, error) {
	options := loadOptions{
		envLookup: DefaultEnvLookup,
		readFile:  os.ReadFile,
		homeDir:   os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := Config{
		ServerURL:     DefaultServerURL,
		PollInterval:  DefaultPollInterval,
		AlertDuration: DefaultAlertDuration,
		HTTPTimeout:   DefaultHTTPTimeout,
		BodyLimit:     DefaultBodyLimit,
		WebAddr:       DefaultWebAddr,
	}

	if err := applyFile(&cfg, options); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, options.envLookup); err != nil {
		return Config{}, err
	}
	for _, apply := range options.overrides {
		apply(&cfg)
	}

	normalize(&cfg)
	return cfg, nil
}

func applyFile(cfg *Config, options loadOptions) error {
	home, err := options.homeDir()
	if err != nil {
		return nil // no home directory, no config file
	}

	path := filepath.Join(home, FileName)
	data, err := options.readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup EnvLookup) error {
	if lookup == nil {
		return nil
	}

	if value, ok := lookup("TASKLAB_SERVER_URL"); ok {
		cfg.ServerURL = value
	}
	if value, ok := lookup("TASKLAB_USERNAME"); ok {
		cfg.Username = value
	}
	if value, ok := lookup("TASKLAB_WEB_ADDR"); ok {
		cfg.WebAddr = value
	}
	if value, ok := lookup("TASKLAB_DEBUG"); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("TASKLAB_DEBUG: %w", err)
		}
		cfg.Debug = enabled
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"TASKLAB_POLL_INTERVAL", &cfg.PollInterval},
		{"TASKLAB_ALERT_DURATION", &cfg.AlertDuration},
		{"TASKLAB_HTTP_TIMEOUT", &cfg.HTTPTimeout},
	}
	for _, entry := range durations {
		value, ok := lookup(entry.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", entry.key, err)
		}
		*entry.target = parsed
	}

	return nil
}

func normalize(cfg *Config) {
	cfg.ServerURL = strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	cfg.WebAddr = strings.TrimSpace(cfg.WebAddr)
	cfg.Username = strings.TrimSpace(cfg.Username)

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.AlertDuration <= 0 {
		cfg.AlertDuration = DefaultAlertDuration
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	if cfg.WebAddr == "" {
		cfg.WebAddr = DefaultWebAddr
	}
}

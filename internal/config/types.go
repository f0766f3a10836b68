package config

import "time"

// Defaults applied before the config file and environment are consulted.
const (
	DefaultServerURL     = "http://localhost:8080"
	DefaultPollInterval  = 3 * time.Second
	DefaultAlertDuration = 2 * time.Second
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultBodyLimit     = 4 << 20 // 4 MiB response body cap
	DefaultWebAddr       = "127.0.0.1:8036"
)

// Config is the resolved runtime configuration for the client.
type Config struct {
	// ServerURL is the base URL of the task backend.
	ServerURL string `yaml:"server_url"`

	// PollInterval is the fixed period between task list refreshes.
	PollInterval time.Duration `yaml:"poll_interval"`

	// AlertDuration is how long transient alerts stay visible.
	AlertDuration time.Duration `yaml:"alert_duration"`

	// HTTPTimeout bounds each backend request at the transport level.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// BodyLimit caps response body size in bytes.
	BodyLimit int64 `yaml:"body_limit"`

	// WebAddr is the listen address for the local web shell.
	WebAddr string `yaml:"web_addr"`

	// Username pre-fills the login form; never the password.
	Username string `yaml:"username"`

	// Debug lowers the log level of the debug log file.
	Debug bool `yaml:"debug"`
}

// EnvLookup resolves an environment variable; tests inject their own.
type EnvLookup func(key string) (string, bool)

type loadOptions struct {
	envLookup EnvLookup
	readFile  func(string) ([]byte, error)
	homeDir   func() (string, error)
	overrides []func(*Config)
}

// Option customises Load.
type Option func(*loadOptions)

// WithEnv replaces the environment lookup used during loading.
func WithEnv(lookup EnvLookup) Option {
	return func(o *loadOptions) { o.envLookup = lookup }
}

// WithFileReader replaces the config file reader used during loading.
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(o *loadOptions) { o.readFile = read }
}

// WithHomeDir replaces the home directory resolver used during loading.
func WithHomeDir(home func() (string, error)) Option {
	return func(o *loadOptions) { o.homeDir = home }
}

// WithOverride applies a caller override after file and env values.
func WithOverride(apply func(*Config)) Option {
	return func(o *loadOptions) { o.overrides = append(o.overrides, apply) }
}

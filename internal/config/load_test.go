package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func noHome() (string, error) { return "", os.ErrNotExist }

func envFrom(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithEnv(envFrom(nil)), WithHomeDir(noHome))
	require.NoError(t, err)

	require.Equal(t, DefaultServerURL, cfg.ServerURL)
	require.Equal(t, DefaultPollInterval, cfg.PollInterval)
	require.Equal(t, DefaultAlertDuration, cfg.AlertDuration)
	require.Equal(t, int64(DefaultBodyLimit), cfg.BodyLimit)
	require.Equal(t, DefaultWebAddr, cfg.WebAddr)
	require.False(t, cfg.Debug)
}

func TestLoadConfigFile(t *testing.T) {
	file := []byte("server_url: https://tasks.example.com/\npoll_interval: 10s\nusername: alice\n")

	cfg, err := Load(
		WithEnv(envFrom(nil)),
		WithHomeDir(func() (string, error) { return "/home/alice", nil }),
		WithFileReader(func(path string) ([]byte, error) {
			require.Equal(t, "/home/alice/.tasklab.yaml", path)
			return file, nil
		}),
	)
	require.NoError(t, err)

	require.Equal(t, "https://tasks.example.com", cfg.ServerURL, "trailing slash trimmed")
	require.Equal(t, 10*time.Second, cfg.PollInterval)
	require.Equal(t, "alice", cfg.Username)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	file := []byte("server_url: https://file.example.com\n")
	env := envFrom(map[string]string{
		"TASKLAB_SERVER_URL":    "https://env.example.com",
		"TASKLAB_POLL_INTERVAL": "750ms",
		"TASKLAB_DEBUG":         "true",
	})

	cfg, err := Load(
		WithEnv(env),
		WithHomeDir(func() (string, error) { return "/home/alice", nil }),
		WithFileReader(func(string) ([]byte, error) { return file, nil }),
	)
	require.NoError(t, err)

	require.Equal(t, "https://env.example.com", cfg.ServerURL)
	require.Equal(t, 750*time.Millisecond, cfg.PollInterval)
	require.True(t, cfg.Debug)
}

func TestLoadCallerOverrideWinsOverEnv(t *testing.T) {
	env := envFrom(map[string]string{"TASKLAB_SERVER_URL": "https://env.example.com"})

	cfg, err := Load(
		WithEnv(env),
		WithHomeDir(noHome),
		WithOverride(func(cfg *Config) { cfg.ServerURL = "https://flag.example.com" }),
	)
	require.NoError(t, err)
	require.Equal(t, "https://flag.example.com", cfg.ServerURL)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := Load(
		WithEnv(envFrom(map[string]string{"TASKLAB_POLL_INTERVAL": "soon"})),
		WithHomeDir(noHome),
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "TASKLAB_POLL_INTERVAL")
}

func TestLoadMissingFileIsFine(t *testing.T) {
	cfg, err := Load(
		WithEnv(envFrom(nil)),
		WithHomeDir(func() (string, error) { return "/home/alice", nil }),
		WithFileReader(func(string) ([]byte, error) { return nil, os.ErrNotExist }),
	)
	require.NoError(t, err)
	require.Equal(t, DefaultServerURL, cfg.ServerURL)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(LoadOptions{SearchDir: t.TempDir(), LookupEnv: envMap(nil)})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Workspace:              "./workspace",
		MemoryDir:              "./memory",
		Model:                  "gpt-5-mini-2025-08-07",
		BaseURL:                "https://api.openai.com/v1",
		HTTPTimeout:            30,
		HTTPMaxBytes:           1048576,
		HTTPMaxRedirects:       5,
		TerminalTimeout:        30,
		TerminalMaxOutputChars: 10000,
		MemoryMaxMessages:      100,
		MemoryMaxSizeKB:        1024,
		MemoryKeepRecent:       10,
		MaxSteps:               12,
	}, cfg)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeoutDuration())
	assert.Equal(t, int64(1024*1024), cfg.MemoryMaxBytes())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := Load(LoadOptions{SearchDir: t.TempDir(), LookupEnv: envMap(map[string]string{
		"AGENT_WORKSPACE":           "/tmp/ws",
		"OPENAI_API_KEY":            "sk-env",
		"AGENT_TERMINAL_TIMEOUT":    "5",
		"AGENT_MEMORY_KEEP_RECENT":  "3",
		"AGENT_MEMORY_STRICT":       "true",
		"AGENT_HTTP_MAX_REDIRECTS":  "0",
		"AGENT_MEMORY_MAX_SIZE_KB":  "64",
		"AGENT_MEMORY_MAX_MESSAGES": "20",
	})})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ws", cfg.Workspace)
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.TerminalTimeoutDuration())
	assert.Equal(t, 3, cfg.MemoryKeepRecent)
	assert.True(t, cfg.MemoryStrict)
	assert.Equal(t, 0, cfg.HTTPMaxRedirects)
	assert.Equal(t, int64(64), cfg.MemoryMaxSizeKB)
	assert.Equal(t, 20, cfg.MemoryMaxMessages)
}

func TestLoadPriorityEnvOverDotEnvOverFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "agent.toml"), "model = \"from-file\"\nmax_steps = 4\nworkspace = \"file-ws\"\n")
	writeFile(t, filepath.Join(dir, ".env"), "OPENAI_MODEL=from-dotenv\nAGENT_WORKSPACE=dotenv-ws\n")

	cfg, err := Load(LoadOptions{SearchDir: dir, LookupEnv: envMap(map[string]string{
		"AGENT_WORKSPACE": "env-ws",
	})})
	require.NoError(t, err)

	assert.Equal(t, "env-ws", cfg.Workspace)
	assert.Equal(t, "from-dotenv", cfg.Model)
	assert.Equal(t, 4, cfg.MaxSteps)
}

func TestLoadExplicitConfigFileMustExist(t *testing.T) {
	t.Parallel()

	_, err := Load(LoadOptions{
		ConfigFile: filepath.Join(t.TempDir(), "missing.toml"),
		LookupEnv:  envMap(nil),
	})
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	_, err := Load(LoadOptions{SearchDir: t.TempDir(), LookupEnv: envMap(map[string]string{
		"AGENT_TERMINAL_TIMEOUT": "0",
		"OPENAI_BASE_URL":        "not a url",
	})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TerminalTimeout (gt)")
	assert.Contains(t, err.Error(), "BaseURL (url)")
}

func TestLoadRejectsNonNumericValues(t *testing.T) {
	t.Parallel()

	_, err := Load(LoadOptions{SearchDir: t.TempDir(), LookupEnv: envMap(map[string]string{
		"AGENT_HTTP_TIMEOUT": "soon",
	})})
	require.Error(t, err)
}

func TestEncodeTOMLRedactsAPIKey(t *testing.T) {
	t.Parallel()

	cfg, err := Load(LoadOptions{SearchDir: t.TempDir(), LookupEnv: envMap(map[string]string{
		"OPENAI_API_KEY": "sk-secret",
	})})
	require.NoError(t, err)

	data, err := cfg.EncodeTOML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-secret")

	var decoded Config
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, redactedSecret, decoded.APIKey)
	assert.Equal(t, cfg.Model, decoded.Model)
	assert.Equal(t, "sk-secret", cfg.APIKey)
}

func TestEnsureDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := Config{Workspace: filepath.Join(root, "ws", "nested"), MemoryDir: filepath.Join(root, "mem")}
	require.NoError(t, cfg.EnsureDirs())

	for _, dir := range []string{cfg.Workspace, cfg.MemoryDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

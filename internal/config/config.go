package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	DefaultConfigName = "agent"
	DefaultDotEnvFile = ".env"
	redactedSecret    = "********"
)

// Config is the effective runtime configuration. Timeouts are whole
// seconds.
type Config struct {
	Workspace              string `mapstructure:"workspace" toml:"workspace" validate:"required"`
	MemoryDir              string `mapstructure:"memory_dir" toml:"memory_dir" validate:"required"`
	Model                  string `mapstructure:"model" toml:"model" validate:"required"`
	APIKey                 string `mapstructure:"api_key" toml:"api_key"`
	BaseURL                string `mapstructure:"base_url" toml:"base_url" validate:"required,url"`
	HTTPTimeout            int    `mapstructure:"http_timeout" toml:"http_timeout" validate:"gt=0"`
	HTTPMaxBytes           int64  `mapstructure:"http_max_bytes" toml:"http_max_bytes" validate:"gt=0"`
	HTTPMaxRedirects       int    `mapstructure:"http_max_redirects" toml:"http_max_redirects" validate:"gte=0"`
	TerminalTimeout        int    `mapstructure:"terminal_timeout" toml:"terminal_timeout" validate:"gt=0"`
	TerminalMaxOutputChars int    `mapstructure:"terminal_max_output_chars" toml:"terminal_max_output_chars" validate:"gt=0"`
	MemoryMaxMessages      int    `mapstructure:"memory_max_messages" toml:"memory_max_messages" validate:"gte=0"`
	MemoryMaxSizeKB        int64  `mapstructure:"memory_max_size_kb" toml:"memory_max_size_kb" validate:"gte=0"`
	MemoryKeepRecent       int    `mapstructure:"memory_keep_recent" toml:"memory_keep_recent" validate:"gte=0"`
	MemoryStrict           bool   `mapstructure:"memory_strict" toml:"memory_strict"`
	MaxSteps               int    `mapstructure:"max_steps" toml:"max_steps" validate:"gt=0"`
}

type setting struct {
	key      string
	env      string
	fallback any
}

var settings = []setting{
	{key: "workspace", env: "AGENT_WORKSPACE", fallback: "./workspace"},
	{key: "memory_dir", env: "AGENT_MEMORY_DIR", fallback: "./memory"},
	{key: "model", env: "OPENAI_MODEL", fallback: "gpt-5-mini-2025-08-07"},
	{key: "api_key", env: "OPENAI_API_KEY", fallback: ""},
	{key: "base_url", env: "OPENAI_BASE_URL", fallback: "https://api.openai.com/v1"},
	{key: "http_timeout", env: "AGENT_HTTP_TIMEOUT", fallback: 30},
	{key: "http_max_bytes", env: "AGENT_HTTP_MAX_BYTES", fallback: 1024 * 1024},
	{key: "http_max_redirects", env: "AGENT_HTTP_MAX_REDIRECTS", fallback: 5},
	{key: "terminal_timeout", env: "AGENT_TERMINAL_TIMEOUT", fallback: 30},
	{key: "terminal_max_output_chars", env: "AGENT_TERMINAL_MAX_OUTPUT_CHARS", fallback: 10000},
	{key: "memory_max_messages", env: "AGENT_MEMORY_MAX_MESSAGES", fallback: 100},
	{key: "memory_max_size_kb", env: "AGENT_MEMORY_MAX_SIZE_KB", fallback: 1024},
	{key: "memory_keep_recent", env: "AGENT_MEMORY_KEEP_RECENT", fallback: 10},
	{key: "memory_strict", env: "AGENT_MEMORY_STRICT", fallback: false},
	{key: "max_steps", env: "AGENT_MAX_STEPS", fallback: 12},
}

type LoadOptions struct {
	// ConfigFile is an explicit TOML file. When empty, agent.toml in
	// SearchDir is used if present.
	ConfigFile string
	SearchDir  string
	// DotEnvFile defaults to .env in SearchDir. Values never override
	// variables already set in the environment.
	DotEnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load resolves the configuration from, in decreasing priority, the
// environment, the dotenv file, the TOML file and built-in defaults.
func Load(opts LoadOptions) (Config, error) {
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	searchDir := opts.SearchDir
	if searchDir == "" {
		searchDir = "."
	}

	v := viper.New()
	for _, s := range settings {
		v.SetDefault(s.key, s.fallback)
	}

	if err := readConfigFile(v, opts.ConfigFile, searchDir); err != nil {
		return Config{}, err
	}

	dotEnv, err := readDotEnv(opts.DotEnvFile, searchDir)
	if err != nil {
		return Config{}, err
	}

	for _, s := range settings {
		if value, ok := lookupEnv(s.env); ok {
			v.Set(s.key, value)
			continue
		}
		if value, ok := dotEnv[s.env]; ok {
			v.Set(s.key, value)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, explicit, searchDir string) error {
	path := explicit
	if path == "" {
		candidate := filepath.Join(searchDir, DefaultConfigName+".toml")
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("stat config file: %w", err)
		}
		path = candidate
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	return nil
}

// readDotEnv returns the dotenv entries keyed by upper-case variable name.
// A missing file yields no entries.
func readDotEnv(path, searchDir string) (map[string]string, error) {
	if path == "" {
		path = filepath.Join(searchDir, DefaultDotEnvFile)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("stat dotenv file: %w", err)
	}

	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("dotenv")
	if err := dv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read dotenv file %s: %w", path, err)
	}

	values := make(map[string]string, len(dv.AllKeys()))
	for _, key := range dv.AllKeys() {
		values[strings.ToUpper(key)] = dv.GetString(key)
	}
	return values, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

func (c Config) TerminalTimeoutDuration() time.Duration {
	return time.Duration(c.TerminalTimeout) * time.Second
}

func (c Config) MemoryMaxBytes() int64 {
	return c.MemoryMaxSizeKB * 1024
}

// EnsureDirs creates the workspace and memory directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.Workspace, c.MemoryDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = redactedSecret
	}
	return c
}

// EncodeTOML renders the redacted configuration.
func (c Config) EncodeTOML() ([]byte, error) {
	data, err := toml.Marshal(c.Redacted())
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// Package config loads pressdesk settings from defaults, the config file,
// a .env file, PRESSDESK_* environment variables and command-line flags,
// later sources overriding earlier ones.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/pressdesk/internal/errors"
)

const (
	// FileName is the config file inside the pressdesk home directory.
	FileName = "config.yaml"
	// HomeEnv overrides the pressdesk home directory.
	HomeEnv = "PRESSDESK_HOME"

	DefaultAPIURL  = "http://localhost:8001"
	DefaultTimeout = 30 * time.Second
)

// Config holds pressdesk settings.
type Config struct {
	APIURL         string        `yaml:"api_url" envconfig:"PRESSDESK_API_URL"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"PRESSDESK_TIMEOUT"`
	LogLevel       string        `yaml:"log_level" envconfig:"PRESSDESK_LOG_LEVEL"`
	LogFormat      string        `yaml:"log_format" envconfig:"PRESSDESK_LOG_FORMAT"`
	AgentRateLimit float64       `yaml:"agent_rate_limit" envconfig:"PRESSDESK_AGENT_RATE_LIMIT"`
	HealthRetries  int           `yaml:"health_retries" envconfig:"PRESSDESK_HEALTH_RETRIES"`
	RenderStyle    string        `yaml:"render_style" envconfig:"PRESSDESK_RENDER_STYLE"`

	// Home is resolved before the file is read, so it is never stored in it.
	Home string `yaml:"-" ignored:"true"`
}

// Flags carries command-line overrides. Empty fields are ignored.
type Flags struct {
	APIURL    string
	Home      string
	LogLevel  string
	LogFormat string
}

// Options controls where Load looks.
type Options struct {
	Flags Flags
	// EnvFile is the dotenv file to read; "" means ".env" in the working directory.
	EnvFile string
}

// Default returns the built-in settings for home.
func Default(home string) *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		Timeout:        DefaultTimeout,
		LogLevel:       "warn",
		LogFormat:      "text",
		AgentRateLimit: 2,
		HealthRetries:  2,
		RenderStyle:    "auto",
		Home:           home,
	}
}

// DefaultHome is ~/.pressdesk, or .pressdesk when the user home is unknown.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pressdesk"
	}
	return filepath.Join(home, ".pressdesk")
}

// Load builds the effective configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeConfigEnv, fmt.Sprintf("failed to read %s", envFile), err)
	}

	cfg := Default(resolveHome(opts.Flags.Home))

	if err := cfg.readFile(); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigEnv, "invalid PRESSDESK_* environment variable", err).
			WithSuggestion("Check the values of PRESSDESK_* variables in your environment or .env file")
	}

	cfg.applyFlags(opts.Flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveHome(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(HomeEnv); env != "" {
		return env
	}
	return DefaultHome()
}

// Path returns the config file location.
func (c *Config) Path() string {
	return filepath.Join(c.Home, FileName)
}

func (c *Config) readFile() error {
	data, err := os.ReadFile(c.Path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read %s", c.Path()), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.NewConfigInvalidError(c.Path(), err)
	}
	return nil
}

func (c *Config) applyFlags(f Flags) {
	if f.APIURL != "" {
		c.APIURL = f.APIURL
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.LogFormat != "" {
		c.LogFormat = f.LogFormat
	}
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewInputInvalidError("api_url", c.APIURL, []string{"an http:// or https:// URL"})
	}
	if c.Timeout <= 0 {
		return errors.NewInputInvalidError("timeout", c.Timeout.String(), []string{"a positive duration such as 30s"})
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.NewInputInvalidError("log_format", c.LogFormat, []string{"text", "json"})
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewInputInvalidError("log_level", c.LogLevel, []string{"debug", "info", "warn", "error"})
	}
	if c.AgentRateLimit < 0 {
		return errors.NewInputInvalidError("agent_rate_limit", fmt.Sprint(c.AgentRateLimit), []string{"0 (unlimited) or a positive number"})
	}
	if c.HealthRetries < 0 {
		return errors.NewInputInvalidError("health_retries", strconv.Itoa(c.HealthRetries), []string{"0 or more"})
	}
	return nil
}

// Keys lists the settable keys in file order.
func Keys() []string {
	return []string{"api_url", "timeout", "log_level", "log_format", "agent_rate_limit", "health_retries", "render_style"}
}

// Get returns a setting by its file key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "timeout":
		return c.Timeout.String(), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "agent_rate_limit":
		return strconv.FormatFloat(c.AgentRateLimit, 'g', -1, 64), nil
	case "health_retries":
		return strconv.Itoa(c.HealthRetries), nil
	case "render_style":
		return c.RenderStyle, nil
	default:
		return "", unknownKey(key)
	}
}

// Set updates a setting by its file key and validates the result.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "api_url":
		next.APIURL = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.NewInputInvalidError("timeout", value, []string{"a duration such as 30s or 1m"})
		}
		next.Timeout = d
	case "log_level":
		next.LogLevel = value
	case "log_format":
		next.LogFormat = value
	case "agent_rate_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.NewInputInvalidError("agent_rate_limit", value, []string{"a number of requests per second"})
		}
		next.AgentRateLimit = f
	case "health_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.NewInputInvalidError("health_retries", value, []string{"a whole number"})
		}
		next.HealthRetries = n
	case "render_style":
		next.RenderStyle = value
	default:
		return unknownKey(key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Save writes the file-backed settings to Path.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create %s", c.Home), err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to encode config", err)
	}
	if err := os.WriteFile(c.Path(), data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write %s", c.Path()), err)
	}
	return nil
}

// LoadFile reads only the config file at home on top of the defaults. The
// config set command uses it so environment overrides are not persisted.
func LoadFile(home string) (*Config, error) {
	cfg := Default(home)
	if err := cfg.readFile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func unknownKey(key string) error {
	return errors.NewInputInvalidError("configuration key", key, Keys())
}

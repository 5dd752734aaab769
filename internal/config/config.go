// Package config loads the server configuration from defaults, an optional YAML file
// and the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcpjungle/obsidian-mcp/client"
	"github.com/mcpjungle/obsidian-mcp/internal"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	APIKeyEnvVar     = "OBSIDIAN_API_KEY"
	ProtocolEnvVar   = "OBSIDIAN_PROTOCOL"
	HostEnvVar       = "OBSIDIAN_HOST"
	PortEnvVar       = "OBSIDIAN_PORT"
	VerifySSLEnvVar  = "OBSIDIAN_VERIFY_SSL"
	TimeoutSecEnvVar = "OBSIDIAN_TIMEOUT_SEC"
)

const (
	TransportEnvVar        = "MCP_TRANSPORT"
	BindPortEnvVar         = "PORT"
	MetricsPortEnvVar      = "METRICS_PORT"
	AccessTokenEnvVar      = "MCP_ACCESS_TOKEN"
	TelemetryEnabledEnvVar = "OTEL_ENABLED"
	LogLevelEnvVar         = "LOG_LEVEL"
	LogFormatEnvVar        = "LOG_FORMAT"
)

const (
	BindPortDefault  = "8080"
	LogLevelDefault  = "info"
	LogFormatDefault = "console"
)

// ErrMissingAPIKey is returned by Validate when no vault API key was configured.
var ErrMissingAPIKey = fmt.Errorf("%s environment variable is required", APIKeyEnvVar)

// Config is the complete runtime configuration of the server.
type Config struct {
	Vault client.Config

	Transport   types.Transport
	BindPort    string
	MetricsPort string
	AccessToken string

	TelemetryEnabled bool

	LogLevel  string
	LogFormat string
}

// Overrides carries values supplied on the command line.
// Empty fields leave the loaded value untouched.
type Overrides struct {
	Transport   string
	BindPort    string
	MetricsPort string
}

// fileConfig mirrors the YAML config file layout.
type fileConfig struct {
	Obsidian struct {
		APIKey     string `yaml:"api_key"`
		Protocol   string `yaml:"protocol"`
		Host       string `yaml:"host"`
		Port       int    `yaml:"port"`
		VerifySSL  *bool  `yaml:"verify_ssl"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"obsidian"`
	Server struct {
		Transport   string `yaml:"transport"`
		Port        string `yaml:"port"`
		MetricsPort string `yaml:"metrics_port"`
		AccessToken string `yaml:"access_token"`
	} `yaml:"server"`
	Telemetry struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"telemetry"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Vault:     client.DefaultConfig(),
		Transport: types.TransportStdio,
		BindPort:  BindPortDefault,
		LogLevel:  LogLevelDefault,
		LogFormat: LogFormatDefault,
	}
}

// Load builds the configuration.
// precedence: overrides > environment variables > config file at path (if not empty) > defaults
// Files referenced by the config path and by *_FILE environment variables are read from fsys.
func Load(fsys afero.Fs, path string, overrides Overrides) (*Config, error) {
	conf := Default()

	if path != "" {
		if err := conf.applyFile(fsys, path); err != nil {
			return nil, err
		}
	}
	if err := conf.applyEnv(fsys); err != nil {
		return nil, err
	}

	if overrides.Transport != "" {
		t, err := types.ValidateTransport(overrides.Transport)
		if err != nil {
			return nil, err
		}
		conf.Transport = t
	}
	if overrides.BindPort != "" {
		if err := validatePort("--port", overrides.BindPort); err != nil {
			return nil, err
		}
		conf.BindPort = overrides.BindPort
	}
	if overrides.MetricsPort != "" {
		if err := validatePort("--metrics-port", overrides.MetricsPort); err != nil {
			return nil, err
		}
		conf.MetricsPort = overrides.MetricsPort
	}

	if conf.AccessToken != "" {
		if err := internal.ValidateAccessToken(conf.AccessToken); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", AccessTokenEnvVar, err)
		}
	}

	return conf, nil
}

// Validate checks that everything needed to reach the vault is present.
func (c *Config) Validate() error {
	if c.Vault.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *Config) applyFile(fsys afero.Fs, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	o := fc.Obsidian
	setString(&c.Vault.APIKey, o.APIKey)
	setString(&c.Vault.Protocol, o.Protocol)
	setString(&c.Vault.Host, o.Host)
	if o.Port != 0 {
		if err := validatePort("obsidian.port", strconv.Itoa(o.Port)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		c.Vault.Port = o.Port
	}
	if o.VerifySSL != nil {
		c.Vault.VerifySSL = *o.VerifySSL
	}
	if o.TimeoutSec != 0 {
		c.Vault.Timeout = time.Duration(o.TimeoutSec) * time.Second
	}

	if fc.Server.Transport != "" {
		t, err := types.ValidateTransport(fc.Server.Transport)
		if err != nil {
			return fmt.Errorf("invalid server.transport in %s: %w", path, err)
		}
		c.Transport = t
	}
	if fc.Server.Port != "" {
		if err := validatePort("server.port", fc.Server.Port); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		c.BindPort = fc.Server.Port
	}
	if fc.Server.MetricsPort != "" {
		if err := validatePort("server.metrics_port", fc.Server.MetricsPort); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		c.MetricsPort = fc.Server.MetricsPort
	}
	setString(&c.AccessToken, fc.Server.AccessToken)

	if fc.Telemetry.Enabled != nil {
		c.TelemetryEnabled = *fc.Telemetry.Enabled
	}

	setString(&c.LogLevel, fc.Log.Level)
	setString(&c.LogFormat, fc.Log.Format)
	return nil
}

func (c *Config) applyEnv(fsys afero.Fs) error {
	apiKey, err := getEnvOrFile(fsys, APIKeyEnvVar)
	if err != nil {
		return err
	}
	setString(&c.Vault.APIKey, apiKey)

	if v := os.Getenv(ProtocolEnvVar); v != "" {
		v = strings.ToLower(v)
		if v != "http" && v != "https" {
			return fmt.Errorf("invalid value for %s: '%s', valid values are 'http' and 'https'", ProtocolEnvVar, v)
		}
		c.Vault.Protocol = v
	}
	setString(&c.Vault.Host, os.Getenv(HostEnvVar))

	if v := strings.TrimSpace(os.Getenv(PortEnvVar)); v != "" {
		if err := validatePort(PortEnvVar, v); err != nil {
			return err
		}
		c.Vault.Port, _ = strconv.Atoi(v)
	}
	if verify, ok, err := getBool(VerifySSLEnvVar); err != nil {
		return err
	} else if ok {
		c.Vault.VerifySSL = verify
	}
	if timeout, ok, err := getPositiveInt(TimeoutSecEnvVar); err != nil {
		return err
	} else if ok {
		c.Vault.Timeout = time.Duration(timeout) * time.Second
	}

	if v := os.Getenv(TransportEnvVar); v != "" {
		t, err := types.ValidateTransport(strings.ToLower(v))
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", TransportEnvVar, err)
		}
		c.Transport = t
	}
	for envVar, dst := range map[string]*string{
		BindPortEnvVar:    &c.BindPort,
		MetricsPortEnvVar: &c.MetricsPort,
	} {
		v := strings.TrimSpace(os.Getenv(envVar))
		if v == "" {
			continue
		}
		if err := validatePort(envVar, v); err != nil {
			return err
		}
		*dst = v
	}

	token, err := getEnvOrFile(fsys, AccessTokenEnvVar)
	if err != nil {
		return err
	}
	setString(&c.AccessToken, token)

	if enabled, ok, err := getBool(TelemetryEnabledEnvVar); err != nil {
		return err
	} else if ok {
		c.TelemetryEnabled = enabled
	}

	setString(&c.LogLevel, os.Getenv(LogLevelEnvVar))
	setString(&c.LogFormat, os.Getenv(LogFormatEnvVar))
	return nil
}

// getEnvOrFile returns the value of the given environment variable.
// If the environment variable is not set, it checks for a corresponding
// _FILE environment variable and reads the value from the file if it exists.
// If neither is set, it returns an empty string.
// If both are set, the value of the original environment variable takes precedence.
func getEnvOrFile(fsys afero.Fs, envVar string) (string, error) {
	val := os.Getenv(envVar)
	if val != "" {
		return val, nil
	}

	fileEnvVar := envVar + "_FILE"
	filePath := os.Getenv(fileEnvVar)
	if filePath != "" {
		data, err := afero.ReadFile(fsys, filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", fileEnvVar, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return "", nil
}

func getPositiveInt(envVar string) (int, bool, error) {
	s := strings.TrimSpace(os.Getenv(envVar))
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false, fmt.Errorf("invalid value for %s: '%s', must be a positive integer", envVar, s)
	}
	return n, true, nil
}

// validatePort checks that value is a TCP port number. name identifies the setting in the error.
func validatePort(name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid value for %s: '%s', must be a port number between 1 and 65535", name, value)
	}
	return nil
}

func getBool(envVar string) (bool, bool, error) {
	s := strings.ToLower(strings.TrimSpace(os.Getenv(envVar)))
	switch s {
	case "":
		return false, false, nil
	case "true", "1":
		return true, true, nil
	case "false", "0":
		return false, true, nil
	}
	return false, false, fmt.Errorf(
		"invalid value for %s environment variable: '%s', valid values are 'true' or 'false'", envVar, s,
	)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}


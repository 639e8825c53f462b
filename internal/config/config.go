package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/statehistory/internal/config/loader"
)

// Config holds the merged configuration from defaults, the TOML file and
// the environment, in increasing order of precedence.
type Config struct {
	mu   sync.RWMutex
	data map[string]any

	filePath  string
	envPrefix string
	fs        loader.FileSystem
	environ   func() []string

	// configErrors records type mismatches seen by the section accessors.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the TOML file to read. A missing file is not an error.
func WithFile(path string) Option {
	return func(c *Config) {
		c.filePath = path
	}
}

// WithEnvPrefix sets the environment variable prefix. Empty disables the
// environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithFileSystem replaces the file system used to read the TOML file.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnviron replaces os.Environ for the environment layer.
func WithEnviron(environ func() []string) Option {
	return func(c *Config) {
		c.environ = environ
	}
}

// New creates a configuration holding only the defaults.
func New(opts ...Option) *Config {
	c := &Config{
		data:      defaults(),
		envPrefix: loader.DefaultEnvPrefix,
		fs:        loader.DefaultFS(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaults returns the built-in configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level":  "info",
			"prefix": "statehistory",
		},
		"script": map[string]any{
			"callLimit": int64(DefaultCallLimit),
			"timeout":   DefaultScriptTimeout.String(),
		},
		"repl": map[string]any{
			"prompt": "> ",
			"echo":   false,
		},
	}
}

// Load reads the file and environment layers over the defaults.
func (c *Config) Load() error {
	merged := defaults()

	fileCfg, err := loader.NewTOMLLoaderWithFS(c.fs, c.filePath).Load()
	if err != nil {
		return err
	}
	merged = loader.DeepMerge(merged, fileCfg)

	if c.envPrefix != "" {
		env := loader.NewEnvLoader(c.envPrefix)
		if c.environ != nil {
			env.SetEnviron(c.environ)
		}
		envCfg, err := env.Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envCfg)
	}

	c.mu.Lock()
	c.data = merged
	c.configErrors = nil
	c.mu.Unlock()
	return nil
}

// Get returns the raw value at a dot-separated path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetByPath(c.data, path)
}

// Set overrides the value at a dot-separated path, e.g. from a CLI flag.
func (c *Config) Set(path string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	loader.SetByPath(c.data, path, value)
}

// GetString returns the string at path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, not string", ErrTypeMismatch, path, v)
	}
	return s, nil
}

// GetInt returns the integer at path.
func (c *Config) GetInt(path string) (int64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %s is %T, not integer", ErrTypeMismatch, path, v)
}

// GetBool returns the boolean at path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T, not bool", ErrTypeMismatch, path, v)
	}
	return b, nil
}

// GetDuration returns the duration at path. Strings are parsed with
// time.ParseDuration so TOML files can write "2s".
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, path, err)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("%w: %s is %T, not duration", ErrTypeMismatch, path, v)
}

// ConfigErrors returns the type errors recorded by section accessors.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

// recordConfigError keeps the first error seen for each path.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

package config

import (
	"errors"
	"time"
)

// Defaults shared with the script runtime.
const (
	DefaultCallLimit     = 100_000
	DefaultScriptTimeout = 5 * time.Second
)

// Section accessors return snapshot structs; fall back to the default on a
// missing or mistyped setting and record the type error.

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Prefix is prepended to every log line.
	Prefix string
}

// ScriptConfig provides type-safe access to Lua script settings.
type ScriptConfig struct {
	// CallLimit caps the history calls a single script run may make.
	CallLimit int64
	// Timeout bounds a single script run.
	Timeout time.Duration
}

// REPLConfig provides type-safe access to interactive session settings.
type REPLConfig struct {
	// Prompt is written before each input line.
	Prompt string
	// Echo writes each command back before its output.
	Echo bool
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level:  c.getStringOr("logging.level", "info"),
		Prefix: c.getStringOr("logging.prefix", "statehistory"),
	}
}

// Script returns type-safe access to script settings.
func (c *Config) Script() ScriptConfig {
	return ScriptConfig{
		CallLimit: c.getIntOr("script.callLimit", DefaultCallLimit),
		Timeout:   c.getDurationOr("script.timeout", DefaultScriptTimeout),
	}
}

// REPL returns type-safe access to REPL settings.
func (c *Config) REPL() REPLConfig {
	return REPLConfig{
		Prompt: c.getStringOr("repl.prompt", "> "),
		Echo:   c.getBoolOr("repl.echo", false),
	}
}

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int64) int64 {
	v, err := c.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

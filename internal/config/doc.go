// Package config provides layered configuration for statehistory.
//
// Layers, lowest precedence first:
//
//  1. Built-in defaults
//  2. TOML file (see -config)
//  3. Environment variables prefixed STATEHISTORY_
//
// Example file:
//
//	[logging]
//	level = "debug"
//
//	[script]
//	callLimit = 5000
//	timeout = "2s"
//
//	[repl]
//	prompt = "history> "
//	echo = true
//
// Settings are read through typed section accessors:
//
//	cfg := config.New(config.WithFile(path))
//	if err := cfg.Load(); err != nil { ... }
//	level := cfg.Logging().Level
package config

// Package config handles configuration management for json2ansi.
// It supports loading configuration from multiple sources including
// TOML files, environment variables, and command-line flags.
package config

// Package config loads, normalizes, and validates slated's TOML configuration.
//
// Load searches the explicit --config path, then ~/.config/slated/config.toml,
// then ./slated.toml, falling back to built-in defaults when no file exists.
// All path fields are tilde-expanded and made absolute before validation.
package config

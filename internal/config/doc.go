// Package config loads, normalizes, and validates bidsheur settings.
//
// Values come from Default, then from a TOML file found at
// ~/.config/bidsheur/config.toml or ./bidsheur.toml (or an explicit path),
// and finally from command-line flags applied by the caller.
package config

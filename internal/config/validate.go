package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Locate.MaxDepth < 0 {
		return fmt.Errorf("locate.max_depth must be positive, got %d", c.Locate.MaxDepth)
	}
	if c.Locate.Ascend < 0 {
		return fmt.Errorf("locate.ascend must not be negative, got %d", c.Locate.Ascend)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log_level must be one of debug, info, warn, error")
	}
	return nil
}

package config

import (
	"runtime"
	"strings"

	"github.com/mrsinham/bidsheur/internal/bids"
)

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Rules) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Rules))
		if err != nil {
			return err
		}
		c.Rules = expanded
	}
	c.Subject = bids.NormalizeSubject(strings.TrimSpace(c.Subject))
	c.Session = strings.TrimSpace(c.Session)
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Locate.MaxDepth == 0 {
		c.Locate.MaxDepth = defaultMaxDepth
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

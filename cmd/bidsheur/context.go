package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrsinham/bidsheur/internal/config"
	"github.com/mrsinham/bidsheur/internal/heuristic"
	"github.com/mrsinham/bidsheur/internal/logging"
)

type globalFlags struct {
	config    string
	rules     string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	rulesOnce sync.Once
	rules     *heuristic.RuleSet
	rulesErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the configuration once and applies the global flag
// overrides on top of it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, resolved, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if v := strings.TrimSpace(c.flags.rules); v != "" {
			expanded, err := config.ExpandPath(v)
			if err != nil {
				c.configErr = fmt.Errorf("resolve rules path: %w", err)
				return
			}
			cfg.Rules = expanded
		}
		if v := strings.TrimSpace(c.flags.logLevel); v != "" {
			cfg.LogLevel = strings.ToLower(v)
		}
		if v := strings.TrimSpace(c.flags.logFormat); v != "" {
			cfg.LogFormat = strings.ToLower(v)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger builds a logger writing to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return newLogger(cfg, cmd.ErrOrStderr())
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: w,
	})
}

// ruleSet returns the active rule table: the configured file, or the
// built-in rest-awake table when none is set.
func (c *commandContext) ruleSet() (*heuristic.RuleSet, error) {
	c.rulesOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.rulesErr = err
			return
		}
		if cfg.Rules == "" {
			c.rules, c.rulesErr = heuristic.RestAwake9T()
			return
		}
		c.rules, c.rulesErr = heuristic.LoadRuleSet(cfg.Rules)
	})
	return c.rules, c.rulesErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func dirArg(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return "."
}

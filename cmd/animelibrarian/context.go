package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"animelibrarian/internal/config"
)

type rootFlags struct {
	config  string
	source  string
	target  string
	verbose bool
	dryRun  bool
	yes     bool
	format  string
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the configuration once and applies the path flags on
// top of the file and environment values.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if err := applyPathFlag(&cfg.Paths.SourceDir, c.flags.source, "--source"); err != nil {
			c.configErr = err
			return
		}
		if err := applyPathFlag(&cfg.Paths.TargetDir, c.flags.target, "--target"); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func applyPathFlag(dst *string, value, flag string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	expanded, err := config.ExpandPath(value)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", flag, err)
	}
	*dst = expanded
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"animelibrarian/internal/media"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWorkflow(); err != nil {
		return err
	}
	c.normalizeMedia()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		if value, ok := os.LookupEnv(EnvSourcePath); ok {
			c.Paths.SourceDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		if value, ok := os.LookupEnv(EnvTargetPath); ok {
			c.Paths.TargetDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.TargetDir, err = expandPath(strings.TrimSpace(c.Paths.TargetDir)); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWorkflow() error {
	// The API key from the environment wins over the file so secrets can stay out of it.
	if value, ok := os.LookupEnv(EnvWorkflowAPIKey); ok && strings.TrimSpace(value) != "" {
		c.Workflow.APIKey = value
	}
	c.Workflow.APIKey = strings.TrimSpace(c.Workflow.APIKey)

	c.Workflow.Endpoint = strings.TrimSpace(c.Workflow.Endpoint)
	if value, ok := os.LookupEnv(EnvWorkflowEndpoint); ok && strings.TrimSpace(value) != "" {
		c.Workflow.Endpoint = strings.TrimSpace(value)
	}
	if c.Workflow.Endpoint == "" {
		c.Workflow.Endpoint = defaultWorkflowEndpoint
	}

	c.Workflow.User = strings.TrimSpace(c.Workflow.User)
	if value, ok := os.LookupEnv(EnvWorkflowUser); ok && strings.TrimSpace(value) != "" {
		c.Workflow.User = strings.TrimSpace(value)
	}
	if c.Workflow.User == "" {
		c.Workflow.User = defaultWorkflowUser
	}

	if value, ok := os.LookupEnv(EnvWorkflowTimeout); ok && strings.TrimSpace(value) != "" {
		seconds, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvWorkflowTimeout, value)
		}
		c.Workflow.TimeoutSeconds = seconds
	}
	return nil
}

func (c *Config) normalizeMedia() {
	c.Media.VideoExtensions = normalizeExtensions(c.Media.VideoExtensions)
	c.Media.SubtitleExtensions = normalizeExtensions(c.Media.SubtitleExtensions)
}

func normalizeExtensions(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		ext := media.NormalizeExtension(value)
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

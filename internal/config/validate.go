package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateRunPaths ensures source and target directories are set. They are
// checked separately because command-line flags may supply them after Load.
func (c *Config) ValidateRunPaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return fmt.Errorf("source path not set; pass --source, set paths.source_dir, or export %s", EnvSourcePath)
	}
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		return fmt.Errorf("target path not set; pass --target, set paths.target_dir, or export %s", EnvTargetPath)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	parsed, err := url.Parse(c.Workflow.Endpoint)
	if err != nil {
		return fmt.Errorf("workflow.endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("workflow.endpoint must be an http(s) URL, got %q", c.Workflow.Endpoint)
	}
	if parsed.Host == "" {
		return fmt.Errorf("workflow.endpoint is missing a host: %q", c.Workflow.Endpoint)
	}
	if c.Workflow.TimeoutSeconds <= 0 {
		return errors.New("workflow.timeout_seconds must be positive")
	}
	if c.Workflow.RetryAttempts <= 0 {
		return errors.New("workflow.retry_attempts must be at least 1")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if len(c.Media.VideoExtensions) == 0 && len(c.Media.SubtitleExtensions) == 0 {
		return errors.New("media.video_extensions and media.subtitle_extensions cannot both be empty")
	}
	seen := make(map[string]struct{}, len(c.Media.VideoExtensions))
	for _, ext := range c.Media.VideoExtensions {
		seen[ext] = struct{}{}
	}
	for _, ext := range c.Media.SubtitleExtensions {
		if _, ok := seen[ext]; ok {
			return fmt.Errorf("extension %q is listed as both video and subtitle", ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// HasWorkflowKey reports whether a real workflow API key is configured.
func (c *Config) HasWorkflowKey() bool {
	key := strings.TrimSpace(c.Workflow.APIKey)
	return key != "" && key != SampleAPIKey
}

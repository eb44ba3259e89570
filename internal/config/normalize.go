package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMirror()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMirror() {
	if c.Mirror.Concurrency <= 0 {
		c.Mirror.Concurrency = defaultMirrorConcurrency
	}
	fields := make([]string, 0, len(c.Mirror.OrganizeBy))
	for _, field := range c.Mirror.OrganizeBy {
		trimmed := strings.ToLower(strings.TrimSpace(field))
		if trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	if len(fields) == 0 {
		fields = []string{"show", "scene"}
	}
	c.Mirror.OrganizeBy = fields

	if trimmed := strings.TrimSpace(c.Mirror.DestinationRoot); trimmed != "" {
		if expanded, err := expandPath(trimmed); err == nil {
			c.Mirror.DestinationRoot = expanded
		}
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(c.LogFormat) == "" {
		c.LogFormat = defaultLogFormat
	}
}

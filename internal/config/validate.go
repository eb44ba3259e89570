package config

import (
	"errors"
	"fmt"
	"strings"
)

var organizeFields = map[string]struct{}{
	"show":        {},
	"scene":       {},
	"category":    {},
	"subcategory": {},
	"take":        {},
}

// OrganizeFieldAllowed reports whether a field name may be used as a mirror
// organize level.
func OrganizeFieldAllowed(field string) bool {
	_, ok := organizeFields[strings.ToLower(strings.TrimSpace(field))]
	return ok
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMirror(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	return nil
}

func (c *Config) validateMirror() error {
	for _, field := range c.Mirror.OrganizeBy {
		if !OrganizeFieldAllowed(field) {
			return fmt.Errorf("mirror.organize_by: unknown field %q (allowed: show, scene, category, subcategory, take)", field)
		}
	}
	if c.Mirror.Concurrency < 1 || c.Mirror.Concurrency > 64 {
		return fmt.Errorf("mirror.concurrency must be between 1 and 64, got %d", c.Mirror.Concurrency)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"contestdump/internal/services"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	if err := c.validateOutput(); err != nil {
		return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	if err := c.validateDownload(); err != nil {
		return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	return nil
}

func (c *Config) validateSource() error {
	if c.ReplayMode() {
		return nil
	}
	if c.Source.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/contestdump/config.toml"
		}
		return fmt.Errorf("source.base_url or source.base_file_path is required. Set CONTESTDUMP_BASE_URL or edit %s (create with 'contestdump config init')", defaultPath)
	}
	if !strings.HasPrefix(c.Source.BaseURL, "http://") && !strings.HasPrefix(c.Source.BaseURL, "https://") {
		return fmt.Errorf("source.base_url must be an http(s) url, got %q", c.Source.BaseURL)
	}
	if c.Source.CID == "" {
		return errors.New("source.cid must be set when source.base_url is used")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.SavedDir == "" {
		return errors.New("output.saved_dir must be set")
	}
	if c.Output.SavedDir == filepath.Dir(c.Output.SavedDir) {
		return fmt.Errorf("output.saved_dir must not be a filesystem root, got %q", c.Output.SavedDir)
	}
	if !c.ReplayMode() {
		return nil
	}
	// saved_dir is wiped at the start of a run, so it must not hold the replay source.
	if within(c.Source.BaseFilePath, c.Output.SavedDir) {
		return fmt.Errorf("output.saved_dir %q must not contain source.base_file_path %q", c.Output.SavedDir, c.Source.BaseFilePath)
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.BatchSize <= 0 {
		return errors.New("download.batch_size must be positive")
	}
	switch c.Download.Backoff {
	case BackoffConstant, BackoffExponential:
	default:
		return fmt.Errorf("download.backoff must be %q or %q, got %q", BackoffConstant, BackoffExponential, c.Download.Backoff)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSource(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeDownload()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.Tracing.Endpoint = strings.TrimSpace(c.Tracing.Endpoint)
	return nil
}

func (c *Config) normalizeSource() error {
	c.Source.BaseURL = strings.TrimRight(strings.TrimSpace(c.Source.BaseURL), "/")
	c.Source.CID = strings.TrimSpace(c.Source.CID)
	c.Source.APIVersion = strings.Trim(strings.TrimSpace(c.Source.APIVersion), "/")
	if c.Source.APIVersion == "" {
		c.Source.APIVersion = defaultAPIVersion
	}
	if c.Source.RequestTimeout <= 0 {
		c.Source.RequestTimeout = defaultRequestTimeout
	}
	c.Source.UserAgent = strings.TrimSpace(c.Source.UserAgent)
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = defaultUserAgent
	}
	if strings.TrimSpace(c.Source.BaseFilePath) == "" {
		c.Source.BaseFilePath = ""
		return nil
	}
	var err error
	if c.Source.BaseFilePath, err = expandPath(strings.TrimSpace(c.Source.BaseFilePath)); err != nil {
		return fmt.Errorf("source.base_file_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	if strings.TrimSpace(c.Output.SavedDir) == "" {
		c.Output.SavedDir = defaultSavedDir
	}
	var err error
	if c.Output.SavedDir, err = expandPath(strings.TrimSpace(c.Output.SavedDir)); err != nil {
		return fmt.Errorf("output.saved_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDownload() {
	if c.Download.RetryDelaySeconds < 0 {
		c.Download.RetryDelaySeconds = 0
	}
	if c.Download.MaxAttempts < 0 {
		c.Download.MaxAttempts = 0
	}
	c.Download.Backoff = strings.ToLower(strings.TrimSpace(c.Download.Backoff))
	if c.Download.Backoff == "" {
		c.Download.Backoff = defaultBackoff
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath()
	}
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

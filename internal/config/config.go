package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Source selects where contest data comes from. BaseFilePath (replay) wins
// over BaseURL (live) when both are set.
type Source struct {
	BaseURL        string `toml:"base_url" env:"CONTESTDUMP_BASE_URL"`
	BaseFilePath   string `toml:"base_file_path" env:"CONTESTDUMP_BASE_FILE_PATH"`
	UserPwd        string `toml:"userpwd" env:"CONTESTDUMP_USERPWD"`
	CID            string `toml:"cid" env:"CONTESTDUMP_CID"`
	APIVersion     string `toml:"api_version" env:"CONTESTDUMP_API_VERSION"`
	RequestTimeout int    `toml:"request_timeout" env:"CONTESTDUMP_REQUEST_TIMEOUT"`
	UserAgent      string `toml:"user_agent"`
}

// Output contains the destination directory and format tweaks.
type Output struct {
	SavedDir            string `toml:"saved_dir" env:"CONTESTDUMP_SAVED_DIR"`
	ScoreInSeconds      bool   `toml:"score_in_seconds"`
	AddDummyRussianTeam bool   `toml:"add_dummy_russian_team"`
}

// Download controls the submission source batch downloader.
type Download struct {
	BatchSize         int    `toml:"batch_size" env:"CONTESTDUMP_BATCH_SIZE"`
	RetryDelaySeconds int    `toml:"retry_delay_seconds"`
	MaxAttempts       int    `toml:"max_attempts"`
	Backoff           string `toml:"backoff"`
}

// ExportedData toggles each pipeline stage and output format.
type ExportedData struct {
	DomjudgeAPI         bool `toml:"domjudge_api"`
	EventFeed           bool `toml:"event_feed"`
	Runs                bool `toml:"runs"`
	Submissions         bool `toml:"submissions"`
	Images              bool `toml:"images"`
	GhostDatData        bool `toml:"ghost_dat_data"`
	ResolverData        bool `toml:"resolver_data"`
	ScoreboardExcelData bool `toml:"scoreboard_excel_data"`
}

// AnyFormat reports whether at least one derived format is enabled.
func (e ExportedData) AnyFormat() bool {
	return e.GhostDatData || e.ResolverData || e.ScoreboardExcelData
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"CONTESTDUMP_LOG_FORMAT"`
	Level  string `toml:"level" env:"CONTESTDUMP_LOG_LEVEL"`
	Dir    string `toml:"dir"`
}

// History contains configuration for the export run ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Tracing contains the optional OTLP endpoint. Tracing is off when empty.
type Tracing struct {
	Endpoint string `toml:"endpoint" env:"CONTESTDUMP_OTEL_ENDPOINT"`
}

// Config encapsulates all configuration values for contestdump.
//
// Configuration sections:
//   - Source: live API or replay directory, credentials, contest id
//   - Output: destination directory and Ghost-DAT/Resolver tweaks
//   - Download: submission batch size and retry policy
//   - ExportedData: per-stage and per-format toggles
//   - Logging: log format, level, optional file directory
//   - History: SQLite ledger of export runs
//   - Tracing: OpenTelemetry OTLP endpoint
type Config struct {
	Source       Source       `toml:"source"`
	Output       Output       `toml:"output"`
	Download     Download     `toml:"download"`
	ExportedData ExportedData `toml:"exported_data"`
	Logging      Logging      `toml:"logging"`
	History      History      `toml:"history"`
	Tracing      Tracing      `toml:"tracing"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/contestdump/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// variables override file values. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("contestdump.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ReplayMode reports whether contest data is read from a prior export
// instead of the live API.
func (c *Config) ReplayMode() bool {
	return strings.TrimSpace(c.Source.BaseFilePath) != ""
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Source.RequestTimeout) * time.Second
}

// RetryDelay returns the delay between download batch attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Download.RetryDelaySeconds) * time.Second
}

// LockPath returns the file used to serialize exports targeting SavedDir.
// It sits next to the directory because the directory itself is removed at
// the start of every run.
func (c *Config) LockPath() string {
	return filepath.Clean(c.Output.SavedDir) + ".lock"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "contestdump", "history.db")
	}
	return "~/.local/share/contestdump/history.db"
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

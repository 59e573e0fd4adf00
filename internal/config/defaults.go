package config

const (
	defaultAPIVersion        = "v4"
	defaultRequestTimeout    = 60
	defaultUserAgent         = "contestdump/dev"
	defaultSavedDir          = "./output"
	defaultBatchSize         = 100
	defaultRetryDelaySeconds = 1
	defaultBackoff           = BackoffConstant
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Retry backoff policies for the batch downloader.
const (
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Source: Source{
			APIVersion:     defaultAPIVersion,
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		Output: Output{
			SavedDir: defaultSavedDir,
		},
		Download: Download{
			BatchSize:         defaultBatchSize,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			Backoff:           defaultBackoff,
		},
		ExportedData: ExportedData{
			DomjudgeAPI: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
	}
}

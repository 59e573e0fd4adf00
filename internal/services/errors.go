package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks a non-200 response or network failure on a direct fetch.
	ErrTransport = errors.New("transport error")
	// ErrDecode marks a payload that is not valid JSON.
	ErrDecode = errors.New("decode error")
	// ErrBatch marks a download batch that could not be completed.
	ErrBatch = errors.New("batch error")
	// ErrMapping marks data that cannot be projected into an output format
	// (unknown verdict, malformed label or time string, dangling id).
	ErrMapping = errors.New("mapping error")
	// ErrConfiguration marks unusable settings.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort the export. Decode errors are the only
// recoverable class; batch errors only surface once retries are exhausted, so
// they are fatal by the time a caller sees them.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrDecode)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "export failure"
	}
	return strings.Join(parts, ": ")
}

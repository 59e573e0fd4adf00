package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// DashedFileName turns a display name into a file stem with spaces replaced
// by dashes. Returns fallback when nothing usable remains.
func DashedFileName(name, fallback string) string {
	out := strings.ReplaceAll(SanitizeFileName(name), " ", "-")
	if out == "" || out == "." || out == ".." {
		return fallback
	}
	return out
}

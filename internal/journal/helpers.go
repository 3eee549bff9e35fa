package journal

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
)

const datasetIDMaxLength = 48

var nonAlphanumericExpr = regexp.MustCompile(`[^a-z0-9]+`)

// DatasetID derives a stable identifier from a dataset path: the sanitized
// file name followed by a short hash of the absolute path.
func DatasetID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha1.Sum([]byte(abs))
	suffix := hex.EncodeToString(sum[:])[:8]

	base := filepath.Base(abs)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	name := SanitizeFilename(base)
	if name == "" {
		return "dataset-" + suffix
	}
	return name + "-" + suffix
}

// SanitizeFilename normalizes a filename into an identifier-friendly format.
func SanitizeFilename(name string) string {
	lowered := strings.ToLower(name)
	sanitized := nonAlphanumericExpr.ReplaceAllString(lowered, "-")
	sanitized = strings.Trim(sanitized, "-")

	if len(sanitized) > datasetIDMaxLength {
		sanitized = strings.Trim(sanitized[:datasetIDMaxLength], "-")
	}
	return sanitized
}

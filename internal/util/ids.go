package util

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	nanoidLength    = 21
	reportKeyPrefix = "reports/"
)

// NewReportID returns a fresh public id for a scouting report.
func NewReportID() (string, error) {
	return gonanoid.New()
}

// ReportObjectKey is the object storage key under which a report body is archived.
func ReportObjectKey(reportID string) string {
	return fmt.Sprintf("%s%s.txt", reportKeyPrefix, reportID)
}

// ReportIDFromKey reverses ReportObjectKey. It returns "" for keys that were
// not produced by ReportObjectKey.
func ReportIDFromKey(key string) string {
	if !strings.HasPrefix(key, reportKeyPrefix) || !strings.HasSuffix(key, ".txt") {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, reportKeyPrefix), ".txt")
	if !IsNanoid(id) {
		return ""
	}
	return id
}

// IsNanoid reports whether s has the shape of a default gonanoid id.
func IsNanoid(s string) bool {
	if len(s) != nanoidLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

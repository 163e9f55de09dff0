// Package formatting provides parsing helpers for loosely formatted input:
// human-readable byte sizes from configuration and JSON objects recovered
// from model-generated text.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Upload limits never approach petabytes, so units stop at TB.
var units = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders n with the largest base-1024 unit that keeps the value
// at or above one. Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}

	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes reads sizes such as "25MB", "1.5 gb" or "4096". A bare number
// is bytes and unit matching ignores case.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	scale := 1.0
	unit = strings.ToUpper(unit)
	if unit != "" {
		idx := -1
		for i, u := range units {
			if u == unit {
				idx = i
				break
			}
		}
		if idx < 0 {
			return 0, fmt.Errorf("unknown byte size unit: %q", unit)
		}
		for range idx {
			scale *= 1024
		}
	}

	return int64(value * scale), nil
}

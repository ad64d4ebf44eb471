package utils

import (
	"fmt"
	"strings"
	"time"
)

func ParseYMD(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	// strip time to midnight UTC to match DATE semantics
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseDateWindow parses optional YYYY-MM-DD bounds. When only from is given
// the window ends today (UTC).
func ParseDateWindow(from, to string, now time.Time) (*time.Time, *time.Time, error) {
	var fromPtr, toPtr *time.Time
	if fd := strings.TrimSpace(from); fd != "" {
		t, err := ParseYMD(fd)
		if err != nil {
			return nil, nil, fmt.Errorf("from date must be YYYY-MM-DD: %w", err)
		}
		fromPtr = &t
	}
	if td := strings.TrimSpace(to); td != "" {
		t, err := ParseYMD(td)
		if err != nil {
			return nil, nil, fmt.Errorf("to date must be YYYY-MM-DD: %w", err)
		}
		toPtr = &t
	}
	if fromPtr != nil && toPtr == nil {
		today := now.UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		toPtr = &t
	}
	if fromPtr != nil && toPtr != nil && toPtr.Before(*fromPtr) {
		return nil, nil, fmt.Errorf("to date %s is before from date %s", toPtr.Format("2006-01-02"), fromPtr.Format("2006-01-02"))
	}
	return fromPtr, toPtr, nil
}

// Truncate shortens s to at most n runes, marking the cut with suffix.
func Truncate(s string, n int, suffix string) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	keep := n - len([]rune(suffix))
	if keep <= 0 {
		return string(r[:n])
	}
	return string(r[:keep]) + suffix
}

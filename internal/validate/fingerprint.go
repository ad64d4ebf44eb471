package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const fieldSep = "\x1f"

// Fingerprint identifies a law change independently of the document it was
// read from: jurisdiction, calendar date and the normalized, untruncated summary.
func Fingerprint(jurisdiction string, date string, summary string) string {
	sum := sha256.Sum256([]byte(jurisdiction + fieldSep + date + fieldSep + normalizeSummary(summary)))
	return hex.EncodeToString(sum[:])
}

func normalizeSummary(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimRight(s, ".;,:!? ")
}

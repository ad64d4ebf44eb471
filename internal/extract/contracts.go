package extract

import (
	"context"
	"strings"

	"github.com/shavaan/team2-Hack/internal/entity"
)

// Extractor turns page-segmented text into candidate law changes, in document
// order. Pages that contribute nothing are fine; only input with no usable
// text at all is an error.
type Extractor interface {
	Extract(ctx context.Context, pages []string) ([]entity.Candidate, error)
	Name() string
}

// MaxSummaryRunes bounds candidate summaries before validation.
const MaxSummaryRunes = 1000

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// summaries returns the whitespace-collapsed text and its bounded form.
func summaries(s string) (bounded, full string) {
	full = strings.Join(strings.Fields(s), " ")
	return boundSummary(full), full
}

func boundSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= MaxSummaryRunes {
		return s
	}
	return strings.TrimSpace(string(r[:MaxSummaryRunes-1])) + "…"
}

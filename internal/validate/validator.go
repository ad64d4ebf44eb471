package validate

import (
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/entity"
)

// Drop reasons reported in Stats.Dropped.
const (
	DropDate         = "date"
	DropJurisdiction = "jurisdiction"
	DropSummary      = "summary"
)

const (
	maxSummaryRunes      = 1000
	maxJurisdictionRunes = 64
)

// Stats summarizes what NormalizeAndFilter discarded.
type Stats struct {
	Dropped    map[string]int `json:"dropped"`
	Duplicates int            `json:"duplicates"`
}

// DroppedTotal is the number of candidates rejected for any reason other than duplication.
func (s Stats) DroppedTotal() int {
	n := 0
	for _, v := range s.Dropped {
		n += v
	}
	return n
}

// Validator turns extractor candidates into storable records.
type Validator struct {
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Validator)

// WithClock overrides the clock used for ExtractedAt.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

func NewValidator(logger *slog.Logger, opts ...Option) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{now: time.Now, logger: logger}
	for _, o := range opts {
		o(v)
	}
	return v
}

// NormalizeAndFilter validates candidates in order. Invalid candidates are
// dropped individually and later duplicates of an earlier fingerprint are skipped.
func (v *Validator) NormalizeAndFilter(candidates []entity.Candidate, sourceURL, sourcePDFFilename string) ([]entity.LawChangeRecord, Stats) {
	stats := Stats{Dropped: map[string]int{}}
	extractedAt := v.now().UTC().Truncate(time.Second)
	seen := make(map[string]struct{}, len(candidates))
	out := make([]entity.LawChangeRecord, 0, len(candidates))

	for i, c := range candidates {
		date, err := ParseDate(c.RawDate)
		if err != nil {
			stats.Dropped[DropDate]++
			v.logger.Debug("validate.drop", "index", i, "reason", DropDate, "error", err)
			continue
		}
		jurisdiction, ok := CanonicalizeJurisdiction(c.RawJurisdiction)
		if !ok {
			stats.Dropped[DropJurisdiction]++
			v.logger.Debug("validate.drop", "index", i, "reason", DropJurisdiction, "raw", c.RawJurisdiction)
			continue
		}
		summary := BoundSummary(c.Summary)
		if summary == "" {
			stats.Dropped[DropSummary]++
			v.logger.Debug("validate.drop", "index", i, "reason", DropSummary)
			continue
		}

		rec := entity.LawChangeRecord{
			DateChanged:       date,
			Jurisdiction:      jurisdiction,
			Summary:           summary,
			SourceURL:         strings.TrimSpace(sourceURL),
			SourcePDFFilename: sourcePDFFilename,
			ExtractedAt:       extractedAt,
		}
		full := c.FullSummary
		if strings.TrimSpace(full) == "" {
			full = c.Summary
		}
		rec.Fingerprint = Fingerprint(jurisdiction, rec.Date(), full)
		if _, dup := seen[rec.Fingerprint]; dup {
			stats.Duplicates++
			continue
		}
		seen[rec.Fingerprint] = struct{}{}
		out = append(out, rec)
	}

	v.logger.Debug("validate.done", "candidates", len(candidates), "records", len(out), "dropped", stats.DroppedTotal(), "duplicates", stats.Duplicates)
	return out, stats
}

// CanonicalizeJurisdiction maps known jurisdictions to their postal code and
// passes other values through with whitespace collapsed.
func CanonicalizeJurisdiction(raw string) (string, bool) {
	if j, ok := constants.CanonicalJurisdiction(raw); ok {
		return string(j), true
	}
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" || utf8.RuneCountInString(s) > maxJurisdictionRunes || strings.IndexFunc(s, unicode.IsLetter) < 0 {
		return "", false
	}
	return s, true
}

// BoundSummary collapses whitespace and truncates to the stored summary length.
func BoundSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxSummaryRunes {
		return s
	}
	return strings.TrimSpace(string(r[:maxSummaryRunes-1])) + "…"
}

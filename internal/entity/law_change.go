package entity

import (
	"time"
)

// DateLayout is the canonical calendar-date representation used in storage and output.
const DateLayout = "2006-01-02"

// LawChangeRecord represents a validated law change for data transfer between layers.
type LawChangeRecord struct {
	ID                int64     `json:"id"`
	Fingerprint       string    `json:"fingerprint"`
	DateChanged       time.Time `json:"date_changed"`
	Jurisdiction      string    `json:"jurisdiction"`
	Summary           string    `json:"summary"`
	SourceURL         string    `json:"source_url"`
	SourcePDFFilename string    `json:"source_pdf_filename"`
	ExtractedAt       time.Time `json:"extracted_at"`
}

// Date returns DateChanged in canonical YYYY-MM-DD form.
func (r LawChangeRecord) Date() string {
	if r.DateChanged.IsZero() {
		return ""
	}
	return r.DateChanged.Format(DateLayout)
}

// Provenance points back at the source text a candidate came from.
type Provenance struct {
	Page    int    `json:"page"`  // 0-based
	Start   int    `json:"start"` // byte offset within the page text
	End     int    `json:"end"`
	Snippet string `json:"snippet,omitempty"`
}

// Candidate is an unvalidated law change as produced by an extractor.
type Candidate struct {
	RawDate         string     `json:"raw_date"`
	RawJurisdiction string     `json:"raw_jurisdiction"`
	Summary         string     `json:"summary"`
	// FullSummary is the untruncated summary text. Fingerprints are taken
	// over it so changes sharing a long prefix stay distinct.
	FullSummary     string     `json:"full_summary,omitempty"`
	Provenance      Provenance `json:"provenance"`
}

// InsertResult reports what the store did with one record.
type InsertResult struct {
	Inserted    bool   `json:"inserted"`
	ID          int64  `json:"id"`
	Fingerprint string `json:"fingerprint"`
}

// AggregateStats is derived from the store on demand; it is never persisted.
type AggregateStats struct {
	TotalCount           int            `json:"total_count"`
	CountsByJurisdiction map[string]int `json:"counts_by_jurisdiction"`
}

package llm

import "context"

// LawChange is the normalized shape we want from the LLM for one change.
type LawChange struct {
	Date         string `json:"date"`         // as written in the text; the validator parses it
	Jurisdiction string `json:"jurisdiction"` // state name or postal code
	Summary      string `json:"summary"`
}

// PageExtraction is the document the model must return for one page.
type PageExtraction struct {
	LawChanges []LawChange `json:"law_changes"`
}

type ExtractRequest struct {
	PageText     string
	PageIndex    int // 0-based
	DocumentHint string
}

// ChangeExtractor is the interface the extraction layer depends on.
type ChangeExtractor interface {
	ExtractChanges(ctx context.Context, req ExtractRequest) ([]LawChange, []byte /*rawJSON*/, error)
}

package entity

import (
	"time"

	"github.com/shavaan/team2-Hack/constants"
)

// StoredChange is the caller-facing form of one record handled by a run.
type StoredChange struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	State    string `json:"state"`
	Summary  string `json:"summary"`
	URL      string `json:"url,omitempty"`
	Inserted bool   `json:"inserted"`
}

// Outcome is the result of a single pipeline run. It is built once and not modified afterwards.
type Outcome struct {
	RunID         string                  `json:"run_id"`
	Status        constants.OutcomeStatus `json:"status"`
	Message       string                  `json:"message,omitempty"`
	Stage         constants.Stage         `json:"stage"`
	PDFFilename   string                  `json:"pdf_filename"`
	URL           string                  `json:"url"`
	Candidates    int                     `json:"candidates"`
	Dropped       int                     `json:"dropped"`
	Duplicates    int                     `json:"duplicates"`
	RecordsStored int                     `json:"records_stored"`
	LawChanges    []StoredChange          `json:"law_changes"`
	Duration      time.Duration           `json:"duration"`
	Err           error                   `json:"-"`
}

// OK reports whether the run reached a stored, consistent state.
func (o Outcome) OK() bool {
	return o.Status != constants.StatusFailure
}

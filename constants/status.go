package constants

// OutcomeStatus is the three-way result of one pipeline run.
// Callers branch on these exact strings.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusWarning OutcomeStatus = "warning"
	StatusFailure OutcomeStatus = "failure"
)

// Stage names the pipeline state a run reached.
type Stage string

const (
	StageStart      Stage = "START"
	StageLoading    Stage = "LOADING"
	StageExtracting Stage = "EXTRACTING"
	StageValidating Stage = "VALIDATING"
	StageStoring    Stage = "STORING"
	StageDone       Stage = "DONE"
)

// MessageNoLawChanges is reported when a run completes without anything to store.
const MessageNoLawChanges = "no law changes found"

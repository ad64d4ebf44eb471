package async

import (
	"context"
	"time"

	"github.com/shavaan/team2-Hack/internal/entity"
)

// Job asks for one document to be run through the pipeline.
type Job struct {
	Path        string
	URL         string
	SubmittedAt time.Time
	TraceID     string
}

// Result pairs a finished job with its pipeline outcome.
type Result struct {
	Job     Job
	Outcome entity.Outcome
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Results() <-chan Result
	Shutdown(ctx context.Context)
}

package async

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/entity"
)

type countingProcessor struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	calls    int32
	traceIDs sync.Map
}

func (p *countingProcessor) Process(ctx context.Context, path, url string) entity.Outcome {
	atomic.AddInt32(&p.calls, 1)
	p.mu.Lock()
	p.inFlight++
	if p.inFlight > p.maxSeen {
		p.maxSeen = p.inFlight
	}
	p.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	p.traceIDs.Store(path, common.RequestIDFromContext(ctx))

	p.mu.Lock()
	p.inFlight--
	p.mu.Unlock()

	status := constants.StatusSuccess
	if path == "bad.pdf" {
		status = constants.StatusFailure
	}
	return entity.Outcome{Status: status, PDFFilename: path, URL: url}
}

func TestProcessorQueueProcessesEveryJob(t *testing.T) {
	proc := &countingProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(2), WithProcessTimeout(time.Second))

	const n = 10
	go func() {
		for i := 0; i < n; i++ {
			path := fmt.Sprintf("doc-%d.pdf", i)
			if i == 4 {
				path = "bad.pdf"
			}
			assert.NoError(t, q.Enqueue(context.Background(), Job{Path: path, URL: "https://example.gov"}))
		}
		q.Shutdown(context.Background())
	}()

	seen := map[string]constants.OutcomeStatus{}
	for res := range q.Results() {
		seen[res.Job.Path] = res.Outcome.Status
		assert.False(t, res.Job.SubmittedAt.IsZero())
		assert.NotEmpty(t, res.Job.TraceID)
	}

	require.Len(t, seen, n)
	assert.Equal(t, constants.StatusFailure, seen["bad.pdf"])
	assert.Equal(t, int32(n), atomic.LoadInt32(&proc.calls))
	assert.LessOrEqual(t, proc.maxSeen, 3)

	id, ok := proc.traceIDs.Load("doc-0.pdf")
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&countingProcessor{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Path: "late.pdf", URL: "https://example.gov"})
	assert.ErrorIs(t, err, ErrQueueClosed)

	_, open := <-q.Results()
	assert.False(t, open)
}

type waitingProcessor struct{ started chan struct{} }

func (p *waitingProcessor) Process(ctx context.Context, path, _ string) entity.Outcome {
	close(p.started)
	<-ctx.Done()
	return entity.Outcome{Status: constants.StatusFailure, PDFFilename: path, Err: common.FromContext(ctx, "process "+path)}
}

func TestProcessorQueueBaseContextCancelsInFlightJobs(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	proc := &waitingProcessor{started: make(chan struct{})}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithProcessTimeout(time.Hour), WithBaseContext(base))

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "slow.pdf"}))
	<-proc.started
	cancel()

	select {
	case r := <-q.Results():
		assert.Equal(t, "slow.pdf", r.Job.Path)
		assert.ErrorIs(t, r.Outcome.Err, common.ErrTimeout)
	case <-time.After(time.Second):
		t.Fatal("in-flight job was not cancelled")
	}
	q.Shutdown(context.Background())
}

type blockingProcessor struct{ release chan struct{} }

func (p *blockingProcessor) Process(ctx context.Context, path, url string) entity.Outcome {
	<-p.release
	return entity.Outcome{Status: constants.StatusSuccess, PDFFilename: path}
}

func TestProcessorQueueEnqueueHonorsContext(t *testing.T) {
	proc := &blockingProcessor{release: make(chan struct{})}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))

	// one job held by the worker, one in the buffer
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "a.pdf"}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "b.pdf"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Job{Path: "c.pdf"})
	assert.ErrorIs(t, err, common.ErrTimeout)

	close(proc.release)
	go q.Shutdown(context.Background())
	count := 0
	for range q.Results() {
		count++
	}
	assert.Equal(t, 2, count)
}

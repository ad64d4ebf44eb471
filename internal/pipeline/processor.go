package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/entity"
	"github.com/shavaan/team2-Hack/internal/extract"
	"github.com/shavaan/team2-Hack/internal/repository"
	"github.com/shavaan/team2-Hack/internal/validate"
)

// DocumentLoader resolves a document and returns its normalized page texts.
type DocumentLoader interface {
	Resolve(pathOrName string) (string, error)
	ExtractText(ctx context.Context, path string) ([]string, error)
}

// RecordValidator turns candidates into storable, de-duplicated records.
type RecordValidator interface {
	NormalizeAndFilter(candidates []entity.Candidate, sourceURL, sourcePDFFilename string) ([]entity.LawChangeRecord, validate.Stats)
}

// Processor coordinates load, extract, validate and store for one document per call.
type Processor struct {
	logger    *slog.Logger
	loader    DocumentLoader
	extractor extract.Extractor
	validator RecordValidator
	store     repository.ChangeStore
	timeout   time.Duration
	now       func() time.Time
}

type Option func(*Processor)

// WithTimeout bounds the whole run for one document. Zero means no budget.
func WithTimeout(d time.Duration) Option {
	return func(p *Processor) { p.timeout = d }
}

// WithClock overrides the clock used for run durations.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func NewProcessor(logger *slog.Logger, loader DocumentLoader, extractor extract.Extractor, validator RecordValidator, store repository.ChangeStore, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:    logger,
		loader:    loader,
		extractor: extractor,
		validator: validator,
		store:     store,
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process runs START → LOADING → EXTRACTING → VALIDATING → STORING and
// always returns exactly one outcome: success, warning or failure.
func (p *Processor) Process(ctx context.Context, pathOrName, sourceURL string) entity.Outcome {
	started := p.now()
	runID := uuid.NewString()
	ctx = common.WithRunID(ctx, runID)
	ctx, cancel := common.WithTimeout(ctx, p.timeout)
	defer cancel()

	r := &run{
		log:   p.logger.With("run_id", runID),
		input: strings.TrimSpace(pathOrName),
		out: entity.Outcome{
			RunID:       runID,
			Stage:       constants.StageStart,
			PDFFilename: filepath.Base(strings.TrimSpace(pathOrName)),
			URL:         strings.TrimSpace(sourceURL),
			LawChanges:  []entity.StoredChange{},
		},
	}
	r.log.Info("pipeline.run.start", "document", pathOrName, "url", r.out.URL, "extractor", p.extractor.Name())

	p.execute(ctx, r)

	r.out.Duration = p.now().Sub(started)
	r.log.Info("pipeline.run.done",
		"status", r.out.Status,
		"stage", r.out.Stage,
		"records_stored", r.out.RecordsStored,
		"duplicates", r.out.Duplicates,
		"dropped", r.out.Dropped,
		"duration", r.out.Duration,
	)
	return r.out
}

func (p *Processor) execute(ctx context.Context, r *run) {
	if r.out.URL == "" {
		r.fail(common.InvalidInput("source URL is required", nil))
		return
	}

	r.out.Stage = constants.StageLoading
	pages, ok := p.load(ctx, r)
	if !ok {
		return
	}

	r.out.Stage = constants.StageExtracting
	candidates, ok := p.extract(ctx, r, pages)
	if !ok {
		return
	}
	if len(candidates) == 0 {
		r.warn(constants.MessageNoLawChanges)
		return
	}

	r.out.Stage = constants.StageValidating
	if err := common.FromContext(ctx, "validation"); err != nil {
		r.fail(err)
		return
	}
	records, stats := p.validator.NormalizeAndFilter(candidates, r.out.URL, r.out.PDFFilename)
	r.out.Dropped = stats.DroppedTotal()
	r.out.Duplicates = stats.Duplicates
	if len(records) == 0 {
		r.warn(constants.MessageNoLawChanges)
		return
	}

	r.out.Stage = constants.StageStoring
	p.storeRecords(ctx, r, records)
}

type run struct {
	log   *slog.Logger
	input string
	out   entity.Outcome
}

func (r *run) fail(err error) {
	err = asTimeout(err, r.out.Stage)
	r.out.Status = constants.StatusFailure
	r.out.Err = err
	if r.out.Message == "" {
		r.out.Message = err.Error()
	}
	r.log.Error("pipeline.run.failed", "stage", r.out.Stage, "code", common.CodeOf(err), "error", err)
}

func (r *run) warn(message string) {
	r.out.Status = constants.StatusWarning
	r.out.Message = message
	r.out.Stage = constants.StageDone
	r.log.Warn("pipeline.run.warning", "message", message, "candidates", r.out.Candidates, "dropped", r.out.Dropped)
}

func (r *run) succeed(inserted, present int) {
	r.out.Status = constants.StatusSuccess
	r.out.Stage = constants.StageDone
	r.out.Message = fmt.Sprintf("stored %d new law changes (%d already present)", inserted, present)
}

// asTimeout reclassifies deadline and cancellation errors so callers can tell
// a blown budget from a broken document or store.
func asTimeout(err error, stage constants.Stage) error {
	if common.IsDeadline(err) && !errors.Is(err, common.ErrTimeout) {
		return common.Timeout(fmt.Sprintf("%s exceeded deadline", strings.ToLower(string(stage))), err)
	}
	return err
}

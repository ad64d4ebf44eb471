package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/entity"
	"github.com/shavaan/team2-Hack/internal/llm"
)

// LLMExtractor adapts an llm.ChangeExtractor to the Extractor interface,
// analyzing pages concurrently and reassembling results in page order.
type LLMExtractor struct {
	client      llm.ChangeExtractor
	concurrency int
	logger      *slog.Logger
}

func NewLLMExtractor(client llm.ChangeExtractor, concurrency int, logger *slog.Logger) *LLMExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &LLMExtractor{client: client, concurrency: concurrency, logger: logger}
}

func (e *LLMExtractor) Name() string { return "llm" }

// Extract sends each non-blank page to the model. A page whose call fails is
// logged and skipped; the run fails only if every page failed or the context expired.
func (e *LLMExtractor) Extract(ctx context.Context, pages []string) ([]entity.Candidate, error) {
	if !hasText(pages) {
		return nil, common.UnreadablePDF("no text to analyze", nil)
	}

	perPage := make([][]entity.Candidate, len(pages))
	var attempted, failed int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		attempted++
		g.Go(func() error {
			changes, _, err := e.client.ExtractChanges(gctx, llm.ExtractRequest{PageText: page, PageIndex: i})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				atomic.AddInt32(&failed, 1)
				e.logger.Warn("extract.llm.page_failed", "page", i, "error", err)
				return nil
			}
			perPage[i] = toCandidates(page, i, changes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if common.IsDeadline(err) {
			return nil, common.Timeout("llm extraction", err)
		}
		return nil, err
	}
	if err := common.FromContext(ctx, "llm extraction"); err != nil {
		return nil, err
	}
	if failed == attempted {
		return nil, common.NewAppError(common.CodeInternal, fmt.Sprintf("llm extraction failed on all %d pages", attempted), common.ErrInternal)
	}

	var out []entity.Candidate
	for _, cs := range perPage {
		out = append(out, cs...)
	}
	e.logger.Debug("extract.llm.done", "pages", len(pages), "failed_pages", failed, "candidates", len(out))
	return out, nil
}

func toCandidates(page string, pageIndex int, changes []llm.LawChange) []entity.Candidate {
	out := make([]entity.Candidate, 0, len(changes))
	for _, ch := range changes {
		summary, full := summaries(ch.Summary)
		if summary == "" {
			continue
		}
		prov := entity.Provenance{Page: pageIndex, Start: 0, End: len(page)}
		if at := strings.Index(page, ch.Summary); at >= 0 && ch.Summary != "" {
			prov.Start, prov.End, prov.Snippet = at, at+len(ch.Summary), ch.Summary
		}
		out = append(out, entity.Candidate{
			RawDate:         strings.TrimSpace(ch.Date),
			RawJurisdiction: strings.TrimSpace(ch.Jurisdiction),
			Summary:         summary,
			FullSummary:     full,
			Provenance:      prov,
		})
	}
	return out
}

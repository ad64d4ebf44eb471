package pipeline

import (
	"context"
	"path/filepath"

	"github.com/shavaan/team2-Hack/internal/entity"
)

func (p *Processor) load(ctx context.Context, r *run) ([]string, bool) {
	path, err := p.loader.Resolve(r.input)
	if err != nil {
		r.fail(err)
		return nil, false
	}
	r.out.PDFFilename = filepath.Base(path)

	pages, err := p.loader.ExtractText(ctx, path)
	if err != nil {
		r.fail(err)
		return nil, false
	}
	r.log.Debug("pipeline.load.ok", "path", path, "pages", len(pages))
	return pages, true
}

func (p *Processor) extract(ctx context.Context, r *run, pages []string) ([]entity.Candidate, bool) {
	candidates, err := p.extractor.Extract(ctx, pages)
	if err != nil {
		r.fail(err)
		return nil, false
	}
	r.out.Candidates = len(candidates)
	r.log.Debug("pipeline.extract.ok", "extractor", p.extractor.Name(), "candidates", len(candidates))
	return candidates, true
}

func (p *Processor) storeRecords(ctx context.Context, r *run, records []entity.LawChangeRecord) {
	results, err := p.store.InsertBatch(ctx, records)
	if err != nil {
		err = asTimeout(err, r.out.Stage)
		r.out.Message = "storage failed, no law changes stored: " + err.Error()
		r.fail(err)
		return
	}

	inserted, present := 0, 0
	changes := make([]entity.StoredChange, 0, len(records))
	for i, res := range results {
		rec := records[i]
		if res.Inserted {
			inserted++
		} else {
			present++
		}
		changes = append(changes, entity.StoredChange{
			ID:       res.ID,
			Date:     rec.Date(),
			State:    rec.Jurisdiction,
			Summary:  rec.Summary,
			URL:      rec.SourceURL,
			Inserted: res.Inserted,
		})
	}
	r.out.RecordsStored = inserted
	r.out.Duplicates += present
	r.out.LawChanges = changes
	r.log.Debug("pipeline.store.ok", "inserted", inserted, "already_present", present)
	r.succeed(inserted, present)
}

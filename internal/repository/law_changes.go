package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/entity"
)

// DefaultQueryLimit applies when QueryRecent is called with a non-positive limit.
const DefaultQueryLimit = 10

var lawChangeColumns = []string{
	"id", "fingerprint", "date_changed", "jurisdiction", "summary",
	"source_url", "source_pdf_filename", "extracted_at",
}

// ChangeStore persists law-change records. Writes are insert-if-absent keyed
// on the record fingerprint; nothing is ever updated or deleted.
type ChangeStore interface {
	InsertIfAbsent(ctx context.Context, rec entity.LawChangeRecord) (entity.InsertResult, error)
	InsertBatch(ctx context.Context, recs []entity.LawChangeRecord) ([]entity.InsertResult, error)
	QueryRecent(ctx context.Context, limit int) ([]entity.LawChangeRecord, error)
	ListRange(ctx context.Context, from, to *time.Time) ([]entity.LawChangeRecord, error)
	Aggregate(ctx context.Context) (entity.AggregateStats, error)
	Count(ctx context.Context) (int, error)
}

type lawChangeRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewLawChangeRepository(db *DB, logger *slog.Logger) ChangeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &lawChangeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *lawChangeRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect())
}

func (r *lawChangeRepository) InsertIfAbsent(ctx context.Context, rec entity.LawChangeRecord) (entity.InsertResult, error) {
	res, err := r.InsertBatch(ctx, []entity.LawChangeRecord{rec})
	if err != nil {
		return entity.InsertResult{}, err
	}
	return res[0], nil
}

// InsertBatch writes all records in one transaction. Any failure rolls the
// whole batch back.
func (r *lawChangeRepository) InsertBatch(ctx context.Context, recs []entity.LawChangeRecord) ([]entity.InsertResult, error) {
	if len(recs) == 0 {
		return []entity.InsertResult{}, nil
	}

	tx, err := r.db.SQL().BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", "error", err)
		return nil, common.Storage("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	results := make([]entity.InsertResult, 0, len(recs))
	for i, rec := range recs {
		res, err := r.insertTx(ctx, tx, rec)
		if err != nil {
			r.logger.Error("failed to insert law change", "index", i, "fingerprint", rec.Fingerprint, "error", err)
			return nil, err
		}
		results = append(results, res)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit law changes", "error", err)
		return nil, common.Storage("commit law changes", err)
	}

	inserted := 0
	for _, res := range results {
		if res.Inserted {
			inserted++
		}
	}
	r.logger.Debug("store.insert_batch.ok", "records", len(recs), "inserted", inserted)
	return results, nil
}

func (r *lawChangeRepository) insertTx(ctx context.Context, tx *sql.Tx, rec entity.LawChangeRecord) (entity.InsertResult, error) {
	if rec.Fingerprint == "" {
		return entity.InsertResult{}, common.Storage("constraint failed: empty fingerprint", nil)
	}
	res := entity.InsertResult{Fingerprint: rec.Fingerprint}

	query, args := r.builder().Insert(tableLawChanges).
		Columns(lawChangeColumns[1:]...).
		Values(
			rec.Fingerprint,
			rec.Date(),
			rec.Jurisdiction,
			rec.Summary,
			rec.SourceURL,
			rec.SourcePDFFilename,
			rec.ExtractedAt.UTC().Format(time.RFC3339),
		).
		OnConflict(entsql.ConflictColumns("fingerprint"), entsql.DoNothing()).
		Returning("id").
		Query()

	err := tx.QueryRowContext(ctx, query, args...).Scan(&res.ID)
	switch {
	case err == nil:
		res.Inserted = true
		return res, nil
	case !errors.Is(err, sql.ErrNoRows):
		return entity.InsertResult{}, common.Storage("insert law change", err)
	}

	// conflict: the fingerprint is already stored
	query, args = r.builder().Select("id").
		From(entsql.Table(tableLawChanges)).
		Where(entsql.EQ("fingerprint", rec.Fingerprint)).
		Query()
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&res.ID); err != nil {
		return entity.InsertResult{}, common.Storage("lookup existing law change", err)
	}
	return res, nil
}

// QueryRecent returns the newest records by date_changed, ties broken by newest id.
func (r *lawChangeRepository) QueryRecent(ctx context.Context, limit int) ([]entity.LawChangeRecord, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	query, args := r.builder().Select(lawChangeColumns...).
		From(entsql.Table(tableLawChanges)).
		OrderBy(entsql.Desc("date_changed"), entsql.Desc("id")).
		Limit(limit).
		Query()
	return r.list(ctx, "query recent law changes", query, args)
}

// ListRange returns records with from <= date_changed <= to in date order.
// Nil bounds are open.
func (r *lawChangeRepository) ListRange(ctx context.Context, from, to *time.Time) ([]entity.LawChangeRecord, error) {
	var preds []*entsql.Predicate
	if from != nil {
		preds = append(preds, entsql.GTE("date_changed", from.Format(entity.DateLayout)))
	}
	if to != nil {
		preds = append(preds, entsql.LTE("date_changed", to.Format(entity.DateLayout)))
	}

	sel := r.builder().Select(lawChangeColumns...).From(entsql.Table(tableLawChanges))
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	query, args := sel.OrderBy("date_changed", "id").Query()
	return r.list(ctx, "list law changes", query, args)
}

// Aggregate counts records per jurisdiction straight from the table.
func (r *lawChangeRepository) Aggregate(ctx context.Context) (entity.AggregateStats, error) {
	query, args := r.builder().Select("jurisdiction", entsql.As(entsql.Count("*"), "n")).
		From(entsql.Table(tableLawChanges)).
		GroupBy("jurisdiction").
		Query()

	rows, err := r.db.SQL().QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to aggregate law changes", "error", err)
		return entity.AggregateStats{}, common.Storage("aggregate law changes", err)
	}
	defer rows.Close()

	stats := entity.AggregateStats{CountsByJurisdiction: map[string]int{}}
	for rows.Next() {
		var (
			jurisdiction string
			n            int
		)
		if err := rows.Scan(&jurisdiction, &n); err != nil {
			return entity.AggregateStats{}, common.Storage("aggregate law changes", err)
		}
		stats.CountsByJurisdiction[jurisdiction] = n
		stats.TotalCount += n
	}
	if err := rows.Err(); err != nil {
		return entity.AggregateStats{}, common.Storage("aggregate law changes", err)
	}
	return stats, nil
}

func (r *lawChangeRepository) Count(ctx context.Context) (int, error) {
	query, args := r.builder().Select(entsql.Count("*")).
		From(entsql.Table(tableLawChanges)).
		Query()
	var n int
	if err := r.db.SQL().QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		r.logger.Error("failed to count law changes", "error", err)
		return 0, common.Storage("count law changes", err)
	}
	return n, nil
}

func (r *lawChangeRepository) list(ctx context.Context, op, query string, args []any) ([]entity.LawChangeRecord, error) {
	rows, err := r.db.SQL().QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to "+op, "error", err)
		return nil, common.Storage(op, err)
	}
	defer rows.Close()

	out := []entity.LawChangeRecord{}
	for rows.Next() {
		rec, err := scanLawChange(rows)
		if err != nil {
			return nil, common.Storage(op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Storage(op, err)
	}
	return out, nil
}

func scanLawChange(rows *sql.Rows) (entity.LawChangeRecord, error) {
	var (
		rec         entity.LawChangeRecord
		date        string
		extractedAt string
	)
	if err := rows.Scan(&rec.ID, &rec.Fingerprint, &date, &rec.Jurisdiction, &rec.Summary,
		&rec.SourceURL, &rec.SourcePDFFilename, &extractedAt); err != nil {
		return rec, err
	}
	var err error
	if rec.DateChanged, err = time.Parse(entity.DateLayout, date); err != nil {
		return rec, err
	}
	if rec.ExtractedAt, err = time.Parse(time.RFC3339, extractedAt); err != nil {
		return rec, err
	}
	return rec, nil
}

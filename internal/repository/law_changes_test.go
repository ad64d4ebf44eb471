package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/entity"
)

func openTestDB(t *testing.T, dsn string) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: dsn, DialTimeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func newTestStore(t *testing.T) ChangeStore {
	t.Helper()
	return NewLawChangeRepository(openTestDB(t, ":memory:"), nil)
}

func record(jurisdiction, date, summary string) entity.LawChangeRecord {
	d, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return entity.LawChangeRecord{
		Fingerprint:       fmt.Sprintf("%s|%s|%s", jurisdiction, date, summary),
		DateChanged:       d,
		Jurisdiction:      jurisdiction,
		Summary:           summary,
		SourceURL:         "https://example.gov/digest",
		SourcePDFFilename: "digest.pdf",
		ExtractedAt:       time.Date(2025, 10, 1, 16, 30, 15, 0, time.UTC),
	}
}

func TestInsertBatchWithDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	recs := []entity.LawChangeRecord{
		record("CA", "2024-03-01", "minimum wage increase"),
		record("TX", "2025-09-01", "broadband grants"),
		record("NY", "2024-01-01", "paid sick leave"),
		record("CA", "2024-07-01", "fast food council"),
		record("OR", "2025-07-01", "paid leave expands"),
	}
	first, err := s.InsertBatch(ctx, recs)
	require.NoError(t, err)
	require.Len(t, first, 5)
	for i, r := range first {
		assert.True(t, r.Inserted, i)
		assert.NotZero(t, r.ID)
		assert.Equal(t, recs[i].Fingerprint, r.Fingerprint)
	}

	again, err := s.InsertBatch(ctx, []entity.LawChangeRecord{recs[1], record("WA", "2025-06-30", "data broker registry")})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.False(t, again[0].Inserted)
	assert.Equal(t, first[1].ID, again[0].ID)
	assert.True(t, again[1].Inserted)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestInsertIfAbsentIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rec := record("CA", "2024-03-01", "minimum wage increase")

	a, err := s.InsertIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.True(t, a.Inserted)

	b, err := s.InsertIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.False(t, b.Inserted)
	assert.Equal(t, a.ID, b.ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertBatchRollsBackOnEmptyFingerprint(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	bad := record("TX", "2025-09-01", "broadband grants")
	bad.Fingerprint = ""
	_, err := s.InsertBatch(ctx, []entity.LawChangeRecord{record("CA", "2024-03-01", "minimum wage increase"), bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorage)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsertBatchEmpty(t *testing.T) {
	res, err := newTestStore(t).InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestQueryRecentOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.InsertBatch(ctx, []entity.LawChangeRecord{
		record("CA", "2024-03-01", "a"),
		record("TX", "2025-09-01", "b"),
		record("NY", "2025-09-01", "c"),
		record("OR", "2023-01-01", "d"),
	})
	require.NoError(t, err)

	got, err := s.QueryRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// same date: higher id first
	assert.Equal(t, "NY", got[0].Jurisdiction)
	assert.Equal(t, "TX", got[1].Jurisdiction)
	assert.Equal(t, "CA", got[2].Jurisdiction)
	assert.Equal(t, "2025-09-01", got[0].Date())
	assert.Equal(t, time.Date(2025, 10, 1, 16, 30, 15, 0, time.UTC), got[0].ExtractedAt)
	assert.Equal(t, "digest.pdf", got[0].SourcePDFFilename)

	all, err := s.QueryRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestQueryRecentDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var recs []entity.LawChangeRecord
	for i := 0; i < 15; i++ {
		recs = append(recs, record("CA", fmt.Sprintf("2024-01-%02d", i+1), fmt.Sprintf("change %d", i)))
	}
	_, err := s.InsertBatch(ctx, recs)
	require.NoError(t, err)

	got, err := s.QueryRecent(ctx, -1)
	require.NoError(t, err)
	assert.Len(t, got, DefaultQueryLimit)
	assert.Equal(t, "2024-01-15", got[0].Date())
}

func TestListRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.InsertBatch(ctx, []entity.LawChangeRecord{
		record("TX", "2025-09-01", "b"),
		record("CA", "2024-03-01", "a"),
		record("OR", "2023-01-01", "d"),
	})
	require.NoError(t, err)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	got, err := s.ListRange(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "CA", got[0].Jurisdiction)
	assert.Equal(t, "TX", got[1].Jurisdiction)

	all, err := s.ListRange(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "OR", all[0].Jurisdiction)
}

func TestAggregate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.Aggregate(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalCount)
	assert.Empty(t, empty.CountsByJurisdiction)

	_, err = s.InsertBatch(ctx, []entity.LawChangeRecord{
		record("CA", "2024-03-01", "a"),
		record("CA", "2024-07-01", "b"),
		record("TX", "2025-09-01", "c"),
	})
	require.NoError(t, err)

	stats, err := s.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, map[string]int{"CA": 2, "TX": 1}, stats.CountsByJurisdiction)

	sum := 0
	for _, n := range stats.CountsByJurisdiction {
		sum += n
	}
	assert.Equal(t, stats.TotalCount, sum)
}

func TestConcurrentBatchesInsertOnce(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "law_changes.db"))
	s := NewLawChangeRepository(db, nil)

	recs := []entity.LawChangeRecord{
		record("CA", "2024-03-01", "a"),
		record("TX", "2025-09-01", "b"),
		record("NY", "2024-01-01", "c"),
	}

	const writers = 4
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted = map[string]int{}
		errs     []error
	)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.InsertBatch(ctx, recs)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			for _, r := range res {
				if r.Inserted {
					inserted[r.Fingerprint]++
				}
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	for _, rec := range recs {
		assert.Equal(t, 1, inserted[rec.Fingerprint], rec.Fingerprint)
	}
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(recs), n)
}

func TestHealthCheckAndLocation(t *testing.T) {
	db := openTestDB(t, ":memory:")
	assert.NoError(t, db.HealthCheck(context.Background(), time.Second))
	assert.Equal(t, ":memory:", db.Location())
	assert.Equal(t, "sqlite3", db.Dialect())
}

func TestSQLiteDSN(t *testing.T) {
	dsn, memory := sqliteDSN(":memory:")
	assert.True(t, memory)
	assert.Equal(t, "file::memory:?_pragma=busy_timeout(5000)&_txlock=immediate", dsn)

	dsn, memory = sqliteDSN("./law_changes.db")
	assert.False(t, memory)
	assert.Contains(t, dsn, "file:./law_changes.db?")
	assert.Contains(t, dsn, "_pragma=journal_mode(WAL)")

	assert.True(t, IsPostgresDSN("postgresql://u:p@localhost/db"))
	assert.False(t, IsPostgresDSN("file:law.db"))
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

package lawchanges

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/entity"
	"github.com/shavaan/team2-Hack/internal/export"
	"github.com/shavaan/team2-Hack/internal/repository"
)

type fakeProcessor struct {
	calls int
	out   entity.Outcome
}

func (f *fakeProcessor) Process(_ context.Context, pathOrName, sourceURL string) entity.Outcome {
	f.calls++
	out := f.out
	out.PDFFilename = pathOrName
	out.URL = sourceURL
	return out
}

type brokenStore struct{ repository.ChangeStore }

func (brokenStore) QueryRecent(context.Context, int) ([]entity.LawChangeRecord, error) {
	return nil, common.Storage("query recent law changes", assert.AnError)
}

func (brokenStore) Aggregate(context.Context) (entity.AggregateStats, error) {
	return entity.AggregateStats{}, common.Storage("aggregate law changes", assert.AnError)
}

func newTestService(t *testing.T, proc DocumentProcessor) (*Service, repository.ChangeStore) {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	store := repository.NewLawChangeRepository(db, nil)
	return NewService(proc, store, export.NewService(store, nil), nil), store
}

func seed(t *testing.T, store repository.ChangeStore) {
	t.Helper()
	at := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	_, err := store.InsertBatch(context.Background(), []entity.LawChangeRecord{
		{Fingerprint: "a", DateChanged: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Jurisdiction: "CA", Summary: "minimum wage", SourceURL: "https://a.gov", SourcePDFFilename: "a.pdf", ExtractedAt: at},
		{Fingerprint: "b", DateChanged: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Jurisdiction: "TX", Summary: "broadband", SourceURL: "https://b.gov", SourcePDFFilename: "b.pdf", ExtractedAt: at},
		{Fingerprint: "c", DateChanged: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Jurisdiction: "CA", Summary: "fast food", SourceURL: "https://a.gov", SourcePDFFilename: "a.pdf", ExtractedAt: at},
	})
	require.NoError(t, err)
}

func TestProcessDocumentValidatesRequest(t *testing.T) {
	proc := &fakeProcessor{}
	svc, _ := newTestService(t, proc)

	res := svc.ProcessDocument(context.Background(), ProcessRequest{Path: "a.pdf", URL: "ftp://example.gov"})
	assert.Equal(t, constants.StatusFailure, res.Status)
	assert.Contains(t, res.Message, "must start with http:// or https://")
	assert.Zero(t, proc.calls)

	res = svc.ProcessDocument(context.Background(), ProcessRequest{URL: "https://example.gov"})
	assert.Equal(t, constants.StatusFailure, res.Status)
	assert.Contains(t, res.Message, "is required")
	assert.Zero(t, proc.calls)
	assert.NotNil(t, res.LawChanges)
}

func TestProcessDocumentMapsOutcome(t *testing.T) {
	proc := &fakeProcessor{out: entity.Outcome{
		Status:        constants.StatusSuccess,
		Message:       "stored 1 new law changes (0 already present)",
		RecordsStored: 1,
		LawChanges:    []entity.StoredChange{{ID: 7, Date: "2024-03-01", State: "CA", Summary: "minimum wage", URL: "https://example.gov", Inserted: true}},
	}}
	svc, _ := newTestService(t, proc)

	res := svc.ProcessDocument(context.Background(), ProcessRequest{Path: " wages.pdf ", URL: "https://example.gov"})
	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, constants.StatusSuccess, res.Status)
	assert.Equal(t, "wages.pdf", res.PDFFilename)
	assert.Equal(t, 1, res.RecordsStored)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status":"success",
		"message":"stored 1 new law changes (0 already present)",
		"pdf_filename":"wages.pdf",
		"url":"https://example.gov",
		"records_stored":1,
		"duplicates":0,
		"law_changes":[{"id":7,"date":"2024-03-01","state":"CA","summary":"minimum wage","url":"https://example.gov","inserted":true}]
	}`, string(raw))
}

func TestGetLawChanges(t *testing.T) {
	svc, store := newTestService(t, &fakeProcessor{})
	seed(t, store)

	res := svc.GetLawChanges(context.Background(), 2)
	assert.Equal(t, constants.StatusSuccess, res.Status)
	require.Len(t, res.LawChanges, 2)
	assert.Equal(t, "2025-09-01", res.LawChanges[0].DateChanged)
	assert.Equal(t, "TX", res.LawChanges[0].State)
	assert.Equal(t, "b.pdf", res.LawChanges[0].PDFFilename)
	assert.Equal(t, "2024-07-01", res.LawChanges[1].DateChanged)
}

func TestGetStatistics(t *testing.T) {
	svc, store := newTestService(t, &fakeProcessor{})

	empty := svc.GetStatistics(context.Background())
	assert.Equal(t, constants.StatusSuccess, empty.Status)
	require.NotNil(t, empty.Statistics)
	assert.Zero(t, empty.Statistics.TotalLawChanges)

	seed(t, store)
	res := svc.GetStatistics(context.Background())
	require.NotNil(t, res.Statistics)
	assert.Equal(t, 3, res.Statistics.TotalLawChanges)
	assert.Equal(t, 2, res.Statistics.StatesWithChanges)
	assert.Equal(t, map[string]int{"CA": 2, "TX": 1}, res.Statistics.ChangesByState)
}

func TestQueriesReportStoreFailures(t *testing.T) {
	svc := NewService(&fakeProcessor{}, brokenStore{}, nil, nil)

	list := svc.GetLawChanges(context.Background(), 5)
	assert.Equal(t, constants.StatusFailure, list.Status)
	assert.Contains(t, list.Message, "STORAGE_ERROR")
	assert.Empty(t, list.LawChanges)

	stats := svc.GetStatistics(context.Background())
	assert.Equal(t, constants.StatusFailure, stats.Status)
	assert.Nil(t, stats.Statistics)
}

func TestExportLawChanges(t *testing.T) {
	svc, store := newTestService(t, &fakeProcessor{})
	seed(t, store)

	data, err := svc.ExportLawChanges(context.Background(), "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = svc.ExportLawChanges(context.Background(), "yesterday", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shavaan/team2-Hack/internal/common"
)

type fakePages struct {
	pages []string
	err   error
	calls int
}

func (f *fakePages) Method() string { return "fake" }

func (f *fakePages) ReadPages(ctx context.Context, _ string, _ int) ([]string, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string(nil), f.pages...), f.err
}

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error
	name   string
	args   []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name, s.args = name, args
	return s.stdout, s.stderr, s.err
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))
}

func TestResolveOrder(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "pdfs")
	touch(t, filepath.Join(docs, "wages.pdf"))
	touch(t, filepath.Join(docs, "notes"))
	literal := filepath.Join(dir, "elsewhere.pdf")
	touch(t, literal)

	l := NewLoader(Config{DocsDir: docs}, nil)

	got, err := l.Resolve(literal)
	require.NoError(t, err)
	assert.Equal(t, literal, got)

	got, err = l.Resolve("wages.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(docs, "wages.pdf"), got)

	got, err = l.Resolve("wages")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(docs, "wages.pdf"), got)

	// a bare name that exists without extension wins over the .pdf variant
	got, err = l.Resolve("notes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(docs, "notes"), got)
}

func TestResolveNotFound(t *testing.T) {
	l := NewLoader(Config{DocsDir: t.TempDir()}, nil)

	_, err := l.Resolve("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = l.Resolve("   ")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// directories are not documents
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))
	_, err = NewLoader(Config{DocsDir: dir}, nil).Resolve("folder.pdf")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListAvailable(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.pdf"))
	touch(t, filepath.Join(dir, "a.PDF"))
	touch(t, filepath.Join(dir, "readme.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	got, err := NewLoader(Config{DocsDir: dir}, nil).ListAvailable()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}, got)
}

func TestListAvailableEmpty(t *testing.T) {
	got, err := NewLoader(Config{DocsDir: t.TempDir()}, nil).ListAvailable()
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NewLoader(Config{DocsDir: filepath.Join(t.TempDir(), "nope")}, nil).ListAvailable()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractTextNormalizesPages(t *testing.T) {
	primary := &fakePages{pages: []string{"California,\teffective  2024-03-01:\r\nminimum wage increase   ", "Page   two"}}
	l := NewLoader(Config{}, nil, WithPageReader(primary))

	pages, err := l.ExtractText(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "California, effective 2024-03-01:\nminimum wage increase", pages[0])
	assert.Equal(t, "Page two", pages[1])
}

func TestExtractTextEmptyIsUnreadable(t *testing.T) {
	l := NewLoader(Config{}, nil, WithPageReader(&fakePages{pages: []string{"", "  \n "}}))

	_, err := l.ExtractText(context.Background(), "/tmp/empty.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnreadablePDF)
	assert.Contains(t, err.Error(), "empty.pdf contains no extractable text")
}

func TestExtractTextFallsBackToPdftotext(t *testing.T) {
	primary := &fakePages{err: errors.New("unsupported filter")}
	runner := &stubRunner{stdout: []byte("Texas law one\fTexas law two\f\n")}
	l := NewLoader(Config{Pdftotext: "pdftotext", MaxPages: 3}, nil, WithPageReader(primary), WithRunner(runner))

	pages, err := l.ExtractText(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"Texas law one", "Texas law two"}, pages)
	assert.Equal(t, "pdftotext", runner.name)
	assert.Contains(t, runner.args, "-l")
	assert.Equal(t, "doc.pdf", runner.args[len(runner.args)-2])
}

func TestExtractTextBothStrategiesFail(t *testing.T) {
	primary := &fakePages{err: errors.New("encrypted")}
	runner := &stubRunner{err: errors.New("exit status 1"), stderr: []byte("Incorrect password")}
	l := NewLoader(Config{Pdftotext: "pdftotext"}, nil, WithPageReader(primary), WithRunner(runner))

	_, err := l.ExtractText(context.Background(), "locked.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnreadablePDF)
	assert.Contains(t, err.Error(), "encrypted")
	assert.Contains(t, err.Error(), "Incorrect password")
}

func TestExtractTextCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf at all"), 0o644))

	l := NewLoader(Config{}, nil)
	_, err := l.ExtractText(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnreadablePDF)
}

func TestExtractTextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	primary := &fakePages{pages: []string{"text"}}
	_, err := NewLoader(Config{}, nil, WithPageReader(primary)).ExtractText(ctx, "doc.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTimeout)
	assert.Zero(t, primary.calls)
}

func TestNormalize(t *testing.T) {
	in := "Line one\t\twith tabs\r\n\r\n\r\n\r\nmini-\nmum wage   \f next"
	assert.Equal(t, "Line one with tabs\n\nminimum wage\n next", Normalize(in))
	assert.Equal(t, "", Normalize(""))
}

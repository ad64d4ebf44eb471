package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAppErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("insert batch: %w", Storage("write failed", cause))

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, CodeStorage, CodeOf(err))
	assert.Contains(t, err.Error(), "STORAGE_ERROR: write failed: disk full")
}

func TestCodeOfDeadline(t *testing.T) {
	assert.Equal(t, CodeTimeout, CodeOf(context.DeadlineExceeded))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestFromContext(t *testing.T) {
	assert.NoError(t, FromContext(context.Background(), "live"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	err := FromContext(ctx, "load pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestToStatus(t *testing.T) {
	cases := map[error]codes.Code{
		NotFound("missing", nil):       codes.NotFound,
		UnreadablePDF("corrupt", nil):  codes.FailedPrecondition,
		InvalidInput("bad url", nil):   codes.InvalidArgument,
		Timeout("slow", nil):           codes.DeadlineExceeded,
		Storage("db", nil):             codes.Internal,
		errors.New("anything else"):    codes.Internal,
	}
	for err, want := range cases {
		st, ok := status.FromError(ToStatus(err))
		require.True(t, ok)
		assert.Equal(t, want, st.Code(), err.Error())
	}
	assert.NoError(t, ToStatus(nil))
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Path string `validate:"required"`
		URL  string `validate:"required,http_url"`
	}

	assert.NoError(t, ValidateStruct(req{Path: "a.pdf", URL: "https://example.gov/x"}))

	err := ValidateStruct(req{Path: "a.pdf", URL: "ftp://example.gov/x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "URL")
	assert.Contains(t, err.Error(), "http://")

	err = ValidateStruct(req{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Path")
	assert.Contains(t, err.Error(), "is required")
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("EXTRACTOR", "")
	t.Setenv("PDFS_DIR", "/srv/pdfs")
	t.Setenv("PROCESS_TIMEOUT", "15s")
	t.Setenv("BATCH_WORKERS", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "./law_changes.db", cfg.Database.DSN)
	assert.Equal(t, ExtractorRules, cfg.Extraction.Mode)
	assert.Equal(t, "/srv/pdfs", cfg.Documents.DocsDir)
	assert.Equal(t, 15*time.Second, cfg.Extraction.ProcessTimeout)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateOpenAIRequiresKey(t *testing.T) {
	cfg := LoadConfig()
	cfg.Extraction.Mode = ExtractorOpenAI
	cfg.LLM.APIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	cfg.Extraction.Mode = "magic"
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LAWTRACKER_TEST_KEY=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	t.Cleanup(func() { _ = os.Unsetenv("LAWTRACKER_TEST_KEY") })
	assert.Equal(t, "from-file", os.Getenv("LAWTRACKER_TEST_KEY"))
}

func TestContextIDs(t *testing.T) {
	ctx := WithRunID(WithRequestID(context.Background(), "req-1"), "run-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "run-1", RunIDFromContext(ctx))
	assert.Empty(t, RunIDFromContext(context.Background()))
}

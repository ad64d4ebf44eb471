package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/common"
)

type Config struct {
	DocsDir   string // directory bare names are resolved against
	Pdftotext string // binary name or absolute path; empty disables the subprocess fallback
	MaxPages  int    // 0 = no limit
}

// Loader resolves PDFs and extracts their page-segmented text. It is read-only
// and holds no per-document state.
type Loader struct {
	cfg      Config
	primary  PageReader
	fallback PageReader
	logger   *slog.Logger
}

type Option func(*Loader)

// WithRunner swaps the command runner used by the pdftotext fallback.
func WithRunner(r Runner) Option {
	return func(l *Loader) {
		if l.cfg.Pdftotext != "" && r != nil {
			l.fallback = pdftotextReader{bin: l.cfg.Pdftotext, runner: r}
		}
	}
}

// WithPageReader replaces the in-process PDF decoder.
func WithPageReader(p PageReader) Option {
	return func(l *Loader) {
		if p != nil {
			l.primary = p
		}
	}
}

func NewLoader(cfg Config, logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{cfg: cfg, primary: pdfLibReader{}, logger: logger}
	if cfg.Pdftotext != "" {
		l.fallback = pdftotextReader{bin: cfg.Pdftotext, runner: execRunner{logger: logger}}
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// DocsDir returns the configured documents directory.
func (l *Loader) DocsDir() string { return l.cfg.DocsDir }

// Resolve finds a PDF by trying, in order, the literal path, DocsDir/name and
// DocsDir/name.pdf.
func (l *Loader) Resolve(pathOrName string) (string, error) {
	name := strings.TrimSpace(pathOrName)
	if name == "" {
		return "", common.InvalidInput("pdf path is required", nil)
	}

	tried := []string{name}
	if l.cfg.DocsDir != "" {
		joined := filepath.Join(l.cfg.DocsDir, name)
		tried = append(tried, joined)
		if !constants.IsPDF(name) {
			tried = append(tried, joined+".pdf")
		}
	}
	for _, p := range tried {
		if isRegularFile(p) {
			l.logger.Debug("document.resolve.ok", "input", name, "path", p)
			return p, nil
		}
	}
	l.logger.Warn("document.resolve.not_found", "input", name, "tried", tried)
	return "", common.NotFound(fmt.Sprintf("pdf %q not found (tried %s)", name, strings.Join(tried, ", ")), nil)
}

// ExtractText returns normalized page texts in page order. Corrupt, encrypted
// or text-free documents yield ErrUnreadablePDF; an expired ctx yields ErrTimeout.
func (l *Loader) ExtractText(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	base := filepath.Base(path)
	if err := common.FromContext(ctx, "extract text from "+base); err != nil {
		return nil, err
	}

	method := l.primary.Method()
	pages, err := l.primary.ReadPages(ctx, path, l.cfg.MaxPages)
	if err != nil && common.IsDeadline(err) {
		return nil, common.Timeout("extract text from "+base, err)
	}

	if (err != nil || !hasText(pages)) && l.fallback != nil {
		l.logger.Warn("document.extract.fallback",
			"path", path, "from", method, "to", l.fallback.Method(), "error", err)
		fbPages, fbErr := l.fallback.ReadPages(ctx, path, l.cfg.MaxPages)
		switch {
		case fbErr != nil && common.IsDeadline(fbErr):
			return nil, common.Timeout("extract text from "+base, fbErr)
		case fbErr != nil:
			l.logger.Warn("document.extract.fallback_failed", "path", path, "error", fbErr)
			if err != nil {
				err = errors.Join(err, fbErr)
			}
		default:
			pages, err, method = fbPages, nil, l.fallback.Method()
		}
	}
	if err != nil {
		l.logger.Error("document.extract.failed", "path", path, "error", err)
		return nil, common.UnreadablePDF("cannot read "+base, err)
	}

	for i := range pages {
		pages[i] = Normalize(pages[i])
	}
	if !hasText(pages) {
		l.logger.Warn("document.extract.empty", "path", path, "pages", len(pages))
		return nil, common.UnreadablePDF(base+" contains no extractable text", nil)
	}

	l.logger.Info("document.extract.ok",
		"path", path,
		"method", method,
		"pages", len(pages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}

// ListAvailable lists PDFs in DocsDir sorted by name. A missing directory is
// reported as an empty list.
func (l *Loader) ListAvailable() ([]string, error) {
	if l.cfg.DocsDir == "" {
		return []string{}, nil
	}
	entries, err := os.ReadDir(l.cfg.DocsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, common.WrapError(err, "list documents")
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !constants.IsPDF(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(l.cfg.DocsDir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func isRegularFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

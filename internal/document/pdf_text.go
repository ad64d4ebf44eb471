package document

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageReader pulls page-segmented raw text out of a PDF file.
type PageReader interface {
	ReadPages(ctx context.Context, path string, maxPages int) ([]string, error)
	Method() string
}

// pdfLibReader decodes content streams in-process.
type pdfLibReader struct{}

func (pdfLibReader) Method() string { return "pdf-text" }

func (pdfLibReader) ReadPages(ctx context.Context, path string, maxPages int) (pages []string, err error) {
	// the decoder panics on some malformed streams
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("pdf decoder panic: %v", rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// pdftotextReader shells out to poppler's pdftotext.
type pdftotextReader struct {
	bin    string
	runner Runner
}

func (p pdftotextReader) Method() string { return "pdftotext" }

func (p pdftotextReader) ReadPages(ctx context.Context, path string, maxPages int) ([]string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix [-l N] <path> -
	args := []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}
	if maxPages > 0 {
		args = append(args, "-l", strconv.Itoa(maxPages))
	}
	args = append(args, path, "-")

	out, errb, err := p.runner.Run(ctx, p.bin, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", p.bin, err, truncate(strings.TrimSpace(string(errb)), 512))
	}
	// A form-feed \f terminates every page, including the last one.
	text := strings.TrimSuffix(strings.TrimRight(string(out), "\n"), "\f")
	return strings.Split(text, "\f"), nil
}

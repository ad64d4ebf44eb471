package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/entity"
)

// RuleExtractor finds law changes with deterministic patterns: a snippet
// qualifies when it names a jurisdiction, carries a date and uses change
// vocabulary. Jurisdiction headings carry over to the snippets that follow them
// on the same page.
type RuleExtractor struct {
	logger *slog.Logger
}

func NewRuleExtractor(logger *slog.Logger) *RuleExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleExtractor{logger: logger}
}

func (e *RuleExtractor) Name() string { return "rules" }

type span struct {
	start, end int
}

// Extract scans pages in order and returns one candidate per qualifying snippet.
func (e *RuleExtractor) Extract(ctx context.Context, pages []string) ([]entity.Candidate, error) {
	if !hasText(pages) {
		return nil, common.UnreadablePDF("no text to analyze", nil)
	}

	var out []entity.Candidate
	skipped := 0
	for pi, page := range pages {
		if err := common.FromContext(ctx, "rule extraction"); err != nil {
			return nil, err
		}

		heading := ""
		for _, sp := range segment(page) {
			snippet := strings.ReplaceAll(page[sp.start:sp.end], "\n", " ")
			if j, ok := headingJurisdiction(snippet); ok {
				heading = j
				continue
			}
			c, ok := candidateFrom(snippet, heading)
			if !ok {
				skipped++
				continue
			}
			c.Provenance = entity.Provenance{Page: pi, Start: sp.start, End: sp.end, Snippet: snippet}
			out = append(out, c)
		}
	}

	e.logger.Debug("extract.rules.done", "pages", len(pages), "candidates", len(out), "skipped_snippets", skipped)
	return out, nil
}

func candidateFrom(snippet, heading string) (entity.Candidate, bool) {
	dm := reDate.FindStringIndex(snippet)
	if dm == nil {
		return entity.Candidate{}, false
	}
	if !reKeyword.MatchString(snippet) {
		return entity.Candidate{}, false
	}

	jurisdiction, jStart, _, ok := findJurisdiction(snippet)
	if !ok {
		if heading == "" {
			return entity.Candidate{}, false
		}
		jurisdiction, jStart = heading, -1
	}

	summary := snippet
	// "California, effective 2024-03-01: minimum wage ..." keeps only the text after the header.
	if jStart < dm[0] {
		rest := strings.TrimLeft(snippet[dm[1]:], " )]")
		if rest != "" && strings.ContainsRune(":-–—", []rune(rest)[0]) {
			if body := strings.TrimLeft(rest[len(string([]rune(rest)[0])):], " "); body != "" {
				summary = body
			}
		}
	}
	summary, full := summaries(strings.TrimLeft(summary, "-•*–— "))
	if summary == "" {
		return entity.Candidate{}, false
	}

	return entity.Candidate{
		RawDate:         snippet[dm[0]:dm[1]],
		RawJurisdiction: jurisdiction,
		Summary:         summary,
		FullSummary:     full,
	}, true
}

func headingJurisdiction(snippet string) (string, bool) {
	s := strings.Trim(snippet, " :.-–—•*")
	if s == "" || len(s) > 40 || reDate.MatchString(s) {
		return "", false
	}
	if _, ok := constants.CanonicalJurisdiction(s); !ok {
		return "", false
	}
	return s, true
}

// segment splits a page into snippet spans. Blank lines, terminal punctuation
// and lines that open a new list item or jurisdiction entry end a snippet;
// other line breaks are soft wraps.
func segment(page string) []span {
	var spans []span
	start := 0
	emit := func(end int) {
		s, e := start, end
		for s < e && isSpace(page[s]) {
			s++
		}
		for e > s && isSpace(page[e-1]) {
			e--
		}
		if e > s {
			spans = append(spans, span{s, e})
		}
		start = end
	}

	for i := 0; i < len(page); i++ {
		switch c := page[i]; c {
		case '\n':
			rest := page[i+1:]
			prev := strings.TrimRight(page[start:i], " ")
			switch {
			case strings.HasPrefix(rest, "\n"):
				emit(i)
			case prev != "" && strings.ContainsRune(".;!?", rune(prev[len(prev)-1])) && !isAbbreviation(prev[:len(prev)-1]):
				emit(i)
			case startsNewItem(rest):
				emit(i)
			default:
				if _, ok := headingJurisdiction(prev); ok {
					emit(i)
				}
			}
		case '.', ';', '!', '?':
			if i+1 < len(page) && page[i+1] == ' ' && startsSentence(page[i+1:]) {
				if c == '.' && isAbbreviation(page[start:i]) {
					continue
				}
				emit(i + 1)
			}
		}
	}
	emit(len(page))
	return spans
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shavaan/team2-Hack/constants"
)

const monthAlt = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var (
	reDate = regexp.MustCompile(`(?i)\b(?:` +
		`\d{4}-\d{1,2}-\d{1,2}` +
		`|\d{4}/\d{1,2}/\d{1,2}` +
		`|\d{1,2}/\d{1,2}/\d{4}` +
		`|` + monthAlt + `\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}` +
		`|\d{1,2}(?:st|nd|rd|th)?\s+` + monthAlt + `\.?,?\s+\d{4}` +
		`)\b`)

	reKeyword = regexp.MustCompile(`(?i)\b(?:effective|takes? effect|amend\w*|enact\w*|repeal\w*|increas\w*|decreas\w*|rais\w*|requir\w*|prohibit\w*|bans?|mandat\w*|establish\w*|expand\w*|updat\w*|signed|laws?|acts?|bills?|statutes?|regulations?|ordinances?|rules?)\b`)

	reJurisdictionName = regexp.MustCompile(`\b(?:State of |Commonwealth of )?(` + quoteAll(constants.JurisdictionNames()) + `)`)
	reJurisdictionCode = regexp.MustCompile(`\b(` + strings.Join(constants.UnambiguousCodes(), "|") + `)\b`)

	reBullet    = regexp.MustCompile(`^(?:[-•*–—]\s|\d{1,3}[.)]\s|\([a-z0-9]{1,3}\)\s)`)
	reItemStart = regexp.MustCompile(`^(?:State of )?(?:` + quoteAll(constants.JurisdictionNames()) + `)\s*[,:(–—-]`)
)

// abbreviations that end in a period without ending the sentence.
var abbreviations = map[string]struct{}{
	"u.s": {}, "u.s.a": {}, "d.c": {}, "inc": {}, "no": {}, "nos": {}, "sec": {}, "secs": {},
	"st": {}, "jan": {}, "feb": {}, "mar": {}, "apr": {}, "jun": {}, "jul": {}, "aug": {},
	"sep": {}, "sept": {}, "oct": {}, "nov": {}, "dec": {}, "mr": {}, "mrs": {}, "ms": {},
	"dr": {}, "e.g": {}, "i.e": {}, "vs": {}, "calif": {}, "mass": {}, "wash": {}, "stat": {},
	"ch": {}, "art": {}, "rev": {}, "gov": {}, "sen": {}, "rep": {}, "h.b": {}, "s.b": {},
	"a.b": {}, "pub": {}, "co": {}, "corp": {}, "fla": {}, "tex": {}, "ill": {}, "n.y": {},
}

func quoteAll(items []string) string {
	q := make([]string, len(items))
	for i, s := range items {
		q[i] = regexp.QuoteMeta(s)
	}
	return strings.Join(q, "|")
}

// findJurisdiction returns the first jurisdiction mention in s as [start,end)
// byte offsets. Full names win over postal codes.
func findJurisdiction(s string) (string, int, int, bool) {
	for _, m := range reJurisdictionName.FindAllStringSubmatchIndex(s, -1) {
		end := m[1]
		if r, _ := utf8.DecodeRuneInString(s[end:]); end < len(s) && unicode.IsLetter(r) {
			continue
		}
		return s[m[2]:m[3]], m[0], end, true
	}
	if m := reJurisdictionCode.FindStringSubmatchIndex(s); m != nil {
		return s[m[2]:m[3]], m[0], m[1], true
	}
	return "", 0, 0, false
}

func isAbbreviation(before string) bool {
	i := strings.LastIndexAny(before, " \n(\"")
	word := strings.ToLower(before[i+1:])
	if word == "" {
		return false
	}
	if _, ok := abbreviations[word]; ok {
		return true
	}
	// single initials such as "J." or "S."
	r, size := utf8.DecodeRuneInString(word)
	return size == len(word) && unicode.IsLetter(r)
}

func startsSentence(rest string) bool {
	rest = strings.TrimLeft(rest, " ")
	if rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r) || unicode.IsDigit(r) || strings.ContainsRune(`"'(•*–—-`, r)
}

func startsNewItem(rest string) bool {
	rest = strings.TrimLeft(rest, " ")
	return reBullet.MatchString(rest) || reItemStart.MatchString(rest)
}

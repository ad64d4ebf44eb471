package constants

import (
	"sort"
	"strings"
)

// Jurisdiction is a canonical postal-style code ("CA", "DC", "US" for federal).
type Jurisdiction string

const Federal Jurisdiction = "US"

var jurisdictionNames = map[Jurisdiction]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri",
	"MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont",
	"VA": "Virginia", "WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
	"DC": "District of Columbia", "PR": "Puerto Rico", "GU": "Guam", "VI": "U.S. Virgin Islands",
	"AS": "American Samoa", "MP": "Northern Mariana Islands",
	Federal: "Federal",
}

// synonyms cover abbreviations and alternate spellings seen in legislative summaries.
var jurisdictionSynonyms = map[string]Jurisdiction{
	"federal":              Federal,
	"united states":        Federal,
	"u.s.":                 Federal,
	"us":                   Federal,
	"usa":                  Federal,
	"u.s.a.":               Federal,
	"washington d.c.":      "DC",
	"washington, d.c.":     "DC",
	"washington dc":        "DC",
	"d.c.":                 "DC",
	"state of washington":  "WA",
	"virgin islands":       "VI",
	"us virgin islands":    "VI",
	"calif.":               "CA",
	"cal.":                 "CA",
	"mass.":                "MA",
	"penn.":                "PA",
	"wash.":                "WA",
	"n.y.":                 "NY",
	"n.j.":                 "NJ",
	"fla.":                 "FL",
	"tex.":                 "TX",
	"ill.":                 "IL",
	"mich.":                "MI",
	"conn.":                "CT",
	"colo.":                "CO",
	"ariz.":                "AZ",
	"minn.":                "MN",
	"wis.":                 "WI",
	"ore.":                 "OR",
	"commonwealth of mass": "MA",
}

// ambiguousCodes are postal codes that are also common English words or
// abbreviations; free text only counts them when paired with a state name.
var ambiguousCodes = map[string]struct{}{
	"IN": {}, "OR": {}, "ME": {}, "OK": {}, "HI": {}, "OH": {}, "AS": {}, "US": {},
	"DE": {}, "PA": {}, "LA": {}, "MA": {}, "CO": {}, "ID": {}, "AL": {}, "GA": {},
}

// CanonicalJurisdiction maps a raw jurisdiction string to its canonical code.
// ok is false when the input is not in the lookup; callers keep the raw value then.
func CanonicalJurisdiction(input string) (Jurisdiction, bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(input), " "))
	if normalized == "" {
		return "", false
	}
	normalized = strings.TrimPrefix(normalized, "state of ")
	normalized = strings.TrimPrefix(normalized, "commonwealth of ")

	if j, ok := jurisdictionSynonyms[normalized]; ok {
		return j, true
	}
	if len(normalized) == 2 {
		code := Jurisdiction(strings.ToUpper(normalized))
		if _, ok := jurisdictionNames[code]; ok {
			return code, true
		}
	}
	for code, name := range jurisdictionNames {
		if normalized == strings.ToLower(name) {
			return code, true
		}
	}
	return "", false
}

// JurisdictionName returns the display name for a canonical code.
func JurisdictionName(j Jurisdiction) (string, bool) {
	name, ok := jurisdictionNames[j]
	return name, ok
}

// JurisdictionNames returns every known full name and multi-word synonym,
// longest first so that pattern alternations prefer "West Virginia" over "Virginia".
func JurisdictionNames() []string {
	seen := make(map[string]struct{}, len(jurisdictionNames)+len(jurisdictionSynonyms))
	out := make([]string, 0, len(jurisdictionNames)+8)
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, name := range jurisdictionNames {
		add(name)
	}
	add("District of Columbia")
	add("Washington, D.C.")
	add("Washington D.C.")
	add("United States")
	sort.Slice(out, func(i, k int) bool {
		if len(out[i]) != len(out[k]) {
			return len(out[i]) > len(out[k])
		}
		return out[i] < out[k]
	})
	return out
}

// UnambiguousCodes returns the postal codes that are safe to match in free text.
func UnambiguousCodes() []string {
	out := make([]string, 0, len(jurisdictionNames))
	for code := range jurisdictionNames {
		if _, skip := ambiguousCodes[string(code)]; skip {
			continue
		}
		out = append(out, string(code))
	}
	sort.Strings(out)
	return out
}

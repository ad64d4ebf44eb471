package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalJurisdiction(t *testing.T) {
	cases := []struct {
		in   string
		want Jurisdiction
		ok   bool
	}{
		{"California", "CA", true},
		{"  california ", "CA", true},
		{"CA", "CA", true},
		{"ca", "CA", true},
		{"State of New   York", "NY", true},
		{"Commonwealth of Massachusetts", "MA", true},
		{"West Virginia", "WV", true},
		{"Washington, D.C.", "DC", true},
		{"District of Columbia", "DC", true},
		{"Calif.", "CA", true},
		{"United States", Federal, true},
		{"Federal", Federal, true},
		{"Ontario", "", false},
		{"", "", false},
		{"ZZ", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := CanonicalJurisdiction(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestJurisdictionNamesLongestFirst(t *testing.T) {
	names := JurisdictionNames()
	idx := map[string]int{}
	for i, n := range names {
		idx[n] = i
	}
	assert.Less(t, idx["West Virginia"], idx["Virginia"])
	assert.Less(t, idx["North Carolina"], idx["Utah"])
	assert.Contains(t, names, "District of Columbia")
}

func TestUnambiguousCodesSkipsWords(t *testing.T) {
	codes := UnambiguousCodes()
	assert.Contains(t, codes, "CA")
	assert.Contains(t, codes, "NY")
	assert.NotContains(t, codes, "IN")
	assert.NotContains(t, codes, "OR")
	assert.NotContains(t, codes, "US")
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("/tmp/Report.PDF"))
	assert.True(t, IsPDF("a.pdf"))
	assert.False(t, IsPDF("a.pdf.txt"))
	assert.False(t, IsPDF("noext"))
}

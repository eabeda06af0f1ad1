package abbrev

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abbreviations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"abbreviations:\n"+
			"  pct:\n"+
			"    - percent\n"+
			"    - percentage\n"+
			"  pop:\n"+
			"    - population\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"percent", "percentage"}, d["pct"])
	assert.Equal(t, []string{"population"}, d["pop"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateCleanDictionary(t *testing.T) {
	d := Dictionary{"pct": {"percent"}, "pop": {"population"}}
	res := d.Validate()
	assert.Equal(t, CodeOK, res.Code())
	assert.Equal(t, 2, res.Entries)
}

func TestValidateStructuralErrors(t *testing.T) {
	cases := map[string]Dictionary{
		"empty dictionary": {},
		"blank key":        {"": {"something"}},
		"no terms":         {"pct": {}},
		"blank term":       {"pct": {"  "}},
	}
	for name, d := range cases {
		assert.Equal(t, CodeErrors, d.Validate().Code(), name)
	}
}

func TestValidateConsolidationOpportunities(t *testing.T) {
	d := Dictionary{
		"pct": {"percent"},
		"pc":  {"Percent"}, // same term claimed twice, case-insensitively
	}
	res := d.Validate()
	assert.Equal(t, CodeConsolidate, res.Code())
	assert.NotEmpty(t, res.Consolidations)
}

func TestValidateErrorsDominateConsolidations(t *testing.T) {
	d := Dictionary{
		"pct": {"percent"},
		"pc":  {"percent"},
		"bad": {},
	}
	assert.Equal(t, CodeErrors, d.Validate().Code())
}

func TestSubstituterLongestFirst(t *testing.T) {
	d := Dictionary{
		"gdp":  {"gross domestic product"},
		"prod": {"product"},
	}
	s := NewSubstituter(d, false)
	got := s.Apply("Gross domestic product and product lines")
	assert.Equal(t, "gdp and prod lines", got,
		"the phrase must win over the word it contains")
}

func TestSubstituterInflections(t *testing.T) {
	s := NewSubstituter(Dictionary{"pct": {"percentage"}}, true)
	assert.Equal(t, "pct and pct", s.Apply("percentage and percentages"))

	s = NewSubstituter(Dictionary{"agg": {"aggregate"}}, true)
	assert.Equal(t, "agg agg agg", s.Apply("aggregate aggregated aggregating"))
}

func TestSubstituterWholeWordsOnly(t *testing.T) {
	s := NewSubstituter(Dictionary{"pop": {"population"}}, false)
	assert.Equal(t, "subpopulations stay", s.Apply("subpopulations stay"),
		"matches must respect word boundaries")
}

func TestTracker(t *testing.T) {
	d := Dictionary{"pop": {"population"}}
	s := NewSubstituter(d, true)
	tr := NewTracker()

	s.ApplyTracked("population estimates by municipality", "census", tr)
	s.ApplyTracked("municipality boundaries", "geo", tr)

	top := tr.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, "municipality", top[0].Word)
	assert.Equal(t, 2, top[0].Frequency)
	assert.True(t, top[0].Sources["census"])
	assert.True(t, top[0].Sources["geo"])
	assert.Positive(t, top[0].PriorityScore())
}

func TestTrackerSkipsShortAndKnownWords(t *testing.T) {
	tr := NewTracker()
	tr.Observe("pop by area", "src", map[string]bool{"pop": true})
	assert.Empty(t, tr.Top(10))
}

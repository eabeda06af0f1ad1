package abbrev

import (
	"regexp"
	"sort"
	"strings"
)

// Words shorter than this are not worth abbreviating.
const minTrackedLength = 5

var wordPattern = regexp.MustCompile(`[A-Za-z]+`)

// WordStats accumulates occurrences of one non-substituted word.
type WordStats struct {
	Word      string
	Frequency int
	Contexts  map[string]bool
	Sources   map[string]bool
	MaxImpact int
	AvgImpact float64
}

// PriorityScore ranks abbreviation candidates: frequent, long words with
// high savings float to the top.
func (w *WordStats) PriorityScore() float64 {
	return float64(w.Frequency) * w.AvgImpact * float64(len(w.Word))
}

// Tracker records words that survived substitution so new abbreviation
// candidates can be proposed from real usage.
type Tracker struct {
	words map[string]*WordStats
}

func NewTracker() *Tracker {
	return &Tracker{words: make(map[string]*WordStats)}
}

// Observe scans text for candidate words, skipping anything already in
// the abbreviation set.
func (t *Tracker) Observe(text, source string, abbrevs map[string]bool) {
	for _, raw := range wordPattern.FindAllString(text, -1) {
		word := strings.ToLower(raw)
		if len(word) < minTrackedLength || abbrevs[word] {
			continue
		}
		// Estimate a 3-4 character abbreviation.
		savings := len(word) - min(4, len(word)/2)

		st, ok := t.words[word]
		if !ok {
			st = &WordStats{
				Word:     word,
				Contexts: make(map[string]bool),
				Sources:  make(map[string]bool),
			}
			t.words[word] = st
		}
		st.Frequency++
		st.Contexts[text] = true
		st.Sources[source] = true
		if savings > st.MaxImpact {
			st.MaxImpact = savings
		}
		st.AvgImpact += (float64(savings) - st.AvgImpact) / float64(st.Frequency)
	}
}

// Top returns the n highest-priority candidates.
func (t *Tracker) Top(n int) []*WordStats {
	out := make([]*WordStats, 0, len(t.words))
	for _, st := range t.words {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PriorityScore() != out[j].PriorityScore() {
			return out[i].PriorityScore() > out[j].PriorityScore()
		}
		return out[i].Word < out[j].Word
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

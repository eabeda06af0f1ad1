package abbrev

import (
	"regexp"
	"sort"
	"strings"
)

// Substituter rewrites long terms to their abbreviations. Patterns are
// prepared once (longest term first, so specific phrases beat the words
// inside them) and applied in order.
type Substituter struct {
	patterns []pattern
	abbrevs  map[string]bool
}

type pattern struct {
	term   string
	abbrev string
	re     *regexp.Regexp
}

// NewSubstituter builds the pattern table. Single words additionally
// match their common inflected variants; multi-word phrases are taken
// literally.
func NewSubstituter(d Dictionary, includeInflections bool) *Substituter {
	s := &Substituter{abbrevs: make(map[string]bool)}

	type entry struct{ term, abbrev string }
	var entries []entry
	for _, abbrev := range d.sortedKeys() {
		s.abbrevs[strings.ToLower(abbrev)] = true
		for _, term := range d[abbrev] {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			if strings.Contains(term, " ") || !includeInflections {
				entries = append(entries, entry{term, abbrev})
				continue
			}
			for _, v := range inflections(term) {
				entries = append(entries, entry{v, abbrev})
			}
		}
	}

	// Longest first for specificity.
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].term) > len(entries[j].term)
	})

	seen := make(map[string]bool)
	for _, e := range entries {
		if seen[e.term] {
			continue
		}
		seen[e.term] = true
		s.patterns = append(s.patterns, pattern{
			term:   e.term,
			abbrev: e.abbrev,
			re:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(e.term) + `\b`),
		})
	}
	return s
}

// inflections produces the variants of a single word worth matching: the
// word itself plus regular plural and verb forms.
func inflections(word string) []string {
	out := []string{word}
	switch {
	case strings.HasSuffix(word, "y") && len(word) > 2:
		out = append(out, word[:len(word)-1]+"ies")
	case strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "ch") || strings.HasSuffix(word, "sh"):
		out = append(out, word+"es")
	default:
		out = append(out, word+"s")
	}
	if strings.HasSuffix(word, "e") {
		stem := word[:len(word)-1]
		out = append(out, stem+"ed", stem+"ing")
	} else {
		out = append(out, word+"ed", word+"ing")
	}
	return out
}

// Apply rewrites every matching term in text to its abbreviation.
func (s *Substituter) Apply(text string) string {
	for _, p := range s.patterns {
		text = p.re.ReplaceAllString(text, p.abbrev)
	}
	return text
}

// ApplyTracked rewrites text and records every surviving word with the
// tracker so abbreviation candidates can be mined later.
func (s *Substituter) ApplyTracked(text, source string, tr *Tracker) string {
	out := s.Apply(text)
	if tr != nil {
		tr.Observe(out, source, s.abbrevs)
	}
	return out
}

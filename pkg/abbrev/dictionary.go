// Package abbrev manages the abbreviation dictionary used when
// generating identifier names from long statistical labels: loading,
// quality validation, substitution, and tracking of words that never
// matched.
package abbrev

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dictionary maps an abbreviation to the full terms it stands for.
type Dictionary map[string][]string

type dictionaryFile struct {
	Abbreviations map[string][]string `yaml:"abbreviations"`
}

// Load reads a YAML dictionary file.
func Load(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	var df dictionaryFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}
	return Dictionary(df.Abbreviations), nil
}

// Code is the validation outcome, matching the QA script contract the CI
// pipeline keys on.
type Code int

const (
	CodeOK          Code = 0 // all checks passed
	CodeErrors      Code = 1 // structural errors, must be fixed
	CodeConsolidate Code = 2 // optional consolidation opportunities
	CodeLoadFailure Code = 3 // file missing or unparseable
)

// ValidationResult collects everything Validate found.
type ValidationResult struct {
	Entries        int
	Errors         []string
	Consolidations []string
}

// Code maps the result to the exit-code contract. Errors dominate
// consolidation findings.
func (r ValidationResult) Code() Code {
	switch {
	case len(r.Errors) > 0:
		return CodeErrors
	case len(r.Consolidations) > 0:
		return CodeConsolidate
	default:
		return CodeOK
	}
}

// Validate checks the dictionary for structural problems and
// consolidation opportunities (two abbreviations claiming the same term).
func (d Dictionary) Validate() ValidationResult {
	res := ValidationResult{Entries: len(d)}
	if len(d) == 0 {
		res.Errors = append(res.Errors, "dictionary is empty")
		return res
	}

	claimed := make(map[string][]string) // lower-cased term -> abbreviations
	for _, key := range d.sortedKeys() {
		terms := d[key]
		if strings.TrimSpace(key) == "" {
			res.Errors = append(res.Errors, "blank abbreviation key")
			continue
		}
		if len(terms) == 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("abbreviation %q has no terms", key))
			continue
		}
		for _, term := range terms {
			if strings.TrimSpace(term) == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("abbreviation %q has a blank term", key))
				continue
			}
			if strings.EqualFold(term, key) {
				res.Consolidations = append(res.Consolidations,
					fmt.Sprintf("abbreviation %q maps to itself", key))
			}
			lower := strings.ToLower(term)
			claimed[lower] = append(claimed[lower], key)
		}
	}

	for _, term := range sortedKeys(claimed) {
		abbrevs := claimed[term]
		if len(abbrevs) > 1 {
			res.Consolidations = append(res.Consolidations,
				fmt.Sprintf("term %q is claimed by %s", term, strings.Join(abbrevs, ", ")))
		}
	}
	return res
}

func (d Dictionary) sortedKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

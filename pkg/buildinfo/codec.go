package buildinfo

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Kind names follow the on-disk annotation vocabulary of the version
// file format.
type Kind string

const (
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindString Kind = "str"
	KindBool   Kind = "bool"

	// KindTime never appears as an annotation; it marks fields whose
	// string form is an ISO-8601 timestamp.
	KindTime Kind = "datetime"
)

var supportedKinds = map[Kind]bool{
	KindInt:    true,
	KindFloat:  true,
	KindString: true,
	KindBool:   true,
}

// fieldSpec declares a persisted field and the kinds it accepts. This is
// the decoder's whole type system: a fixed table, matched directly, with
// no reflection. PackageName is identity and never persisted.
type fieldSpec struct {
	name  string
	kinds []Kind
}

var recordFields = []fieldSpec{
	{name: "build_time", kinds: []Kind{KindTime}},
	{name: "commit", kinds: []Kind{KindString}},
}

func lookupField(name string) (fieldSpec, bool) {
	for _, f := range recordFields {
		if f.name == name {
			return f, true
		}
	}
	return fieldSpec{}, false
}

func (f fieldSpec) accepts(k Kind) bool {
	for _, want := range f.kinds {
		if want == k {
			return true
		}
	}
	return false
}

const generatedHeader = "# This file is automatically generated by statkit\n"

// Encode serializes a record to the line-oriented typed text format. The
// derived version is always emitted first; it is never stored
// independently of build_time.
func Encode(rec Record) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "__version__: str = '%s'\n", rec.Version())
	for _, f := range recordFields {
		val, ok := rec.stringForm(f.name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "__%s__: str = '%s'\n", f.name, val)
	}
	return []byte(b.String())
}

// stringForm renders a field's current value. Timestamps pass through
// their RFC 3339 form, so every persisted field serializes as str.
func (r Record) stringForm(name string) (string, bool) {
	switch name {
	case "build_time":
		return r.BuildTime.Format(time.RFC3339), true
	case "commit":
		return r.Commit, true
	}
	return "", false
}

// typedValue is a decoded line's value after optional coercion.
type typedValue struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// Decode parses a version file back into a record. The package name is
// always taken from the parent directory of filePath, never from file
// content. Fields absent from the file fall back to default construction:
// a missing commit resolves provenance, a missing build time reads the
// clock. Unknown keys and kind mismatches are dropped silently so old and
// new files stay mutually readable.
func Decode(data []byte, filePath string, cfg Config, opts ...Option) (Record, error) {
	log := cfg.logger()

	var (
		buildTime *time.Time
		commit    *string
	)

	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if !strings.Contains(line, "=") {
			continue
		}

		// Values may legitimately contain '='; split on the first only.
		kv := strings.SplitN(line, "=", 2)

		key, annotation, annotated, err := parseKey(kv[0])
		if err != nil {
			return Record{}, err
		}
		if key == "version" {
			// Derived from build_time, never decoded.
			continue
		}

		spec, known := lookupField(key)
		if !known {
			log.Warn("ignoring unknown key in version file", "key", key, "path", filePath)
			continue
		}

		val := typedValue{kind: KindString, s: cleanValue(kv[1])}
		if annotated {
			if !supportedKinds[annotation] {
				return Record{}, fmt.Errorf("%w: %q for key %s", ErrUnsupportedType, annotation, key)
			}
			if val, err = coerce(val.s, annotation, key); err != nil {
				return Record{}, err
			}
		}

		switch {
		case spec.accepts(val.kind):
			if spec.name == "commit" {
				s := val.s
				commit = &s
			}
		case spec.accepts(KindTime) && val.kind == KindString:
			t, err := parseTimestamp(val.s)
			if err != nil {
				return Record{}, fmt.Errorf("%w: invalid isoformat string %q for key %s", ErrInvalidValue, val.s, key)
			}
			buildTime = &t
		default:
			log.Warn("dropping kind-mismatched value in version file",
				"key", key, "kind", string(val.kind), "path", filePath)
		}
	}

	dir, err := filepath.Abs(filepath.Dir(filePath))
	if err != nil {
		return Record{}, fmt.Errorf("resolving version file path: %w", err)
	}
	cfg.PackageName = filepath.Base(dir)

	fileOpts := append(append([]Option(nil), opts...), fileValueOptions(buildTime, commit)...)
	return New(cfg, fileOpts...)
}

func fileValueOptions(buildTime *time.Time, commit *string) []Option {
	var opts []Option
	if buildTime != nil {
		opts = append(opts, WithBuildTime(*buildTime))
	}
	if commit != nil {
		opts = append(opts, WithCommit(*commit))
	}
	return opts
}

// parseKey splits a raw key like "  __commit__: str " into the bare field
// name and an optional kind annotation. More than one ':' is a hard parse
// error. The dunder decoration is stripped after annotation extraction.
func parseKey(raw string) (name string, annotation Kind, annotated bool, err error) {
	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 1:
	case 2:
		annotation = Kind(strings.TrimSpace(parts[1]))
		annotated = true
	default:
		return "", "", false, fmt.Errorf("%w: cannot parse key %q", ErrInvalidValue, strings.TrimSpace(raw))
	}
	name = strings.TrimSpace(parts[0])
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4 {
		name = name[2 : len(name)-2]
	}
	return name, annotation, annotated, nil
}

// cleanValue truncates at the first comment marker, trims whitespace, and
// strips quote characters.
func cleanValue(raw string) string {
	v := strings.SplitN(raw, "#", 2)[0]
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "'", "")
	v = strings.ReplaceAll(v, `"`, "")
	return v
}

// coerce applies an explicit kind annotation to a cleaned value.
func coerce(s string, kind Kind, key string) (typedValue, error) {
	switch kind {
	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return typedValue{}, fmt.Errorf("%w: integer %q for key %s", ErrInvalidValue, s, key)
		}
		return typedValue{kind: KindInt, i: i, s: s}, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return typedValue{}, fmt.Errorf("%w: float %q for key %s", ErrInvalidValue, s, key)
		}
		return typedValue{kind: KindFloat, f: f, s: s}, nil
	case KindBool:
		switch strings.ToLower(s) {
		case "true", "1":
			return typedValue{kind: KindBool, b: true, s: s}, nil
		case "false", "0":
			return typedValue{kind: KindBool, b: false, s: s}, nil
		}
		return typedValue{}, fmt.Errorf("%w: boolean %q for key %s", ErrInvalidValue, s, key)
	default:
		return typedValue{kind: KindString, s: s}, nil
	}
}

// parseTimestamp accepts RFC 3339 and the bare ISO-8601 forms the Python
// stamping tool historically wrote (naive timestamps are taken as UTC).
func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

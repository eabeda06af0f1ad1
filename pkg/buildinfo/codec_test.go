package buildinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRecord() Record {
	return Record{
		PackageName: "statscan",
		BuildTime:   time.Date(2025, 6, 9, 14, 30, 45, 0, time.UTC),
		Commit:      "abcd1234ef567890abcd1234ef567890abcd1234",
	}
}

func TestEncodeGolden(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "encoded_record", Encode(fixedRecord()))
}

// decodePath stages data under a directory named "statscan" so the
// identity field derived from the parent directory is predictable.
func decodePath(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "statscan")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return filepath.Join(dir, DefaultVersionFileName)
}

func TestDecodeRoundTrip(t *testing.T) {
	want := fixedRecord()
	rec, err := Decode(Encode(want), decodePath(t), Config{}, WithGetenv(noEnv))
	require.NoError(t, err)
	assert.Equal(t, want.Commit, rec.Commit)
	assert.True(t, rec.BuildTime.Equal(want.BuildTime))
	assert.Equal(t, want.Version(), rec.Version())
	assert.Equal(t, "statscan", rec.PackageName)
}

func TestDecodePythonStyleTimestamp(t *testing.T) {
	// Files written by the original stamping tool carry +00:00 offsets
	// and sometimes naive timestamps.
	data := []byte("__version__: str = '2025.6.9.143045'\n" +
		"__build_time__: str = '2025-06-09T14:30:45+00:00'\n" +
		"__commit__: str = 'abc'\n")
	rec, err := Decode(data, decodePath(t), Config{}, WithGetenv(noEnv))
	require.NoError(t, err)
	assert.Equal(t, "2025.6.9.143045", rec.Version())

	naive := []byte("__build_time__ = '2025-06-09T14:30:45'\n__commit__ = 'abc'\n")
	rec, err = Decode(naive, decodePath(t), Config{}, WithGetenv(noEnv))
	require.NoError(t, err)
	assert.True(t, rec.BuildTime.Equal(time.Date(2025, 6, 9, 14, 30, 45, 0, time.UTC)))
}

func TestDecodeSkipsCommentsAndSeparatorlessLines(t *testing.T) {
	data := []byte("# a comment\n" +
		"this line has no separator\n" +
		"__commit__: str = 'abc' # trailing note\n")
	rec, err := Decode(data, decodePath(t), Config{},
		WithGetenv(noEnv), WithBuildTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.Commit)
}

func TestDecodeValueContainingEquals(t *testing.T) {
	data := []byte("__commit__ = 'abc=def'\n")
	rec, err := Decode(data, decodePath(t), Config{},
		WithGetenv(noEnv), WithBuildTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "abc=def", rec.Commit, "split must happen on the first '=' only")
}

func TestDecodeUnknownKeysIgnored(t *testing.T) {
	data := []byte("__commit__: str = 'abc'\n" +
		"__review_count__: int = '7'\n" +
		"mystery = 'value'\n")
	rec, err := Decode(data, decodePath(t), Config{},
		WithGetenv(noEnv), WithBuildTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err, "unknown keys must not abort the decode")
	assert.Equal(t, "abc", rec.Commit)
}

func TestDecodeKindMismatchDropped(t *testing.T) {
	// An int-annotated commit does not match the field's kind set and is
	// not a timestamp candidate, so it falls back to the resolver.
	data := []byte("__commit__: int = '42'\n")
	getenv := func(name string) string {
		if name == "GITHUB_SHA" {
			return "resolved_instead"
		}
		return ""
	}
	rec, err := Decode(data, decodePath(t), Config{},
		WithGetenv(getenv), WithBuildTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "resolved_instead", rec.Commit)
}

func TestDecodeMissingCommitFallsBackToResolver(t *testing.T) {
	data := []byte("__version__: str = '2025.6.9.143045'\n" +
		"__build_time__: str = '2025-06-09T14:30:45Z'\n")
	getenv := func(name string) string {
		if name == "GITHUB_SHA" {
			return "github_commit_hash"
		}
		return ""
	}
	rec, err := Decode(data, decodePath(t), Config{}, WithGetenv(getenv))
	require.NoError(t, err)
	assert.Equal(t, "github_commit_hash", rec.Commit)
	assert.Equal(t, "2025.6.9.143045", rec.Version())
}

func TestDecodeMalformedTimestamp(t *testing.T) {
	data := []byte("__build_time__: str = 'invalid-datetime'\n__commit__: str = 'abc'\n")
	_, err := Decode(data, decodePath(t), Config{}, WithGetenv(noEnv))
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "invalid isoformat string")
}

func TestDecodeBadBoolean(t *testing.T) {
	data := []byte("__commit__: bool = 'maybe'\n")
	_, err := Decode(data, decodePath(t), Config{}, WithGetenv(noEnv))
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestDecodeUnsupportedAnnotation(t *testing.T) {
	data := []byte("__commit__: uuid = 'abc'\n")
	_, err := Decode(data, decodePath(t), Config{}, WithGetenv(noEnv))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDecodeMultiColonKey(t *testing.T) {
	data := []byte("__commit__: str: str = 'abc'\n")
	_, err := Decode(data, decodePath(t), Config{}, WithGetenv(noEnv))
	require.ErrorIs(t, err, ErrInvalidValue)
}

package buildinfo

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var versionGrammar = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d{6}$`)

func TestVersionStringFormat(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 6, 9, 14, 30, 45, 0, time.UTC), "2025.6.9.143045"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "2025.12.31.000000"},
		{time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), "2024.1.1.235959"},
		{time.Date(2025, 10, 2, 8, 5, 3, 0, time.UTC), "2025.10.2.080503"},
	}
	for _, tc := range cases {
		got := VersionString(tc.in)
		assert.Equal(t, tc.want, got)
		assert.Regexp(t, versionGrammar, got)
	}
}

func TestVersionIsPureFunctionOfBuildTime(t *testing.T) {
	at := time.Date(2025, 6, 9, 14, 30, 45, 0, time.UTC)
	a := Record{PackageName: "statscan", BuildTime: at, Commit: "aaa"}
	b := Record{PackageName: "other", BuildTime: at, Commit: "bbb"}
	assert.Equal(t, a.Version(), b.Version(),
		"records with equal build times must share a version regardless of other fields")
}

func TestParseVersionRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 9, 14, 30, 45, 0, time.UTC)
	parsed, err := ParseVersion(VersionString(at))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestParseVersionRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "1.2.3", "2025.6.9.14304", "2025.13.9.143045", "a.b.c.dddddd"} {
		_, err := ParseVersion(s)
		assert.ErrorIs(t, err, ErrInvalidValue, "input %q", s)
	}
}

func TestNewDefaults(t *testing.T) {
	root := t.TempDir()
	writeGitTree(t, root, "main", "deadbeef")
	now := time.Date(2025, 6, 9, 14, 30, 45, 123456789, time.UTC)

	rec, err := New(Config{RepoRoot: root},
		WithClock(func() time.Time { return now }),
		WithGetenv(noEnv),
	)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", rec.Commit)
	assert.True(t, rec.BuildTime.Equal(now.Truncate(time.Second)))
	assert.Equal(t, "2025.6.9.143045", rec.Version())
}

func TestNewExplicitValuesSkipResolution(t *testing.T) {
	// No .git anywhere; pinned values must keep New off the filesystem.
	rec, err := New(Config{RepoRoot: t.TempDir(), PackageName: "statscan"},
		WithCommit("pinned"),
		WithBuildTime(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)),
		WithGetenv(noEnv),
	)
	require.NoError(t, err)
	assert.Equal(t, "pinned", rec.Commit)
	assert.Equal(t, "2025.1.2.030405", rec.Version())
	assert.Equal(t, "statscan", rec.PackageName)
}

func TestRecordMap(t *testing.T) {
	rec := Record{
		PackageName: "statscan",
		BuildTime:   time.Date(2025, 6, 9, 14, 30, 45, 0, time.UTC),
		Commit:      "abc",
	}
	m := rec.Map()
	assert.Equal(t, "statscan", m["package_name"])
	assert.Equal(t, "2025.6.9.143045", m["version"])
	assert.Equal(t, "2025-06-09T14:30:45Z", m["build_time"])
	assert.Equal(t, "abc", m["commit"])
}

func TestCIVarValue(t *testing.T) {
	getenv := func(name string) string {
		if name == "GITHUB_SHA" {
			return "ff00"
		}
		return ""
	}
	v, ok := GithubSHA.Value(getenv)
	assert.True(t, ok)
	assert.Equal(t, "ff00", v)

	_, ok = GithubActor.Value(getenv)
	assert.False(t, ok)
}

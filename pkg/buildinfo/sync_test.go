package buildinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a clock that advances one minute per reading, so
// consecutive fresh records would produce distinct versions.
func tickingClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestSyncCreatesMissingFile(t *testing.T) {
	root := t.TempDir()
	writeGitTree(t, root, "main", "c0ffee")
	cfg := Config{RepoRoot: root}

	changed, rec, err := Sync(cfg, "", WithGetenv(noEnv))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "c0ffee", rec.Commit)
	assert.FileExists(t, filepath.Join(root, DefaultVersionFileName))
}

func TestSyncIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeGitTree(t, root, "main", "c0ffee")
	cfg := Config{RepoRoot: root}
	clock := tickingClock(time.Date(2025, 6, 9, 14, 0, 0, 0, time.UTC))

	changed, first, err := Sync(cfg, "", WithGetenv(noEnv), WithClock(clock))
	require.NoError(t, err)
	require.True(t, changed)

	// Re-running with no commit change must not bump the version, even
	// though the clock has moved on.
	changed, second, err := Sync(cfg, "", WithGetenv(noEnv), WithClock(clock))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first.Version(), second.Version())
	assert.True(t, second.BuildTime.Equal(first.BuildTime))
}

func TestSyncDetectsCommitChange(t *testing.T) {
	root := t.TempDir()
	writeGitTree(t, root, "main", "oldhash")
	cfg := Config{RepoRoot: root}
	clock := tickingClock(time.Date(2025, 6, 9, 14, 0, 0, 0, time.UTC))

	_, first, err := Sync(cfg, "", WithGetenv(noEnv), WithClock(clock))
	require.NoError(t, err)

	writeGitTree(t, root, "main", "newhash")

	changed, second, err := Sync(cfg, "", WithGetenv(noEnv), WithClock(clock))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "newhash", second.Commit)
	assert.False(t, second.BuildTime.Equal(first.BuildTime),
		"a real change must produce a fresh build time")
}

func TestSyncExplicitPath(t *testing.T) {
	root := t.TempDir()
	writeGitTree(t, root, "main", "c0ffee")
	path := filepath.Join(root, "stamp.txt")

	changed, _, err := Sync(Config{RepoRoot: root}, path, WithGetenv(noEnv))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.FileExists(t, path)
}

func TestLatestReturnsRecordEitherWay(t *testing.T) {
	root := t.TempDir()
	writeGitTree(t, root, "main", "c0ffee")
	cfg := Config{RepoRoot: root}

	first, err := Latest(cfg, WithGetenv(noEnv))
	require.NoError(t, err)
	second, err := Latest(cfg, WithGetenv(noEnv))
	require.NoError(t, err)
	assert.Equal(t, first.Version(), second.Version())
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(Config{RepoRoot: t.TempDir()}, filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWriteFileOverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultVersionFileName)
	require.NoError(t, os.WriteFile(path, []byte("stale content\nmore stale\n"), 0o644))

	require.NoError(t, WriteFile(fixedRecord(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "__version__")
}

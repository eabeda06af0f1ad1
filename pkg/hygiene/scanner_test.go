package hygiene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func paths(files []FileInfo) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestScannerFindsOnlyEmptyFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "empty.txt", "")
	touch(t, root, "full.txt", "content")
	touch(t, root, "sub/empty.go", "")

	found, err := Scanner{Root: root}.Find()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"empty.txt", "sub/empty.go"}, paths(found))
}

func TestScannerSkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, root, ".git/empty", "")
	touch(t, root, "vendor/empty.go", "")
	touch(t, root, "cache.egg-info/empty", "")
	touch(t, root, "src/empty.go", "")

	found, err := Scanner{Root: root}.Find()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/empty.go"}, paths(found))
}

func TestScannerSkipsIntentionallyEmpty(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "pkg/py.typed", "")
	touch(t, root, "pkg/.gitkeep", "")
	touch(t, root, "pkg/empty.md", "")

	found, err := Scanner{Root: root}.Find()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pkg/empty.md"}, paths(found))

	all, err := Scanner{Root: root, IncludeIntentional: true, IncludeHidden: true}.Find()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestScannerHiddenFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root, ".hiddenrc", "")
	touch(t, root, "shown.txt", "")

	found, err := Scanner{Root: root}.Find()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"shown.txt"}, paths(found))

	found, err = Scanner{Root: root, IncludeHidden: true}.Find()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".hiddenrc", "shown.txt"}, paths(found))
}

func TestScannerUserExcludePatterns(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "scratch/empty.txt", "")
	touch(t, root, "keep/empty.txt", "")

	found, err := Scanner{Root: root, ExcludeDirs: []string{"scratch"}}.Find()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"keep/empty.txt"}, paths(found))
}

func TestCategorize(t *testing.T) {
	files := []FileInfo{
		{Name: "a.go", Path: "a.go", Ext: ".go"},
		{Name: "b_test.go", Path: "internal/b_test.go", Ext: ".go"},
		{Name: "c.md", Path: "docs/c.md", Ext: ".md"},
		{Name: "d.yaml", Path: "d.yaml", Ext: ".yaml"},
		{Name: "e.csv", Path: "data/e.csv", Ext: ".csv"},
		{Name: "f.bin", Path: "f.bin", Ext: ".bin"},
	}
	got := Categorize(files)
	assert.Len(t, got[CategorySource], 1)
	assert.Len(t, got[CategoryTests], 1)
	assert.Len(t, got[CategoryDocs], 1)
	assert.Len(t, got[CategoryConfig], 1)
	assert.Len(t, got[CategoryData], 1)
	assert.Len(t, got[CategoryOther], 1)
}

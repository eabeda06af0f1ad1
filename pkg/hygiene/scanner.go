// Package hygiene finds empty files in a source tree so stray artifacts
// can be reviewed and removed.
package hygiene

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// Directories that never hold files worth reporting. Callers can extend
// the set but not shrink it.
var defaultExcludeDirs = map[string]bool{
	".git":          true,
	".venv":         true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".tox":          true,
	"node_modules":  true,
	"vendor":        true,
	"build":         true,
	"dist":          true,
	"*.egg-info":    true,
}

// Files that are empty on purpose.
var intentionallyEmpty = map[string]bool{
	"py.typed":        true,
	"__init__.py":     true,
	".gitkeep":        true,
	".keep":           true,
	"PLACEHOLDER":     true,
	"placeholder.txt": true,
	".placeholder":    true,
}

// FileInfo describes one empty-file candidate. The fields mirror the
// variables exposed to policy rules.
type FileInfo struct {
	Name   string // base name
	Path   string // relative to the scan root, slash-separated
	Ext    string // extension including the dot
	Dir    string // parent directory relative to the root
	Size   int64
	Hidden bool // base name starts with '.'
}

// Scanner walks a tree for empty files.
type Scanner struct {
	Root               string
	IncludeHidden      bool
	IncludeIntentional bool
	ExcludeDirs        []string
	Logger             *slog.Logger
}

func (s Scanner) excluded(name string) bool {
	if defaultExcludeDirs[name] {
		return true
	}
	for _, pattern := range s.ExcludeDirs {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	for pattern := range defaultExcludeDirs {
		if strings.Contains(pattern, "*") {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
		}
	}
	return false
}

func (s Scanner) skipFile(name string) bool {
	if !s.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	if !s.IncludeIntentional && intentionallyEmpty[name] {
		return true
	}
	return false
}

// Find walks the root and returns every empty file that survives the
// exclusion rules. Unreadable files are skipped, not fatal.
func (s Scanner) Find() ([]FileInfo, error) {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}

	var out []FileInfo
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == s.Root {
				return nil
			}
			if s.excluded(name) || (!s.IncludeHidden && strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.skipFile(name) {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() != 0 {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		out = append(out, FileInfo{
			Name:   name,
			Path:   rel,
			Ext:    filepath.Ext(name),
			Dir:    filepath.ToSlash(filepath.Dir(rel)),
			Size:   0,
			Hidden: strings.HasPrefix(name, "."),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Category buckets group results for the summary view.
type Category string

const (
	CategorySource Category = "Source Files"
	CategoryTests  Category = "Test Files"
	CategoryDocs   Category = "Documentation"
	CategoryConfig Category = "Configuration"
	CategoryData   Category = "Data Files"
	CategoryOther  Category = "Other"
)

// Categories is the stable presentation order.
var Categories = []Category{
	CategorySource, CategoryTests, CategoryDocs, CategoryConfig, CategoryData, CategoryOther,
}

var configExts = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true, ".cfg": true,
}

var docExts = map[string]bool{".md": true, ".rst": true, ".txt": true}

var dataExts = map[string]bool{".csv": true, ".xml": true, ".dat": true}

// Categorize buckets files by type and location.
func Categorize(files []FileInfo) map[Category][]FileInfo {
	out := make(map[Category][]FileInfo)
	for _, f := range files {
		switch {
		case f.Ext == ".go" || f.Ext == ".py":
			if strings.Contains(strings.ToLower(f.Path), "test") {
				out[CategoryTests] = append(out[CategoryTests], f)
			} else {
				out[CategorySource] = append(out[CategorySource], f)
			}
		case docExts[f.Ext]:
			out[CategoryDocs] = append(out[CategoryDocs], f)
		case configExts[f.Ext]:
			out[CategoryConfig] = append(out[CategoryConfig], f)
		case dataExts[f.Ext]:
			out[CategoryData] = append(out[CategoryData], f)
		default:
			out[CategoryOther] = append(out[CategoryOther], f)
		}
	}
	return out
}

// Package changelog rewrites Keep-a-Changelog files: it appends pull
// request entries under the Unreleased section and promotes that section
// at release time. It shares no state with the version record subsystem.
package changelog

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultPath       = "CHANGELOG.md"
	unreleasedHeader  = "## [Unreleased]"
	changelogTemplate = "# Changelog\n\n" +
		"All notable changes to this project will be documented in this file.\n\n" +
		"The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.0.0/),\n" +
		"and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).\n\n" +
		unreleasedHeader + "\n"
)

var unreleasedPattern = regexp.MustCompile(`(?im)^## \[unreleased\]`)

// Entry describes one merged pull request.
type Entry struct {
	Number int
	Title  string
	Author string
	URL    string
}

func (e Entry) line() string {
	return fmt.Sprintf("- %s ([#%d](%s)) by @%s", e.Title, e.Number, e.URL, e.Author)
}

// AddEntry inserts the entry's bullet right after the Unreleased header
// and returns the rewritten content. Adding the same pull request twice
// is a no-op, so re-running the CI job cannot duplicate lines. Empty
// content yields a fresh file from the template.
func AddEntry(content string, e Entry) (string, bool) {
	if strings.Contains(content, fmt.Sprintf("([#%d]", e.Number)) {
		return content, false
	}

	if content == "" {
		return changelogTemplate + "\n" + e.line() + "\n", true
	}

	loc := unreleasedPattern.FindStringIndex(content)
	if loc == nil {
		// Degenerate file without an Unreleased section; rebuild the
		// scaffold in front of whatever is there.
		return changelogTemplate + "\n" + e.line() + "\n\n" + content, true
	}

	insertAt := loc[0] + len(content[loc[0]:loc[1]])
	return content[:insertAt] + "\n\n" + e.line() + content[insertAt:], true
}

// Promote renames the first Unreleased header to a dated release header
// and seeds a fresh empty Unreleased section above it, so the next
// AddEntry lands in a clean section instead of rebuilding the scaffold.
// A changelog without an Unreleased section is an error; the release
// pipeline must not silently ship nothing.
func Promote(content, version string, at time.Time) (string, error) {
	if !unreleasedPattern.MatchString(content) {
		return "", fmt.Errorf("no %s section found", unreleasedHeader)
	}
	header := fmt.Sprintf("## [%s] - %s", version, at.Format("2006-01-02T15:04:05"))
	replaced := false
	out := unreleasedPattern.ReplaceAllStringFunc(content, func(m string) string {
		if replaced {
			return m
		}
		replaced = true
		return unreleasedHeader + "\n\n" + header
	})
	return out, nil
}

// UpdateFile applies AddEntry to the file at path, creating it from the
// template when absent.
func UpdateFile(path string, e Entry, log *slog.Logger) (bool, error) {
	if log == nil {
		log = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading changelog: %w", err)
	}

	out, added := AddEntry(string(data), e)
	if !added {
		log.Info("changelog already has an entry for this pull request", "pr", e.Number)
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return false, fmt.Errorf("writing changelog: %w", err)
	}
	log.Info("added changelog entry", "path", path, "pr", e.Number)
	return true, nil
}

// ReleaseFile applies Promote to the file at path.
func ReleaseFile(path, version string, at time.Time) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading changelog: %w", err)
	}
	out, err := Promote(string(data), version, at)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

package buildinfo

import (
	"fmt"
	"os"
)

// FromFile decodes the version file at path. A missing file reports
// ErrNotFound.
func FromFile(cfg Config, path string, opts ...Option) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("%w: version file %s", ErrNotFound, path)
	}
	return Decode(data, path, cfg, opts...)
}

// WriteFile encodes rec and overwrites path wholesale. The file is never
// patched in place.
func WriteFile(rec Record, path string) error {
	if err := os.WriteFile(path, Encode(rec), 0o644); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}
	return nil
}

// Sync reconciles the on-disk version file with the current provenance.
// Version bumps are commit-triggered, not invocation-triggered: when the
// stored commit matches the freshly resolved one, nothing is written and
// the stored record (with its original build time and version) is
// returned. An empty path means the default location under cfg.RepoRoot.
func Sync(cfg Config, path string, opts ...Option) (changed bool, rec Record, err error) {
	if path == "" {
		path = cfg.versionFilePath()
	}
	log := cfg.logger()

	current, err := New(cfg, opts...)
	if err != nil {
		return false, Record{}, err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		stored, err := FromFile(cfg, path, opts...)
		if err != nil {
			return false, Record{}, err
		}
		if stored.Commit == current.Commit {
			log.Info("version file is up to date", "path", path, "version", stored.Version())
			return false, stored, nil
		}
		log.Info("updating version file", "path", path,
			"old_commit", stored.Commit, "new_commit", current.Commit)
	} else {
		log.Info("creating version file", "path", path)
	}

	if err := WriteFile(current, path); err != nil {
		return false, Record{}, err
	}
	return true, current, nil
}

// Latest syncs the default version file location and returns the
// resulting record, whether or not a write occurred.
func Latest(cfg Config, opts ...Option) (Record, error) {
	_, rec, err := Sync(cfg, "", opts...)
	return rec, err
}

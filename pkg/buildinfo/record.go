package buildinfo

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultVersionFileName is where Sync and Latest look when no explicit
// path is given.
const DefaultVersionFileName = "_version.txt"

// Config carries the explicit inputs the record subsystem needs. There is
// no package introspection here; callers say which repository and package
// they mean.
type Config struct {
	RepoRoot        string
	PackageName     string // defaults to the base name of RepoRoot
	VersionFileName string // defaults to DefaultVersionFileName
	Logger          *slog.Logger
}

func (c Config) packageName() string {
	if c.PackageName != "" {
		return c.PackageName
	}
	abs, err := filepath.Abs(c.RepoRoot)
	if err != nil {
		return filepath.Base(c.RepoRoot)
	}
	return filepath.Base(abs)
}

func (c Config) versionFilePath() string {
	name := c.VersionFileName
	if name == "" {
		name = DefaultVersionFileName
	}
	return filepath.Join(c.RepoRoot, name)
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Record is an immutable build provenance record. All update semantics go
// through constructing a new record and deciding whether to persist it.
type Record struct {
	PackageName string
	BuildTime   time.Time
	Commit      string
}

// Option overrides one of the record's default-construction inputs.
// Substituting the clock and environment keeps tests hermetic.
type Option func(*settings)

type settings struct {
	clock     func() time.Time
	getenv    func(string) string
	buildTime *time.Time
	commit    *string
}

func newSettings(opts []Option) settings {
	s := settings{clock: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock substitutes the time source used for fresh build times.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) { s.clock = clock }
}

// WithGetenv substitutes the environment lookup used by the resolver.
func WithGetenv(getenv func(string) string) Option {
	return func(s *settings) { s.getenv = getenv }
}

// WithBuildTime pins the build time instead of reading the clock.
func WithBuildTime(t time.Time) Option {
	return func(s *settings) { s.buildTime = &t }
}

// WithCommit pins the commit instead of resolving provenance.
func WithCommit(commit string) Option {
	return func(s *settings) { s.commit = &commit }
}

// New constructs a fresh record. The build time defaults to now in UTC
// and the commit is resolved once via the provenance resolver unless
// supplied explicitly.
func New(cfg Config, opts ...Option) (Record, error) {
	s := newSettings(opts)

	rec := Record{PackageName: cfg.packageName()}

	if s.buildTime != nil {
		rec.BuildTime = *s.buildTime
	} else {
		rec.BuildTime = s.clock().UTC().Truncate(time.Second)
	}

	if s.commit != nil {
		rec.Commit = *s.commit
	} else {
		resolver := Resolver{RepoRoot: cfg.RepoRoot, Getenv: s.getenv}
		commit, err := resolver.Commit()
		if err != nil {
			return Record{}, err
		}
		rec.Commit = commit
	}

	return rec, nil
}

// Version derives the version string from the build time. It is a pure
// function of BuildTime: equal build times always yield equal versions.
func (r Record) Version() string {
	return VersionString(r.BuildTime)
}

// Map flattens the record to key/value pairs for the CI consumer, which
// owns any further emission and exit-code handling.
func (r Record) Map() map[string]string {
	return map[string]string{
		"package_name": r.PackageName,
		"version":      r.Version(),
		"build_time":   r.BuildTime.Format(time.RFC3339),
		"commit":       r.Commit,
	}
}

// VersionString formats a timestamp as {year}.{month}.{day}.{HHMMSS}.
// Month and day are not zero-padded; the time component always is.
func VersionString(t time.Time) string {
	return fmt.Sprintf("%d.%d.%d.%02d%02d%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// ParseVersion inverts VersionString, yielding a UTC timestamp with
// second precision.
func ParseVersion(s string) (time.Time, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 || len(parts[3]) != 6 {
		return time.Time{}, fmt.Errorf("%w: version string %q", ErrInvalidValue, s)
	}
	nums := make([]int, 0, 6)
	for _, p := range []string{parts[0], parts[1], parts[2], parts[3][0:2], parts[3][2:4], parts[3][4:6]} {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: version string %q", ErrInvalidValue, s)
		}
		nums = append(nums, n)
	}
	t := time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], nums[5], 0, time.UTC)
	if VersionString(t) != s {
		return time.Time{}, fmt.Errorf("%w: version string %q is not a calendar timestamp", ErrInvalidValue, s)
	}
	return t, nil
}

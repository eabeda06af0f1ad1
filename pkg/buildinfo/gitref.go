package buildinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const gitDirName = ".git"

// Reference is the resolved HEAD indirection: the pointer file, the file
// it names, and the commit hash that file holds.
type Reference struct {
	PointerPath  string // <repo>/.git/HEAD
	ResolvedPath string // file the symbolic ref names
	Ref          string // e.g. refs/heads/main
	Hash         string // trimmed contents of ResolvedPath
}

// Branch returns the short branch name for a refs/heads reference, or the
// raw ref otherwise.
func (r Reference) Branch() string {
	return strings.TrimPrefix(r.Ref, "refs/heads/")
}

// Resolver derives the current commit from git plumbing files directly,
// without shelling out to a git binary. A CI-provided commit always wins
// over filesystem resolution.
type Resolver struct {
	RepoRoot string
	Getenv   func(string) string // nil means os.Getenv
}

// Commit returns the current commit hash. Resolution order: GITHUB_SHA
// from the environment, then the symbolic HEAD reference on disk.
func (r Resolver) Commit() (string, error) {
	if sha, ok := GithubSHA.Value(r.Getenv); ok {
		return sha, nil
	}
	head, err := r.Head()
	if err != nil {
		return "", err
	}
	return head.Hash, nil
}

// Branch returns the current branch name. GITHUB_REF takes precedence,
// mirroring Commit.
func (r Resolver) Branch() (string, error) {
	if ref, ok := GithubRef.Value(r.Getenv); ok {
		return strings.TrimPrefix(ref, "refs/heads/"), nil
	}
	head, err := r.Head()
	if err != nil {
		return "", err
	}
	return head.Branch(), nil
}

// Head reads .git/HEAD and follows the symbolic reference it names.
// Results are never cached; the files are tiny and read at most a few
// times per invocation.
//
// A detached HEAD (raw hash, no "ref:" line) is not supported and reports
// ErrMalformedRef.
func (r Resolver) Head() (Reference, error) {
	gitDir := filepath.Join(r.RepoRoot, gitDirName)
	pointer := filepath.Join(gitDir, "HEAD")

	data, err := os.ReadFile(pointer)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: git HEAD at %s", ErrNotFound, pointer)
	}

	var ref string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "ref:") {
			ref = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
			break
		}
	}
	if ref == "" {
		return Reference{}, fmt.Errorf("%w: no ref line in %s", ErrMalformedRef, pointer)
	}

	resolved := filepath.Join(gitDir, filepath.FromSlash(ref))
	hash, err := os.ReadFile(resolved)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: git reference file %s", ErrNotFound, resolved)
	}

	return Reference{
		PointerPath:  pointer,
		ResolvedPath: resolved,
		Ref:          ref,
		Hash:         strings.TrimSpace(string(hash)),
	}, nil
}

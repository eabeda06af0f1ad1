package buildinfo

import "os"

// CIVar names a GitHub Actions environment variable the toolkit consumes.
type CIVar string

const (
	GithubRepository CIVar = "GITHUB_REPOSITORY" // owner/name, e.g. octocat/Hello-World
	GithubSHA        CIVar = "GITHUB_SHA"        // commit that triggered the workflow
	GithubRef        CIVar = "GITHUB_REF"        // branch or tag ref that triggered the workflow
	GithubWorkflow   CIVar = "GITHUB_WORKFLOW"
	GithubActor      CIVar = "GITHUB_ACTOR"
	GithubWorkspace  CIVar = "GITHUB_WORKSPACE"
)

// Value looks the variable up through getenv (os.Getenv when nil).
// ok is false when the variable is unset or empty.
func (v CIVar) Value(getenv func(string) string) (string, bool) {
	if getenv == nil {
		getenv = os.Getenv
	}
	s := getenv(string(v))
	return s, s != ""
}

package hygiene

import (
	"fmt"
	"os"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
	"gopkg.in/yaml.v3"
)

// Rule actions.
const (
	ActionKeep   = "keep"   // never offer the file for deletion
	ActionDelete = "delete" // mark the file for deletion without asking
)

// Rule is a user-defined hygiene rule loaded from YAML. The condition is
// a CEL expression over the candidate file, e.g.
// `ext == ".md" && dir.startsWith("docs")`.
type Rule struct {
	ID        string `yaml:"id"`
	Condition string `yaml:"condition"`
	Action    string `yaml:"action"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML rule file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}
	for _, r := range rf.Rules {
		if r.Action != ActionKeep && r.Action != ActionDelete {
			return nil, fmt.Errorf("rule %s: unknown action %q", r.ID, r.Action)
		}
	}
	return rf.Rules, nil
}

type compiledRule struct {
	rule    Rule
	program cel.Program
}

// Engine compiles and evaluates hygiene rules.
type Engine struct {
	env      *cel.Env
	compiled []compiledRule
}

// NewEngine initializes the CEL environment with the candidate-file
// variable declarations.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("name", decls.String),
			decls.NewVar("path", decls.String),
			decls.NewVar("ext", decls.String),
			decls.NewVar("dir", decls.String),
			decls.NewVar("size", decls.Int),
			decls.NewVar("hidden", decls.Bool),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}
	return &Engine{env: env}, nil
}

// Compile turns rules into executable programs. Compilation errors
// surface at load time, not during the walk.
func (e *Engine) Compile(rules []Rule) error {
	for _, r := range rules {
		ast, issues := e.env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.ID, issues.Err())
		}
		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.ID, err)
		}
		e.compiled = append(e.compiled, compiledRule{rule: r, program: prg})
	}
	return nil
}

// Decide evaluates the rules against one candidate in declaration order.
// The first matching rule's action wins; no match means no decision and
// the file goes to review.
func (e *Engine) Decide(f FileInfo) (action string, ruleID string, err error) {
	vars := map[string]any{
		"name":   f.Name,
		"path":   f.Path,
		"ext":    f.Ext,
		"dir":    f.Dir,
		"size":   f.Size,
		"hidden": f.Hidden,
	}
	for _, c := range e.compiled {
		out, _, err := c.program.Eval(vars)
		if err != nil {
			return "", "", fmt.Errorf("rule %s evaluation failed: %w", c.rule.ID, err)
		}
		if match, ok := out.Value().(bool); ok && match {
			return c.rule.Action, c.rule.ID, nil
		}
	}
	return "", "", nil
}

// Partition splits candidates into auto-delete, protected, and
// needs-review sets according to the compiled rules.
func (e *Engine) Partition(files []FileInfo) (toDelete, kept, review []FileInfo, err error) {
	for _, f := range files {
		action, _, err := e.Decide(f)
		if err != nil {
			return nil, nil, nil, err
		}
		switch action {
		case ActionDelete:
			toDelete = append(toDelete, f)
		case ActionKeep:
			kept = append(kept, f)
		default:
			review = append(review, f)
		}
	}
	return toDelete, kept, review, nil
}

package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/statcan-go/statscan/pkg/buildinfo"
)

var flagEmitOutput string

// emitCmd flattens the current record into the key=value lines GitHub
// Actions reads from $GITHUB_OUTPUT.
var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Append build metadata to the CI output file",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := flagEmitOutput
		if target == "" {
			target = os.Getenv("GITHUB_OUTPUT")
		}
		if target == "" {
			return &ExitError{Code: 1, Message: "no output target: pass --output or set GITHUB_OUTPUT"}
		}

		cfg := buildConfig()
		rec, err := buildinfo.Latest(cfg)
		if err != nil {
			return err
		}

		props := rec.Map()
		resolver := buildinfo.Resolver{RepoRoot: config.RepoRoot}
		if branch, err := resolver.Branch(); err == nil {
			props["branch"] = branch
		}

		f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return &ExitError{Code: 1, Message: fmt.Sprintf("opening output target: %v", err)}
		}
		defer f.Close()

		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(f, "%s=%s\n", k, props[k]); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		}
		return nil
	},
}

func init() {
	emitCmd.Flags().StringVar(&flagEmitOutput, "output", "", "Output file (default: $GITHUB_OUTPUT)")
}

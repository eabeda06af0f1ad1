package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statcan-go/statscan/pkg/abbrev"
)

var (
	flagAbbrevQA        bool
	flagAbbrevCheckOnly bool
)

var abbrevCmd = &cobra.Command{
	Use:   "abbrev",
	Short: "Lint the abbreviation dictionary",
}

// abbrevCheckCmd exits with the QA contract CI keys on: 0 clean,
// 1 structural errors, 2 consolidation opportunities, 3 load failure.
var abbrevCheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate an abbreviation dictionary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := abbrev.Load(args[0])
		if err != nil {
			return &ExitError{Code: int(abbrev.CodeLoadFailure), Message: err.Error()}
		}

		result := dict.Validate()
		if !flagAbbrevQA {
			// Outside QA mode only structural errors gate the exit code.
			result.Consolidations = nil
		}

		if !flagAbbrevCheckOnly {
			fmt.Fprintf(cmd.OutOrStdout(), "%d abbreviations\n", result.Entries)
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", e)
			}
			for _, c := range result.Consolidations {
				fmt.Fprintf(cmd.OutOrStdout(), "consolidate: %s\n", c)
			}
		}

		if code := result.Code(); code != abbrev.CodeOK {
			return &ExitError{Code: int(code)}
		}
		return nil
	},
}

func init() {
	abbrevCheckCmd.Flags().BoolVar(&flagAbbrevQA, "qa", false, "Also report consolidation opportunities")
	abbrevCheckCmd.Flags().BoolVar(&flagAbbrevCheckOnly, "check-only", false, "Suppress the report, exit code only")
	abbrevCmd.AddCommand(abbrevCheckCmd)
}

package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/statcan-go/statscan/pkg/changelog"
)

var flagChangelogPath string

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Maintain the Keep-a-Changelog file",
}

func changelogPath() string {
	if flagChangelogPath != "" {
		return flagChangelogPath
	}
	return filepath.Join(config.RepoRoot, changelog.DefaultPath)
}

var changelogAddCmd = &cobra.Command{
	Use:   "add NUMBER TITLE AUTHOR URL",
	Short: "Record a pull request under Unreleased",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("pull request number %q: %w", args[0], err)
		}
		entry := changelog.Entry{
			Number: number,
			Title:  args[1],
			Author: args[2],
			URL:    args[3],
		}
		added, err := changelog.UpdateFile(changelogPath(), entry, slog.Default())
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintf(cmd.OutOrStdout(), "#%d already recorded\n", number)
		}
		return nil
	},
}

var changelogReleaseCmd = &cobra.Command{
	Use:   "release VERSION",
	Short: "Promote the Unreleased section to a versioned one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changelog.ReleaseFile(changelogPath(), args[0], time.Now().UTC())
	},
}

func init() {
	changelogCmd.PersistentFlags().StringVar(&flagChangelogPath, "file", "", "Changelog path (default: CHANGELOG.md under the repo root)")
	changelogCmd.AddCommand(changelogAddCmd)
	changelogCmd.AddCommand(changelogReleaseCmd)
}

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/statcan-go/statscan/pkg/hygiene"
)

var (
	flagTidyDryRun      bool
	flagTidyHidden      bool
	flagTidyIntentional bool
	flagTidyExclude     []string
	flagTidyRules       string
	flagTidyYes         bool
)

var tidyCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Find and remove empty files",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := hygiene.Scanner{
			Root:               config.RepoRoot,
			IncludeHidden:      flagTidyHidden,
			IncludeIntentional: flagTidyIntentional,
			ExcludeDirs:        flagTidyExclude,
			Logger:             slog.Default(),
		}
		files, err := scanner.Find()
		if err != nil {
			return err
		}

		printSummary(files)
		if len(files) == 0 {
			return nil
		}

		candidates := files
		if flagTidyRules != "" {
			rules, err := hygiene.LoadRules(flagTidyRules)
			if err != nil {
				return err
			}
			engine, err := hygiene.NewEngine()
			if err != nil {
				return err
			}
			if err := engine.Compile(rules); err != nil {
				return err
			}
			toDelete, kept, review, err := engine.Partition(files)
			if err != nil {
				return err
			}
			slog.Info("applied rules", "delete", len(toDelete), "keep", len(kept), "review", len(review))
			candidates = append(toDelete, review...)
			if flagTidyYes {
				// Unattended mode only acts on explicit delete verdicts.
				candidates = toDelete
			}
		}

		if flagTidyDryRun {
			for _, f := range candidates {
				fmt.Fprintln(cmd.OutOrStdout(), f.Path)
			}
			return nil
		}

		selected := candidates
		if !flagTidyYes {
			selected, err = promptForFiles(candidates)
			if err != nil {
				return err
			}
		}

		for _, f := range selected {
			path := filepath.Join(config.RepoRoot, filepath.FromSlash(f.Path))
			if err := os.Remove(path); err != nil {
				slog.Warn("delete failed", "path", f.Path, "error", err)
				continue
			}
			slog.Info("deleted", "path", f.Path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d of %d empty files\n", len(selected), len(files))
		return nil
	},
}

func printSummary(files []hygiene.FileInfo) {
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF99"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(headStyle.Render(fmt.Sprintf("%d empty files", len(files))))
	byCategory := hygiene.Categorize(files)
	for _, cat := range hygiene.Categories {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		fmt.Printf("  %-10s %d\n", cat, len(group))
		for _, f := range group {
			fmt.Println(dimStyle.Render("    " + f.Path))
		}
	}
}

func init() {
	tidyCmd.Flags().BoolVar(&flagTidyDryRun, "dry-run", false, "List candidates without deleting")
	tidyCmd.Flags().BoolVar(&flagTidyHidden, "include-hidden", false, "Include dotfiles")
	tidyCmd.Flags().BoolVar(&flagTidyIntentional, "include-intentional", false, "Include marker files like py.typed")
	tidyCmd.Flags().StringSliceVar(&flagTidyExclude, "exclude-dirs", nil, "Extra directory patterns to skip")
	tidyCmd.Flags().StringVar(&flagTidyRules, "rules", "", "CEL rules file deciding keep/delete")
	tidyCmd.Flags().BoolVar(&flagTidyYes, "yes", false, "Skip the interactive picker")
}

package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/statcan-go/statscan/pkg/buildinfo"
)

var (
	flagBuildTime string
	flagCommit    string
	flagDryRun    bool
	flagProperty  string
)

func versionFilePath() string {
	return filepath.Join(config.RepoRoot, config.VersionFile)
}

// recordOptions maps the --build-time and --commit flags onto record
// construction options.
func recordOptions() ([]buildinfo.Option, error) {
	var opts []buildinfo.Option
	if flagBuildTime != "" {
		t, err := time.Parse(time.RFC3339, flagBuildTime)
		if err != nil {
			return nil, fmt.Errorf("parsing --build-time: %w", err)
		}
		opts = append(opts, buildinfo.WithBuildTime(t.UTC().Truncate(time.Second)))
	}
	if flagCommit != "" {
		opts = append(opts, buildinfo.WithCommit(flagCommit))
	}
	return opts, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Manage the package version file",
}

var versionStringCmd = &cobra.Command{
	Use:   "string",
	Short: "Print a calendar version string",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := time.Now().UTC()
		if flagBuildTime != "" {
			parsed, err := time.Parse(time.RFC3339, flagBuildTime)
			if err != nil {
				return fmt.Errorf("parsing --build-time: %w", err)
			}
			t = parsed.UTC()
		}
		fmt.Fprintln(cmd.OutOrStdout(), buildinfo.VersionString(t))
		return nil
	},
}

var versionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Write a fresh version file unconditionally",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := recordOptions()
		if err != nil {
			return err
		}
		rec, err := buildinfo.New(buildConfig(), opts...)
		if err != nil {
			return err
		}
		if flagDryRun {
			cmd.OutOrStdout().Write(buildinfo.Encode(rec))
			return nil
		}
		path := versionFilePath()
		if err := buildinfo.WriteFile(rec, path); err != nil {
			return err
		}
		slog.Info("wrote version file", "path", path, "version", rec.Version())
		return nil
	},
}

var versionUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Sync the version file with the current commit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()
		opts, err := recordOptions()
		if err != nil {
			return err
		}

		if flagDryRun {
			current, err := buildinfo.New(cfg, opts...)
			if err != nil {
				return err
			}
			path := versionFilePath()
			stored, err := buildinfo.FromFile(cfg, path, opts...)
			if err == nil && stored.Commit == current.Commit {
				fmt.Fprintf(cmd.OutOrStdout(), "up to date (%s)\n", stored.Version())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "would update to %s\n", current.Version())
			}
			return nil
		}

		changed, rec, err := buildinfo.Sync(cfg, "", opts...)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "updated to %s\n", rec.Version())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "up to date (%s)\n", rec.Version())
		}
		return nil
	},
}

var versionReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Decode the version file and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()
		rec, err := buildinfo.FromFile(cfg, versionFilePath())
		if err != nil {
			return err
		}

		props := rec.Map()
		resolver := buildinfo.Resolver{RepoRoot: config.RepoRoot}
		if branch, err := resolver.Branch(); err != nil {
			slog.Warn("branch resolution failed", "error", err)
		} else {
			props["branch"] = branch
		}

		if flagProperty != "" {
			value, ok := props[flagProperty]
			if !ok {
				return fmt.Errorf("unknown property %q", flagProperty)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(props)
	},
}

func init() {
	versionStringCmd.Flags().StringVar(&flagBuildTime, "build-time", "", "RFC3339 timestamp to format (default: now)")

	versionNewCmd.Flags().StringVar(&flagBuildTime, "build-time", "", "Pin the build time (RFC3339)")
	versionNewCmd.Flags().StringVar(&flagCommit, "commit", "", "Pin the commit instead of resolving it")
	versionNewCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the encoded file instead of writing it")

	versionUpdateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Report what would change without writing")

	versionReadCmd.Flags().StringVar(&flagProperty, "property", "", "Print one property (version|commit|branch|build_time|package_name)")

	versionCmd.AddCommand(versionStringCmd)
	versionCmd.AddCommand(versionNewCmd)
	versionCmd.AddCommand(versionUpdateCmd)
	versionCmd.AddCommand(versionReadCmd)
}

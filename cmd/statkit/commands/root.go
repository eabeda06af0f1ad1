package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/statcan-go/statscan/pkg/buildinfo"
	"github.com/statcan-go/statscan/pkg/telemetry"
)

const (
	appName    = "statkit"
	appVersion = "0.3.0"
)

// ExitError carries a specific process exit code out of a command. The
// abbreviation checker and the CI emitter both have exit-code contracts
// that a plain error cannot express.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

type cliConfig struct {
	RepoRoot     string
	PackageName  string
	VersionFile  string
	Verbose      bool
	JsonLogs     bool
	OtelEndpoint string
}

var (
	cfgFile string
	config  cliConfig

	telemetryShutdown func(context.Context) error
)

// buildConfig maps the CLI flags onto the record subsystem's config.
func buildConfig() buildinfo.Config {
	return buildinfo.Config{
		RepoRoot:        config.RepoRoot,
		PackageName:     config.PackageName,
		VersionFileName: config.VersionFile,
		Logger:          slog.Default(),
	}
}

var rootCmd = &cobra.Command{
	Use:   "statkit",
	Short: "Packaging and CI toolkit for statscan",
	Long: `statkit - build provenance, changelogs, and repository hygiene

Version. Record. Release.`,
	Version:       appVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.statkit.yaml)")
	rootCmd.PersistentFlags().StringVar(&config.RepoRoot, "repo", ".", "Repository root")
	rootCmd.PersistentFlags().StringVar(&config.PackageName, "package", "", "Package name (default: repo base name)")
	rootCmd.PersistentFlags().StringVar(&config.VersionFile, "version-file", buildinfo.DefaultVersionFileName, "Version file name, relative to the repo root")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&config.JsonLogs, "json-logs", false, "Emit logs as JSON")

	rootCmd.PersistentFlags().StringVar(&config.OtelEndpoint, "otel-endpoint", "", "OTLP endpoint for tracing")
	rootCmd.PersistentFlags().MarkHidden("otel-endpoint")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		initLogging()

		shutdown, err := telemetry.Init(cmd.Context(), appName, appVersion, config.OtelEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			telemetryShutdown = shutdown
		}
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if telemetryShutdown != nil {
			if err := telemetryShutdown(cmd.Context()); err != nil {
				slog.Debug("telemetry shutdown failed", "error", err)
			}
		}
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(changelogCmd)
	rootCmd.AddCommand(tidyCmd)
	rootCmd.AddCommand(abbrevCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".statkit.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.AutomaticEnv()
	viper.ReadInConfig()

	if v := viper.GetString("repo"); v != "" && config.RepoRoot == "." {
		config.RepoRoot = v
	}
	if v := viper.GetString("package"); v != "" && config.PackageName == "" {
		config.PackageName = v
	}
}

func initLogging() {
	level := slog.LevelInfo
	if config.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if config.JsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("STATKIT %s", appVersion)))
	fmt.Println(cmd.Root().Short)

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	if len(cmd.Commands()) > 0 {
		fmt.Println(titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Println("")
	}

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}

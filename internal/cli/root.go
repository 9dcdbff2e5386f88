package cli

import (
	"context"
	"fmt"
	"os"

	"aeocheck/internal/config"
	"aeocheck/internal/flags"
	"aeocheck/internal/logging"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var (
	cfg        = config.New()
	configPath string
)

// exit is swapped in tests.
var exit = os.Exit

var rootCmd = &cobra.Command{
	Use:   "aeocheck",
	Short: "Audit a website for AEO readiness and price the fixes",
	Long: `aeocheck submits a URL to an AEO audit backend, shows the checklist and
turns every failing check into a priced remediation quote.

Examples:
	# Show available commands and global flags
	aeocheck --help

	# Audit a site and print the quote
	aeocheck audit https://www.example.com

	# Re-price a saved report
	aeocheck quote report.json

	# List the service catalog
	aeocheck catalog list

	# Serve the JSON API for a web front end
	aeocheck serve --addr :8080

Configuration:
	Values come from (lowest to highest precedence): built-in defaults, the
	--config file, AEOCHECK_* environment variables (a .env file in the working
	directory is loaded first), and explicitly set flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		if err := config.Load(cfg, configPath, cmd.Flags().Changed); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		logger := logging.New(os.Stderr, cfg.Runtime.Verbose)
		cmd.SetContext(logger.WithContext(ctx))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, flags.FlagConfig, "", "Config file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every backend call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit(3)
	}
}

// validateOrExit stops the process with the fatal exit code on invalid
// configuration.
func validateOrExit() {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(3)
	}
}

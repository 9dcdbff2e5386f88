package cli

import (
	"fmt"
	"io"

	"aeocheck/internal/catalog"
	"aeocheck/internal/flags"
	"aeocheck/internal/quote"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var catalogListQuiet bool
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the remediation service catalog",
	Long: `Inspect the service catalog used to price failing checks.

Each entry maps a check title reported by the audit backend to a paid
service. --catalog merges an override file over the built-in entries.

Examples:
  # List all services
  aeocheck catalog list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog services",
	Long: `List every service in the catalog, sorted by check title.

Examples:
  aeocheck catalog list
  aeocheck catalog list --catalog prices.yaml

Output:
  A vertical list of services:
    ----------------------------------------
    CHECK: {TITLE}
    ----------------------------------------
    {SERVICE} ({PRICE})
    {DESCRIPTION}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		for _, e := range cat.Entries() {
			if catalogListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), e.Title)
			} else {
				printEntry(cmd.OutOrStdout(), e)
			}
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [check-title]",
	Short: "Show the service for a check title",
	Long: `Show the service priced for a check title.

Examples:
  aeocheck catalog show "Meta Description"
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		entries, err := cat.Resolve(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("check not found: %s", args[0])
		}
		printEntry(cmd.OutOrStdout(), entries[0])
		return nil
	},
}

func printEntry(w io.Writer, e catalog.Entry) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s\n", e.Title)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "%s (%s)\n", e.Name, quote.FormatKRW(e.Price))
	if e.Description != "" {
		fmt.Fprintln(w, e.Description)
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.PersistentFlags().StringVar(&cfg.Catalog.Path, flags.FlagCatalog, "", "Catalog override file (YAML, TOML or JSON)")
	catalogCmd.AddCommand(catalogListCmd)
	catalogListCmd.Flags().BoolVarP(&catalogListQuiet, "quiet", "q", false, "Only print check titles")
	catalogCmd.AddCommand(catalogShowCmd)
}

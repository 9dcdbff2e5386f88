package cli

import (
	"aeocheck/internal/flags"

	"github.com/spf13/cobra"
)

// Flag groups shared by several commands. All of them bind into cfg; values
// set here are the defaults that config.Load may override.

func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Audit.BaseURL, flags.FlagBaseURL, cfg.Audit.BaseURL, "Audit backend origin; submissions go to {base-url}/api/audit")
	cmd.Flags().StringVar(&cfg.Audit.Token, flags.FlagToken, "", "Bearer token for the audit backend (default: $AEOCHECK_AUDIT_TOKEN)")
	cmd.Flags().DurationVar(&cfg.Audit.Timeout, flags.FlagAuditTimeout, cfg.Audit.Timeout, "Timeout for a single submission (0 = none)")
}

func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Catalog.Path, flags.FlagCatalog, "", "Catalog override file (YAML, TOML or JSON)")
	cmd.Flags().StringVar(&cfg.Catalog.Recipient, flags.FlagRecipient, cfg.Catalog.Recipient, "Recipient of the contact mail")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	cmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	cmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	cmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	cmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	cmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")
	cmd.Flags().BoolVar(&cfg.Output.NoColor, flags.FlagNoColor, false, "Disable colors in text console output")
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&cfg.Export.PDF, flags.FlagPDF, false, "Export the report as a PDF (requires Chrome or Chromium)")
	cmd.Flags().StringVar(&cfg.Export.Dir, flags.FlagPDFDir, cfg.Export.Dir, "Directory the PDF is written to")
	cmd.Flags().StringVar(&cfg.Export.ChromePath, flags.FlagChromePath, "", "Chrome/Chromium executable (default: discovered on PATH)")

	cmd.Flags().StringVar(&cfg.Archive.Bucket, flags.FlagArchiveBucket, "", "Upload exported PDFs to this S3 bucket")
	cmd.Flags().StringVar(&cfg.Archive.Prefix, flags.FlagArchivePrefix, cfg.Archive.Prefix, "Object key prefix for archived PDFs")
	cmd.Flags().StringVar(&cfg.Archive.Region, flags.FlagArchiveRegion, "", "S3 region (default: from the AWS environment)")
	cmd.Flags().StringVar(&cfg.Archive.Endpoint, flags.FlagArchiveEndpoint, "", "Custom S3-compatible endpoint (path-style addressing)")
}

func addTimeoutFlag(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout for one run (0 = none)")
}

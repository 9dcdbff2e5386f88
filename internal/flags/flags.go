package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// config loading. Config-file and environment keys are derived from the same
// names (see config.Load), so keeping them here avoids drift.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Audit.BaseURL, flags.FlagBaseURL, "", "...")
//	arg := "--" + flags.FlagBaseURL
const (
	// Global
	FlagConfig  = "config"
	FlagVerbose = "verbose"

	// Audit backend
	FlagBaseURL      = "base-url"
	FlagToken        = "token"
	FlagAuditTimeout = "audit-timeout"

	// Pricing / contact
	FlagCatalog   = "catalog"
	FlagRecipient = "recipient"

	// Output
	FlagConsoleFormat = "console-format"
	FlagReport        = "report"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagEmit          = "emit"
	FlagNoConsole     = "no-console"
	FlagNoColor       = "no-color"

	// Export
	FlagPDF        = "pdf"
	FlagPDFDir     = "pdf-dir"
	FlagChromePath = "chrome-path"

	// Archive
	FlagArchiveBucket   = "archive-bucket"
	FlagArchivePrefix   = "archive-prefix"
	FlagArchiveRegion   = "archive-region"
	FlagArchiveEndpoint = "archive-endpoint"

	// Server
	FlagAddr            = "addr"
	FlagShutdownTimeout = "shutdown-timeout"

	// Runtime
	FlagTimeout = "timeout"
)

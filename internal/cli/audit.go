package cli

import (
	"fmt"
	"os"

	"aeocheck/internal/engine"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit <url>",
	Short: "Audit a website and print a remediation quote",
	Long: `Submit a URL to the audit backend, print the checklist and price every
failing check from the service catalog.

aeocheck never changes the audited site. Prices come from the built-in
catalog unless --catalog points to an override file.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON summary or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown report
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (audit.started, audit.received, check.result, quote.built,
	export.finished, archive.finished, audit.finished).

PDF export:
	--pdf renders the report through headless Chrome or Chromium. Without a
	browser the export is reported as unavailable and the run is partial.
	--archive-bucket uploads the exported PDF to S3-compatible storage.

Exit codes:
	0 = clean, nothing priced needs fixing
	1 = priced remediation found
	2 = partial failure (analysis, export or archive failed)
	3 = fatal error (no report was obtained, or invalid configuration)

Examples:
	aeocheck audit https://www.example.com

	# Against a remote backend, with a PDF
	aeocheck audit https://www.example.com --base-url https://audit.example.net --pdf

	# AI Agent: stream machine-readable events to stdout
	aeocheck audit https://www.example.com --no-console --emit ndjson
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}

		validateOrExit()

		ctx := cmd.Context()
		eng, err := engine.Wire(ctx, cfg, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit(3)
			return
		}
		exit(eng.Run(ctx, cfg, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	// MAINTAINER NOTE: flags bind into cfg; keep config bindings in
	// internal/config/load.go in sync.
	addBackendFlags(auditCmd)
	addCatalogFlags(auditCmd)
	addOutputFlags(auditCmd)
	addExportFlags(auditCmd)
	addTimeoutFlag(auditCmd)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"aeocheck/internal/audit"
	"aeocheck/internal/engine"

	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [report.json|-]",
	Short: "Price a saved audit report",
	Long: `Re-price a saved audit report without contacting the backend.

The report is the backend response JSON ({url, score, results}) or the
summary written by "aeocheck audit --out run.json". Reads stdin when the
argument is "-" or missing.

Output and exit codes are the same as for "aeocheck audit".

Examples:
	aeocheck quote report.json
	curl -s -XPOST localhost:8001/api/audit -d '{"url":"https://example.com"}' | aeocheck quote -
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		validateOrExit()

		src := "-"
		if len(args) == 1 {
			src = args[0]
		}
		report, err := readReport(src, cmd.InOrStdin())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit(3)
			return
		}

		ctx := cmd.Context()
		eng, err := engine.Wire(ctx, cfg, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit(3)
			return
		}
		exit(eng.RunReport(ctx, cfg, report))
	},
}

// readReport decodes a report from path, or from stdin when path is "-".
func readReport(path string, stdin io.Reader) (*audit.Report, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open report: %w", err)
		}
		defer f.Close()
		r = f
	}

	var report audit.Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("report is empty")
		}
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	addCatalogFlags(quoteCmd)
	addOutputFlags(quoteCmd)
	addExportFlags(quoteCmd)
	addTimeoutFlag(quoteCmd)
}

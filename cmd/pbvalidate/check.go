package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/flpb/pbvalidate/internal/pbreport"
	"github.com/flpb/pbvalidate/internal/pbvalidate"
)

func newCheckCmd(logger *log.Logger) *cobra.Command {
	var (
		format    string
		outPath   string
		maxIssues int
	)

	cmd := &cobra.Command{
		Use:   "check <file.pb> [file2.pb ...]",
		Short: "Validate one or more .pb files and print a report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "summary" {
				return &exitErr{code: 2, msg: fmt.Sprintf("invalid --format %q: must be json or summary", format)}
			}

			report := pbvalidate.RunFiles(args)

			rendered, err := render(report, format, maxIssues)
			if err != nil {
				return &exitErr{code: 2, msg: err.Error()}
			}

			if err := write(outPath, rendered); err != nil {
				return &exitErr{code: 2, msg: err.Error()}
			}

			logger.Printf("%s", pbvalidate.Describe(report))

			if report.Metadata.Invalid > 0 {
				return &exitErr{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or summary")
	cmd.Flags().StringVar(&outPath, "out", "", "write the report here instead of stdout")
	cmd.Flags().IntVar(&maxIssues, "max-issues", 0, "cap diagnostics per file in summary output (0 = unlimited)")

	return cmd
}

func render(report *pbreport.Report, format string, maxIssues int) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal report: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return renderSummary(report, maxIssues), nil
	}
}

func write(path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(os.Stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/flpb/pbvalidate/internal/pbreport"
)

// renderSummary produces a short Markdown-ish human report: one section
// per file, capped at maxIssues diagnostics each (0 means unlimited),
// followed by the cross-file summary counts.
func renderSummary(report *pbreport.Report, maxIssues int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report\n\n")
	fmt.Fprintf(&b, "Processed: %d, Valid: %d, Invalid: %d\n\n",
		report.Metadata.Processed, report.Metadata.Valid, report.Metadata.Invalid)

	for _, id := range report.FileIDs() {
		entry, ok := report.File(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", id)

		if entry.Results.Clean {
			b.WriteString("File looks correct!\n\n")
			continue
		}

		printed := renderDiagnosticSet(&b, "Errors", entry.Results.Errors, maxIssues, 0)
		renderDiagnosticSet(&b, "Warnings", entry.Results.Warnings, maxIssues, printed)
	}

	if len(report.Summary) > 0 {
		b.WriteString("## Summary\n\n")
		types := make([]string, 0, len(report.Summary))
		for t := range report.Summary {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, typ := range types {
			fmt.Fprintf(&b, "- %s: %d\n", typ, report.Summary[typ])
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderDiagnosticSet writes one namespace of diagnostics, counting
// toward maxIssues from printed (diagnostics already written for this
// file), and returns the updated count.
func renderDiagnosticSet(b *strings.Builder, title string, byType map[string]map[string]string, maxIssues, printed int) int {
	if len(byType) == 0 {
		return printed
	}

	fmt.Fprintf(b, "### %s\n\n", title)

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, typ := range types {
		entries := byType[typ]
		indices := make([]int, 0, len(entries))
		for k := range entries {
			n, _ := strconv.Atoi(k)
			indices = append(indices, n)
		}
		sort.Ints(indices)

		for _, idx := range indices {
			if maxIssues > 0 && printed >= maxIssues {
				fmt.Fprintf(b, "- ... additional diagnostics omitted\n")
				b.WriteString("\n")
				return printed
			}
			key := strconv.Itoa(idx)
			fmt.Fprintf(b, "- **%s** (%s): %s\n", typ, key, entries[key])
			printed++
		}
	}
	b.WriteString("\n")
	return printed
}

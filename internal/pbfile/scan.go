package pbfile

import (
	"strconv"
	"strings"

	"github.com/flpb/pbvalidate/internal/pbreport"
)

// Scan splits raw file content into logical lines: CRLF/LF are both
// accepted, trailing all-blank lines are dropped silently, and any
// remaining blank line is dropped and its original (post-trim) line
// number recorded so the caller can warn about it.
func Scan(raw string) (lines []string, diag pbreport.Diagnostic, hadEmpty bool) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	all := strings.Split(normalized, "\n")

	end := len(all)
	for end > 0 && strings.TrimSpace(all[end-1]) == "" {
		end--
	}
	all = all[:end]

	var removed []int
	kept := make([]string, 0, len(all))
	for i, line := range all {
		if strings.TrimSpace(line) == "" {
			removed = append(removed, i+1)
			continue
		}
		kept = append(kept, line)
	}

	if len(removed) == 0 {
		return kept, pbreport.Diagnostic{}, false
	}

	return kept, pbreport.Warnf("empty lines removed",
		"Removed %d empty lines from the file (lines %s).",
		len(removed), joinInts(removed)), true
}

func joinInts(xs []int) string {
	var b strings.Builder
	for i, x := range xs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(x))
	}
	return b.String()
}

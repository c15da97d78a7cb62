// Package pbvalidate orchestrates the full pipeline — scan, parse,
// schema validation, consistency checks, and rule replay — over a batch
// of participatory-budgeting files and folds the results into a single
// cross-file report.
package pbvalidate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flpb/pbvalidate/internal/pbconsistency"
	"github.com/flpb/pbvalidate/internal/pbfile"
	"github.com/flpb/pbvalidate/internal/pbreport"
	"github.com/flpb/pbvalidate/internal/pbrules"
	"github.com/flpb/pbvalidate/internal/pbschema"
)

// Input is one file to validate: either a path to read from disk, or
// raw content supplied directly (e.g. piped in, or under test).
type Input struct {
	Path    string
	Content string
}

// Run validates every input and returns the accumulated cross-file
// report. A failure processing one input (a read error, or an internal
// panic) is recorded against that file alone; the batch continues.
func Run(inputs []Input) *pbreport.Report {
	report := pbreport.NewReport()
	for i, in := range inputs {
		id, builder := processOne(i+1, in)
		report.AddFile(id, builder)
	}
	return report
}

func identifierFor(index int, in Input) string {
	if in.Path == "" {
		return strconv.Itoa(index)
	}
	base := filepath.Base(in.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func processOne(index int, in Input) (id string, builder *pbreport.Builder) {
	id = identifierFor(index, in)
	builder = pbreport.NewBuilder()

	defer func() {
		if r := recover(); r != nil {
			builder.Add(pbreport.Errorf("internal error", "processing failed: %v", r))
		}
	}()

	content := in.Content
	if in.Path != "" {
		data, err := os.ReadFile(in.Path)
		if err != nil {
			builder.Add(pbreport.Errorf("internal error", "could not read file: %v", err))
			return id, builder
		}
		content = string(data)
	}

	validate(content, builder)
	return id, builder
}

// validate runs the full pipeline over one file's raw content and folds
// every diagnostic it raises into builder.
func validate(content string, builder *pbreport.Builder) {
	lines, emptyLinesDiag, hadEmptyLines := pbfile.Scan(content)
	if hadEmptyLines {
		builder.Add(emptyLinesDiag)
	}

	f, parseDiags := pbfile.Parse(lines)
	builder.AddAll(parseDiags)

	pbschema.ApplyMetaDefaults(f)
	builder.AddAll(pbschema.ValidateMeta(f))
	builder.AddAll(pbschema.ValidateTable(pbschema.Projects, f.Projects, "projects", "project_id"))
	builder.AddAll(pbschema.ValidateTable(pbschema.Votes, f.Votes, "votes", "voter_id"))

	builder.AddAll(pbconsistency.Run(f))
	builder.AddAll(pbrules.Verify(f))
}

// RunFiles is a convenience wrapper for the common CLI case of
// validating a list of file paths.
func RunFiles(paths []string) *pbreport.Report {
	inputs := make([]Input, len(paths))
	for i, p := range paths {
		inputs[i] = Input{Path: p}
	}
	return Run(inputs)
}

// Describe renders a one-line human summary of the report, e.g. for log
// output alongside the structured result.
func Describe(r *pbreport.Report) string {
	return fmt.Sprintf("processed %d file(s): %d valid, %d invalid",
		r.Metadata.Processed, r.Metadata.Valid, r.Metadata.Invalid)
}

package pbfile

import (
	"strings"

	"github.com/flpb/pbvalidate/internal/pbreport"
)

const (
	sectionMeta     = "META"
	sectionProjects = "PROJECTS"
	sectionVotes    = "VOTES"
)

// Parse recognizes the three ordered META/PROJECTS/VOTES sections in
// lines (already passed through Scan) and builds a File model. Parsing
// is resilient: structural problems are returned as diagnostics rather
// than aborting. Parse does not default missing META fields and leaves
// MissingMarks empty; pbschema.ApplyMetaDefaults does that afterwards.
func Parse(lines []string) (*File, []pbreport.Diagnostic) {
	var diags []pbreport.Diagnostic

	metaLines, projectLines, voteLines, sectionDiags := splitSections(lines)
	diags = append(diags, sectionDiags...)

	f := &File{
		MissingMarks: make(map[string]bool),
	}

	f.Meta = parseMeta(metaLines)

	var projDiags, voteDiags []pbreport.Diagnostic
	f.Projects, projDiags = parseTable(projectLines, "project_id", "duplicate project_id")
	diags = append(diags, projDiags...)

	f.Votes, voteDiags = parseTable(voteLines, "voter_id", "duplicate voter_id")
	diags = append(diags, voteDiags...)

	for _, col := range f.Projects.Columns() {
		if col == "votes" {
			f.VotesInProjects = true
		}
		if col == "score" {
			f.ScoresInProjects = true
		}
	}

	return f, diags
}

// splitSections walks lines looking for the three section headers, in
// order, and returns the body lines belonging to each.
func splitSections(lines []string) (meta, projects, votes []string, diags []pbreport.Diagnostic) {
	type target int
	const (
		none target = iota
		inMeta
		inProjects
		inVotes
	)

	cur := none
	seen := map[string]bool{}
	order := []string{sectionMeta, sectionProjects, sectionVotes}
	nextExpected := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case sectionMeta, sectionProjects, sectionVotes:
			if seen[trimmed] {
				diags = append(diags, pbreport.Errorf("unknown section",
					"section %q appears more than once", trimmed))
				continue
			}
			seen[trimmed] = true
			if nextExpected >= len(order) || order[nextExpected] != trimmed {
				diags = append(diags, pbreport.Errorf("unknown section",
					"section %q found out of expected order %v", trimmed, order))
			} else {
				nextExpected++
			}
			switch trimmed {
			case sectionMeta:
				cur = inMeta
			case sectionProjects:
				cur = inProjects
			case sectionVotes:
				cur = inVotes
			}
			continue
		}

		switch cur {
		case inMeta:
			meta = append(meta, line)
		case inProjects:
			projects = append(projects, line)
		case inVotes:
			votes = append(votes, line)
		default:
			diags = append(diags, pbreport.Errorf("unknown section",
				"content %q found before any recognized section header", trimmed))
		}
	}

	for _, want := range order {
		if !seen[want] {
			diags = append(diags, pbreport.Errorf("missing section",
				"required section %q is absent", want))
		}
	}

	return meta, projects, votes, diags
}

// parseMeta splits each META body line on ';' into a key/value pair. The
// literal header line "key;value" is accepted and skipped wherever it
// appears.
func parseMeta(lines []string) Section {
	sec := Section{Values: make(map[string]string)}
	for _, line := range lines {
		key, value, ok := splitOnce(line, ";")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "key" && value == "value" {
			continue
		}
		if _, exists := sec.Values[key]; exists {
			continue
		}
		sec.Order = append(sec.Order, key)
		sec.Values[key] = value
	}
	return sec
}

// parseTable parses a header line (first token must be idColumn) followed
// by one record per remaining line.
func parseTable(lines []string, idColumn, dupType string) (Table, []pbreport.Diagnostic) {
	t := Table{Rows: make(map[string]map[string]string)}
	var diags []pbreport.Diagnostic

	if len(lines) == 0 {
		return t, diags
	}

	header := strings.Split(lines[0], ";")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	t.Header = header

	if len(header) == 0 || header[0] != idColumn {
		diags = append(diags, pbreport.Errorf("unknown section",
			"expected %q as the first column, found %q", idColumn, firstOrEmpty(header)))
	}

	for _, line := range lines[1:] {
		cols := strings.Split(line, ";")
		if len(cols) == 0 {
			continue
		}
		id := strings.TrimSpace(cols[0])
		if id == "" {
			continue
		}
		if _, exists := t.Rows[id]; exists {
			diags = append(diags, pbreport.Errorf(dupType,
				"id %q appears more than once in the %s section", id, header[0]))
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i == 0 || i >= len(cols) {
				continue
			}
			row[name] = strings.TrimSpace(cols[i])
		}
		t.Order = append(t.Order, id)
		t.Rows[id] = row
	}

	return t, diags
}

func firstOrEmpty(xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	return xs[0]
}

func splitOnce(s, sep string) (before, after string, ok bool) {
	idx := strings.Index(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

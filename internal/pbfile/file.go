// Package pbfile scans the raw text of participatory-budgeting (PB) files
// and parses their META/PROJECTS/VOTES sections into a typed, read-only
// model.
package pbfile

// File is the parsed shape of one PB file.
type File struct {
	Meta             Section
	Projects         Table
	Votes            Table
	VotesInProjects  bool
	ScoresInProjects bool

	// MissingMarks names META fields that were absent entirely (as
	// opposed to present-but-empty); callers still get a defaulted
	// value for these fields so downstream checks can run.
	MissingMarks map[string]bool

	// EmptyLines is a slot for the 1-based line numbers of dropped
	// interior blank lines. Neither Scan nor Parse fills it; Scan reports
	// those line numbers in its "empty lines removed" warning instead.
	EmptyLines []int
}

// Section is an ordered string-keyed mapping, used for META.
type Section struct {
	Order  []string
	Values map[string]string
}

// Get returns the value for key and whether it was present.
func (s Section) Get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Table is an ordered collection of records sharing one header, used for
// PROJECTS and VOTES. Header[0] is the id column (project_id/voter_id).
type Table struct {
	Header []string
	Order  []string
	Rows   map[string]map[string]string
}

// Get returns the value of field for the record with the given id.
func (t Table) Get(id, field string) (string, bool) {
	row, ok := t.Rows[id]
	if !ok {
		return "", false
	}
	v, ok := row[field]
	return v, ok
}

// Columns returns the non-id column names declared in the header, in
// file order.
func (t Table) Columns() []string {
	if len(t.Header) == 0 {
		return nil
	}
	return t.Header[1:]
}

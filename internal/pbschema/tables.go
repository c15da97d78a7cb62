package pbschema

import (
	"fmt"

	"github.com/flpb/pbvalidate/internal/pbfile"
	"github.com/flpb/pbvalidate/internal/pbreport"
)

// ValidateTable runs structural and per-row validation for a PROJECTS or
// VOTES table against its registry. sectionName is the lowercase
// section key ("projects", "votes") that feeds the diagnostic type
// strings.
func ValidateTable(r Registry, t pbfile.Table, sectionName, idField string) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	present := make(map[string]bool)
	present[idField] = true
	for _, col := range t.Columns() {
		present[col] = true
	}
	missing := make(map[string]bool)
	for _, f := range r {
		if f.Obligatory && !present[f.Name] {
			missing[f.Name] = true
		}
	}
	diags = append(diags, ValidateStructure(r, t.Header, missing, sectionName)...)

	for _, id := range t.Order {
		row := make(map[string]string, len(t.Rows[id])+1)
		for k, v := range t.Rows[id] {
			row[k] = v
		}
		row[idField] = id
		context := fmt.Sprintf("%s %s=%s", sectionName, idField, id)
		diags = append(diags, ValidateRow(r, row, sectionName, context)...)
	}

	return diags
}

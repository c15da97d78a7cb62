// Package pbrules replays a file's declared selection rule against its
// PROJECTS data and compares the replayed outcome to what the file
// itself marked selected.
package pbrules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/flpb/pbvalidate/internal/pbcount"
	"github.com/flpb/pbvalidate/internal/pbfile"
	"github.com/flpb/pbvalidate/internal/pbreport"
	"github.com/flpb/pbvalidate/internal/pbrules/registry"
)

// Verify replays the rule declared in f.Meta against f.Projects and
// returns diagnostics for any divergence. If PROJECTS carries no
// "selected" column at all, verification is skipped entirely: there is
// nothing to compare a replay against.
func Verify(f *pbfile.File) []pbreport.Diagnostic {
	if !hasSelectedColumn(f.Projects) {
		return nil
	}

	rule, _ := f.Meta.Get("rule")
	desc, ok := registry.Load(rule)
	if !ok {
		return []pbreport.Diagnostic{pbreport.Errorf("unknown rule value",
			"rule %q is not recognized; valid rules are: %s", rule, registry.NamesJoined())}
	}

	if rule == "greedy-custom" {
		if unit, _ := f.Meta.Get("unit"); unit == "Poznań" {
			return verifyPoznan(f)
		}
	}

	switch desc.Strategy {
	case "skip":
		return []pbreport.Diagnostic{pbreport.Warnf(desc.MismatchType,
			"rule %q cannot be verified; no replay implemented for unknown rules", rule)}
	case "unimplemented":
		return []pbreport.Diagnostic{pbreport.Warnf(desc.MismatchType,
			"rule %q checker is not yet implemented", rule)}
	case "greedy_no_skip":
		return verifyGreedy(f, desc, true)
	default:
		return verifyGreedy(f, desc, false)
	}
}

func hasSelectedColumn(projects pbfile.Table) bool {
	for _, col := range projects.Columns() {
		if col == "selected" {
			return true
		}
	}
	return false
}

// resultField reports which PROJECTS column ranks projects: score when
// present, otherwise votes.
func resultField(f *pbfile.File) string {
	if f.ScoresInProjects {
		return "score"
	}
	return "votes"
}

// verifyGreedy replays a budget-constrained greedy selection over
// projects sorted by result descending, optionally filtered by
// min_project_score_threshold, then compares the replayed selection to
// what the file marked. noSkip stops the replay at the first project
// that does not fit instead of continuing past it.
func verifyGreedy(f *pbfile.File, desc registry.Descriptor, noSkip bool) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	if desc.RequiresComment {
		if c, ok := f.Meta.Get("comment"); !ok || c == "" {
			diags = append(diags, pbreport.Warnf("missing comment for greedy-custom",
				"rule %q expects a comment explaining the custom selection logic", desc.Name))
		}
	}

	threshold, hasThreshold := metaInt(f, "min_project_score_threshold")
	if desc.RequiresThreshold && !hasThreshold {
		return append(diags, pbreport.Errorf("missing threshold field",
			"rule %q requires min_project_score_threshold, which is missing", desc.Name))
	}

	field := resultField(f)
	budget, ok := metaFloat(f, "budget")
	if !ok {
		return diags
	}

	ordered := pbcount.SortProjectsByResults(f.Projects, field)

	applyThreshold := desc.RequiresThreshold && hasThreshold
	if applyThreshold {
		diags = append(diags, checkThresholdViolations(f, ordered, field, threshold)...)
	}

	var candidates []string
	for _, id := range ordered {
		if applyThreshold {
			result, _ := strconv.Atoi(f.Projects.Rows[id][field])
			if result < threshold {
				continue
			}
		}
		candidates = append(candidates, id)
	}

	winners := simulateGreedy(f.Projects, candidates, budget, noSkip)
	declared := selectedSet(f.Projects)

	missing, extra := diffSets(winners, declared)
	if len(missing) == 0 && len(extra) == 0 {
		return diags
	}

	message := mismatchMessage(desc.Name, missing, extra)
	if desc.MismatchLevel == "warning" {
		diags = append(diags, pbreport.Warnf(desc.MismatchType, "%s", message))
	} else {
		diags = append(diags, pbreport.Errorf(desc.MismatchType, "%s", message))
	}
	return diags
}

func mismatchMessage(ruleName string, missing, extra []string) string {
	switch ruleName {
	case "greedy-no-skip":
		return fmt.Sprintf("projects not selected but should be: %s, and selected but shouldn't: %s",
			joinOrNone(missing), joinOrNone(extra))
	case "greedy-custom":
		return fmt.Sprintf("custom selection cannot be verified against the greedy hierarchy: projects not selected but should be: %s, and selected but shouldn't: %s",
			joinOrNone(missing), joinOrNone(extra))
	default:
		return fmt.Sprintf("selection potentially violates the greedy hierarchy: projects not selected but should be: %s, and selected but shouldn't: %s",
			joinOrNone(missing), joinOrNone(extra))
	}
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}

// simulateGreedy walks candidates in order, funding each that still fits
// the remaining budget. noSkip stops the walk at the first project that
// doesn't fit; otherwise the walk continues past it looking for a
// cheaper later candidate.
func simulateGreedy(projects pbfile.Table, candidates []string, budget float64, noSkip bool) []string {
	var winners []string
	remaining := budget
	for _, id := range candidates {
		cost, _ := strconv.ParseFloat(strings.TrimSpace(projects.Rows[id]["cost"]), 64)
		if cost <= remaining {
			winners = append(winners, id)
			remaining -= cost
			continue
		}
		if noSkip {
			break
		}
	}
	return winners
}

func checkThresholdViolations(f *pbfile.File, ordered []string, field string, threshold int) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic
	for _, id := range ordered {
		if !isSelected(f.Projects, id) {
			continue
		}
		result, _ := strconv.Atoi(f.Projects.Rows[id][field])
		if result < threshold {
			diags = append(diags, pbreport.Errorf("threshold violation",
				"project %q is selected with %s %d, below the threshold of %d", id, field, result, threshold))
		}
	}
	return diags
}

func isSelected(projects pbfile.Table, id string) bool {
	n, _ := strconv.Atoi(projects.Rows[id]["selected"])
	return n == 1
}

func selectedSet(projects pbfile.Table) []string {
	var out []string
	for _, id := range projects.Order {
		if isSelected(projects, id) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// diffSets returns ids in a but not b (missing), and ids in b but not a
// (extra), each sorted.
func diffSets(a, b []string) (missing, extra []string) {
	inA := make(map[string]bool, len(a))
	for _, id := range a {
		inA[id] = true
	}
	inB := make(map[string]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	for id := range inA {
		if !inB[id] {
			missing = append(missing, id)
		}
	}
	for id := range inB {
		if !inA[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func metaInt(f *pbfile.File, key string) (int, bool) {
	v, ok := f.Meta.Get(key)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func metaFloat(f *pbfile.File, key string) (float64, bool) {
	v, ok := f.Meta.Get(key)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// verifyPoznan replays the Poznań 80% rule: a project is funded while it
// fully fits the remaining budget, and one more project may be funded
// past that point if what remains covers at least 80% of its cost.
func verifyPoznan(f *pbfile.File) []pbreport.Diagnostic {
	budget, ok := metaFloat(f, "budget")
	if !ok {
		return nil
	}
	field := resultField(f)
	ordered := pbcount.SortProjectsByResults(f.Projects, field)

	var winners []string
	remaining := budget
	fundingOver := false
	for _, id := range ordered {
		if fundingOver {
			break
		}
		cost, _ := strconv.ParseFloat(strings.TrimSpace(f.Projects.Rows[id]["cost"]), 64)
		switch {
		case cost <= remaining:
			winners = append(winners, id)
			remaining -= cost
		case cost*0.8 <= remaining:
			winners = append(winners, id)
			fundingOver = true
		default:
			fundingOver = true
		}
	}

	var declared []string
	for _, id := range f.Projects.Order {
		n, _ := strconv.Atoi(f.Projects.Rows[id]["selected"])
		if n == 1 || n == 2 {
			declared = append(declared, id)
		}
	}
	sort.Strings(declared)

	missing, extra := diffSets(winners, declared)
	var diags []pbreport.Diagnostic
	if len(missing) > 0 {
		diags = append(diags, pbreport.Errorf("poznan rule not followed",
			"projects not selected but should be: %s", strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		diags = append(diags, pbreport.Errorf("poznan rule not followed",
			"projects selected but should not: %s", strings.Join(extra, ", ")))
	}
	return diags
}

// Package pbconsistency cross-checks a parsed PB file's declared META
// counters and PROJECTS fields against what VOTES actually contains.
package pbconsistency

import (
	"math"
	"strconv"
	"strings"

	"github.com/flpb/pbvalidate/internal/pbcount"
	"github.com/flpb/pbvalidate/internal/pbfile"
	"github.com/flpb/pbvalidate/internal/pbreport"
)

// Run executes the full consistency battery against f, in a fixed order,
// and returns every diagnostic raised. It mutates f.Meta/f.Projects
// in-place when it repairs comma-decimal values, so later checks (and
// the caller's own formatting) see the repaired values.
func Run(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	diags = append(diags, repairCommaFloats(f)...)
	diags = append(diags, checkBudgets(f)...)
	diags = append(diags, checkVoteCount(f)...)
	diags = append(diags, checkProjectCount(f)...)
	diags = append(diags, checkDuplicateVotes(f)...)
	diags = append(diags, checkVoteLength(f)...)
	diags = append(diags, checkVotesAndScores(f)...)

	return diags
}

// repairCommaFloats replaces a European decimal comma with a dot in
// budget and max_sum_cost, and truncates every project's cost at its
// first comma (keeping the integer part), flagging each occurrence and
// rewriting the stored value so later numeric checks see a parseable
// number.
func repairCommaFloats(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	if v, ok := f.Meta.Get("budget"); ok && strings.Contains(v, ",") {
		diags = append(diags, pbreport.Errorf("comma in float!", "in budget"))
		f.Meta.Values["budget"] = strings.Replace(v, ",", ".", 1)
	}
	if v, ok := f.Meta.Get("max_sum_cost"); ok && strings.Contains(v, ",") {
		diags = append(diags, pbreport.Errorf("comma in float!", "in max_sum_cost"))
		f.Meta.Values["max_sum_cost"] = strings.Replace(v, ",", ".", 1)
	}

	for _, id := range f.Projects.Order {
		row := f.Projects.Rows[id]
		cost := row["cost"]
		if strings.Contains(cost, ",") {
			diags = append(diags, pbreport.Errorf("comma in float!",
				"in project: %q, cost: %q", id, cost))
			row["cost"] = strings.SplitN(cost, ",", 2)[0]
		}
	}

	return diags
}

// checkBudgets flags a zero-cost project, a project costing more than
// the whole budget, an over-budget selection, and (when not flagged
// fully_funded) a total project cost that leaves budget unclaimed.
func checkBudgets(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	budgetRaw, _ := f.Meta.Get("budget")
	budgetFloat, _ := strconv.ParseFloat(strings.TrimSpace(budgetRaw), 64)
	budgetAvailable := int(math.Floor(budgetFloat))

	var allProjectsCost, budgetSpent int
	for _, id := range f.Projects.Order {
		row := f.Projects.Rows[id]
		cost, _ := strconv.Atoi(row["cost"])
		allProjectsCost += cost

		if row["selected"] != "" {
			if n, _ := strconv.Atoi(row["selected"]); n == 1 {
				budgetSpent += cost
			}
		}

		switch {
		case cost == 0:
			diags = append(diags, pbreport.Errorf("project with no cost",
				"project %q has no cost", id))
		case cost > budgetAvailable:
			diags = append(diags, pbreport.Errorf("single project exceeded whole budget",
				"project %q has exceeded the whole budget: cost %s vs budget %s",
				id, pbcount.FormatInt(cost), pbcount.FormatInt(budgetAvailable)))
		}
	}

	if budgetSpent > budgetAvailable {
		diags = append(diags, pbreport.Errorf("budget exceeded",
			"budget %s, cost of selected projects %s",
			pbcount.FormatInt(budgetAvailable), pbcount.FormatInt(budgetSpent)))
	}

	if v, ok := f.Meta.Get("fully_funded"); ok {
		if n, _ := strconv.Atoi(v); n == 1 {
			if allProjectsCost > budgetAvailable {
				diags = append(diags, pbreport.Errorf("wrong fully_funded flag",
					"fully_funded is set but cost of all projects %s exceeds budget %s",
					pbcount.FormatInt(allProjectsCost), pbcount.FormatInt(budgetAvailable)))
			}
			return diags
		}
	}

	if budgetAvailable > allProjectsCost {
		diags = append(diags, pbreport.Errorf("all projects funded",
			"budget %s, cost of all projects %s",
			pbcount.FormatInt(budgetAvailable), pbcount.FormatInt(allProjectsCost)))
	}

	diags = append(diags, checkUnusedBudget(f, budgetAvailable-budgetSpent)...)

	return diags
}

// checkUnusedBudget flags a project the file marked unselected that
// would still have fit in the budget left over after the file's own
// selected projects. Strict greedy leaves no such project by
// construction, so it is an error there; every other rule may
// legitimately leave some budget on the table, so it is only a warning.
func checkUnusedBudget(f *pbfile.File, budgetRemaining int) []pbreport.Diagnostic {
	rule, _ := f.Meta.Get("rule")
	level := pbreport.Warnf
	if rule == "greedy" {
		level = pbreport.Errorf
	}

	var diags []pbreport.Diagnostic
	for _, id := range f.Projects.Order {
		row := f.Projects.Rows[id]
		if row["selected"] == "" {
			continue
		}
		n, _ := strconv.Atoi(row["selected"])
		if n != 0 {
			continue
		}
		cost, _ := strconv.Atoi(row["cost"])
		if cost <= budgetRemaining {
			diags = append(diags, level("unused budget",
				"project %q can be funded but it's not selected", id))
		}
	}
	return diags
}

func checkVoteCount(f *pbfile.File) []pbreport.Diagnostic {
	metaVotes, _ := f.Meta.Get("num_votes")
	n, _ := strconv.Atoi(metaVotes)
	if n != len(f.Votes.Order) {
		return []pbreport.Diagnostic{pbreport.Errorf("different number of votes",
			"votes number in META: %q vs counted from file: %d", metaVotes, len(f.Votes.Order))}
	}
	return nil
}

func checkProjectCount(f *pbfile.File) []pbreport.Diagnostic {
	metaProjects, _ := f.Meta.Get("num_projects")
	n, _ := strconv.Atoi(metaProjects)
	if n != len(f.Projects.Order) {
		return []pbreport.Diagnostic{pbreport.Errorf("different number of projects",
			"projects number in META: %q vs counted from file: %d", metaProjects, len(f.Projects.Order))}
	}
	return nil
}

func checkDuplicateVotes(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic
	for _, voterID := range f.Votes.Order {
		parts := strings.Split(f.Votes.Rows[voterID]["vote"], ",")
		seen := make(map[string]bool, len(parts))
		dup := false
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if seen[p] {
				dup = true
			}
			seen[p] = true
		}
		if dup {
			diags = append(diags, pbreport.Errorf("vote with duplicated projects",
				"duplicated projects in a vote: voter %q, vote %q", voterID, f.Votes.Rows[voterID]["vote"]))
		}
	}
	return diags
}

func checkVoteLength(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	maxLength := firstMetaInt(f, "max_length", "max_length_unit", "max_length_district")
	minLength := firstMetaInt(f, "min_length", "min_length_unit", "min_length_district")

	if maxLength == nil && minLength == nil {
		return nil
	}

	for _, voterID := range f.Votes.Order {
		votes := strings.Split(f.Votes.Rows[voterID]["vote"], ",")
		count := 0
		for _, v := range votes {
			if strings.TrimSpace(v) != "" {
				count++
			}
		}
		if maxLength != nil && count > *maxLength {
			diags = append(diags, pbreport.Errorf("vote length exceeded",
				"voter %q: max vote length %d, voter has %d", voterID, *maxLength, count))
		}
		if minLength != nil && count < *minLength {
			diags = append(diags, pbreport.Errorf("vote length too short",
				"voter %q: min vote length %d, voter has %d", voterID, *minLength, count))
		}
	}

	return diags
}

func firstMetaInt(f *pbfile.File, names ...string) *int {
	for _, name := range names {
		if v, ok := f.Meta.Get(name); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return &n
			}
		}
	}
	return nil
}

// checkVotesAndScores requires PROJECTS to carry at least one of the
// votes/score columns, then reconciles whichever are present against
// tallies counted directly from VOTES. The unknown-project-reference
// check runs regardless of which columns PROJECTS declares.
func checkVotesAndScores(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	if !f.VotesInProjects && !f.ScoresInProjects {
		diags = append(diags, pbreport.Errorf("No votes or score counted in PROJECTS section",
			"PROJECTS section should declare a votes or score column"))
	}

	diags = append(diags, checkUnknownProjectReferences(f)...)

	if f.VotesInProjects {
		diags = append(diags, checkVoteCounts(f)...)
	}
	if f.ScoresInProjects {
		diags = append(diags, checkScoreCounts(f)...)
	}

	return diags
}

// checkUnknownProjectReferences flags every individual ballot reference
// to a project id PROJECTS never declared, one diagnostic per
// reference, independent of whether PROJECTS declares a votes or score
// column.
func checkUnknownProjectReferences(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic
	for _, voterID := range f.Votes.Order {
		for _, projectID := range strings.Split(f.Votes.Rows[voterID]["vote"], ",") {
			projectID = strings.TrimSpace(projectID)
			if projectID == "" {
				continue
			}
			if _, ok := f.Projects.Rows[projectID]; !ok {
				diags = append(diags, pbreport.Errorf("vote for non-existent project",
					"voter %q voted for project %q which is not declared in PROJECTS", voterID, projectID))
			}
		}
	}
	return diags
}

func checkVoteCounts(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic
	counted := pbcount.VotesPerProject(f.Votes)

	for _, id := range f.Projects.Order {
		declared, _ := strconv.Atoi(f.Projects.Rows[id]["votes"])
		if declared == 0 {
			diags = append(diags, pbreport.Errorf("project with no votes",
				"project %q may not have been approved for voting", id))
		}
		if declared != counted[id] {
			diags = append(diags, pbreport.Errorf("different values in votes",
				"project %q: PROJECTS declares %d votes, counted %d", id, declared, counted[id]))
		}
	}

	return diags
}

func checkScoreCounts(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic
	counted, pointDiags := pbcount.PointsPerProject(f.Votes)
	diags = append(diags, pointDiags...)

	for _, id := range f.Projects.Order {
		declared, _ := strconv.Atoi(f.Projects.Rows[id]["score"])
		if declared != counted[id] {
			diags = append(diags, pbreport.Errorf("different values in scores",
				"project %q: PROJECTS declares %d points, counted %d", id, declared, counted[id]))
		}
	}

	return diags
}

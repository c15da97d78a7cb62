package pbconsistency

import (
	"testing"

	"github.com/flpb/pbvalidate/internal/pbfile"
	"github.com/flpb/pbvalidate/internal/pbreport"
)

func hasType(diags []pbreport.Diagnostic, typ string) bool {
	for _, d := range diags {
		if d.Type == typ {
			return true
		}
	}
	return false
}

func baseFile() *pbfile.File {
	return &pbfile.File{
		Meta: pbfile.Section{Values: map[string]string{
			"budget":       "1000",
			"num_votes":    "2",
			"num_projects": "2",
		}},
		Projects: pbfile.Table{
			Header: []string{"project_id", "cost", "name", "votes"},
			Order:  []string{"1", "2"},
			Rows: map[string]map[string]string{
				"1": {"cost": "400", "name": "Park", "votes": "1"},
				"2": {"cost": "600", "name": "Library", "votes": "1"},
			},
		},
		Votes: pbfile.Table{
			Header: []string{"voter_id", "vote"},
			Order:  []string{"v1", "v2"},
			Rows: map[string]map[string]string{
				"v1": {"vote": "1"},
				"v2": {"vote": "2"},
			},
		},
		VotesInProjects: true,
	}
}

func TestRunCleanFile(t *testing.T) {
	f := baseFile()
	diags := Run(f)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestRepairCommaFloatsRewritesBudget(t *testing.T) {
	f := baseFile()
	f.Meta.Values["budget"] = "1000,50"
	diags := repairCommaFloats(f)
	if !hasType(diags, "comma in float!") {
		t.Fatalf("expected comma-in-float diagnostic, got %v", diags)
	}
	if f.Meta.Values["budget"] != "1000.50" {
		t.Errorf("expected budget repaired to 1000.50, got %q", f.Meta.Values["budget"])
	}
}

func TestCheckBudgetsZeroCostProject(t *testing.T) {
	f := baseFile()
	f.Projects.Rows["1"]["cost"] = "0"
	diags := checkBudgets(f)
	if !hasType(diags, "project with no cost") {
		t.Fatalf("expected project-with-no-cost diagnostic, got %v", diags)
	}
}

func TestCheckBudgetsSingleProjectExceedsBudget(t *testing.T) {
	f := baseFile()
	f.Meta.Values["budget"] = "100"
	diags := checkBudgets(f)
	if !hasType(diags, "single project exceeded whole budget") {
		t.Fatalf("expected single-project-exceeds-budget diagnostic, got %v", diags)
	}
}

func TestCheckBudgetsAllProjectsFunded(t *testing.T) {
	f := baseFile()
	f.Meta.Values["budget"] = "5000"
	diags := checkBudgets(f)
	for _, d := range diags {
		if d.Type == "all projects funded" && d.Level != pbreport.LevelError {
			t.Errorf("expected all-projects-funded to be an error, got %v", d.Level)
		}
	}
	if !hasType(diags, "all projects funded") {
		t.Fatalf("expected all-projects-funded diagnostic, got %v", diags)
	}
}

func TestCheckVoteCountMismatch(t *testing.T) {
	f := baseFile()
	f.Meta.Values["num_votes"] = "5"
	diags := checkVoteCount(f)
	if !hasType(diags, "different number of votes") {
		t.Fatalf("expected vote-count mismatch diagnostic, got %v", diags)
	}
}

func TestCheckDuplicateVotes(t *testing.T) {
	f := baseFile()
	f.Votes.Rows["v1"]["vote"] = "1,1,2"
	diags := checkDuplicateVotes(f)
	if !hasType(diags, "vote with duplicated projects") {
		t.Fatalf("expected duplicate-vote diagnostic, got %v", diags)
	}
}

func TestCheckVoteLengthExceeded(t *testing.T) {
	f := baseFile()
	f.Meta.Values["max_length"] = "1"
	f.Votes.Rows["v1"]["vote"] = "1,2"
	diags := checkVoteLength(f)
	if !hasType(diags, "vote length exceeded") {
		t.Fatalf("expected vote-length-exceeded diagnostic, got %v", diags)
	}
}

func TestCheckVoteLengthTooShortIsAnError(t *testing.T) {
	f := baseFile()
	f.Meta.Values["min_length"] = "2"
	diags := checkVoteLength(f)
	found := false
	for _, d := range diags {
		if d.Type == "vote length too short" {
			found = true
			if d.Level != pbreport.LevelError {
				t.Errorf("expected vote-length-too-short to be an error, got %v", d.Level)
			}
		}
	}
	if !found {
		t.Fatalf("expected a vote-length-too-short diagnostic, got %v", diags)
	}
}

func TestCheckVoteCountsProjectWithNoVotesIsAnError(t *testing.T) {
	f := baseFile()
	f.Projects.Rows["1"]["votes"] = "0"
	f.Votes.Rows["v1"]["vote"] = "2"
	diags := checkVoteCounts(f)
	found := false
	for _, d := range diags {
		if d.Type == "project with no votes" {
			found = true
			if d.Level != pbreport.LevelError {
				t.Errorf("expected project-with-no-votes to be an error, got %v", d.Level)
			}
		}
	}
	if !found {
		t.Fatalf("expected a project-with-no-votes diagnostic, got %v", diags)
	}
}

func TestCheckVotesAndScoresRequiresAColumn(t *testing.T) {
	f := baseFile()
	f.VotesInProjects = false
	diags := checkVotesAndScores(f)
	if !hasType(diags, "No votes or score counted in PROJECTS section") {
		t.Fatalf("expected missing-votes-or-score diagnostic, got %v", diags)
	}
}

func TestCheckBudgetsUnusedBudgetErrorsForStrictGreedy(t *testing.T) {
	f := baseFile()
	f.Meta.Values["rule"] = "greedy"
	f.Meta.Values["budget"] = "1100"
	f.Projects.Rows["1"]["selected"] = "1"
	f.Projects.Rows["2"]["selected"] = "0"
	diags := checkBudgets(f)
	found := false
	for _, d := range diags {
		if d.Type == "unused budget" {
			found = true
			if d.Level != pbreport.LevelError {
				t.Errorf("expected strict greedy unused budget to be an error, got %v", d.Level)
			}
		}
	}
	if !found {
		t.Fatalf("expected an unused-budget diagnostic, got %v", diags)
	}
}

func TestCheckBudgetsUnusedBudgetWarnsForOtherRules(t *testing.T) {
	f := baseFile()
	f.Meta.Values["rule"] = "greedy-exclusive"
	f.Meta.Values["budget"] = "1100"
	f.Projects.Rows["1"]["selected"] = "1"
	f.Projects.Rows["2"]["selected"] = "0"
	diags := checkBudgets(f)
	for _, d := range diags {
		if d.Type == "unused budget" && d.Level != pbreport.LevelWarning {
			t.Errorf("expected non-strict rule unused budget to be a warning, got %v", d.Level)
		}
	}
}

func TestCheckUnknownProjectReferencePerBallot(t *testing.T) {
	f := baseFile()
	f.Votes.Rows["v1"]["vote"] = "99"
	f.Votes.Rows["v2"]["vote"] = "2,98"
	diags := checkUnknownProjectReferences(f)
	count := 0
	for _, d := range diags {
		if d.Type == "vote for non-existent project" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected one diagnostic per unknown reference (2), got %d: %v", count, diags)
	}
}

func TestCheckUnknownProjectReferenceRunsWithoutVotesOrScoreColumn(t *testing.T) {
	f := baseFile()
	f.VotesInProjects = false
	f.Votes.Rows["v1"]["vote"] = "99"
	diags := checkVotesAndScores(f)
	if !hasType(diags, "vote for non-existent project") {
		t.Fatalf("expected unknown-project-reference diagnostic even without a votes/score column, got %v", diags)
	}
}

func TestCheckBudgetsWrongFullyFundedFlag(t *testing.T) {
	f := baseFile()
	f.Meta.Values["budget"] = "500"
	f.Meta.Values["fully_funded"] = "1"
	diags := checkBudgets(f)
	if !hasType(diags, "wrong fully_funded flag") {
		t.Fatalf("expected wrong-fully_funded-flag diagnostic, got %v", diags)
	}
}

func TestCheckBudgetsFullyFundedFlagHolds(t *testing.T) {
	f := baseFile()
	f.Meta.Values["budget"] = "5000"
	f.Meta.Values["fully_funded"] = "1"
	diags := checkBudgets(f)
	if hasType(diags, "wrong fully_funded flag") {
		t.Fatalf("did not expect wrong-fully_funded-flag diagnostic when the claim holds, got %v", diags)
	}
	if hasType(diags, "all projects funded") {
		t.Fatalf("did not expect all-projects-funded diagnostic when fully_funded is set, got %v", diags)
	}
}

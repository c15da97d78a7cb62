package pbvalidate

import (
	"os"
	"path/filepath"
	"testing"
)

const validApprovalFile = `META
key;value
description;Test budget
country;Poland
unit;Warsaw
instance;2024
num_projects;2
num_votes;2
budget;700
vote_type;approval
rule;greedy
date_begin;2024
date_end;2024
PROJECTS
project_id;cost;name;votes
1;300;Park;1
2;400;Library;1
VOTES
voter_id;vote
v1;1
v2;2
`

func TestRunValidFileHasNoDiagnostics(t *testing.T) {
	report := Run([]Input{{Content: validApprovalFile}})
	entry, ok := report.File("1")
	if !ok {
		t.Fatal("expected an entry for identifier \"1\"")
	}
	if !entry.Results.Clean {
		t.Fatalf("expected a clean result, got errors=%v warnings=%v", entry.Results.Errors, entry.Results.Warnings)
	}
	if report.Metadata.Valid != 1 || report.Metadata.Invalid != 0 {
		t.Fatalf("unexpected metadata: %+v", report.Metadata)
	}
}

func TestRunUnknownProjectInBallot(t *testing.T) {
	content := `META
key;value
description;Test budget
country;Poland
unit;Warsaw
instance;2024
num_projects;1
num_votes;1
budget;1000
vote_type;approval
rule;greedy
date_begin;2024
date_end;2024
PROJECTS
project_id;cost;name;votes
1;300;Park;0
VOTES
voter_id;vote
v1;99
`
	report := Run([]Input{{Content: content}})
	entry, _ := report.File("1")
	if entry.Results.Clean {
		t.Fatal("expected invalid result referencing an unknown project")
	}
	if report.Summary["vote for non-existent project"] == 0 {
		t.Fatalf("expected a vote-for-non-existent-project diagnostic, got summary %v", report.Summary)
	}
}

func TestRunCommaDecimalBudgetIsRepaired(t *testing.T) {
	content := `META
key;value
description;Test budget
country;Poland
unit;Warsaw
instance;2024
num_projects;1
num_votes;1
budget;1000,50
vote_type;approval
rule;greedy
date_begin;2024
date_end;2024
PROJECTS
project_id;cost;name;votes
1;300;Park;1
VOTES
voter_id;vote
v1;1
`
	report := Run([]Input{{Content: content}})
	if report.Summary["comma in float!"] == 0 {
		t.Fatalf("expected a comma-in-float diagnostic, got summary %v", report.Summary)
	}
}

func TestRunCumulativeWithoutMaxSumPoints(t *testing.T) {
	content := `META
key;value
description;Test budget
country;Poland
unit;Warsaw
instance;2024
num_projects;1
num_votes;1
budget;1000
vote_type;cumulative
rule;greedy
date_begin;2024
date_end;2024
PROJECTS
project_id;cost;name;score
1;300;Park;5
VOTES
voter_id;vote;points
v1;1;5
`
	report := Run([]Input{{Content: content}})
	if report.Summary["missing meta field value"] == 0 {
		t.Fatalf("expected a missing-meta-field-value diagnostic for max_sum_points, got summary %v", report.Summary)
	}
}

func TestRunFromRealFileUsesBasenameAsIdentifier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warsaw-2024.pb")
	if err := os.WriteFile(path, []byte(validApprovalFile), 0o644); err != nil {
		t.Fatal(err)
	}

	report := RunFiles([]string{path})
	if _, ok := report.File("warsaw-2024"); !ok {
		t.Fatalf("expected file entry keyed by basename, got ids %v", report.FileIDs())
	}
}

func TestRunMissingFileIsReportedNotFatal(t *testing.T) {
	report := Run([]Input{{Path: "/nonexistent/path/does-not-exist.pb"}})
	if report.Metadata.Processed != 1 || report.Metadata.Invalid != 1 {
		t.Fatalf("unexpected metadata: %+v", report.Metadata)
	}
}

package pbfile

import "testing"

func TestParseRecognizesAllSections(t *testing.T) {
	lines := []string{
		"META",
		"description;Test file",
		"PROJECTS",
		"project_id;cost;name;votes",
		"1;100;Park;5",
		"VOTES",
		"voter_id;vote",
		"v1;1",
	}

	f, diags := Parse(lines)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if v, ok := f.Meta.Get("description"); !ok || v != "Test file" {
		t.Errorf("expected description %q, got %q (ok=%v)", "Test file", v, ok)
	}
	if len(f.Projects.Order) != 1 || f.Projects.Order[0] != "1" {
		t.Fatalf("expected one project with id 1, got %v", f.Projects.Order)
	}
	if !f.VotesInProjects {
		t.Errorf("expected VotesInProjects to be true")
	}
	if f.ScoresInProjects {
		t.Errorf("expected ScoresInProjects to be false")
	}
	if len(f.Votes.Order) != 1 || f.Votes.Order[0] != "v1" {
		t.Fatalf("expected one voter v1, got %v", f.Votes.Order)
	}
}

func TestParseMetaSkipsKeyValueHeader(t *testing.T) {
	sec := parseMeta([]string{"key;value", "description;Test"})
	if len(sec.Order) != 1 || sec.Order[0] != "description" {
		t.Fatalf("expected only description to be recorded, got %v", sec.Order)
	}
}

func TestParseFlagsDuplicateProjectID(t *testing.T) {
	lines := []string{
		"META",
		"description;Test",
		"PROJECTS",
		"project_id;cost;name",
		"1;100;Park",
		"1;200;Pool",
		"VOTES",
		"voter_id;vote",
		"v1;1",
	}

	_, diags := Parse(lines)
	found := false
	for _, d := range diags {
		if d.Type == "duplicate project_id" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate project_id diagnostic, got %v", diags)
	}
}

func TestParseDetectsScoreColumn(t *testing.T) {
	lines := []string{
		"META",
		"description;Test",
		"PROJECTS",
		"project_id;cost;name;score",
		"1;100;Park;40",
		"VOTES",
		"voter_id;vote",
		"v1;1",
	}

	f, _ := Parse(lines)
	if !f.ScoresInProjects {
		t.Errorf("expected ScoresInProjects to be true")
	}
	if f.VotesInProjects {
		t.Errorf("expected VotesInProjects to be false")
	}
}

func TestParseMissingSectionFlagged(t *testing.T) {
	lines := []string{
		"META",
		"description;Test",
		"PROJECTS",
		"project_id;cost;name",
		"1;100;Park",
	}

	_, diags := Parse(lines)
	found := false
	for _, d := range diags {
		if d.Type == "missing section" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-section diagnostic for the absent VOTES section, got %v", diags)
	}
}

func TestParseOutOfOrderSectionFlagged(t *testing.T) {
	lines := []string{
		"PROJECTS",
		"project_id;cost;name",
		"1;100;Park",
		"META",
		"description;Test",
		"VOTES",
		"voter_id;vote",
		"v1;1",
	}

	_, diags := Parse(lines)
	found := false
	for _, d := range diags {
		if d.Type == "unknown section" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unknown-section diagnostic for the out-of-order PROJECTS header, got %v", diags)
	}
}

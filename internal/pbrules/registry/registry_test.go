package registry

import (
	"strings"
	"testing"
)

func TestLoadKnownRule(t *testing.T) {
	d, ok := Load("greedy-threshold")
	if !ok {
		t.Fatal("expected greedy-threshold to be a recognized rule")
	}
	if !d.RequiresThreshold {
		t.Error("expected greedy-threshold to require a threshold field")
	}
}

func TestLoadUnknownRuleName(t *testing.T) {
	if _, ok := Load("not-a-rule"); ok {
		t.Fatal("expected unrecognized rule name to fail to load")
	}
}

func TestNamesJoinedListsEveryRule(t *testing.T) {
	joined := NamesJoined()
	for _, name := range []string{"greedy", "greedy-no-skip", "unknown", "equalshares"} {
		if !strings.Contains(joined, name) {
			t.Errorf("expected %q to appear in %q", name, joined)
		}
	}
}

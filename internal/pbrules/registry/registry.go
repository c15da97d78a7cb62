// Package registry loads the built-in descriptors that tell pbrules how
// to replay and judge each recognized selection rule.
package registry

import (
	"embed"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Descriptor describes how one named selection rule should be replayed
// and at what severity a mismatch against the file's own selection is
// reported.
type Descriptor struct {
	Name              string `yaml:"name"`
	Strategy          string `yaml:"strategy"`
	MismatchLevel     string `yaml:"mismatch_level"`
	MismatchType      string `yaml:"mismatch_type"`
	RequiresThreshold bool   `yaml:"requires_threshold"`
	RequiresComment   bool   `yaml:"requires_comment"`
}

// filenames maps a rule name to its embedded filename, needed because
// some rule names (e.g. "equalshares/add1") aren't valid filenames.
var filenames = map[string]string{
	"greedy":            "greedy.yaml",
	"greedy-no-skip":    "greedy-no-skip.yaml",
	"greedy-threshold":  "greedy-threshold.yaml",
	"greedy-exclusive":  "greedy-exclusive.yaml",
	"greedy-custom":     "greedy-custom.yaml",
	"unknown":           "unknown.yaml",
	"equalshares":       "equalshares.yaml",
	"equalshares/add1":  "equalshares-add1.yaml",
}

// Load returns the descriptor for name, and false if name is not a
// recognized rule.
func Load(name string) (Descriptor, bool) {
	filename, ok := filenames[name]
	if !ok {
		return Descriptor{}, false
	}
	data, err := builtinFS.ReadFile("builtin/" + filename)
	if err != nil {
		return Descriptor{}, false
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, false
	}
	return d, true
}

// Names returns every recognized rule name, sorted.
func Names() []string {
	names := make([]string, 0, len(filenames))
	for name := range filenames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NamesJoined returns Names() as a comma-separated string, for use in
// "valid rules are" diagnostic messages.
func NamesJoined() string {
	return strings.Join(Names(), ", ")
}

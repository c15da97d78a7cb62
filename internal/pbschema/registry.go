// Package pbschema declares the field schema for each PB file section
// and validates a parsed section against it: presence, order, unknown
// fields, datatypes, and per-field predicates.
package pbschema

// Datatype is the coercion target for a field's raw string value.
type Datatype int

const (
	TypeString Datatype = iota
	TypeInt
	TypeFloat
)

// Value is a raw field value after datatype coercion.
type Value struct {
	Raw   string
	Kind  Datatype
	Str   string
	Int   int64
	Float float64
}

// Predicate validates a coerced value, returning a failure message when
// invalid, or "" when it passes.
type Predicate func(v Value) string

// Field is one schema entry.
type Field struct {
	Name       string
	Datatype   Datatype
	Obligatory bool
	Nullable   bool
	OrderIndex int
	Predicate  Predicate
}

// Registry is the ordered field list for one section.
type Registry []Field

// byName looks up a field by name.
func (r Registry) byName(name string) (Field, bool) {
	for _, f := range r {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// CanonicalOrder returns field names in schema declaration order.
func (r Registry) CanonicalOrder() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// skippedFields names are accepted but never flagged as unknown and
// never validated — historical artifacts of the file format.
var skippedFields = map[string]bool{
	"key": true,
}

// metaObligatory and metaOptional together define the META registry, in
// the order spec.md §4.3 lists them: obligatory fields first, then
// optional ones.
var metaObligatory = []string{
	"description", "country", "unit", "instance", "num_projects",
	"num_votes", "budget", "vote_type", "rule", "date_begin", "date_end",
}

var metaOptional = []string{
	"fully_funded", "max_length", "min_length", "max_sum_cost",
	"max_sum_points", "min_project_score_threshold", "comment",
	"language", "currency", "edition", "subunit",
	"max_length_unit", "min_length_unit", "max_length_district", "min_length_district",
}

// Meta is the META section's field registry.
var Meta = buildRegistry(
	map[string]fieldSpec{
		"description":                  {TypeString, false, nil},
		"country":                      {TypeString, false, nil},
		"unit":                         {TypeString, false, nil},
		"instance":                     {TypeString, false, nil},
		"num_projects":                 {TypeInt, false, nil},
		"num_votes":                    {TypeInt, false, nil},
		"budget":                       {TypeFloat, false, nil},
		"vote_type":                    {TypeString, false, voteTypePredicate},
		"rule":                         {TypeString, false, nil},
		"date_begin":                   {TypeString, false, dateFormatPredicate},
		"date_end":                     {TypeString, false, dateFormatPredicate},
		"fully_funded":                 {TypeInt, true, fullyFundedPredicate},
		"max_length":                   {TypeInt, true, nil},
		"min_length":                   {TypeInt, true, nil},
		"max_sum_cost":                 {TypeFloat, true, nil},
		"max_sum_points":               {TypeInt, true, nil},
		"min_project_score_threshold":  {TypeFloat, true, nil},
		"comment":                      {TypeString, true, commentPredicate},
		"language":                     {TypeString, true, nil},
		"currency":                     {TypeString, true, nil},
		"edition":                      {TypeString, true, nil},
		"subunit":                      {TypeString, true, nil},
		"max_length_unit":              {TypeInt, true, nil},
		"min_length_unit":              {TypeInt, true, nil},
		"max_length_district":          {TypeInt, true, nil},
		"min_length_district":          {TypeInt, true, nil},
	},
	metaObligatory, metaOptional,
)

var projectsObligatory = []string{"project_id", "cost", "name"}
var projectsOptional = []string{"category", "target", "selected", "votes", "score", "longitude", "latitude"}

// Projects is the PROJECTS section's field registry.
var Projects = buildRegistry(
	map[string]fieldSpec{
		"project_id": {TypeString, false, nil},
		"cost":       {TypeInt, false, nonNegativePredicate},
		"name":       {TypeString, false, nil},
		"category":   {TypeString, true, nil},
		"target":     {TypeString, true, nil},
		"selected":   {TypeInt, true, nil},
		"votes":      {TypeInt, true, nil},
		"score":      {TypeInt, true, nil},
		"longitude":  {TypeFloat, true, nil},
		"latitude":   {TypeFloat, true, nil},
	},
	projectsObligatory, projectsOptional,
)

var votesObligatory = []string{"voter_id", "vote"}
var votesOptional = []string{"age", "sex", "voting_method", "points"}

// Votes is the VOTES section's field registry.
var Votes = buildRegistry(
	map[string]fieldSpec{
		"voter_id":      {TypeString, false, nil},
		"vote":          {TypeString, false, nil},
		"age":           {TypeString, true, agePredicate},
		"sex":           {TypeString, true, sexPredicate},
		"voting_method": {TypeString, true, nil},
		"points":        {TypeString, true, nil},
	},
	votesObligatory, votesOptional,
)

type fieldSpec struct {
	datatype  Datatype
	nullable  bool
	predicate Predicate
}

func buildRegistry(specs map[string]fieldSpec, obligatory, optional []string) Registry {
	var reg Registry
	idx := 0
	add := func(name string, required bool) {
		spec, ok := specs[name]
		if !ok {
			panic("pbschema: no spec for field " + name)
		}
		reg = append(reg, Field{
			Name:       name,
			Datatype:   spec.datatype,
			Obligatory: required,
			Nullable:   spec.nullable,
			OrderIndex: idx,
			Predicate:  spec.predicate,
		})
		idx++
	}
	for _, name := range obligatory {
		add(name, true)
	}
	for _, name := range optional {
		add(name, false)
	}
	return reg
}

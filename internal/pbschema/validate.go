package pbschema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flpb/pbvalidate/internal/pbreport"
)

// Coerce converts a raw string into a Value of the given datatype. Int
// and Float fields that fail to parse coerce to the zero value; the
// caller is expected to have already flagged the type mismatch.
func Coerce(raw string, kind Datatype) Value {
	v := Value{Raw: raw, Kind: kind, Str: raw}
	switch kind {
	case TypeInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err == nil {
			v.Int = n
		}
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil {
			v.Float = f
		}
	}
	return v
}

// ValidateStructure runs the presence, order, and unknown-field passes
// against one section. order is the field name order as it actually
// appeared in the source (META key order, or table header column
// order, id column included); missing names fields that are obligatory
// but absent from the source entirely — for META this is
// File.MissingMarks (a field ApplyMetaDefaults had to default); for a
// table it is whatever obligatory column its header lacks.
func ValidateStructure(r Registry, order []string, missing map[string]bool, sectionName string) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	for _, f := range r {
		if f.Obligatory && missing[f.Name] {
			diags = append(diags, pbreport.Errorf(fmt.Sprintf("missing %s field value", sectionName),
				"%s section is missing obligatory field %q", sectionName, f.Name))
		}
	}

	var known []string
	for _, name := range order {
		if skippedFields[name] || missing[name] {
			continue
		}
		if _, ok := r.byName(name); !ok {
			diags = append(diags, pbreport.Errorf(fmt.Sprintf("not known %s fields", sectionName),
				"%s section has unrecognized field %q", sectionName, name))
			continue
		}
		known = append(known, name)
	}

	if !isInOrder(r.CanonicalOrder(), known) {
		diags = append(diags, pbreport.Warnf(fmt.Sprintf("wrong %s fields order", sectionName),
			"%s section fields are out of canonical order: %v", sectionName, known))
	}

	return diags
}

// isInOrder reports whether actual is an order-preserving subsequence of
// canonical: a single pointer into canonical advances, never resets, as
// each name in actual is matched against it.
func isInOrder(canonical, actual []string) bool {
	idx := 0
	for _, name := range actual {
		for idx < len(canonical) && canonical[idx] != name {
			idx++
		}
		if idx >= len(canonical) {
			return false
		}
	}
	return true
}

// ValidateValue type-checks and runs the predicate for one field's raw
// value, returning diagnostics (empty if it passes). An empty raw value
// on a nullable field is accepted without running its predicate; an
// empty value on a non-nullable field is an error. sectionName feeds the
// diagnostic type string ("meta", "projects", "votes"); context is a
// free-text location prefix for the message.
func ValidateValue(f Field, raw string, sectionName, context string) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic
	invalidType := fmt.Sprintf("invalid %s field value", sectionName)

	if raw == "" {
		if !f.Nullable {
			diags = append(diags, pbreport.Errorf(invalidType,
				"%s: field %q must not be empty", context, f.Name))
		}
		return diags
	}

	switch f.Datatype {
	case TypeInt:
		if _, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err != nil {
			diags = append(diags, pbreport.Errorf(fmt.Sprintf("incorrect %s field datatype", sectionName),
				"%s: field %q must be an integer, found %q", context, f.Name, raw))
			return diags
		}
	case TypeFloat:
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
			diags = append(diags, pbreport.Errorf(fmt.Sprintf("incorrect %s field datatype", sectionName),
				"%s: field %q must be a number, found %q", context, f.Name, raw))
			return diags
		}
	}

	if f.Predicate != nil {
		v := Coerce(raw, f.Datatype)
		if msg := f.Predicate(v); msg != "" {
			diags = append(diags, pbreport.Errorf(invalidType, "%s: %s", context, msg))
		}
	}

	return diags
}

// ValidateRow runs ValidateValue for every declared field against one
// table record.
func ValidateRow(r Registry, row map[string]string, sectionName, context string) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic
	for _, f := range r {
		raw := row[f.Name]
		diags = append(diags, ValidateValue(f, raw, sectionName, context)...)
	}
	return diags
}

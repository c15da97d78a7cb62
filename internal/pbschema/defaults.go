package pbschema

import "github.com/flpb/pbvalidate/internal/pbfile"

// zeroFor returns the default value a datatype coerces an absent
// obligatory field to, per the resilience contract: "" for strings, "0"
// for ints, "0.0" for floats.
func zeroFor(kind Datatype) string {
	switch kind {
	case TypeInt:
		return "0"
	case TypeFloat:
		return "0.0"
	default:
		return ""
	}
}

// ApplyMetaDefaults fills in a default value and marks as missing every
// obligatory META field that f.Meta does not declare at all. Fields that
// are present with an empty value are left alone — they are a
// validation failure (missing value), not a missing-field default.
func ApplyMetaDefaults(f *pbfile.File) {
	for _, field := range Meta {
		if !field.Obligatory {
			continue
		}
		if _, ok := f.Meta.Get(field.Name); ok {
			continue
		}
		f.MissingMarks[field.Name] = true
		f.Meta.Values[field.Name] = zeroFor(field.Datatype)
		f.Meta.Order = append(f.Meta.Order, field.Name)
	}
}

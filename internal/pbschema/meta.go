package pbschema

import (
	"github.com/flpb/pbvalidate/internal/pbfile"
	"github.com/flpb/pbvalidate/internal/pbreport"
)

// ValidateMeta checks the META section: every obligatory field that
// ApplyMetaDefaults had to default is reported missing, every field META
// declares that the registry does not know about is reported unknown,
// field order is checked against the registry's canonical order, and
// every present field's value is type- and predicate-checked.
// ApplyMetaDefaults must have already run on f.
func ValidateMeta(f *pbfile.File) []pbreport.Diagnostic {
	var diags []pbreport.Diagnostic

	diags = append(diags, ValidateStructure(Meta, f.Meta.Order, f.MissingMarks, "meta")...)

	for _, field := range Meta {
		if f.MissingMarks[field.Name] {
			continue
		}
		raw, ok := f.Meta.Get(field.Name)
		if !ok {
			continue
		}
		diags = append(diags, ValidateValue(field, raw, "meta", "META")...)
	}

	diags = append(diags, validateDateRange(f)...)
	diags = append(diags, validateVoteTypeFields(f)...)

	return diags
}

// validateDateRange normalizes date_begin/date_end to YYYY-MM-DD and
// flags a reversed range. Fields that already failed the format
// predicate are skipped here — ValidateValue already reported them.
func validateDateRange(f *pbfile.File) []pbreport.Diagnostic {
	begin, okBegin := f.Meta.Get("date_begin")
	end, okEnd := f.Meta.Get("date_end")
	if !okBegin || !okEnd || begin == "" || end == "" {
		return nil
	}
	if dateFormatPredicate(Value{Str: begin}) != "" || dateFormatPredicate(Value{Str: end}) != "" {
		return nil
	}
	normBegin, okB := normalizeDate(begin)
	normEnd, okE := normalizeDate(end)
	if !okB || !okE {
		return nil
	}
	if normBegin > normEnd {
		return []pbreport.Diagnostic{pbreport.Errorf("date range missmatch",
			"date end (%s) earlier than start (%s)!", normEnd, normBegin)}
	}
	return nil
}

// validateVoteTypeFields enforces the cross-field requirement that a
// cumulative vote_type declares max_sum_points.
func validateVoteTypeFields(f *pbfile.File) []pbreport.Diagnostic {
	voteType, _ := f.Meta.Get("vote_type")
	if voteType != "cumulative" {
		return nil
	}
	if v, ok := f.Meta.Get("max_sum_points"); !ok || v == "" {
		return []pbreport.Diagnostic{pbreport.Errorf("missing meta field value",
			"META: vote_type is cumulative but max_sum_points is not set")}
	}
	return nil
}

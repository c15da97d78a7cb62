package pbschema

import (
	"regexp"
	"strconv"
	"strings"
)

var commentPattern = regexp.MustCompile(`^#1: `)

func commentPredicate(v Value) string {
	if v.Str == "" {
		return ""
	}
	if !commentPattern.MatchString(v.Str) {
		return "comment field must start with \"#1: \""
	}
	return ""
}

func voteTypePredicate(v Value) string {
	switch v.Str {
	case "approval", "ordinal", "cumulative", "choose-1":
		return ""
	default:
		return "vote_type must be one of approval, ordinal, cumulative, choose-1, found " + strconv.Quote(v.Str)
	}
}

func fullyFundedPredicate(v Value) string {
	if v.Int != 0 && v.Int != 1 {
		return "fully_funded must be 0 or 1"
	}
	return ""
}

func nonNegativePredicate(v Value) string {
	if v.Int < 0 {
		return "must not be negative"
	}
	return ""
}

var dateYear = regexp.MustCompile(`^\d{4}$`)
var dateDMY = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

func dateFormatPredicate(v Value) string {
	if v.Str == "" {
		return ""
	}
	if !dateYear.MatchString(v.Str) && !dateDMY.MatchString(v.Str) {
		return "date must be formatted as YYYY or DD.MM.YYYY"
	}
	return ""
}

// normalizeDate converts an already-format-valid date string to
// YYYY-MM-DD for lexicographic comparison: a bare year becomes its
// January 1st, and DD.MM.YYYY has its components reordered.
func normalizeDate(s string) (string, bool) {
	if dateYear.MatchString(s) {
		return s + "-01-01", true
	}
	if dateDMY.MatchString(s) {
		parts := strings.SplitN(s, ".", 3)
		return parts[2] + "-" + parts[1] + "-" + parts[0], true
	}
	return "", false
}

var sexValues = map[string]bool{"M": true, "F": true, "O": true}

func sexPredicate(v Value) string {
	if v.Str == "" {
		return ""
	}
	if !sexValues[strings.ToUpper(v.Str)] {
		return "sex must be one of M, F, O"
	}
	return ""
}

var ageBucket = regexp.MustCompile(`^\d+-\d+$`)

func agePredicate(v Value) string {
	if v.Str == "" {
		return ""
	}
	if ageBucket.MatchString(v.Str) {
		return ""
	}
	if n, err := strconv.Atoi(v.Str); err == nil {
		if n < 0 {
			return "age must not be negative"
		}
		return ""
	}
	return "age must be a non-negative integer or an A-B bucket"
}

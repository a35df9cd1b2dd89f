package view

import (
	"strings"

	"riskwatch/internal/api"
)

// Each sortable column is registered with an explicit semantic kind
// rather than guessed by parse-then-compare, so numeric-looking text
// never sorts numerically by accident.

type fieldKind int

const (
	kindText fieldKind = iota
	kindNumeric
	kindOrdinal
)

type field struct {
	kind    fieldKind
	text    func(api.Student) string
	number  func(api.Student) float64
	ranking map[string]int // ordinal fields only
}

// supportRank orders parental support levels.
var supportRank = map[string]int{
	"None":      0,
	"Low":       1,
	"Moderate":  2,
	"High":      3,
	"Very High": 4,
}

// educationRank orders parental education levels.
var educationRank = map[string]int{
	"None":          0,
	"High School":   1,
	"Some College":  2,
	"Bachelor's":    3,
	"Higher Degree": 4,
}

// fields is the comparator registry, keyed by the wire-format column
// name used in sort configs.
var fields = map[string]field{
	"student_name":       {kind: kindText, text: func(s api.Student) string { return s.StudentName }},
	"gender":             {kind: kindText, text: func(s api.Student) string { return s.Gender }},
	"ethnicity":          {kind: kindText, text: func(s api.Student) string { return s.Ethnicity }},
	"tutoring":           {kind: kindText, text: func(s api.Student) string { return s.Tutoring }},
	"extracurricular":    {kind: kindText, text: func(s api.Student) string { return s.Extracurricular }},
	"sports":             {kind: kindText, text: func(s api.Student) string { return s.Sports }},
	"music":              {kind: kindText, text: func(s api.Student) string { return s.Music }},
	"volunteering":       {kind: kindText, text: func(s api.Student) string { return s.Volunteering }},
	"age":                {kind: kindNumeric, number: func(s api.Student) float64 { return float64(s.Age) }},
	"gpa":                {kind: kindNumeric, number: func(s api.Student) float64 { return s.GPA }},
	"absences":           {kind: kindNumeric, number: func(s api.Student) float64 { return float64(s.Absences) }},
	"study_time_weekly":  {kind: kindNumeric, number: func(s api.Student) float64 { return s.StudyTimeWeekly }},
	"parental_support":   {kind: kindOrdinal, text: func(s api.Student) string { return s.ParentalSupport }, ranking: supportRank},
	"parental_education": {kind: kindOrdinal, text: func(s api.Student) string { return s.ParentalEducation }, ranking: educationRank},
}

// fieldFor resolves a sort key, falling back to the name column for
// unknown keys so a stale saved config cannot break sorting.
func fieldFor(key string) field {
	if f, ok := fields[key]; ok {
		return f
	}
	return fields["student_name"]
}

// compare returns <0, 0, >0 in ascending field order. Ordinal values
// not present in the ranking sort after ranked ones, alphabetically.
func (f field) compare(a, b api.Student) int {
	switch f.kind {
	case kindNumeric:
		av, bv := f.number(a), f.number(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case kindOrdinal:
		ar, aok := f.ranking[f.text(a)]
		br, bok := f.ranking[f.text(b)]
		switch {
		case aok && bok:
			return ar - br
		case aok:
			return -1
		case bok:
			return 1
		}
		return strings.Compare(f.text(a), f.text(b))
	default:
		return strings.Compare(f.text(a), f.text(b))
	}
}

// SortKeys lists the registered keys, for key binding help and config
// validation.
func SortKeys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	return keys
}

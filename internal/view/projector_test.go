package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"riskwatch/internal/api"
)

func sampleRoster() []api.Student {
	return []api.Student{
		{ID: 1, StudentName: "Alice", GPA: 3.8, Age: 17},
		{ID: 2, StudentName: "Bob", GPA: 2.1, Age: 18},
		{ID: 3, StudentName: "Carol", GPA: 3.0, Age: 16},
	}
}

func samplePredictions() map[int]api.Prediction {
	return map[int]api.Prediction{
		1: {StudentID: 1, Prediction: 0, Label: "Not At Risk"},
		2: {StudentID: 2, Prediction: 1, Label: "At Risk"},
	}
}

func names(rows []Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Student.StudentName)
	}
	return out
}

func gpas(rows []Row) []float64 {
	var out []float64
	for _, r := range rows {
		out = append(out, r.Student.GPA)
	}
	return out
}

func TestAtRiskFilterKeepsOnlyFlagged(t *testing.T) {
	t.Parallel()

	rows := Project(sampleRoster(), samplePredictions(), FilterAtRisk, "", DefaultSort())
	require.Equal(t, []string{"Bob"}, names(rows))
}

func TestNotAtRiskFilterExcludesUnpredicted(t *testing.T) {
	t.Parallel()

	// Carol has no prediction yet, so she is not "not at risk" either
	rows := Project(sampleRoster(), samplePredictions(), FilterNotAtRisk, "", DefaultSort())
	require.Equal(t, []string{"Alice"}, names(rows))
}

func TestFilterAllKeepsEveryStudent(t *testing.T) {
	t.Parallel()

	roster := sampleRoster()
	rows := Project(roster, samplePredictions(), FilterAll, "", DefaultSort())
	require.Len(t, rows, len(roster))
	for _, r := range rows {
		if r.Student.ID == 3 {
			require.Nil(t, r.Prediction)
			require.Equal(t, "...", r.RiskLabel())
		} else {
			require.NotNil(t, r.Prediction)
		}
	}
}

func TestGPASortAscendingAndFlip(t *testing.T) {
	t.Parallel()

	cfg := SortConfig{Key: "gpa", Ascending: true}
	rows := Project(sampleRoster(), samplePredictions(), FilterAll, "", cfg)
	require.Equal(t, []float64{2.1, 3.0, 3.8}, gpas(rows))

	cfg = RequestSort(cfg, "gpa")
	require.False(t, cfg.Ascending)
	rows = Project(sampleRoster(), samplePredictions(), FilterAll, "", cfg)
	require.Equal(t, []float64{3.8, 3.0, 2.1}, gpas(rows))
}

func TestRequestSortNewKeyResetsAscending(t *testing.T) {
	t.Parallel()

	cfg := SortConfig{Key: "gpa", Ascending: false}
	cfg = RequestSort(cfg, "student_name")
	require.Equal(t, "student_name", cfg.Key)
	require.True(t, cfg.Ascending)
}

func TestSortIsStableAcrossInvocations(t *testing.T) {
	t.Parallel()

	roster := []api.Student{
		{ID: 4, StudentName: "Dan", GPA: 3.0},
		{ID: 2, StudentName: "Bob", GPA: 3.0},
		{ID: 9, StudentName: "Zoe", GPA: 3.0},
	}
	cfg := SortConfig{Key: "gpa", Ascending: true}
	first := Project(roster, nil, FilterAll, "", cfg)
	second := Project(roster, nil, FilterAll, "", cfg)
	require.Equal(t, names(first), names(second))
	// equal gpas fall back to id, making the order total
	require.Equal(t, []string{"Bob", "Dan", "Zoe"}, names(first))
}

func TestOrdinalSortParentalSupport(t *testing.T) {
	t.Parallel()

	roster := []api.Student{
		{ID: 1, StudentName: "A", ParentalSupport: "Very High"},
		{ID: 2, StudentName: "B", ParentalSupport: "None"},
		{ID: 3, StudentName: "C", ParentalSupport: "Moderate"},
	}
	cfg := SortConfig{Key: "parental_support", Ascending: true}
	rows := Project(roster, nil, FilterAll, "", cfg)
	require.Equal(t, []string{"B", "C", "A"}, names(rows))
}

func TestTextFieldNeverSortsNumerically(t *testing.T) {
	t.Parallel()

	// numeric-looking names must compare as text, "0123" before "3"
	roster := []api.Student{
		{ID: 1, StudentName: "3"},
		{ID: 2, StudentName: "0123"},
	}
	cfg := SortConfig{Key: "student_name", Ascending: true}
	rows := Project(roster, nil, FilterAll, "", cfg)
	require.Equal(t, []string{"0123", "3"}, names(rows))
}

func TestUnknownSortKeyFallsBackToName(t *testing.T) {
	t.Parallel()

	cfg := SortConfig{Key: "no_such_column", Ascending: true}
	rows := Project(sampleRoster(), nil, FilterAll, "", cfg)
	require.Equal(t, []string{"Alice", "Bob", "Carol"}, names(rows))
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	roster := sampleRoster()
	Project(roster, samplePredictions(), FilterAll, "", SortConfig{Key: "gpa", Ascending: false})
	require.Equal(t, "Alice", roster[0].StudentName)
	require.Equal(t, "Carol", roster[2].StudentName)
}

func TestSearchSubstring(t *testing.T) {
	t.Parallel()

	rows := Project(sampleRoster(), nil, FilterAll, "ali", DefaultSort())
	require.Equal(t, []string{"Alice"}, names(rows))
}

func TestSearchTypoTolerant(t *testing.T) {
	t.Parallel()

	rows := Project(sampleRoster(), nil, FilterAll, "alcie", DefaultSort())
	require.Equal(t, []string{"Alice"}, names(rows))
}

func TestSearchShortQueryIsExact(t *testing.T) {
	t.Parallel()

	// a 3-rune query must not fuzzy-match everything
	rows := Project(sampleRoster(), nil, FilterAll, "xyz", DefaultSort())
	require.Empty(t, rows)
}

func TestFilterCycle(t *testing.T) {
	t.Parallel()

	f := FilterAll
	require.Equal(t, FilterAtRisk, f.Next())
	require.Equal(t, FilterNotAtRisk, f.Next().Next())
	require.Equal(t, FilterAll, f.Next().Next().Next())
}

func TestSortKeysCoverRegistry(t *testing.T) {
	t.Parallel()

	keys := SortKeys()
	require.Contains(t, keys, "gpa")
	require.Contains(t, keys, "student_name")
	require.Contains(t, keys, "parental_support")
}

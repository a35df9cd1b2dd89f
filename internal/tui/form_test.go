package tui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"riskwatch/internal/api"
)

func TestFormValidation(t *testing.T) {
	t.Parallel()

	f := newStudentForm()
	_, err := f.student()
	require.ErrorContains(t, err, "name")

	f.values["student_name"] = "Dana"
	f.values["age"] = "17"
	f.values["gpa"] = "2.9"
	f.values["absences"] = "4"
	f.values["study_time_weekly"] = "6.5"

	st, err := f.student()
	require.NoError(t, err)
	require.Equal(t, "Dana", st.StudentName)
	require.Equal(t, 17, st.Age)
	require.Equal(t, 2.9, st.GPA)
	require.Equal(t, "Some College", st.ParentalEducation)
	require.Equal(t, "High", st.ParentalSupport)

	f.values["gpa"] = "three"
	_, err = f.student()
	require.ErrorContains(t, err, "gpa")
}

func TestFormEditPrefill(t *testing.T) {
	t.Parallel()

	f := editStudentForm(api.Student{
		ID: 5, StudentName: "Bob", Age: 18, GPA: 2.1, Absences: 9,
		StudyTimeWeekly: 3, Gender: "Male", Ethnicity: "Other",
		ParentalEducation: "High School", Tutoring: "Yes",
		ParentalSupport: "Low", Extracurricular: "No", Sports: "Yes",
		Music: "No", Volunteering: "No",
	})
	require.True(t, f.editing)

	st, err := f.student()
	require.NoError(t, err)
	require.Equal(t, 5, st.ID)
	require.Equal(t, "Bob", st.StudentName)
	require.Equal(t, 2.1, st.GPA)
	require.Equal(t, "Low", st.ParentalSupport)
}

func TestFormCycleWrapsOptions(t *testing.T) {
	t.Parallel()

	f := newStudentForm()
	// move to the gender field
	for f.field().key != "gender" {
		f.next()
	}
	require.Equal(t, "Male", f.values["gender"])
	f.cycle(1)
	require.Equal(t, "Female", f.values["gender"])
	f.cycle(1)
	require.Equal(t, "Male", f.values["gender"])
	f.cycle(-1)
	require.Equal(t, "Female", f.values["gender"])
}

func TestFormBackspaceRemovesWholeRune(t *testing.T) {
	t.Parallel()

	f := newStudentForm()
	for _, r := range "José" {
		f.typeRune(r)
	}
	f.backspace()
	require.Equal(t, "Jos", f.values["student_name"])
	require.True(t, utf8.ValidString(f.values["student_name"]))

	f.backspace()
	f.backspace()
	f.backspace()
	require.Empty(t, f.values["student_name"])
	f.backspace() // empty field is a no-op
	require.Empty(t, f.values["student_name"])
}

func TestFormTypingIgnoredOnSelects(t *testing.T) {
	t.Parallel()

	f := newStudentForm()
	f.typeRune('A')
	f.backspace()
	f.typeRune('B')
	require.Equal(t, "B", f.values["student_name"])

	for f.field().key != "tutoring" {
		f.next()
	}
	f.typeRune('x')
	require.Equal(t, "No", f.values["tutoring"])
}

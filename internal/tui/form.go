package tui

import (
	"fmt"
	"strconv"
	"strings"

	"riskwatch/internal/api"
)

// studentForm is the add/edit record form. Text fields use a plain
// string buffer; categorical fields cycle through their options.

type formField struct {
	key     string
	label   string
	options []string // nil for free-text fields
}

var formFields = []formField{
	{key: "student_name", label: "Student Name"},
	{key: "age", label: "Age"},
	{key: "gpa", label: "GPA"},
	{key: "absences", label: "Absences"},
	{key: "study_time_weekly", label: "Weekly Study Time"},
	{key: "gender", label: "Gender", options: []string{"Male", "Female"}},
	{key: "ethnicity", label: "Ethnicity", options: []string{"Caucasian", "African American", "Asian", "Other"}},
	{key: "parental_education", label: "Parental Education", options: []string{"None", "High School", "Some College", "Bachelor's", "Higher Degree"}},
	{key: "tutoring", label: "Tutoring", options: []string{"No", "Yes"}},
	{key: "parental_support", label: "Parental Support", options: []string{"None", "Low", "Moderate", "High", "Very High"}},
	{key: "extracurricular", label: "Extracurricular", options: []string{"No", "Yes"}},
	{key: "sports", label: "Sports", options: []string{"No", "Yes"}},
	{key: "music", label: "Music", options: []string{"No", "Yes"}},
	{key: "volunteering", label: "Volunteering", options: []string{"No", "Yes"}},
}

type studentForm struct {
	editing bool
	id      int
	values  map[string]string
	cursor  int
}

// newStudentForm starts an empty add form with the same defaults as a
// fresh record.
func newStudentForm() *studentForm {
	f := &studentForm{values: map[string]string{}}
	for _, fld := range formFields {
		if fld.options != nil {
			f.values[fld.key] = fld.options[0]
		}
	}
	f.values["parental_education"] = "Some College"
	f.values["parental_support"] = "High"
	return f
}

// editStudentForm pre-fills the form from an existing record.
func editStudentForm(st api.Student) *studentForm {
	f := newStudentForm()
	f.editing = true
	f.id = st.ID
	f.values["student_name"] = st.StudentName
	f.values["age"] = strconv.Itoa(st.Age)
	f.values["gpa"] = trimFloat(st.GPA)
	f.values["absences"] = strconv.Itoa(st.Absences)
	f.values["study_time_weekly"] = trimFloat(st.StudyTimeWeekly)
	f.values["gender"] = st.Gender
	f.values["ethnicity"] = st.Ethnicity
	f.values["parental_education"] = st.ParentalEducation
	f.values["tutoring"] = st.Tutoring
	f.values["parental_support"] = st.ParentalSupport
	f.values["extracurricular"] = st.Extracurricular
	f.values["sports"] = st.Sports
	f.values["music"] = st.Music
	f.values["volunteering"] = st.Volunteering
	return f
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (f *studentForm) field() formField { return formFields[f.cursor] }

func (f *studentForm) next() { f.cursor = (f.cursor + 1) % len(formFields) }

func (f *studentForm) prev() {
	f.cursor--
	if f.cursor < 0 {
		f.cursor = len(formFields) - 1
	}
}

// cycle moves a categorical field through its options.
func (f *studentForm) cycle(delta int) {
	fld := f.field()
	if fld.options == nil {
		return
	}
	idx := 0
	for i, opt := range fld.options {
		if opt == f.values[fld.key] {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(fld.options)) % len(fld.options)
	f.values[fld.key] = fld.options[idx]
}

func (f *studentForm) typeRune(r rune) {
	fld := f.field()
	if fld.options != nil {
		return
	}
	f.values[fld.key] += string(r)
}

func (f *studentForm) backspace() {
	fld := f.field()
	if fld.options != nil {
		return
	}
	// drop the last rune, not the last byte
	if r := []rune(f.values[fld.key]); len(r) > 0 {
		f.values[fld.key] = string(r[:len(r)-1])
	}
}

// student validates the form and builds the record to send.
func (f *studentForm) student() (api.Student, error) {
	name := strings.TrimSpace(f.values["student_name"])
	if name == "" {
		return api.Student{}, fmt.Errorf("student name is required")
	}
	age, err := strconv.Atoi(strings.TrimSpace(f.values["age"]))
	if err != nil {
		return api.Student{}, fmt.Errorf("age must be a whole number")
	}
	gpa, err := strconv.ParseFloat(strings.TrimSpace(f.values["gpa"]), 64)
	if err != nil {
		return api.Student{}, fmt.Errorf("gpa must be a number")
	}
	absences, err := strconv.Atoi(strings.TrimSpace(f.values["absences"]))
	if err != nil {
		return api.Student{}, fmt.Errorf("absences must be a whole number")
	}
	study, err := strconv.ParseFloat(strings.TrimSpace(f.values["study_time_weekly"]), 64)
	if err != nil {
		return api.Student{}, fmt.Errorf("weekly study time must be a number")
	}
	return api.Student{
		ID:                f.id,
		StudentName:       name,
		Age:               age,
		GPA:               gpa,
		Absences:          absences,
		StudyTimeWeekly:   study,
		Gender:            f.values["gender"],
		Ethnicity:         f.values["ethnicity"],
		ParentalEducation: f.values["parental_education"],
		Tutoring:          f.values["tutoring"],
		ParentalSupport:   f.values["parental_support"],
		Extracurricular:   f.values["extracurricular"],
		Sports:            f.values["sports"],
		Music:             f.values["music"],
		Volunteering:      f.values["volunteering"],
	}, nil
}

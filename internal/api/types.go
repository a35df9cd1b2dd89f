package api

import "time"

// Student mirrors a student record as served by the tracking service.
// The client treats it as a read/write cache copy; the service owns it.
type Student struct {
	ID                int     `json:"id"`
	StudentName       string  `json:"student_name"`
	Age               int     `json:"age"`
	GPA               float64 `json:"gpa"`
	Absences          int     `json:"absences"`
	StudyTimeWeekly   float64 `json:"study_time_weekly"`
	Gender            string  `json:"gender"`
	Ethnicity         string  `json:"ethnicity"`
	ParentalEducation string  `json:"parental_education"`
	Tutoring          string  `json:"tutoring"`
	ParentalSupport   string  `json:"parental_support"`
	Extracurricular   string  `json:"extracurricular"`
	Sports            string  `json:"sports"`
	Music             string  `json:"music"`
	Volunteering      string  `json:"volunteering"`
}

// Prediction is the model's verdict for one student. Transient: the
// client keeps at most the latest one per student and never stores it.
type Prediction struct {
	StudentID      int    `json:"student_id"`
	StudentName    string `json:"student_name"`
	Prediction     int    `json:"prediction"`
	Label          string `json:"prediction_label"`
	Explanation    string `json:"explanation"`
	Recommendation string `json:"recommendation"`
}

// AtRisk reports whether the binary risk flag is set.
func (p Prediction) AtRisk() bool { return p.Prediction == 1 }

// Intervention statuses. Pending is the sole initial state; Completed
// is terminal.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// createdAtLayout is the timestamp format the service uses for
// intervention history entries.
const createdAtLayout = "2006-01-02 15:04"

// Intervention is a tracked follow-up action for a student.
type Intervention struct {
	ID             int     `json:"id"`
	StudentID      int     `json:"student_id,omitempty"`
	Recommendation string  `json:"recommendation"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes"`
	CreatedAt      string  `json:"created_at"`
}

// Pending reports whether the intervention still awaits action.
func (iv Intervention) Pending() bool { return iv.Status == StatusPending }

// CreatedTime parses the service timestamp. Returns the zero time when
// the field is absent or malformed; callers sorting on it treat those
// entries as oldest.
func (iv Intervention) CreatedTime() time.Time {
	t, err := time.Parse(createdAtLayout, iv.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// RiskDistribution is the at-risk / not-at-risk split across the roster.
type RiskDistribution struct {
	AtRisk    int `json:"at_risk"`
	NotAtRisk int `json:"not_at_risk"`
}

// DashboardStats carries the aggregate numbers behind the charts pane.
// GPADistribution is keyed by bin label ("0-1" .. "4+").
type DashboardStats struct {
	RiskDistribution RiskDistribution `json:"risk_distribution"`
	GPADistribution  map[string]int   `json:"gpa_distribution"`
}

// Credentials is a username/password pair for login and register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

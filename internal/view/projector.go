// Package view derives the displayed roster rows from store state and
// the user's filter/sort/search selections. Pure functions only; no
// I/O and no mutation of inputs.
package view

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"riskwatch/internal/api"
)

// RiskFilter narrows the roster by prediction outcome.
type RiskFilter int

const (
	FilterAll RiskFilter = iota
	FilterAtRisk
	FilterNotAtRisk
)

func (f RiskFilter) String() string {
	switch f {
	case FilterAtRisk:
		return "At Risk"
	case FilterNotAtRisk:
		return "Not At Risk"
	default:
		return "All"
	}
}

// Next cycles All -> At Risk -> Not At Risk -> All.
func (f RiskFilter) Next() RiskFilter {
	return (f + 1) % 3
}

// SortConfig is the active sort selection.
type SortConfig struct {
	Key       string
	Ascending bool
}

// DefaultSort matches the initial dashboard state: name, ascending.
func DefaultSort() SortConfig {
	return SortConfig{Key: "student_name", Ascending: true}
}

// RequestSort applies the toggle rule: re-selecting the active key
// flips direction, a new key resets to ascending.
func RequestSort(cfg SortConfig, key string) SortConfig {
	if cfg.Key == key {
		return SortConfig{Key: key, Ascending: !cfg.Ascending}
	}
	return SortConfig{Key: key, Ascending: true}
}

// Row is one projected roster line. Prediction is nil for students not
// yet predicted.
type Row struct {
	Student    api.Student
	Prediction *api.Prediction
}

// RiskLabel renders the risk column.
func (r Row) RiskLabel() string {
	if r.Prediction == nil {
		return "..."
	}
	return r.Prediction.Label
}

// Project builds the filtered, searched, sorted view of the roster.
// Risk filters keep only students whose prediction exists and matches;
// students with no prediction yet are visible only under FilterAll.
// Ties under the sort field break on student id, making the order
// total and reproducible for a fixed snapshot.
func Project(students []api.Student, preds map[int]api.Prediction, f RiskFilter, query string, cfg SortConfig) []Row {
	rows := make([]Row, 0, len(students))
	for _, st := range students {
		var p *api.Prediction
		if pred, ok := preds[st.ID]; ok {
			pc := pred
			p = &pc
		}
		if !matchesRisk(p, f) {
			continue
		}
		if !matchesQuery(st.StudentName, query) {
			continue
		}
		rows = append(rows, Row{Student: st, Prediction: p})
	}

	fld := fieldFor(cfg.Key)
	sort.SliceStable(rows, func(i, j int) bool {
		c := fld.compare(rows[i].Student, rows[j].Student)
		if c == 0 {
			c = rows[i].Student.ID - rows[j].Student.ID
		}
		if cfg.Ascending {
			return c < 0
		}
		return c > 0
	})
	return rows
}

func matchesRisk(p *api.Prediction, f RiskFilter) bool {
	switch f {
	case FilterAtRisk:
		return p != nil && p.AtRisk()
	case FilterNotAtRisk:
		return p != nil && !p.AtRisk()
	default:
		return true
	}
}

// matchesQuery matches the student name against the search box:
// case-insensitive substring, or a name token within levenshtein
// distance 2 of the query for typo tolerance. Short queries stay
// substring-only; edit distance on 1-3 runes matches everything.
func matchesQuery(name, query string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, query) {
		return true
	}
	if len([]rune(query)) < 4 {
		return false
	}
	for _, token := range strings.Fields(lower) {
		if levenshtein.ComputeDistance(token, query) <= 2 {
			return true
		}
	}
	return false
}

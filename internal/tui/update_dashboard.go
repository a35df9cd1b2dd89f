package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"riskwatch/internal/view"
)

// sortHotkeys maps dashboard number keys to sortable columns, standing
// in for clickable column headers.
var sortHotkeys = map[string]string{
	"1": "student_name",
	"2": "gpa",
	"3": "absences",
	"4": "study_time_weekly",
	"5": "age",
}

func (m *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.confirmDel != nil {
		return m.updateConfirmDelete(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
		return m, nil
	case "f":
		m.filter = m.filter.Next()
		m.clampCursor()
		m.setStatus("Filter: " + m.filter.String())
		return m, nil
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil
	case "r":
		m.loading = true
		m.setStatus("Refreshing...")
		return m, m.loadRosterCmd()
	case "p":
		if row, ok := m.selectedRow(); ok {
			m.setStatus("Predicting " + row.Student.StudentName + "...")
			return m, m.predictOneCmd(row.Student.ID)
		}
		return m, nil
	case "n":
		m.form = newStudentForm()
		return m, nil
	case "e":
		if row, ok := m.selectedRow(); ok {
			m.form = editStudentForm(row.Student)
		}
		return m, nil
	case "d":
		if row, ok := m.selectedRow(); ok {
			st := row.Student
			m.confirmDel = &st
		}
		return m, nil
	case "c":
		m.showCharts = !m.showCharts
		return m, nil
	case "enter":
		if row, ok := m.selectedRow(); ok {
			return m.gotoDetail(row.Student)
		}
		return m, nil
	case "L":
		return m.logout()
	}

	if key, ok := sortHotkeys[msg.String()]; ok {
		m.sortCfg = view.RequestSort(m.sortCfg, key)
		dir := "ascending"
		if !m.sortCfg.Ascending {
			dir = "descending"
		}
		m.setStatus("Sort: " + key + " " + dir)
		return m, nil
	}
	return m, nil
}

func (m *App) selectedRow() (view.Row, bool) {
	rows := m.rows()
	if len(rows) == 0 || m.cursor >= len(rows) {
		return view.Row{}, false
	}
	return rows[m.cursor], true
}

func (m *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.searchInput.Blur()
		if msg.String() == "esc" {
			m.searchInput.SetValue("")
		}
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.clampCursor()
	return m, cmd
}

func (m *App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// jump to the student's intervention log
		id := m.modal.Prediction.StudentID
		m.modal = nil
		for _, st := range m.svc.Roster.Students() {
			if st.ID == id {
				return m.gotoDetail(st)
			}
		}
		return m, nil
	case "esc", "q":
		m.modal = nil
		return m, nil
	}
	return m, nil
}

func (m *App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmDel.ID
		m.setStatus("Deleting...")
		return m, m.deleteStudentCmd(id)
	case "n", "N", "esc":
		m.confirmDel = nil
		return m, nil
	}
	return m, nil
}

func (m *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.setStatus("Edit cancelled.")
		return m, nil
	case "tab", "down":
		m.form.next()
		return m, nil
	case "shift+tab", "up":
		m.form.prev()
		return m, nil
	case "left":
		m.form.cycle(-1)
		return m, nil
	case "right":
		m.form.cycle(1)
		return m, nil
	case "backspace":
		m.form.backspace()
		return m, nil
	case "enter":
		st, err := m.form.student()
		if err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.setStatus("Saving...")
		return m, m.saveStudentCmd(m.form.editing, st)
	}
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			m.form.typeRune(r)
		}
	}
	if msg.Type == tea.KeySpace {
		m.form.typeRune(' ')
	}
	return m, nil
}

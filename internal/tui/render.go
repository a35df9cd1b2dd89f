package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"riskwatch/internal/api"
)

func (m *App) View() string {
	var body string
	switch m.screen {
	case screenLogin, screenRegister:
		body = m.viewAuth()
	case screenDashboard:
		body = m.viewDashboard()
	case screenDetail:
		body = m.viewDetail()
	}
	return body + "\n" + m.viewStatus()
}

func (m *App) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m *App) viewAuth() string {
	title := "riskwatch — sign in"
	action := "log in"
	if m.screen == screenRegister {
		title = "riskwatch — create account"
		action = "register"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString("  " + m.userInput.View() + "\n")
	b.WriteString("  " + m.passInput.View() + "\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("enter %s · tab switch field · ctrl+r toggle login/register · ctrl+c quit", action)))
	return b.String()
}

// dashboard table columns: name, gpa, absences, study time, risk.
var dashColumns = []struct {
	header string
	width  int
}{
	{"Name (1)", 24},
	{"GPA (2)", 8},
	{"Abs (3)", 8},
	{"Study (4)", 10},
	{"Age (5)", 8},
	{"Risk Status", 14},
}

func (m *App) viewDashboard() string {
	if m.form != nil {
		return m.viewForm()
	}
	if m.modal != nil {
		return m.viewModal()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Risk Analysis Dashboard") + "\n")

	if m.showCharts && (len(m.overview.Risk) > 0 || len(m.overview.GPA) > 0) {
		charts := lipgloss.JoinHorizontal(lipgloss.Top,
			boxStyle.Render(renderChart("Risk Split", m.overview.Risk, 30)),
			boxStyle.Render(renderChart("GPA Distribution", m.overview.GPA, 30)),
		)
		b.WriteString(charts + "\n")
	}

	filterLine := "Filter: " + m.filter.String()
	if q := m.searchInput.Value(); q != "" {
		filterLine += "  Search: " + q
	}
	if m.searching {
		filterLine = "Search: " + m.searchInput.View()
	}
	if m.loading {
		filterLine += "  (loading...)"
	}
	b.WriteString(dimStyle.Render(filterLine) + "\n")

	var header strings.Builder
	for _, col := range dashColumns {
		header.WriteString(pad(col.header, col.width))
	}
	b.WriteString(headerStyle.Render(header.String()) + "\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("no students match") + "\n")
	}
	for i, row := range rows {
		st := row.Student
		cells := []string{
			st.StudentName,
			fmt.Sprintf("%.2f", st.GPA),
			fmt.Sprintf("%d", st.Absences),
			fmt.Sprintf("%.1f", st.StudyTimeWeekly),
			fmt.Sprintf("%d", st.Age),
		}
		var line strings.Builder
		for j, cell := range cells {
			line.WriteString(pad(cell, dashColumns[j].width))
		}
		risk := riskLabelStyle(row.RiskLabel()).Render(row.RiskLabel())
		rendered := line.String()
		if i == m.cursor {
			rendered = selectedStyle.Render(rendered)
		}
		b.WriteString(rendered + risk + "\n")
	}

	if m.confirmDel != nil {
		b.WriteString("\n" + errStyle.Render(fmt.Sprintf("Delete %s? (y/n)", m.confirmDel.StudentName)) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("1-5 sort (again flips) · f filter · / search · p predict · n new · e edit · d delete · enter log · r refresh · c charts · L logout · q quit"))
	return b.String()
}

func (m *App) viewModal() string {
	p := m.modal.Prediction
	var b strings.Builder
	b.WriteString(titleStyle.Render("Prediction Result") + "\n\n")
	b.WriteString("Student: " + p.StudentName + "\n")
	b.WriteString("Status:  " + riskLabelStyle(p.Label).Render(p.Label) + "\n\n")
	b.WriteString("Reasoning: " + p.Explanation + "\n")
	b.WriteString("Recommendation: " + p.Recommendation + "\n")
	if m.modal.TrackNote != "" {
		b.WriteString("\n" + statusStyle.Render(m.modal.TrackNote) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter view student log · esc close"))
	return boxStyle.Render(b.String())
}

func (m *App) viewForm() string {
	title := "Add New Student"
	if m.form.editing {
		title = "Edit Student Record"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	for i, fld := range formFields {
		value := m.form.values[fld.key]
		if fld.options != nil {
			value = "< " + value + " >"
		}
		line := fmt.Sprintf("%-20s %s", fld.label+":", value)
		if i == m.form.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("tab/shift+tab move · left/right choose · enter save · esc cancel"))
	return b.String()
}

func (m *App) viewDetail() string {
	st := m.detailStudent
	var b strings.Builder
	b.WriteString(titleStyle.Render(st.StudentName+"'s Profile") + "\n")

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(fmt.Sprintf("GPA\n%.2f", st.GPA)),
		boxStyle.Render(fmt.Sprintf("Absences\n%d", st.Absences)),
		boxStyle.Render(fmt.Sprintf("Study Time\n%.1f hrs/wk", st.StudyTimeWeekly)),
		boxStyle.Render(fmt.Sprintf("Parental Support\n%s", st.ParentalSupport)),
	)
	b.WriteString(cards + "\n\n")
	b.WriteString(headerStyle.Render("Intervention Log") + "\n")

	if len(m.interventions) == 0 {
		b.WriteString(dimStyle.Render("No interventions logged for this student.") + "\n")
	}
	for i, iv := range m.interventions {
		status := pendingStyle.Render(iv.Status)
		if !iv.Pending() {
			status = doneStyle.Render(iv.Status)
		}
		line := fmt.Sprintf("%s  %s  [%s]", m.createdLabel(iv), ansi.Truncate(iv.Recommendation, 60, "…"), status)
		if i == m.ivCursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
		notes := "N/A"
		if iv.Notes != nil && *iv.Notes != "" {
			notes = *iv.Notes
		}
		b.WriteString(dimStyle.Render("    notes: "+notes) + "\n")
	}

	if m.editingNotes {
		b.WriteString("\n" + "Completion notes: " + m.notesInput.View() + "\n")
		b.WriteString(dimStyle.Render("enter complete · esc cancel"))
	} else {
		b.WriteString("\n" + dimStyle.Render("enter complete pending · r refresh · esc back · L logout"))
	}
	return b.String()
}

// createdLabel renders an intervention timestamp, reformatting it with
// the configured date format when the service value parses.
func (m *App) createdLabel(iv api.Intervention) string {
	if m.cfg.UI.DateFormat == "" {
		return iv.CreatedAt
	}
	t := iv.CreatedTime()
	if t.IsZero() {
		return iv.CreatedAt
	}
	return t.Format(m.cfg.UI.DateFormat)
}

// pad right-pads or truncates a cell to the column width.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width-1, "…")
	if n := width - lipgloss.Width(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s
}

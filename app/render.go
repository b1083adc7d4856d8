package app

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/Skryldev/employee-tracker/models"
)

// newTable returns a writer that renders to a.out with headers kept as
// written.
func (a *App) newTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row(header))
	return t
}

func (a *App) renderEmployees(rows []models.EmployeeDetail) {
	t := a.newTable("employee_id", "first_name", "last_name", "title", "department", "salary", "manager_name")
	for _, r := range rows {
		manager := ""
		if r.ManagerName != nil {
			manager = *r.ManagerName
		}
		t.AppendRow(table.Row{r.ID, r.FirstName, r.LastName, r.Title, r.Department, money(r.Salary), manager})
	}
	t.Render()
}

func (a *App) renderDepartments(deps []models.Department) {
	t := a.newTable("id", "name")
	for _, d := range deps {
		t.AppendRow(table.Row{d.ID, d.Name})
	}
	t.Render()
}

func (a *App) renderRoles(roles []models.Role) {
	t := a.newTable("id", "title", "department", "salary")
	for _, r := range roles {
		t.AppendRow(table.Row{r.ID, r.Title, r.Department, money(r.Salary)})
	}
	t.Render()
}

func (a *App) renderBudget(department string, total decimal.Decimal) {
	t := a.newTable("department", "total_budget")
	t.AppendRow(table.Row{department, money(total)})
	t.Render()
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

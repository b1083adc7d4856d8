package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skryldev/employee-tracker/db"
	"github.com/Skryldev/employee-tracker/models"
)

const noManager = "None"

// ─────────────────────────────────────────────────────────────────────────────
// Views
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) viewAll(ctx context.Context) error {
	rows, err := a.employees.ListDetails(ctx)
	if err != nil {
		return err
	}
	a.renderEmployees(rows)
	return nil
}

func (a *App) viewByDepartment(ctx context.Context) error {
	dep, err := a.selectDepartment(ctx, "Select a department:")
	if err != nil {
		return err
	}
	rows, err := a.employees.ListByDepartment(ctx, dep.ID)
	if err != nil {
		return err
	}
	a.renderEmployees(rows)
	return nil
}

func (a *App) viewByManager(ctx context.Context) error {
	managers, err := a.employees.ListManagers(ctx)
	if err != nil {
		return err
	}
	labels := make([]string, len(managers))
	for i, m := range managers {
		labels[i] = m.Name
	}
	i, err := a.choose("managers", "Select a manager:", labels)
	if err != nil {
		return err
	}
	rows, err := a.employees.ListByManager(ctx, managers[i].ID)
	if err != nil {
		return err
	}
	a.renderEmployees(rows)
	return nil
}

func (a *App) viewDepartments(ctx context.Context) error {
	deps, err := a.departments.List(ctx)
	if err != nil {
		return err
	}
	a.renderDepartments(deps)
	return nil
}

func (a *App) viewBudget(ctx context.Context) error {
	dep, err := a.selectDepartment(ctx, "Select a department:")
	if err != nil {
		return err
	}
	total, err := a.departments.Budget(ctx, dep.ID)
	if err != nil {
		return err
	}
	a.renderBudget(dep.Name, total)
	return nil
}

func (a *App) viewRoles(ctx context.Context) error {
	roles, err := a.roles.List(ctx)
	if err != nil {
		return err
	}
	a.renderRoles(roles)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) addRole(ctx context.Context) error {
	deps, err := a.departments.List(ctx)
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		return nothingTo("departments")
	}

	title, err := a.prompt.Input("Enter the title of the role:")
	if err != nil {
		return err
	}
	rawSalary, err := a.prompt.Input("Enter the salary for the role:")
	if err != nil {
		return err
	}
	salary, err := decimal.NewFromString(strings.TrimSpace(rawSalary))
	if err != nil {
		return fmt.Errorf("invalid salary %q: %w", rawSalary, err)
	}
	i, err := a.choose("departments", "Select the department:", departmentNames(deps))
	if err != nil {
		return err
	}

	err = a.roles.Insert(ctx, models.CreateRoleParams{
		Title:        title,
		Salary:       salary,
		DepartmentID: deps[i].ID,
	})
	if err != nil {
		if db.IsCheckViolation(err) {
			return fmt.Errorf("salary must be positive, got %s: %w", salary, err)
		}
		return err
	}
	fmt.Fprintln(a.out, "New role added!")
	return nil
}

func (a *App) addEmployee(ctx context.Context) error {
	roles, err := a.roles.List(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return nothingTo("roles")
	}
	employees, err := a.employees.List(ctx)
	if err != nil {
		return err
	}

	first, err := a.prompt.Input("Enter the employee's first name:")
	if err != nil {
		return err
	}
	last, err := a.prompt.Input("Enter the employee's last name:")
	if err != nil {
		return err
	}
	titles := make([]string, len(roles))
	for i, r := range roles {
		titles[i] = r.Title
	}
	i, err := a.choose("roles", "Select the employee's role:", titles)
	if err != nil {
		return err
	}
	managerID, err := a.selectOptionalEmployee("Select the employee's manager:", employees)
	if err != nil {
		return err
	}

	err = a.employees.Insert(ctx, models.CreateEmployeeParams{
		FirstName: first,
		LastName:  last,
		RoleID:    roles[i].ID,
		ManagerID: managerID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "New employee added!")
	return nil
}

func (a *App) addDepartment(ctx context.Context) error {
	name, err := a.prompt.Input("Enter the name of the new department:")
	if err != nil {
		return err
	}
	if err := a.departments.Insert(ctx, models.CreateDepartmentParams{Name: name}); err != nil {
		if db.IsDuplicateKey(err) {
			return fmt.Errorf("department %q already exists: %w", name, err)
		}
		return err
	}
	fmt.Fprintln(a.out, "New department added!")
	return nil
}

func (a *App) updateManager(ctx context.Context) error {
	employees, err := a.employees.List(ctx)
	if err != nil {
		return err
	}
	labels := make([]string, len(employees))
	for i, e := range employees {
		labels[i] = e.FullName()
	}
	i, err := a.choose("employees", "Select an employee:", labels)
	if err != nil {
		return err
	}
	// Every employee is a candidate, including the one being updated.
	managerID, err := a.selectOptionalEmployee("Select the new manager:", employees)
	if err != nil {
		return err
	}

	err = a.employees.UpdateManager(ctx, models.UpdateManagerParams{
		EmployeeID: employees[i].ID,
		ManagerID:  managerID,
	})
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("employee %q no longer exists: %w", labels[i], err)
		}
		return err
	}
	fmt.Fprintln(a.out, "Employee manager updated!")
	return nil
}

func (a *App) deleteDepartment(ctx context.Context) error {
	dep, err := a.selectDepartment(ctx, "Select a department to delete:")
	if err != nil {
		return err
	}
	if err := a.departments.Delete(ctx, dep.ID); err != nil {
		switch {
		case db.IsForeignKeyViolation(err):
			return fmt.Errorf("department %q still has roles: %w", dep.Name, err)
		case db.IsNotFound(err):
			return fmt.Errorf("department %q no longer exists: %w", dep.Name, err)
		}
		return err
	}
	fmt.Fprintln(a.out, "Department deleted!")
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Selection helpers
// ─────────────────────────────────────────────────────────────────────────────

func nothingTo(what string) error {
	return fmt.Errorf("%w: no %s", ErrNothingToSelect, what)
}

// choose prompts only when there is something to choose from.
func (a *App) choose(what, message string, labels []string) (int, error) {
	if len(labels) == 0 {
		return 0, nothingTo(what)
	}
	return a.prompt.Select(message, labels)
}

func (a *App) selectDepartment(ctx context.Context, message string) (models.Department, error) {
	deps, err := a.departments.List(ctx)
	if err != nil {
		return models.Department{}, err
	}
	i, err := a.choose("departments", message, departmentNames(deps))
	if err != nil {
		return models.Department{}, err
	}
	return deps[i], nil
}

// selectOptionalEmployee offers "None" followed by every employee and
// returns nil for "None".
func (a *App) selectOptionalEmployee(message string, employees []models.Employee) (*int64, error) {
	labels := make([]string, 0, len(employees)+1)
	labels = append(labels, noManager)
	for _, e := range employees {
		labels = append(labels, e.FullName())
	}
	i, err := a.prompt.Select(message, labels)
	if err != nil {
		return nil, err
	}
	if i == 0 {
		return nil, nil
	}
	id := employees[i-1].ID
	return &id, nil
}

func departmentNames(deps []models.Department) []string {
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.Name
	}
	return names
}

package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/employee-tracker/db"
	"github.com/Skryldev/employee-tracker/models"
)

// ─────────────────────────────────────────────────────────────────────────────
// EmployeeRepository interface
// ─────────────────────────────────────────────────────────────────────────────

// EmployeeRepository defines the persistence operations on employees.
type EmployeeRepository interface {
	Insert(ctx context.Context, params models.CreateEmployeeParams) error
	List(ctx context.Context) ([]models.Employee, error)
	ListDetails(ctx context.Context) ([]models.EmployeeDetail, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.EmployeeDetail, error)
	ListByManager(ctx context.Context, managerID int64) ([]models.EmployeeDetail, error)
	ListManagers(ctx context.Context) ([]models.Manager, error)
	UpdateManager(ctx context.Context, params models.UpdateManagerParams) error
}

type employeeRepo struct {
	q db.Querier
}

// NewEmployeeRepo returns an EmployeeRepository backed by q.
func NewEmployeeRepo(q db.Querier) EmployeeRepository {
	return &employeeRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL constants
// ─────────────────────────────────────────────────────────────────────────────

// sqlEmployeeDetail is the shared projection of the listing queries. The
// manager name is NULL exactly when the employee has no manager.
const sqlEmployeeDetail = `
		SELECT emp.id AS employee_id,
		       emp.first_name,
		       emp.last_name,
		       role.title,
		       dep.name AS department,
		       role.salary,
		       CASE WHEN mgr.id IS NULL THEN NULL
		            ELSE CONCAT(mgr.first_name, ' ', mgr.last_name)
		       END AS manager_name
		FROM   employee emp
		JOIN   role ON emp.role_id = role.id
		JOIN   department dep ON role.department_id = dep.id
		LEFT   JOIN employee mgr ON emp.manager_id = mgr.id`

const (
	sqlInsertEmployee = `
		INSERT INTO employee (first_name, last_name, role_id, manager_id)
		VALUES (?, ?, ?, ?)`

	sqlListEmployees = `
		SELECT id, first_name, last_name, role_id, manager_id
		FROM   employee
		ORDER  BY last_name, first_name, id`

	sqlListEmployeeDetails = sqlEmployeeDetail + `
		ORDER  BY emp.id`

	sqlListEmployeesByDepartment = sqlEmployeeDetail + `
		WHERE  dep.id = ?
		ORDER  BY emp.last_name, emp.first_name`

	sqlListEmployeesByManager = sqlEmployeeDetail + `
		WHERE  emp.manager_id = ?
		ORDER  BY emp.last_name, emp.first_name`

	sqlListManagers = `
		SELECT mgr.id, CONCAT(mgr.first_name, ' ', mgr.last_name) AS manager_name
		FROM   employee mgr
		WHERE  EXISTS (SELECT 1 FROM employee sub WHERE sub.manager_id = mgr.id)
		ORDER  BY mgr.last_name, mgr.first_name`

	sqlUpdateManager = `
		UPDATE employee
		SET    manager_id = ?
		WHERE  id = ?`
)

// Insert creates a new employee. A nil ManagerID stores NULL.
func (r *employeeRepo) Insert(ctx context.Context, params models.CreateEmployeeParams) error {
	_, err := r.q.Exec(ctx, sqlInsertEmployee,
		params.FirstName, params.LastName, params.RoleID, params.ManagerID)
	if err != nil {
		return fmt.Errorf("repo/employee: insert: %w", err)
	}
	return nil
}

// List returns the plain employee rows ordered by last name then first name.
func (r *employeeRepo) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.q.Select(ctx, &employees, sqlListEmployees); err != nil {
		return nil, fmt.Errorf("repo/employee: list: %w", err)
	}
	return employees, nil
}

// ListDetails returns every employee with role, department and manager.
func (r *employeeRepo) ListDetails(ctx context.Context) ([]models.EmployeeDetail, error) {
	return r.details(ctx, "list details", sqlListEmployeeDetails)
}

// ListByDepartment returns the employees of one department ordered by last
// name then first name.
func (r *employeeRepo) ListByDepartment(ctx context.Context, departmentID int64) ([]models.EmployeeDetail, error) {
	return r.details(ctx, "list by department", sqlListEmployeesByDepartment, departmentID)
}

// ListByManager returns the direct reports of one manager ordered by last
// name then first name.
func (r *employeeRepo) ListByManager(ctx context.Context, managerID int64) ([]models.EmployeeDetail, error) {
	return r.details(ctx, "list by manager", sqlListEmployeesByManager, managerID)
}

// ListManagers returns the employees that have at least one direct report.
func (r *employeeRepo) ListManagers(ctx context.Context) ([]models.Manager, error) {
	var managers []models.Manager
	if err := r.q.Select(ctx, &managers, sqlListManagers); err != nil {
		return nil, fmt.Errorf("repo/employee: list managers: %w", err)
	}
	return managers, nil
}

// UpdateManager sets or clears an employee's manager.
// Returns db.ErrNotFound if the employee does not exist.
func (r *employeeRepo) UpdateManager(ctx context.Context, params models.UpdateManagerParams) error {
	res, err := r.q.Exec(ctx, sqlUpdateManager, params.ManagerID, params.EmployeeID)
	if err != nil {
		return fmt.Errorf("repo/employee: update manager: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repo/employee: update manager: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repo/employee: update manager of %d: %w", params.EmployeeID, db.ErrNotFound)
	}
	return nil
}

func (r *employeeRepo) details(ctx context.Context, op, query string, args ...any) ([]models.EmployeeDetail, error) {
	var rows []models.EmployeeDetail
	if err := r.q.Select(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("repo/employee: %s: %w", op, err)
	}
	return rows, nil
}

var _ EmployeeRepository = (*employeeRepo)(nil)

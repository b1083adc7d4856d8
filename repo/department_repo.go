package repo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skryldev/employee-tracker/db"
	"github.com/Skryldev/employee-tracker/models"
)

// ─────────────────────────────────────────────────────────────────────────────
// DepartmentRepository interface
// ─────────────────────────────────────────────────────────────────────────────

// DepartmentRepository defines the persistence operations on departments.
type DepartmentRepository interface {
	Insert(ctx context.Context, params models.CreateDepartmentParams) error
	List(ctx context.Context) ([]models.Department, error)
	Delete(ctx context.Context, id int64) error
	Budget(ctx context.Context, id int64) (decimal.Decimal, error)
}

type departmentRepo struct {
	q db.Querier
}

// NewDepartmentRepo returns a DepartmentRepository backed by q.
// q can be a *db.DB or *db.Tx.
func NewDepartmentRepo(q db.Querier) DepartmentRepository {
	return &departmentRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	sqlInsertDepartment = `
		INSERT INTO department (name)
		VALUES (?)`

	sqlListDepartments = `
		SELECT id, name
		FROM   department
		ORDER  BY id`

	sqlDeleteDepartment = `
		DELETE FROM department WHERE id = ?`

	// Employees are counted through their role; roles without employees
	// contribute nothing.
	sqlDepartmentBudget = `
		SELECT COALESCE(SUM(r.salary), 0)
		FROM   employee e
		JOIN   role r ON e.role_id = r.id
		WHERE  r.department_id = ?`
)

// Insert creates a new department. Returns db.ErrDuplicateKey when the name
// is already taken.
func (r *departmentRepo) Insert(ctx context.Context, params models.CreateDepartmentParams) error {
	if _, err := r.q.Exec(ctx, sqlInsertDepartment, params.Name); err != nil {
		return fmt.Errorf("repo/department: insert: %w", err)
	}
	return nil
}

// List returns every department ordered by id.
func (r *departmentRepo) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := r.q.Select(ctx, &departments, sqlListDepartments); err != nil {
		return nil, fmt.Errorf("repo/department: list: %w", err)
	}
	return departments, nil
}

// Delete removes a department by id. Deletion is rejected with
// db.ErrForeignKeyViolation while roles still reference the department.
// Returns db.ErrNotFound if no row was deleted.
func (r *departmentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.Exec(ctx, sqlDeleteDepartment, id)
	if err != nil {
		return fmt.Errorf("repo/department: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repo/department: delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repo/department: delete %d: %w", id, db.ErrNotFound)
	}
	return nil
}

// Budget returns the summed salary of every employee whose role belongs to
// the department. A department without employees has a budget of zero.
func (r *departmentRepo) Budget(ctx context.Context, id int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.Get(ctx, &total, sqlDepartmentBudget, id); err != nil {
		return decimal.Zero, fmt.Errorf("repo/department: budget: %w", err)
	}
	return total, nil
}

var _ DepartmentRepository = (*departmentRepo)(nil)

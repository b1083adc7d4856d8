package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/employee-tracker/db"
	"github.com/Skryldev/employee-tracker/models"
)

// RoleRepository defines the persistence operations on roles.
type RoleRepository interface {
	Insert(ctx context.Context, params models.CreateRoleParams) error
	List(ctx context.Context) ([]models.Role, error)
}

type roleRepo struct {
	q db.Querier
}

// NewRoleRepo returns a RoleRepository backed by q.
func NewRoleRepo(q db.Querier) RoleRepository {
	return &roleRepo{q: q}
}

const (
	sqlInsertRole = `
		INSERT INTO role (title, salary, department_id)
		VALUES (?, ?, ?)`

	sqlListRoles = `
		SELECT role.id, role.title, role.salary, role.department_id,
		       department.name AS department
		FROM   role
		JOIN   department ON role.department_id = department.id
		ORDER  BY role.id`
)

// Insert creates a new role. A non-positive salary is rejected by the
// schema with db.ErrCheckViolation; an unknown department with
// db.ErrForeignKeyViolation.
func (r *roleRepo) Insert(ctx context.Context, params models.CreateRoleParams) error {
	_, err := r.q.Exec(ctx, sqlInsertRole, params.Title, params.Salary, params.DepartmentID)
	if err != nil {
		return fmt.Errorf("repo/role: insert: %w", err)
	}
	return nil
}

// List returns every role with its department name, ordered by id.
func (r *roleRepo) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.q.Select(ctx, &roles, sqlListRoles); err != nil {
		return nil, fmt.Errorf("repo/role: list: %w", err)
	}
	return roles, nil
}

var _ RoleRepository = (*roleRepo)(nil)

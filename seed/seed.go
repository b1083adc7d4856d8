// Package seed loads a small sample organisation into an empty database.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skryldev/employee-tracker/db"
)

// ErrNotEmpty is returned by Run when the schema already holds departments,
// roles or employees.
var ErrNotEmpty = errors.New("seed: database is not empty")

type role struct {
	title      string
	salary     decimal.Decimal
	department string
}

type employee struct {
	first, last string
	role        string
	// manager is "" for employees without one. Managers are listed before
	// their reports.
	managerFirst, managerLast string
}

var departments = []string{"Engineering", "Finance", "Legal", "Sales"}

var roles = []role{
	{"Lead Engineer", decimal.NewFromInt(150000), "Engineering"},
	{"Software Engineer", decimal.NewFromInt(120000), "Engineering"},
	{"Account Manager", decimal.NewFromInt(160000), "Finance"},
	{"Accountant", decimal.NewFromInt(125000), "Finance"},
	{"Legal Team Lead", decimal.NewFromInt(250000), "Legal"},
	{"Lawyer", decimal.NewFromInt(190000), "Legal"},
	{"Sales Lead", decimal.NewFromInt(100000), "Sales"},
	{"Salesperson", decimal.NewFromInt(80000), "Sales"},
}

var employees = []employee{
	{"John", "Doe", "Sales Lead", "", ""},
	{"Mike", "Chan", "Salesperson", "John", "Doe"},
	{"Ashley", "Rodriguez", "Lead Engineer", "", ""},
	{"Kevin", "Tupik", "Software Engineer", "Ashley", "Rodriguez"},
	{"Kunal", "Singh", "Account Manager", "", ""},
	{"Malia", "Brown", "Accountant", "Kunal", "Singh"},
	{"Sarah", "Lourd", "Legal Team Lead", "", ""},
	{"Tom", "Allen", "Lawyer", "Sarah", "Lourd"},
}

const (
	sqlCountRows = `
		SELECT (SELECT COUNT(*) FROM department)
		     + (SELECT COUNT(*) FROM role)
		     + (SELECT COUNT(*) FROM employee)`

	sqlInsertDepartment = `INSERT INTO department (name) VALUES (?)`

	sqlInsertRole = `
		INSERT INTO role (title, salary, department_id)
		SELECT ?, CAST(? AS DECIMAL(10, 2)), dep.id
		FROM   department dep
		WHERE  dep.name = ?`

	// A NULL manager name matches no row, leaving manager_id NULL.
	sqlInsertEmployee = `
		INSERT INTO employee (first_name, last_name, role_id, manager_id)
		SELECT ?, ?, role.id,
		       (SELECT mgr.id FROM employee mgr
		        WHERE  mgr.first_name = ? AND mgr.last_name = ?)
		FROM   role
		WHERE  role.title = ?`
)

// Run inserts the sample departments, roles and employees in one
// transaction. It returns ErrNotEmpty without writing anything unless all
// three tables are empty.
func Run(ctx context.Context, d *db.DB) error {
	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		var existing int64
		if err := tx.Get(ctx, &existing, sqlCountRows); err != nil {
			return fmt.Errorf("count rows: %w", err)
		}
		if existing > 0 {
			return ErrNotEmpty
		}

		if err := db.BatchExec(ctx, tx, sqlInsertDepartment, departments,
			func(name string) []any { return []any{name} }); err != nil {
			return fmt.Errorf("departments: %w", err)
		}
		if err := db.BatchExec(ctx, tx, sqlInsertRole, roles,
			func(r role) []any { return []any{r.title, r.salary, r.department} }); err != nil {
			return fmt.Errorf("roles: %w", err)
		}
		if err := db.BatchExec(ctx, tx, sqlInsertEmployee, employees,
			func(e employee) []any {
				return []any{e.first, e.last, nullable(e.managerFirst), nullable(e.managerLast), e.role}
			}); err != nil {
			return fmt.Errorf("employees: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrNotEmpty) {
		return err
	}
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

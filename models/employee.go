package models

import "github.com/shopspring/decimal"

// Employee represents a row in the "employee" table.
// ManagerID is nil for employees without a manager.
type Employee struct {
	ID        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	RoleID    int64  `db:"role_id"`
	ManagerID *int64 `db:"manager_id"`
}

// FullName joins first and last name the same way manager names are built
// in SQL.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeDetail is one row of the employee listing: the employee joined to
// its role, the role's department and, if any, its manager.
type EmployeeDetail struct {
	ID          int64           `db:"employee_id"`
	FirstName   string          `db:"first_name"`
	LastName    string          `db:"last_name"`
	Title       string          `db:"title"`
	Department  string          `db:"department"`
	Salary      decimal.Decimal `db:"salary"`
	ManagerName *string         `db:"manager_name"`
}

// Manager is an employee that has at least one direct report.
type Manager struct {
	ID   int64  `db:"id"`
	Name string `db:"manager_name"`
}

// CreateEmployeeParams holds the fields required to create an employee.
// A nil ManagerID stores NULL.
type CreateEmployeeParams struct {
	FirstName string
	LastName  string
	RoleID    int64
	ManagerID *int64
}

// UpdateManagerParams sets (or, with a nil ManagerID, clears) the manager of
// one employee.
type UpdateManagerParams struct {
	EmployeeID int64
	ManagerID  *int64
}

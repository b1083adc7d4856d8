package models

import "github.com/shopspring/decimal"

// Role represents a row in the "role" table. Department carries the joined
// department name when the row comes from a listing query.
type Role struct {
	ID           int64           `db:"id"`
	Title        string          `db:"title"`
	Salary       decimal.Decimal `db:"salary"`
	DepartmentID int64           `db:"department_id"`
	Department   string          `db:"department"`
}

// CreateRoleParams holds the fields required to create a role.
type CreateRoleParams struct {
	Title        string
	Salary       decimal.Decimal
	DepartmentID int64
}

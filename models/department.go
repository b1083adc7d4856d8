package models

// Department represents a row in the "department" table.
type Department struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// CreateDepartmentParams holds the fields required to create a department.
type CreateDepartmentParams struct {
	Name string
}

package app

// Action identifies one entry of the main menu.
type Action string

const (
	ActionViewAll         Action = "VIEW_ALL"
	ActionViewByDept      Action = "VIEW_DEP"
	ActionViewByManager   Action = "VIEW_MGR"
	ActionViewDepartments Action = "VIEW_ALL_DEP"
	ActionViewBudget      Action = "VIEW_BUDGET"
	ActionViewRoles       Action = "VIEW_ROLES"
	ActionAddRole         Action = "ADD_ROLE"
	ActionAddEmployee     Action = "ADD_EMPLOYEE"
	ActionAddDepartment   Action = "ADD_DEP"
	ActionUpdateManager   Action = "UPDATE_MGR"
	ActionDeleteDept      Action = "DELETE_DEP"
	ActionExit            Action = "EXIT"
)

type menuItem struct {
	label  string
	action Action
}

// menu is shown top to bottom.
var menu = []menuItem{
	{"View all employees", ActionViewAll},
	{"View employees by department", ActionViewByDept},
	{"View employees by manager", ActionViewByManager},
	{"View all departments", ActionViewDepartments},
	{"View total budget by department", ActionViewBudget},
	{"View all roles", ActionViewRoles},
	{"Add new role", ActionAddRole},
	{"Add new employee", ActionAddEmployee},
	{"Add new department", ActionAddDepartment},
	{"Update employee manager", ActionUpdateManager},
	{"Delete a department", ActionDeleteDept},
	{"Exit application", ActionExit},
}

func menuLabels() []string {
	labels := make([]string, len(menu))
	for i, item := range menu {
		labels[i] = item.label
	}
	return labels
}

// Package app runs the interactive menu: it shows the action list, hands the
// choice to its handler and comes back to the menu until the user exits.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Skryldev/employee-tracker/db"
	"github.com/Skryldev/employee-tracker/prompt"
	"github.com/Skryldev/employee-tracker/repo"
)

const (
	Banner   = "Thank you for using EMPLOYEE MANAGEMENT SYSTEM 3000!"
	Farewell = "Exiting the application..."
)

// ErrNothingToSelect is returned by a handler whose selection list came back
// empty, before the user is prompted.
var ErrNothingToSelect = errors.New("app: nothing to select")

type handler func(ctx context.Context) error

// App is one interactive session over a single database handle.
type App struct {
	prompt      prompt.Prompter
	out         io.Writer
	logger      *slog.Logger
	departments repo.DepartmentRepository
	roles       repo.RoleRepository
	employees   repo.EmployeeRepository
	handlers    map[Action]handler
}

// New wires the repositories over q. Tables and confirmations go to out;
// failures are reported through logger.
func New(q db.Querier, p prompt.Prompter, out io.Writer, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		prompt:      p,
		out:         out,
		logger:      logger,
		departments: repo.NewDepartmentRepo(q),
		roles:       repo.NewRoleRepo(q),
		employees:   repo.NewEmployeeRepo(q),
	}
	a.handlers = map[Action]handler{
		ActionViewAll:         a.viewAll,
		ActionViewByDept:      a.viewByDepartment,
		ActionViewByManager:   a.viewByManager,
		ActionViewDepartments: a.viewDepartments,
		ActionViewBudget:      a.viewBudget,
		ActionViewRoles:       a.viewRoles,
		ActionAddRole:         a.addRole,
		ActionAddEmployee:     a.addEmployee,
		ActionAddDepartment:   a.addDepartment,
		ActionUpdateManager:   a.updateManager,
		ActionDeleteDept:      a.deleteDepartment,
	}
	return a
}

// Run prints the banner and loops over the menu until the user picks EXIT.
// A failing action is logged and the menu is shown again. Run returns
// prompt.ErrInterrupted if the user aborts a prompt, and any error reading
// the menu choice itself.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, Banner)
	for {
		idx, err := a.prompt.Select("Select an action to perform:", menuLabels())
		if err != nil {
			return err
		}
		action := menu[idx].action

		done, err := a.Handle(ctx, action)
		if done {
			return nil
		}
		if errors.Is(err, prompt.ErrInterrupted) {
			return err
		}
		if err != nil {
			a.logger.ErrorContext(ctx, "action failed", "action", string(action), "error", err)
		}
	}
}

// Handle runs the handler of one action. EXIT, and any action without a
// handler, prints the farewell and reports done.
func (a *App) Handle(ctx context.Context, action Action) (done bool, err error) {
	h, ok := a.handlers[action]
	if !ok {
		fmt.Fprintln(a.out, Farewell)
		return true, nil
	}
	return false, h(db.WithAction(ctx, string(action)))
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	priority    int
	due         string
	groupName   string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdeck add [--desc <text>] [--priority <1-3>] [--due <yyyy-mm-dd>] [--group <name>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.IntVar(&c.priority, "priority", service.PriorityMinor, "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.groupName, "group", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	if c.priority < service.PriorityMinor || c.priority > service.PriorityCritical {
		fmt.Fprintf(errOut, "error: priority out of range: %d\n", c.priority)
		return exitcode.UserError
	}

	draft := service.TaskDraft{
		Title:       title,
		Description: c.description,
		Priority:    c.priority,
	}

	if c.due != "" {
		due, err := time.Parse("2006-01-02", c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s\n", c.due)
			return exitcode.UserError
		}
		draft.DueDate = due
	}

	if c.groupName != "" {
		group, err := findGroup(ctx, svc, c.groupName)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		draft.GroupID = &group.ID
	}

	if err := svc.CreateTask(ctx, draft); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

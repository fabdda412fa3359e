package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&RmGroupCmd{})
}

// RmGroupCmd implements the rmgroup command. Deletion is blocked
// client-side while the group still has other members.
type RmGroupCmd struct{}

func (c *RmGroupCmd) Name() string      { return "rmgroup" }
func (c *RmGroupCmd) Aliases() []string { return nil }
func (c *RmGroupCmd) Synopsis() string  { return "Delete a group" }
func (c *RmGroupCmd) Usage() string     { return "taskdeck rmgroup <name>" }
func (c *RmGroupCmd) NeedsAuth() bool   { return true }

func (c *RmGroupCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmGroupCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: group name required")
		return exitcode.UserError
	}

	group, err := findGroup(ctx, svc, name)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := svc.DeleteGroup(ctx, group); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

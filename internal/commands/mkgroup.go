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
	Register(&MkGroupCmd{})
}

// MkGroupCmd implements the mkgroup command.
type MkGroupCmd struct {
	color string
	icon  string
}

func (c *MkGroupCmd) Name() string      { return "mkgroup" }
func (c *MkGroupCmd) Aliases() []string { return nil }
func (c *MkGroupCmd) Synopsis() string  { return "Create a group" }
func (c *MkGroupCmd) Usage() string     { return "taskdeck mkgroup [--color <hex>] [--icon <icon>] <name>" }
func (c *MkGroupCmd) NeedsAuth() bool   { return true }

func (c *MkGroupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.color, "color", "#000000", "")
	fs.StringVar(&c.icon, "icon", "", "")
}

func (c *MkGroupCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: group name required")
		return exitcode.UserError
	}

	draft := service.GroupDraft{Name: name, Color: c.color, Icon: c.icon}
	if err := svc.CreateGroup(ctx, draft); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                       List tasks grouped by priority
  taskdeck list [common flags] [--by priority|group]
  taskdeck add [common flags] [--desc <text>] [--priority <1-3>] [--due <yyyy-mm-dd>] [--group <name>] <title...>
  taskdeck done [common flags] <id|title>
  taskdeck rm [common flags] <id|title>
  taskdeck groups [common flags]
  taskdeck mkgroup [common flags] [--color <hex>] [--icon <icon>] <name>
  taskdeck rmgroup [common flags] <name>
  taskdeck invite [common flags] <group> <username>
  taskdeck invite-link [common flags] <group>
  taskdeck accept [common flags] <token>
  taskdeck promote [common flags] <group> <username>
  taskdeck demote [common flags] <group> <username>
  taskdeck kick [common flags] <group> <username>
  taskdeck leave [common flags] <group>
  taskdeck login [common flags] [--remember] <username> <password>
  taskdeck logout [common flags]
  taskdeck register [common flags] <username> <email> <password>
  taskdeck whoami [common flags]
  taskdeck help
  taskdeck version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`

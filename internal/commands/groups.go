package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"taskdeck/internal/aggregate"
	"taskdeck/internal/collection"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&GroupsCmd{})
}

// GroupsCmd implements the groups command: group listing annotated
// with task and member counts.
type GroupsCmd struct{}

func (c *GroupsCmd) Name() string      { return "groups" }
func (c *GroupsCmd) Aliases() []string { return nil }
func (c *GroupsCmd) Synopsis() string  { return "List groups with stats" }
func (c *GroupsCmd) Usage() string     { return "taskdeck groups [common flags]" }
func (c *GroupsCmd) NeedsAuth() bool   { return true }

func (c *GroupsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *GroupsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	tasks := collection.NewStore(svc.Tasks)
	groups := collection.NewStore(svc.Groups)

	var eg errgroup.Group
	eg.Go(func() error { return tasks.Sync(ctx) })
	eg.Go(func() error { return groups.Sync(ctx) })
	if err := eg.Wait(); err != nil {
		return fail(errOut, err)
	}

	stats := aggregate.Stats(groups.Items(), tasks.Items())
	if len(stats) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no groups")
		}
		return exitcode.Success
	}

	for _, s := range stats {
		output.FormatGroupStats(out, s)
	}
	return exitcode.Success
}

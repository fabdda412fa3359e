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
	Register(&ListCmd{})
}

// ListCmd implements the list command: it syncs both collections and
// prints the two-level grouped view.
type ListCmd struct {
	by string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks grouped for display" }
func (c *ListCmd) Usage() string     { return "taskdeck list [--by priority|group]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.by, "by", "priority", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var mode aggregate.Mode
	switch c.by {
	case "priority":
		mode = aggregate.ByPriority
	case "group":
		mode = aggregate.ByGroup
	default:
		fmt.Fprintf(errOut, "error: invalid value for --by: %s\n", c.by)
		return exitcode.UserError
	}

	tasks := collection.NewStore(svc.Tasks)
	groups := collection.NewStore(svc.Groups)

	// The two collections sync independently; neither blocks the other.
	var eg errgroup.Group
	eg.Go(func() error { return tasks.Sync(ctx) })
	eg.Go(func() error { return groups.Sync(ctx) })
	if err := eg.Wait(); err != nil {
		return fail(errOut, err)
	}

	items := aggregate.TaskItems(tasks.Items(), groups.Items())
	if len(items) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks")
		}
		return exitcode.Success
	}

	sections := aggregate.ForDisplay(items, mode)
	for _, section := range sections {
		output.FormatSectionHeader(out, output.SectionLabel(section.Key, mode == aggregate.ByPriority))
		for _, sub := range section.Subs {
			output.FormatSubsectionHeader(out, output.SectionLabel(sub.Key, mode == aggregate.ByGroup))
			for _, item := range sub.Items {
				output.FormatTaskItem(out, item)
			}
		}
	}
	return exitcode.Success
}

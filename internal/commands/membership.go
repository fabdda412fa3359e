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
	Register(&PromoteCmd{})
	Register(&DemoteCmd{})
	Register(&KickCmd{})
	Register(&LeaveCmd{})
}

// PromoteCmd implements the promote command.
type PromoteCmd struct{}

func (c *PromoteCmd) Name() string      { return "promote" }
func (c *PromoteCmd) Aliases() []string { return nil }
func (c *PromoteCmd) Synopsis() string  { return "Promote a group member to admin" }
func (c *PromoteCmd) Usage() string     { return "taskdeck promote <group> <username>" }
func (c *PromoteCmd) NeedsAuth() bool   { return true }

func (c *PromoteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PromoteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	group, member, code := resolveGroupMember(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := svc.AddAdmin(ctx, group.ID, member.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// DemoteCmd implements the demote command. Demoting the sole remaining
// admin is blocked client-side.
type DemoteCmd struct{}

func (c *DemoteCmd) Name() string      { return "demote" }
func (c *DemoteCmd) Aliases() []string { return nil }
func (c *DemoteCmd) Synopsis() string  { return "Demote a group admin to member" }
func (c *DemoteCmd) Usage() string     { return "taskdeck demote <group> <username>" }
func (c *DemoteCmd) NeedsAuth() bool   { return true }

func (c *DemoteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DemoteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	group, member, code := resolveGroupMember(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := svc.RemoveAdmin(ctx, group, member.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// KickCmd implements the kick command.
type KickCmd struct{}

func (c *KickCmd) Name() string      { return "kick" }
func (c *KickCmd) Aliases() []string { return nil }
func (c *KickCmd) Synopsis() string  { return "Remove a member from a group" }
func (c *KickCmd) Usage() string     { return "taskdeck kick <group> <username>" }
func (c *KickCmd) NeedsAuth() bool   { return true }

func (c *KickCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *KickCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	group, member, code := resolveGroupMember(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := svc.RemoveMember(ctx, group.ID, member.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// LeaveCmd implements the leave command. Leaving as the sole remaining
// admin is blocked client-side.
type LeaveCmd struct{}

func (c *LeaveCmd) Name() string      { return "leave" }
func (c *LeaveCmd) Aliases() []string { return nil }
func (c *LeaveCmd) Synopsis() string  { return "Leave a group" }
func (c *LeaveCmd) Usage() string     { return "taskdeck leave <group>" }
func (c *LeaveCmd) NeedsAuth() bool   { return true }

func (c *LeaveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LeaveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: group required")
		return exitcode.UserError
	}

	group, err := findGroup(ctx, svc, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	user, err := svc.CurrentUser(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	if err := svc.LeaveGroup(ctx, group, user.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// resolveGroupMember parses the common <group> <username> argument pair.
func resolveGroupMember(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (service.Group, service.Member, int) {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: group and username required")
		return service.Group{}, service.Member{}, exitcode.UserError
	}

	group, err := findGroup(ctx, svc, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Group{}, service.Member{}, exitcode.UserError
	}

	member, err := findMember(group, args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Group{}, service.Member{}, exitcode.UserError
	}

	return group, member, exitcode.Success
}

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
	Register(&InviteCmd{})
	Register(&InviteLinkCmd{})
	Register(&AcceptCmd{})
}

// InviteCmd implements the invite command.
type InviteCmd struct{}

func (c *InviteCmd) Name() string      { return "invite" }
func (c *InviteCmd) Aliases() []string { return nil }
func (c *InviteCmd) Synopsis() string  { return "Invite a user to a group" }
func (c *InviteCmd) Usage() string     { return "taskdeck invite <group> <username>" }
func (c *InviteCmd) NeedsAuth() bool   { return true }

func (c *InviteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *InviteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: group and username required")
		return exitcode.UserError
	}

	group, err := findGroup(ctx, svc, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := svc.CreateInvitation(ctx, group.ID, args[1]); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// InviteLinkCmd implements the invite-link command.
type InviteLinkCmd struct{}

func (c *InviteLinkCmd) Name() string      { return "invite-link" }
func (c *InviteLinkCmd) Aliases() []string { return nil }
func (c *InviteLinkCmd) Synopsis() string  { return "Generate a shareable invitation link" }
func (c *InviteLinkCmd) Usage() string     { return "taskdeck invite-link <group>" }
func (c *InviteLinkCmd) NeedsAuth() bool   { return true }

func (c *InviteLinkCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *InviteLinkCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: group required")
		return exitcode.UserError
	}

	group, err := findGroup(ctx, svc, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	link, err := svc.GenerateInvitationLink(ctx, group.ID)
	if err != nil {
		return fail(errOut, err)
	}

	fmt.Fprintln(out, link)
	return exitcode.Success
}

// AcceptCmd implements the accept command.
type AcceptCmd struct{}

func (c *AcceptCmd) Name() string      { return "accept" }
func (c *AcceptCmd) Aliases() []string { return nil }
func (c *AcceptCmd) Synopsis() string  { return "Accept an invitation token" }
func (c *AcceptCmd) Usage() string     { return "taskdeck accept <token>" }
func (c *AcceptCmd) NeedsAuth() bool   { return true }

func (c *AcceptCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AcceptCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: invitation token required")
		return exitcode.UserError
	}

	if err := svc.AcceptInvitation(ctx, args[0]); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

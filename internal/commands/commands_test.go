package commands_test

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

// run parses args through the command's own flag set and executes it
// against the fake service.
func run(t *testing.T, cmd commands.Command, svc service.Service, args ...string) (int, string, string) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("flag parse: %v", err)
	}

	cfg := &config.Config{Dir: t.TempDir()}
	var out, errOut bytes.Buffer
	code := cmd.Run(context.Background(), cfg, svc, fs.Args(), &out, &errOut)
	return code, out.String(), errOut.String()
}

// seeded builds a fake with one shared group and a mixed task list.
func seeded() (*testutil.FakeService, int64) {
	svc := testutil.NewFakeService()
	gid := svc.AddGroup("Work",
		service.Member{ID: 1, Username: "alice", Role: service.RoleAdmin},
		service.Member{ID: 11, Username: "bob", Role: service.RoleMember},
	)
	svc.AddTask("write report", service.PriorityModerate, &gid, false)
	svc.AddTask("buy milk", service.PriorityMinor, nil, false)
	svc.AddTask("fix bug", service.PriorityCritical, &gid, true)
	return svc, gid
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, &commands.VersionCmd{}, nil)
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if out != "taskdeck "+commands.Version+"\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestWhoami(t *testing.T) {
	svc := testutil.NewFakeService()
	code, out, _ := run(t, &commands.WhoamiCmd{}, svc)
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if out != "alice\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestListByPriority(t *testing.T) {
	svc, _ := seeded()
	code, out, _ := run(t, &commands.ListCmd{}, svc)
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	testutil.GoldenString(t, "list_by_priority", out)
}

func TestListByGroup(t *testing.T) {
	svc, _ := seeded()
	code, out, _ := run(t, &commands.ListCmd{}, svc, "-by", "group")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	testutil.GoldenString(t, "list_by_group", out)
}

func TestListInvalidMode(t *testing.T) {
	svc, _ := seeded()
	code, _, errOut := run(t, &commands.ListCmd{}, svc, "-by", "color")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errOut, "invalid value for --by") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
}

func TestListEmpty(t *testing.T) {
	svc := testutil.NewFakeService()
	code, out, _ := run(t, &commands.ListCmd{}, svc)
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if out != "no tasks\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestListBackendFailure(t *testing.T) {
	svc, _ := seeded()
	svc.TasksErr = testutil.ErrNotFound
	code, _, _ := run(t, &commands.ListCmd{}, svc)
	if code != exitcode.BackendError {
		t.Fatalf("exit code = %d", code)
	}
}

func TestGroupsStats(t *testing.T) {
	svc, _ := seeded()
	code, out, _ := run(t, &commands.GroupsCmd{}, svc)
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	testutil.GoldenString(t, "groups", out)
}

func TestAddCreatesTask(t *testing.T) {
	svc, gid := seeded()
	code, out, _ := run(t, &commands.AddCmd{}, svc,
		"-priority", "2", "-group", "Work", "send", "invoices")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if out != "ok\n" {
		t.Errorf("unexpected output: %q", out)
	}

	tasks, _ := svc.Tasks(context.Background())
	var created *service.Task
	for i := range tasks {
		if tasks[i].Title == "send invoices" {
			created = &tasks[i]
		}
	}
	if created == nil {
		t.Fatal("task was not created")
	}
	if created.Priority != service.PriorityModerate {
		t.Errorf("priority = %d", created.Priority)
	}
	if created.GroupID == nil || *created.GroupID != gid {
		t.Errorf("group id = %v, want %d", created.GroupID, gid)
	}
}

func TestAddRejectsPriorityOutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	code, _, errOut := run(t, &commands.AddCmd{}, svc, "-priority", "9", "oops")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errOut, "priority out of range") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
	if tasks, _ := svc.Tasks(context.Background()); len(tasks) != 0 {
		t.Errorf("task created despite rejected priority")
	}
}

func TestAddRequiresTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	code, _, _ := run(t, &commands.AddCmd{}, svc)
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
}

func TestDoneByTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("buy milk", service.PriorityMinor, nil, false)

	code, _, _ := run(t, &commands.DoneCmd{}, svc, "buy milk")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}

	task, ok := svc.TaskByID(id)
	if !ok || !task.IsCompleted {
		t.Errorf("task not marked completed: %+v", task)
	}
}

func TestDoneUndoByID(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("buy milk", service.PriorityMinor, nil, true)

	code, _, _ := run(t, &commands.DoneCmd{}, svc, "-undo", "1")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}

	task, _ := svc.TaskByID(id)
	if task.IsCompleted {
		t.Errorf("task still completed after undo")
	}
}

func TestDoneUnknownTask(t *testing.T) {
	svc := testutil.NewFakeService()
	code, _, errOut := run(t, &commands.DoneCmd{}, svc, "no such task")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errOut, "task not found") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
}

func TestRmDeletesTask(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("buy milk", service.PriorityMinor, nil, false)

	code, _, _ := run(t, &commands.RmCmd{}, svc, "buy milk")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if _, ok := svc.TaskByID(id); ok {
		t.Errorf("task still present after rm")
	}
}

func TestRmGroupBlockedWhileMembersRemain(t *testing.T) {
	svc, _ := seeded()
	code, _, errOut := run(t, &commands.RmGroupCmd{}, svc, "Work")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errOut, "still has") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
	if svc.GroupCount() != 1 {
		t.Errorf("group deleted despite remaining members")
	}
}

func TestRmGroupLastMember(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddGroup("Solo", service.Member{ID: 1, Username: "alice", Role: service.RoleAdmin})

	code, _, _ := run(t, &commands.RmGroupCmd{}, svc, "Solo")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if svc.GroupCount() != 0 {
		t.Errorf("group not deleted")
	}
}

func TestDemoteSoleAdminBlocked(t *testing.T) {
	svc, _ := seeded()
	code, _, errOut := run(t, &commands.DemoteCmd{}, svc, "Work", "alice")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errOut, "only admin") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
}

func TestPromoteThenDemote(t *testing.T) {
	svc, _ := seeded()

	code, _, _ := run(t, &commands.PromoteCmd{}, svc, "Work", "bob")
	if code != exitcode.Success {
		t.Fatalf("promote exit code = %d", code)
	}

	// Two admins now, so demoting alice is allowed.
	code, _, _ = run(t, &commands.DemoteCmd{}, svc, "Work", "alice")
	if code != exitcode.Success {
		t.Fatalf("demote exit code = %d", code)
	}
}

func TestLeaveSoleAdminBlocked(t *testing.T) {
	svc, _ := seeded()
	code, _, errOut := run(t, &commands.LeaveCmd{}, svc, "Work")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(errOut, "only admin") {
		t.Errorf("unexpected stderr: %q", errOut)
	}
}

func TestInviteLink(t *testing.T) {
	svc, _ := seeded()
	code, out, _ := run(t, &commands.InviteLinkCmd{}, svc, "Work")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "/invitations/") || !strings.Contains(out, "accept") {
		t.Errorf("unexpected link: %q", out)
	}
}

func TestKickRemovesMember(t *testing.T) {
	svc, _ := seeded()
	code, _, _ := run(t, &commands.KickCmd{}, svc, "Work", "bob")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}

	groups, _ := svc.Groups(context.Background())
	if len(groups[0].Members) != 1 {
		t.Errorf("member not removed: %+v", groups[0].Members)
	}
}

func TestMutationFailureIsBackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("buy milk", service.PriorityMinor, nil, false)
	svc.MutationErr = testutil.ErrNotFound

	code, _, _ := run(t, &commands.DoneCmd{}, svc, "buy milk")
	if code != exitcode.BackendError {
		t.Fatalf("exit code = %d", code)
	}
}

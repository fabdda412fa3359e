package taskapi_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"taskdeck/internal/api"
	"taskdeck/internal/backend/taskapi"
	"taskdeck/internal/credstore"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

func newBackendClient(t *testing.T, backend *testutil.FakeBackend) *taskapi.Client {
	t.Helper()

	dir := t.TempDir()
	creds, err := credstore.Open(filepath.Join(dir, "credentials.bin"), filepath.Join(dir, "secret.key"))
	if err != nil {
		t.Fatalf("open credstore: %v", err)
	}
	if err := creds.Set(credstore.KeyAccess, backend.Access); err != nil {
		t.Fatalf("seed access token: %v", err)
	}
	if err := creds.Set(credstore.KeyRefresh, backend.Refresh); err != nil {
		t.Fatalf("seed refresh token: %v", err)
	}

	session := api.New(backend.URL(), 0, creds, "device-1")
	session.SetAccessToken(backend.Access)
	return taskapi.New(session)
}

func TestTasksDecodesWireModel(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	backend.Tasks = []map[string]any{
		{"id": 1, "title": "write report", "description": "q3", "priority": 2,
			"due_date": "2026-09-01", "group": 7, "is_completed": false},
		{"id": 2, "title": "buy milk", "priority": 1, "group": nil, "is_completed": true},
	}

	client := newBackendClient(t, backend)
	tasks, err := client.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	first := tasks[0]
	if first.Title != "write report" || first.Description != "q3" {
		t.Errorf("unexpected task: %+v", first)
	}
	if first.GroupID == nil || *first.GroupID != 7 {
		t.Errorf("group id = %v, want 7", first.GroupID)
	}
	if first.DueDate.Format("2006-01-02") != "2026-09-01" {
		t.Errorf("due date = %v", first.DueDate)
	}

	second := tasks[1]
	if second.GroupID != nil {
		t.Errorf("expected nil group id, got %v", second.GroupID)
	}
	if !second.IsCompleted {
		t.Errorf("expected completed task")
	}
}

func TestTasksClampsWirePriority(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	backend.Tasks = []map[string]any{
		{"id": 1, "title": "a", "priority": 0},
		{"id": 2, "title": "b", "priority": 99},
		{"id": 3, "title": "c", "priority": 3},
	}

	client := newBackendClient(t, backend)
	tasks, err := client.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}

	want := []int{service.PriorityMinor, service.PriorityMinor, service.PriorityCritical}
	for i, task := range tasks {
		if task.Priority != want[i] {
			t.Errorf("task %d: priority = %d, want %d", task.ID, task.Priority, want[i])
		}
	}
}

func TestTasksToleratesBadDueDate(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	backend.Tasks = []map[string]any{
		{"id": 1, "title": "a", "priority": 1, "due_date": "not a date"},
	}

	client := newBackendClient(t, backend)
	tasks, err := client.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if !tasks[0].DueDate.IsZero() {
		t.Errorf("expected zero due date, got %v", tasks[0].DueDate)
	}
}

func TestGroupsDecodesMembers(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	backend.Groups = []map[string]any{
		{"id": 1, "name": "Work", "color": "#ff0000", "icon": "star", "members": []map[string]any{
			{"id": 10, "username": "alice", "role": "admin"},
			{"id": 11, "username": "bob", "role": "member"},
		}},
	}

	client := newBackendClient(t, backend)
	groups, err := client.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	group := groups[0]
	if group.Name != "Work" || group.Color != "#ff0000" || group.Icon != "star" {
		t.Errorf("unexpected group: %+v", group)
	}
	if len(group.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(group.Members))
	}
	if group.AdminCount() != 1 {
		t.Errorf("admin count = %d", group.AdminCount())
	}
}

func TestCurrentUser(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()

	client := newBackendClient(t, backend)
	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" || user.Status != "active" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestDeleteGroupPreconditionSkipsNetwork(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()

	client := newBackendClient(t, backend)
	group := service.Group{ID: 1, Name: "Work", Members: []service.Member{
		{ID: 10, Username: "alice", Role: service.RoleAdmin},
		{ID: 11, Username: "bob", Role: service.RoleMember},
	}}

	err := client.DeleteGroup(context.Background(), group)
	var pre *service.PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if got := backend.Calls("/groups/1/"); got != 0 {
		t.Errorf("expected no network call, got %d", got)
	}
}

func TestRemoveAdminPreconditionSkipsNetwork(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()

	client := newBackendClient(t, backend)
	group := service.Group{ID: 1, Name: "Work", Members: []service.Member{
		{ID: 10, Username: "alice", Role: service.RoleAdmin},
		{ID: 11, Username: "bob", Role: service.RoleMember},
	}}

	err := client.RemoveAdmin(context.Background(), group, 10)
	var pre *service.PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if got := backend.Calls("/groups/1/admins/10/"); got != 0 {
		t.Errorf("expected no network call, got %d", got)
	}

	// Demoting a non-sole admin goes through.
	group.Members = append(group.Members, service.Member{ID: 12, Username: "carol", Role: service.RoleAdmin})
	if err := client.RemoveAdmin(context.Background(), group, 10); err != nil {
		t.Fatalf("RemoveAdmin with two admins: %v", err)
	}
	if got := backend.Calls("/groups/1/admins/10/"); got != 1 {
		t.Errorf("expected 1 network call, got %d", got)
	}
}

func TestLeaveGroupPreconditionSkipsNetwork(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()

	client := newBackendClient(t, backend)
	group := service.Group{ID: 1, Name: "Work", Members: []service.Member{
		{ID: 10, Username: "alice", Role: service.RoleAdmin},
		{ID: 11, Username: "bob", Role: service.RoleMember},
	}}

	err := client.LeaveGroup(context.Background(), group, 10)
	var pre *service.PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if got := backend.Calls("/groups/1/leave/"); got != 0 {
		t.Errorf("expected no network call, got %d", got)
	}

	// A plain member leaves without ceremony.
	if err := client.LeaveGroup(context.Background(), group, 11); err != nil {
		t.Fatalf("LeaveGroup as member: %v", err)
	}
	if got := backend.Calls("/groups/1/leave/"); got != 1 {
		t.Errorf("expected 1 network call, got %d", got)
	}
}

func TestMutationsHitExpectedPaths(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	client := newBackendClient(t, backend)
	ctx := context.Background()

	if err := client.CreateTask(ctx, service.TaskDraft{Title: "a", Priority: 1}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := client.SetTaskCompleted(ctx, 5, true); err != nil {
		t.Fatalf("SetTaskCompleted: %v", err)
	}
	if err := client.DeleteTask(ctx, 5); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := client.CreateGroup(ctx, service.GroupDraft{Name: "Work", Color: "#000000"}); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if err := client.CreateInvitation(ctx, 1, "bob"); err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}

	if got := backend.Calls("/todos/"); got != 1 {
		t.Errorf("/todos/: %d calls", got)
	}
	if got := backend.Calls("/todos/5/"); got != 2 {
		t.Errorf("/todos/5/: %d calls", got)
	}
	if got := backend.Calls("/groups/"); got != 1 {
		t.Errorf("/groups/: %d calls", got)
	}
	if got := backend.Calls("/invitations/create/"); got != 1 {
		t.Errorf("/invitations/create/: %d calls", got)
	}
}

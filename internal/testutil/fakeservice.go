// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"taskdeck/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for
// testing commands. It mirrors the backend's client-side preconditions.
type FakeService struct {
	mu     sync.RWMutex
	user   service.User
	tasks  []service.Task
	groups []service.Group
	nextID int64

	// Error injection for testing
	CurrentUserErr error
	TasksErr       error
	GroupsErr      error
	MutationErr    error
}

// NewFakeService creates a FakeService with a default user.
func NewFakeService() *FakeService {
	return &FakeService{
		user:   service.User{ID: 1, Username: "alice", Status: "active"},
		nextID: 1,
	}
}

// SetUser replaces the current user.
func (f *FakeService) SetUser(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = u
}

// AddTask adds a task and returns its id.
func (f *FakeService) AddTask(title string, priority int, groupID *int64, completed bool) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       title,
		Priority:    priority,
		GroupID:     groupID,
		IsCompleted: completed,
	})
	return id
}

// AddGroup adds a group and returns its id.
func (f *FakeService) AddGroup(name string, members ...service.Member) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.groups = append(f.groups, service.Group{ID: id, Name: name, Members: members})
	return id
}

// TaskByID returns the stored task, if present.
func (f *FakeService) TaskByID(id int64) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// GroupCount returns the number of stored groups.
func (f *FakeService) GroupCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.groups)
}

// CurrentUser implements service.Service.
func (f *FakeService) CurrentUser(ctx context.Context) (service.User, error) {
	if f.CurrentUserErr != nil {
		return service.User{}, f.CurrentUserErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.user, nil
}

// Tasks implements service.Service.
func (f *FakeService) Tasks(ctx context.Context) ([]service.Task, error) {
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// Groups implements service.Service.
func (f *FakeService) Groups(ctx context.Context) ([]service.Group, error) {
	if f.GroupsErr != nil {
		return nil, f.GroupsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Group, len(f.groups))
	copy(out, f.groups)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, draft service.TaskDraft) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	f.AddTask(draft.Title, draft.Priority, draft.GroupID, false)
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, taskID int64, draft service.TaskDraft) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks[i].Title = draft.Title
			f.tasks[i].Description = draft.Description
			f.tasks[i].Priority = draft.Priority
			f.tasks[i].DueDate = draft.DueDate
			f.tasks[i].GroupID = draft.GroupID
			return nil
		}
	}
	return ErrNotFound
}

// SetTaskCompleted implements service.Service.
func (f *FakeService) SetTaskCompleted(ctx context.Context, taskID int64, completed bool) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks[i].IsCompleted = completed
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID int64) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// CreateGroup implements service.Service.
func (f *FakeService) CreateGroup(ctx context.Context, draft service.GroupDraft) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.groups = append(f.groups, service.Group{
		ID:    id,
		Name:  draft.Name,
		Color: draft.Color,
		Icon:  draft.Icon,
		Members: []service.Member{
			{ID: f.user.ID, Username: f.user.Username, Role: service.RoleAdmin},
		},
	})
	return nil
}

// UpdateGroup implements service.Service.
func (f *FakeService) UpdateGroup(ctx context.Context, groupID int64, draft service.GroupDraft) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.groups {
		if g.ID == groupID {
			f.groups[i].Name = draft.Name
			f.groups[i].Color = draft.Color
			f.groups[i].Icon = draft.Icon
			return nil
		}
	}
	return ErrNotFound
}

// DeleteGroup implements service.Service.
func (f *FakeService) DeleteGroup(ctx context.Context, group service.Group) error {
	if len(group.Members) > 1 {
		return service.Precondition("group %q still has %d members", group.Name, len(group.Members))
	}
	if f.MutationErr != nil {
		return f.MutationErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.groups {
		if g.ID == group.ID {
			f.groups = append(f.groups[:i], f.groups[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// AddAdmin implements service.Service.
func (f *FakeService) AddAdmin(ctx context.Context, groupID, userID int64) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	return f.setRole(groupID, userID, service.RoleAdmin)
}

// RemoveAdmin implements service.Service.
func (f *FakeService) RemoveAdmin(ctx context.Context, group service.Group, userID int64) error {
	if group.AdminCount() == 1 && hasAdmin(group, userID) {
		return service.Precondition("cannot demote the only admin of group %q", group.Name)
	}
	if f.MutationErr != nil {
		return f.MutationErr
	}
	return f.setRole(group.ID, userID, service.RoleMember)
}

// RemoveMember implements service.Service.
func (f *FakeService) RemoveMember(ctx context.Context, groupID, userID int64) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	return f.dropMember(groupID, userID)
}

// LeaveGroup implements service.Service.
func (f *FakeService) LeaveGroup(ctx context.Context, group service.Group, selfID int64) error {
	if group.AdminCount() == 1 && hasAdmin(group, selfID) {
		return service.Precondition("cannot leave group %q as its only admin", group.Name)
	}
	if f.MutationErr != nil {
		return f.MutationErr
	}
	return f.dropMember(group.ID, selfID)
}

// CreateInvitation implements service.Service.
func (f *FakeService) CreateInvitation(ctx context.Context, groupID int64, username string) error {
	return f.MutationErr
}

// AcceptInvitation implements service.Service.
func (f *FakeService) AcceptInvitation(ctx context.Context, token string) error {
	if f.MutationErr != nil {
		return f.MutationErr
	}
	if strings.TrimSpace(token) == "" {
		return ErrNotFound
	}
	return nil
}

// GenerateInvitationLink implements service.Service.
func (f *FakeService) GenerateInvitationLink(ctx context.Context, groupID int64) (string, error) {
	if f.MutationErr != nil {
		return "", f.MutationErr
	}
	return fmt.Sprintf("https://example.com/invitations/g%d/accept", groupID), nil
}

func (f *FakeService) setRole(groupID, userID int64, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for gi, g := range f.groups {
		if g.ID != groupID {
			continue
		}
		for mi, m := range g.Members {
			if m.ID == userID {
				f.groups[gi].Members[mi].Role = role
				return nil
			}
		}
	}
	return ErrNotFound
}

func (f *FakeService) dropMember(groupID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for gi, g := range f.groups {
		if g.ID != groupID {
			continue
		}
		for mi, m := range g.Members {
			if m.ID == userID {
				f.groups[gi].Members = append(g.Members[:mi], g.Members[mi+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func hasAdmin(group service.Group, userID int64) bool {
	for _, m := range group.Members {
		if m.ID == userID && m.Role == service.RoleAdmin {
			return true
		}
	}
	return false
}

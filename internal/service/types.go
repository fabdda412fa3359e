// Package service defines the backend-agnostic interface for task and group operations.
package service

import "time"

// Member roles within a group.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Task priorities. Values outside this range are normalized to
// PriorityMinor when decoded from the wire.
const (
	PriorityMinor    = 1
	PriorityModerate = 2
	PriorityCritical = 3
)

// User is the authenticated account resolved from the info endpoint.
type User struct {
	ID       int64
	Username string
	Status   string
}

// Member is a user's membership in a group.
type Member struct {
	ID       int64
	Username string
	Role     string // RoleAdmin or RoleMember
}

// Group represents a shared task group.
type Group struct {
	ID      int64
	Name    string
	Color   string
	Icon    string
	Members []Member
}

// AdminCount returns the number of admin members.
func (g Group) AdminCount() int {
	n := 0
	for _, m := range g.Members {
		if m.Role == RoleAdmin {
			n++
		}
	}
	return n
}

// Task represents a single task. GroupID is nil for personal
// (ungrouped) tasks.
type Task struct {
	ID          int64
	Title       string
	Description string
	Priority    int // 1..3
	DueDate     time.Time
	GroupID     *int64
	IsCompleted bool
}

// TaskDraft carries the caller-supplied fields for creating or
// updating a task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    int
	DueDate     time.Time
	GroupID     *int64
}

// GroupDraft carries the caller-supplied fields for creating or
// updating a group.
type GroupDraft struct {
	Name  string
	Color string
	Icon  string
}

// Invitation is a pending invitation created for a group.
type Invitation struct {
	Token   string
	GroupID int64
}

// Package service defines the backend-agnostic interface for task and group operations.
package service

import (
	"context"
	"fmt"
)

// PreconditionError reports a client-side business rule violation
// detected before any network call was made. The server remains the
// authority; these checks exist to give immediate feedback.
type PreconditionError struct {
	Rule string
}

func (e *PreconditionError) Error() string { return e.Rule }

// Precondition formats a new PreconditionError.
func Precondition(format string, args ...any) *PreconditionError {
	return &PreconditionError{Rule: fmt.Sprintf(format, args...)}
}

// Service defines the interface for remote task and group operations.
// All remote calls go through this interface; commands never import
// the backend package directly.
//
// Mutation methods perform exactly one remote call and never touch any
// local cache; callers re-sync afterwards to observe the change.
type Service interface {
	// CurrentUser resolves the authenticated user via the info endpoint.
	CurrentUser(ctx context.Context) (User, error)

	// Tasks returns the full task collection.
	Tasks(ctx context.Context) ([]Task, error)

	// Groups returns the full group collection, members included.
	Groups(ctx context.Context) ([]Group, error)

	// CreateTask creates a new task.
	CreateTask(ctx context.Context, draft TaskDraft) error

	// UpdateTask replaces the mutable fields of a task.
	UpdateTask(ctx context.Context, taskID int64, draft TaskDraft) error

	// SetTaskCompleted toggles completion via a partial update.
	SetTaskCompleted(ctx context.Context, taskID int64, completed bool) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, taskID int64) error

	// CreateGroup creates a new group.
	CreateGroup(ctx context.Context, draft GroupDraft) error

	// UpdateGroup replaces the mutable fields of a group.
	UpdateGroup(ctx context.Context, groupID int64, draft GroupDraft) error

	// DeleteGroup deletes a group. Blocked client-side with a
	// PreconditionError while the group still has other members.
	DeleteGroup(ctx context.Context, group Group) error

	// AddAdmin promotes a member to admin.
	AddAdmin(ctx context.Context, groupID, userID int64) error

	// RemoveAdmin demotes an admin to member. Blocked client-side when
	// the target is the sole remaining admin.
	RemoveAdmin(ctx context.Context, group Group, userID int64) error

	// RemoveMember removes a member from a group.
	RemoveMember(ctx context.Context, groupID, userID int64) error

	// LeaveGroup removes the calling user from a group. Blocked
	// client-side when the caller is the sole remaining admin.
	LeaveGroup(ctx context.Context, group Group, selfID int64) error

	// CreateInvitation invites a user to a group.
	CreateInvitation(ctx context.Context, groupID int64, username string) error

	// AcceptInvitation accepts an invitation by token.
	AcceptInvitation(ctx context.Context, token string) error

	// GenerateInvitationLink returns a shareable invitation link for a group.
	GenerateInvitationLink(ctx context.Context, groupID int64) (string, error)
}

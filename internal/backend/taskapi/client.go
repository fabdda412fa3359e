// Package taskapi implements the service.Service interface against the
// remote task/group API.
package taskapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/service"
)

// Client implements service.Service over the session client.
type Client struct {
	api *api.Client
}

// New creates a backend client.
func New(sessionClient *api.Client) *Client {
	return &Client{api: sessionClient}
}

const dueDateLayout = "2006-01-02"

// taskModel is the wire representation of a task.
type taskModel struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	DueDate     string `json:"due_date"`
	Group       *int64 `json:"group"`
	IsCompleted bool   `json:"is_completed"`
}

// memberModel is the wire representation of a group member.
type memberModel struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// groupModel is the wire representation of a group.
type groupModel struct {
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	Color   string        `json:"color"`
	Icon    string        `json:"icon"`
	Members []memberModel `json:"members"`
}

// CurrentUser resolves the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (service.User, error) {
	var resp struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Status   string `json:"status"`
	}
	if err := c.api.Call(ctx, http.MethodGet, "/info/", nil, &resp); err != nil {
		return service.User{}, err
	}
	return service.User{ID: resp.ID, Username: resp.Username, Status: resp.Status}, nil
}

// Tasks returns the full task collection.
func (c *Client) Tasks(ctx context.Context) ([]service.Task, error) {
	var models []taskModel
	if err := c.api.Call(ctx, http.MethodGet, "/todos/", nil, &models); err != nil {
		return nil, err
	}

	tasks := make([]service.Task, 0, len(models))
	for _, m := range models {
		tasks = append(tasks, service.Task{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Priority:    normalizePriority(m.Priority),
			DueDate:     parseDueDate(m.DueDate),
			GroupID:     m.Group,
			IsCompleted: m.IsCompleted,
		})
	}
	return tasks, nil
}

// Groups returns the full group collection, members included.
func (c *Client) Groups(ctx context.Context) ([]service.Group, error) {
	var models []groupModel
	if err := c.api.Call(ctx, http.MethodGet, "/groups/", nil, &models); err != nil {
		return nil, err
	}

	groups := make([]service.Group, 0, len(models))
	for _, m := range models {
		members := make([]service.Member, 0, len(m.Members))
		for _, member := range m.Members {
			members = append(members, service.Member{
				ID:       member.ID,
				Username: member.Username,
				Role:     member.Role,
			})
		}
		groups = append(groups, service.Group{
			ID:      m.ID,
			Name:    m.Name,
			Color:   m.Color,
			Icon:    m.Icon,
			Members: members,
		})
	}
	return groups, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, draft service.TaskDraft) error {
	return c.api.Call(ctx, http.MethodPost, "/todos/", taskBody(draft), nil)
}

// UpdateTask replaces the mutable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, draft service.TaskDraft) error {
	return c.api.Call(ctx, http.MethodPut, fmt.Sprintf("/todos/%d/", taskID), taskBody(draft), nil)
}

// SetTaskCompleted toggles completion via a partial update.
func (c *Client) SetTaskCompleted(ctx context.Context, taskID int64, completed bool) error {
	body := map[string]bool{"is_completed": completed}
	return c.api.Call(ctx, http.MethodPatch, fmt.Sprintf("/todos/%d/", taskID), body, nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	return c.api.Call(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d/", taskID), nil, nil)
}

// CreateGroup creates a new group.
func (c *Client) CreateGroup(ctx context.Context, draft service.GroupDraft) error {
	return c.api.Call(ctx, http.MethodPost, "/groups/", groupBody(draft), nil)
}

// UpdateGroup replaces the mutable fields of a group.
func (c *Client) UpdateGroup(ctx context.Context, groupID int64, draft service.GroupDraft) error {
	return c.api.Call(ctx, http.MethodPut, fmt.Sprintf("/groups/%d/", groupID), groupBody(draft), nil)
}

// DeleteGroup deletes a group. Blocked before any network call while
// the group still has other members.
func (c *Client) DeleteGroup(ctx context.Context, group service.Group) error {
	if len(group.Members) > 1 {
		return service.Precondition("group %q still has %d members", group.Name, len(group.Members))
	}
	return c.api.Call(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/", group.ID), nil, nil)
}

// AddAdmin promotes a member to admin.
func (c *Client) AddAdmin(ctx context.Context, groupID, userID int64) error {
	return c.api.Call(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/admins/%d/", groupID, userID), nil, nil)
}

// RemoveAdmin demotes an admin. Blocked before any network call when
// the target is the sole remaining admin.
func (c *Client) RemoveAdmin(ctx context.Context, group service.Group, userID int64) error {
	if group.AdminCount() == 1 && isAdmin(group, userID) {
		return service.Precondition("cannot demote the only admin of group %q", group.Name)
	}
	return c.api.Call(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/admins/%d/", group.ID, userID), nil, nil)
}

// RemoveMember removes a member from a group.
func (c *Client) RemoveMember(ctx context.Context, groupID, userID int64) error {
	return c.api.Call(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/members/%d/", groupID, userID), nil, nil)
}

// LeaveGroup removes the calling user from a group. Blocked before any
// network call when the caller is the sole remaining admin.
func (c *Client) LeaveGroup(ctx context.Context, group service.Group, selfID int64) error {
	if group.AdminCount() == 1 && isAdmin(group, selfID) {
		return service.Precondition("cannot leave group %q as its only admin", group.Name)
	}
	return c.api.Call(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/leave/", group.ID), nil, nil)
}

// CreateInvitation invites a user to a group.
func (c *Client) CreateInvitation(ctx context.Context, groupID int64, username string) error {
	body := map[string]any{"group": groupID, "username": username}
	return c.api.Call(ctx, http.MethodPost, "/invitations/create/", body, nil)
}

// AcceptInvitation accepts an invitation by token.
func (c *Client) AcceptInvitation(ctx context.Context, token string) error {
	return c.api.Call(ctx, http.MethodPost, fmt.Sprintf("/invitations/%s/accept", token), nil, nil)
}

// GenerateInvitationLink returns a shareable invitation link for a group.
func (c *Client) GenerateInvitationLink(ctx context.Context, groupID int64) (string, error) {
	var resp struct {
		Link string `json:"link"`
	}
	path := fmt.Sprintf("/groups/%d/generate-invitation-link/", groupID)
	if err := c.api.Call(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Link, nil
}

func isAdmin(group service.Group, userID int64) bool {
	for _, m := range group.Members {
		if m.ID == userID && m.Role == service.RoleAdmin {
			return true
		}
	}
	return false
}

func taskBody(draft service.TaskDraft) map[string]any {
	body := map[string]any{
		"title":       draft.Title,
		"description": draft.Description,
		"priority":    draft.Priority,
		"group":       draft.GroupID,
	}
	if !draft.DueDate.IsZero() {
		body["due_date"] = draft.DueDate.Format(dueDateLayout)
	}
	return body
}

func groupBody(draft service.GroupDraft) map[string]any {
	return map[string]any{
		"name":  draft.Name,
		"color": draft.Color,
		"icon":  draft.Icon,
	}
}

// normalizePriority clamps out-of-range wire priorities to Minor, the
// same rule the display layer applies.
func normalizePriority(p int) int {
	if p < service.PriorityMinor || p > service.PriorityCritical {
		return service.PriorityMinor
	}
	return p
}

// parseDueDate accepts both date-only and full timestamp forms; an
// unparseable date degrades to the zero time rather than failing the sync.
func parseDueDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dueDateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

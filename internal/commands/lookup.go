package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"taskdeck/internal/service"
)

// findGroup resolves a group by name (case-insensitive, trimmed).
// Returns an error if not found or ambiguous.
func findGroup(ctx context.Context, svc service.Service, name string) (service.Group, error) {
	groups, err := svc.Groups(ctx)
	if err != nil {
		return service.Group{}, err
	}

	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []service.Group
	for _, g := range groups {
		if strings.ToLower(strings.TrimSpace(g.Name)) == nameLower {
			matches = append(matches, g)
		}
	}

	switch len(matches) {
	case 0:
		return service.Group{}, fmt.Errorf("group not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return service.Group{}, fmt.Errorf("ambiguous group name: %s", name)
	}
}

// findTask resolves a task by numeric id or by case-insensitive title.
// Returns an error if not found or ambiguous.
func findTask(ctx context.Context, svc service.Service, ref string) (service.Task, error) {
	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return service.Task{}, err
	}

	if id, idErr := strconv.ParseInt(ref, 10, 64); idErr == nil {
		for _, t := range tasks {
			if t.ID == id {
				return t, nil
			}
		}
		return service.Task{}, fmt.Errorf("task not found: %s", ref)
	}

	refLower := strings.ToLower(strings.TrimSpace(ref))

	var matches []service.Task
	for _, t := range tasks {
		if strings.ToLower(strings.TrimSpace(t.Title)) == refLower {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return service.Task{}, fmt.Errorf("task not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return service.Task{}, fmt.Errorf("ambiguous task title: %s", ref)
	}
}

// findMember resolves a member of a group by username.
func findMember(group service.Group, username string) (service.Member, error) {
	nameLower := strings.ToLower(strings.TrimSpace(username))
	for _, m := range group.Members {
		if strings.ToLower(m.Username) == nameLower {
			return m, nil
		}
	}
	return service.Member{}, fmt.Errorf("no member %q in group %q", username, group.Name)
}

// Package aggregate derives display state from the synced group and
// task collections. All functions are pure: they never mutate their
// inputs, read no ambient state, and are deterministic.
package aggregate

import (
	"sort"
	"strconv"

	"taskdeck/internal/service"
)

const (
	// PersonalGroupName labels tasks without a group.
	PersonalGroupName = "Personal"

	// UnknownGroupName labels tasks whose group id is not present in
	// the currently loaded group collection.
	UnknownGroupName = "Unknown group"
)

// TaskItem is the flattened task view with the group name denormalized
// onto each task.
type TaskItem struct {
	ID          int64
	Title       string
	Description string
	Priority    int
	GroupID     *int64
	GroupName   string
	IsCompleted bool
}

// GroupStats is a group annotated with its task and member counts.
type GroupStats struct {
	service.Group
	TaskCount   int
	MemberCount int
}

// Mode selects the primary grouping dimension for display.
type Mode int

const (
	// ByPriority groups by priority first, then group name.
	ByPriority Mode = iota

	// ByGroup groups by group name first, then priority.
	ByGroup
)

// Subsection is a leaf list of task items under a secondary key.
type Subsection struct {
	Key   string
	Items []TaskItem
}

// Section is a primary grouping with its ordered subsections.
type Section struct {
	Key  string
	Subs []Subsection
}

// TaskItems resolves each task's group name: "Personal" for ungrouped
// tasks, the group name when the id resolves, and the unknown-group
// sentinel when it does not. A stale group reference never drops a task.
func TaskItems(tasks []service.Task, groups []service.Group) []TaskItem {
	names := make(map[int64]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}

	items := make([]TaskItem, 0, len(tasks))
	for _, t := range tasks {
		name := PersonalGroupName
		if t.GroupID != nil {
			if n, ok := names[*t.GroupID]; ok {
				name = n
			} else {
				name = UnknownGroupName
			}
		}
		items = append(items, TaskItem{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    ClampPriority(t.Priority),
			GroupID:     t.GroupID,
			GroupName:   name,
			IsCompleted: t.IsCompleted,
		})
	}
	return items
}

// Stats computes per-group task and member counts.
func Stats(groups []service.Group, tasks []service.Task) []GroupStats {
	stats := make([]GroupStats, 0, len(groups))
	for _, g := range groups {
		taskCount := 0
		for _, t := range tasks {
			if t.GroupID != nil && *t.GroupID == g.ID {
				taskCount++
			}
		}
		stats = append(stats, GroupStats{
			Group:       g,
			TaskCount:   taskCount,
			MemberCount: len(g.Members),
		})
	}
	return stats
}

// ForDisplay partitions task items into a two-level hierarchy. The
// primary key is the priority or the group name depending on mode, the
// secondary key the other dimension. Sections and subsections are
// ordered by descending key (one generic rule, so High→Low priority and
// Z→A group names). Leaf items are sorted by title ascending, then
// completed items sink stably to the end. The union of all leaves is
// exactly the input set.
func ForDisplay(items []TaskItem, mode Mode) []Section {
	grouped := map[string]map[string][]TaskItem{}
	for _, item := range items {
		primary, secondary := keysFor(item, mode)
		if grouped[primary] == nil {
			grouped[primary] = map[string][]TaskItem{}
		}
		grouped[primary][secondary] = append(grouped[primary][secondary], item)
	}

	sections := make([]Section, 0, len(grouped))
	for primary, subs := range grouped {
		section := Section{Key: primary}
		for secondary, leaf := range subs {
			sortLeaf(leaf)
			section.Subs = append(section.Subs, Subsection{Key: secondary, Items: leaf})
		}
		sort.Slice(section.Subs, func(i, j int) bool {
			return section.Subs[i].Key > section.Subs[j].Key
		})
		sections = append(sections, section)
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Key > sections[j].Key
	})
	return sections
}

// ClampPriority normalizes a priority to the 1..3 range; anything
// outside, including absent, degrades to Minor.
func ClampPriority(p int) int {
	if p < service.PriorityMinor || p > service.PriorityCritical {
		return service.PriorityMinor
	}
	return p
}

// PriorityLabel maps a priority value to its display label.
func PriorityLabel(p int) string {
	switch ClampPriority(p) {
	case service.PriorityCritical:
		return "Critical"
	case service.PriorityModerate:
		return "Moderate"
	default:
		return "Minor"
	}
}

func keysFor(item TaskItem, mode Mode) (primary, secondary string) {
	priority := strconv.Itoa(ClampPriority(item.Priority))
	if mode == ByPriority {
		return priority, item.GroupName
	}
	return item.GroupName, priority
}

// sortLeaf orders a leaf list: title ascending, then a stable pass that
// sinks completed items to the end without disturbing relative order.
func sortLeaf(items []TaskItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Title < items[j].Title
	})
	sort.SliceStable(items, func(i, j int) bool {
		return !items[i].IsCompleted && items[j].IsCompleted
	})
}

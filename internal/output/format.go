// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskdeck/internal/aggregate"
)

const (
	// SectionSeparator is the separator line for primary sections.
	SectionSeparator = "------------"
)

// FormatSectionHeader formats a primary section header.
func FormatSectionHeader(w io.Writer, label string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, label)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatSubsectionHeader formats a secondary section header.
func FormatSubsectionHeader(w io.Writer, label string) {
	fmt.Fprintf(w, "  [%s]\n", label)
}

// FormatTaskItem formats a task line within a subsection.
// Format: "    {ID:>4}  {MARK} {TITLE}\n" where MARK is "x" for
// completed tasks and "-" otherwise.
func FormatTaskItem(w io.Writer, item aggregate.TaskItem) {
	mark := "-"
	if item.IsCompleted {
		mark = "x"
	}
	fmt.Fprintf(w, "    %4d  %s %s\n", item.ID, mark, normalizeTitle(item.Title))
}

// FormatGroupStats formats one line of the groups listing.
// Format: "{NAME}  ({MEMBERS} members, {TASKS} tasks)".
func FormatGroupStats(w io.Writer, stats aggregate.GroupStats) {
	fmt.Fprintf(w, "%s  (%d members, %d tasks)\n", stats.Name, stats.MemberCount, stats.TaskCount)
}

// SectionLabel resolves the display label for a section key in the
// given mode: numeric priority keys map to their labels, group-name
// keys pass through.
func SectionLabel(key string, isPriorityKey bool) string {
	if !isPriorityKey {
		return key
	}
	p, err := strconv.Atoi(key)
	if err != nil {
		return key
	}
	return aggregate.PriorityLabel(p)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/planner/pkg/filter"
	"github.com/stefanpenner/planner/pkg/task"
)

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

// printTaskLine prints one list row: status, priority, title, due date and id.
func printTaskLine(w io.Writer, t task.Task, lookup filter.Lookup, today task.Date) {
	status := "○"
	if t.Completed {
		status = "✓"
	}

	var extra []string
	if name := lookup.CategoryName(t.CategoryID); name != "" {
		extra = append(extra, name)
	}
	for _, tag := range lookup.TagNames(t.TagIDs) {
		extra = append(extra, "#"+tag)
	}
	if !t.DueDate.IsZero() {
		due := "due " + t.DueDate.String()
		if t.DueTime != "" {
			due += " " + t.DueTime
		}
		if t.IsOverdue(today) {
			due += " (overdue)"
		}
		extra = append(extra, due)
	}
	if t.IsRecurring {
		extra = append(extra, "repeats "+string(t.RecurrenceType))
	}

	line := fmt.Sprintf("%s [%s] %s", status, priorityLabel(t.Priority), t.Title)
	if len(extra) > 0 {
		line += "  " + strings.Join(extra, ", ")
	}
	fmt.Fprintf(w, "%s  (%s)\n", line, t.ID)
}

func priorityLabel(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "H"
	case task.PriorityMedium:
		return "M"
	default:
		return "L"
	}
}

func printTaskDetails(w io.Writer, t task.Task, lookup filter.Lookup) {
	status := "open"
	if t.Completed {
		status = "done"
		if t.CompletedAt != nil {
			status += " " + t.CompletedAt.Local().Format(time.DateTime)
		}
	}
	fmt.Fprintf(w, "%s\n", t.Title)
	fmt.Fprintf(w, "ID:       %s\n", t.ID)
	fmt.Fprintf(w, "Status:   %s\n", status)
	fmt.Fprintf(w, "Priority: %s\n", t.Priority)
	fmt.Fprintf(w, "Category: %s\n", lookup.CategoryName(t.CategoryID))
	if names := lookup.TagNames(t.TagIDs); len(names) > 0 {
		fmt.Fprintf(w, "Tags:     %s\n", strings.Join(names, ", "))
	}
	if !t.DueDate.IsZero() {
		fmt.Fprintf(w, "Due:      %s %s\n", t.DueDate, t.DueTime)
	}
	if t.IsRecurring {
		fmt.Fprintf(w, "Repeats:  %s\n", t.RecurrenceType)
	}
	if !t.IsRoot() {
		fmt.Fprintf(w, "Parent:   %s\n", t.ParentRecurringID)
	}
	fmt.Fprintf(w, "Created:  %s\n", t.CreatedAt.Local().Format(time.DateTime))
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
}

// Package reconcile computes the smallest set of view changes that turns a
// previously rendered task list into a new one.
package reconcile

import (
	"slices"

	"github.com/stefanpenner/planner/pkg/task"
)

// Snapshot maps ids of rendered tasks to the values they were rendered with.
type Snapshot map[string]task.Task

// SnapshotOf records tasks as rendered. Values are copied.
func SnapshotOf(tasks []task.Task) Snapshot {
	s := make(Snapshot, len(tasks))
	for _, t := range tasks {
		s[t.ID] = t.Clone()
	}
	return s
}

// IDs returns the snapshot's ids in sorted order.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Patch is the set of operations that brings a view up to date.
type Patch struct {
	Added      []task.Task
	Modified   []task.Task
	RemovedIDs []string
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Added) == 0 && len(p.Modified) == 0 && len(p.RemovedIDs) == 0
}

// Diff compares the previous snapshot against the current ordered list.
// Added and Modified follow the order of curr; RemovedIDs are sorted. When
// curr repeats an id, the first entry counts.
func Diff(prev Snapshot, curr []task.Task) Patch {
	var p Patch
	seen := make(map[string]bool, len(curr))
	for _, t := range curr {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true

		old, ok := prev[t.ID]
		switch {
		case !ok:
			p.Added = append(p.Added, t.Clone())
		case Changed(old, t):
			p.Modified = append(p.Modified, t.Clone())
		}
	}
	for _, id := range prev.IDs() {
		if !seen[id] {
			p.RemovedIDs = append(p.RemovedIDs, id)
		}
	}
	return p
}

// Changed reports whether any rendered field differs between a and b. Tags
// compare as a set; every other field must match exactly. CreatedAt and
// CompletedAt are not rendered and are ignored.
func Changed(a, b task.Task) bool {
	return a.Title != b.Title ||
		a.Description != b.Description ||
		a.Completed != b.Completed ||
		a.Priority != b.Priority ||
		a.CategoryID != b.CategoryID ||
		!sameTags(a.TagIDs, b.TagIDs) ||
		a.DueDate != b.DueDate ||
		a.DueTime != b.DueTime ||
		a.IsRecurring != b.IsRecurring ||
		a.RecurrenceType != b.RecurrenceType ||
		!slices.Equal(a.Weekdays(), b.Weekdays())
}

func sameTags(a, b []string) bool {
	return slices.Equal(tagSet(a), tagSet(b))
}

func tagSet(ids []string) []string {
	s := slices.Clone(ids)
	slices.Sort(s)
	return slices.Compact(s)
}

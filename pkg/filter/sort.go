package filter

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/stefanpenner/planner/pkg/task"
)

// Sort orders tasks in place by field. The sort is stable, and Desc negates
// the comparator rather than reversing the result, so ties keep input order
// in both directions.
func Sort(tasks []task.Task, field SortField, dir Direction, lookup Lookup, loc *time.Location) {
	compare := Comparator(field, lookup, loc)
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		if dir == Desc {
			return -compare(a, b)
		}
		return compare(a, b)
	})
}

// Comparator returns the ascending comparison for field.
func Comparator(field SortField, lookup Lookup, loc *time.Location) func(a, b task.Task) int {
	if loc == nil {
		loc = time.Local
	}
	switch field {
	case SortTitle:
		return func(a, b task.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortCategory:
		return func(a, b task.Task) int {
			return strings.Compare(
				strings.ToLower(lookup.CategoryName(a.CategoryID)),
				strings.ToLower(lookup.CategoryName(b.CategoryID)),
			)
		}
	case SortPriority:
		return func(a, b task.Task) int {
			return cmp.Compare(a.Priority.Weight(), b.Priority.Weight())
		}
	case SortStatus:
		return func(a, b task.Task) int {
			return cmp.Compare(boolRank(a.Completed), boolRank(b.Completed))
		}
	case SortTags:
		return func(a, b task.Task) int {
			return strings.Compare(lookup.tagKey(a.TagIDs), lookup.tagKey(b.TagIDs))
		}
	case SortDueDate:
		return func(a, b task.Task) int {
			return cmp.Compare(dueEpoch(a, loc), dueEpoch(b, loc))
		}
	case SortCreatedAt:
		return compareCreated
	default:
		// Unknown fields order by creation time.
		return compareCreated
	}
}

func compareCreated(a, b task.Task) int {
	return cmp.Compare(a.CreatedAt.UnixMilli(), b.CreatedAt.UnixMilli())
}

// dueEpoch is the due date as epoch milliseconds at local midnight. Tasks
// without a due date sort as the epoch itself.
func dueEpoch(t task.Task, loc *time.Location) int64 {
	at, ok := t.DueDate.In(loc)
	if !ok {
		return 0
	}
	return at.UnixMilli()
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

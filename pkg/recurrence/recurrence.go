// Package recurrence computes when repeating tasks come due again and decides
// when a scheduling pass should materialize the next occurrence.
package recurrence

import (
	"slices"

	"github.com/stefanpenner/planner/pkg/task"
)

// Next returns the date a task repeats on after its current due date. The
// task's own due date is always the base, so a late scheduling pass still
// follows the original schedule. It reports false when the task has no due
// date or no usable recurrence type.
func Next(t task.Task) (task.Date, bool) {
	if t.DueDate.IsZero() || !t.DueDate.Valid() {
		return "", false
	}

	switch t.RecurrenceType {
	case task.RecurrenceDaily:
		return t.DueDate.AddDate(0, 0, 1), true
	case task.RecurrenceWeekly:
		return nextWeekly(t.DueDate, t.Weekdays()), true
	case task.RecurrenceMonthly:
		// Day-of-month overflow rolls into the following month (Jan 31 → Mar 3).
		return t.DueDate.AddDate(0, 1, 0), true
	case task.RecurrenceYearly:
		return t.DueDate.AddDate(1, 0, 0), true
	case task.RecurrenceNone:
		return "", false
	default:
		// Unknown rules do not advance.
		return "", false
	}
}

// nextWeekly advances to the next selected weekday strictly after due. With no
// selection it repeats a week later.
func nextWeekly(due task.Date, selected []int) task.Date {
	days := Weekdays(selected)
	if len(days) == 0 {
		return due.AddDate(0, 0, 7)
	}

	current := int(due.Weekday())
	for _, w := range days {
		if w > current {
			return due.AddDate(0, 0, w-current)
		}
	}
	return due.AddDate(0, 0, 7-current+days[0])
}

// Weekdays returns the distinct valid weekday indices (0-6) in ascending order.
func Weekdays(selected []int) []int {
	out := make([]int, 0, len(selected))
	for _, w := range selected {
		if w >= 0 && w <= 6 {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

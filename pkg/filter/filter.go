// Package filter narrows and orders the task list for display.
//
// Every active filter is an independent Predicate and a task is kept only if
// all of them hold. Pending-only is the default: unless the status filter is
// StatusCompleted, completed tasks never pass.
package filter

import (
	"strings"
	"time"

	"github.com/stefanpenner/planner/pkg/task"
)

// upcomingDays is the width of the StatusUpcoming window.
const upcomingDays = 7

// Predicate reports whether a task passes one filter.
type Predicate func(t task.Task) bool

// All combines predicates with AND. Nil predicates are skipped.
func All(preds ...Predicate) Predicate {
	return func(t task.Task) bool {
		for _, p := range preds {
			if p != nil && !p(t) {
				return false
			}
		}
		return true
	}
}

// Apply filters and sorts tasks for the given state. Day boundaries are
// computed in now's location. The input is not modified; the result holds copies.
func Apply(tasks []task.Task, state State, categories []task.Category, tags []task.Tag, now time.Time) []task.Task {
	lookup := NewLookup(categories, tags)
	keep := All(
		StatusPredicate(state.Status, state.RetentionDays, now),
		CategoryPredicate(state.CategoryID),
		TagPredicate(state.TagID),
		SearchPredicate(state.Search, lookup),
	)

	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	Sort(out, state.SortField, state.Direction, lookup, now.Location())
	return out
}

// StatusPredicate implements the status filter together with the default hide rule.
func StatusPredicate(status Status, retentionDays int, now time.Time) Predicate {
	today := task.DateOf(now)
	horizon := today.AddDate(0, 0, upcomingDays)

	var match Predicate
	switch status {
	case StatusCompleted:
		match = func(t task.Task) bool {
			return t.Completed && withinRetention(t, retentionDays, now)
		}
	case StatusRecurring:
		match = func(t task.Task) bool { return t.IsRecurring }
	case StatusToday:
		match = func(t task.Task) bool { return !t.DueDate.IsZero() && t.DueDate == today }
	case StatusUpcoming:
		match = func(t task.Task) bool {
			return t.DueDate.After(today) && !t.DueDate.After(horizon)
		}
	case StatusOverdue:
		match = func(t task.Task) bool { return t.IsOverdue(today) }
	case StatusLow:
		match = priorityIs(task.PriorityLow)
	case StatusMedium:
		match = priorityIs(task.PriorityMedium)
	case StatusHigh:
		match = priorityIs(task.PriorityHigh)
	case StatusAll:
		match = nil
	default:
		// An unrecognized status narrows nothing; the hide rule still applies.
		match = nil
	}

	return func(t task.Task) bool {
		if status != StatusCompleted && t.Completed {
			return false
		}
		return match == nil || match(t)
	}
}

// withinRetention reports whether a completed task finished within the last
// retentionDays. Tasks without CompletedAt fall back to CreatedAt. A window of
// zero or less keeps everything.
func withinRetention(t task.Task, retentionDays int, now time.Time) bool {
	if retentionDays <= 0 {
		return true
	}
	at := t.CreatedAt
	if t.CompletedAt != nil {
		at = *t.CompletedAt
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	return !at.Before(cutoff)
}

func priorityIs(p task.Priority) Predicate {
	return func(t task.Task) bool { return t.Priority == p }
}

// CategoryPredicate keeps tasks in the category. An empty id disables it.
func CategoryPredicate(id string) Predicate {
	if id == "" {
		return nil
	}
	return func(t task.Task) bool { return t.CategoryID == id }
}

// TagPredicate keeps tasks carrying the tag. An empty id disables it.
func TagPredicate(id string) Predicate {
	if id == "" {
		return nil
	}
	return func(t task.Task) bool { return t.HasTag(id) }
}

// SearchPredicate keeps tasks whose title, description, category name or any
// tag name contains term, ignoring case. An empty term disables it.
func SearchPredicate(term string, lookup Lookup) Predicate {
	term = strings.ToLower(term)
	if term == "" {
		return nil
	}
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), term)
	}
	return func(t task.Task) bool {
		if contains(t.Title) || contains(t.Description) || contains(lookup.CategoryName(t.CategoryID)) {
			return true
		}
		for _, name := range lookup.TagNames(t.TagIDs) {
			if contains(name) {
				return true
			}
		}
		return false
	}
}

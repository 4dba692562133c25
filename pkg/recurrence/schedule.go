package recurrence

import (
	"time"

	"github.com/stefanpenner/planner/pkg/task"
)

// Occurrence is the next instance a root task should spawn.
type Occurrence struct {
	Root task.Task
	Due  task.Date
}

// Plan returns the occurrences a scheduling pass should create. A recurring
// root task is due for one when it was completed on or before today, or when
// it is overdue and still open. It is skipped when one of its children is
// already due in the future or already sits on the computed date, which makes
// repeated passes idempotent.
func Plan(tasks []task.Task, now time.Time) []Occurrence {
	today := task.DateOf(now)

	children := make(map[string][]task.Task)
	for _, t := range tasks {
		if !t.IsRoot() {
			children[t.ParentRecurringID] = append(children[t.ParentRecurringID], t)
		}
	}

	var out []Occurrence
	for _, t := range tasks {
		if !t.IsRecurring || !t.IsRoot() || t.DueDate.IsZero() {
			continue
		}
		if !triggers(t, today) {
			continue
		}
		next, ok := Next(t)
		if !ok || hasChild(children[t.ID], today, next) {
			continue
		}
		out = append(out, Occurrence{Root: t, Due: next})
	}
	return out
}

func triggers(t task.Task, today task.Date) bool {
	if t.Completed {
		return !t.DueDate.After(today)
	}
	return t.DueDate.Before(today)
}

func hasChild(children []task.Task, today, next task.Date) bool {
	for _, c := range children {
		if c.DueDate.After(today) || c.DueDate == next {
			return true
		}
	}
	return false
}

// Materialize builds the child task for an occurrence. The child copies the
// root's content and schedule and points back at the root.
func (o Occurrence) Materialize(id string, now time.Time) task.Task {
	child := o.Root.Clone()
	child.ID = id
	child.DueDate = o.Due
	child.Completed = false
	child.CompletedAt = nil
	child.CreatedAt = now
	child.ParentRecurringID = o.Root.ID
	return child
}

// Scheduler turns a plan into new tasks.
type Scheduler struct {
	NewID func() string
}

// Generate returns the tasks a scheduling pass adds. It does not modify tasks.
func (s Scheduler) Generate(tasks []task.Task, now time.Time) []task.Task {
	plan := Plan(tasks, now)
	out := make([]task.Task, 0, len(plan))
	for _, o := range plan {
		out = append(out, o.Materialize(s.NewID(), now))
	}
	return out
}

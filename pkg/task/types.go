package task

import (
	"slices"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority maps a string onto a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	default:
		return "", false
	}
}

// Weight orders priorities: high 3, medium 2, low 1. Anything else weighs 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Next cycles low → medium → high → low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// RecurrenceType is the repeat rule of a recurring task.
type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// ParseRecurrenceType maps a string onto a RecurrenceType. The empty string is "none".
func ParseRecurrenceType(s string) (RecurrenceType, bool) {
	switch r := RecurrenceType(s); r {
	case "":
		return RecurrenceNone, true
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return r, true
	default:
		return "", false
	}
}

// RecurrenceData carries rule-specific settings. Weekdays are 0=Sunday..6=Saturday.
type RecurrenceData struct {
	Weekdays []int `json:"weekdays,omitempty" yaml:"weekdays,omitempty"`
}

// Task is a single planner entry.
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"-"` // markdown body in the file backend
	CategoryID  string   `json:"categoryId" yaml:"category"`
	TagIDs      []string `json:"tagIds" yaml:"tags,omitempty"`
	Priority    Priority `json:"priority" yaml:"priority"`
	DueDate     Date     `json:"dueDate,omitempty" yaml:"due,omitempty"`
	DueTime     string   `json:"dueTime,omitempty" yaml:"due_time,omitempty"`

	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"created"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`

	IsRecurring       bool            `json:"isRecurring" yaml:"recurring,omitempty"`
	RecurrenceType    RecurrenceType  `json:"recurrenceType" yaml:"repeat,omitempty"`
	RecurrenceData    *RecurrenceData `json:"recurrenceData,omitempty" yaml:"repeat_data,omitempty"`
	ParentRecurringID string          `json:"parentRecurringId,omitempty" yaml:"parent,omitempty"`
}

// IsRoot reports whether the task was created directly rather than generated by recurrence.
func (t *Task) IsRoot() bool {
	return t.ParentRecurringID == ""
}

// HasTag reports whether id is among the task's tags.
func (t *Task) HasTag(id string) bool {
	return slices.Contains(t.TagIDs, id)
}

// IsOverdue reports whether the task is pending and due before today.
func (t *Task) IsOverdue(today Date) bool {
	return !t.Completed && !t.DueDate.IsZero() && t.DueDate.Before(today)
}

// Weekdays returns the selected weekdays, or nil when there is no recurrence data.
func (t *Task) Weekdays() []int {
	if t.RecurrenceData == nil {
		return nil
	}
	return t.RecurrenceData.Weekdays
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (t Task) Clone() Task {
	c := t
	c.TagIDs = slices.Clone(t.TagIDs)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.RecurrenceData != nil {
		c.RecurrenceData = &RecurrenceData{Weekdays: slices.Clone(t.RecurrenceData.Weekdays)}
	}
	return c
}

// Category groups tasks. Every task belongs to exactly one category.
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Tag labels tasks. A task carries at most MaxTagsPerTask tags.
type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// DefaultCategoryID is assigned to tasks created without a category.
const DefaultCategoryID = "personal"

// DefaultCategories seeds an empty store.
func DefaultCategories() []Category {
	return []Category{
		{ID: DefaultCategoryID, Name: "Personal", Color: "#4285F4"},
		{ID: "work", Name: "Work", Color: "#E05252"},
	}
}

// CloneTasks deep-copies a slice of tasks.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

package task

import "slices"

// TaskPatch is a partial update to a task.
// A nil field means "no change". An empty DueDate or DueTime clears the value.
// Completion is not patchable; it goes through the store so CompletedAt stays consistent.
type TaskPatch struct {
	Title          *string         `json:"title,omitempty"`
	Description    *string         `json:"description,omitempty"`
	CategoryID     *string         `json:"categoryId,omitempty"`
	TagIDs         *[]string       `json:"tagIds,omitempty"`
	Priority       *Priority       `json:"priority,omitempty"`
	DueDate        *Date           `json:"dueDate,omitempty"`
	DueTime        *string         `json:"dueTime,omitempty"`
	IsRecurring    *bool           `json:"isRecurring,omitempty"`
	RecurrenceType *RecurrenceType `json:"recurrenceType,omitempty"`
	RecurrenceData *RecurrenceData `json:"recurrenceData,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// Apply returns a copy of t with the patch applied. t is not modified.
func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.CategoryID != nil {
		out.CategoryID = *p.CategoryID
	}
	if p.TagIDs != nil {
		out.TagIDs = slices.Clone(*p.TagIDs)
		if out.TagIDs == nil {
			out.TagIDs = []string{}
		}
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.DueDate != nil {
		out.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		out.DueTime = *p.DueTime
	}
	if p.IsRecurring != nil {
		out.IsRecurring = *p.IsRecurring
	}
	if p.RecurrenceType != nil {
		out.RecurrenceType = *p.RecurrenceType
	}
	if p.RecurrenceData != nil {
		if len(p.RecurrenceData.Weekdays) == 0 {
			out.RecurrenceData = nil
		} else {
			out.RecurrenceData = &RecurrenceData{Weekdays: slices.Clone(p.RecurrenceData.Weekdays)}
		}
	}
	if !out.IsRecurring {
		out.RecurrenceType = RecurrenceNone
		out.RecurrenceData = nil
	}
	return out
}

// CategoryPatch is a partial update to a category.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Apply returns a copy of c with the patch applied.
func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	return c
}

// TagPatch is a partial update to a tag.
type TagPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Apply returns a copy of t with the patch applied.
func (p TagPatch) Apply(t Tag) Tag {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	return t
}

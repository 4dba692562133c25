package task

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength        = 100
	MaxDescriptionLength  = 500
	MaxTagsPerTask        = 3
	MaxCategoryNameLength = 50
	MaxTagNameLength      = 30
	MaxCategories         = 20
	MaxTags               = 30
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidationResult reports every problem found with a record.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func newResult() ValidationResult {
	return ValidationResult{Valid: true, Errors: []string{}}
}

func (r *ValidationResult) addf(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Result: r}
}

// ValidationError wraps a failed ValidationResult.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Result.Errors, "; ")
}

// ValidateTask checks the fields of a task in isolation. References to
// categories and tags are checked by the store.
func ValidateTask(t Task) ValidationResult {
	r := newResult()

	title := strings.TrimSpace(t.Title)
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		r.addf("title is required")
	case n > MaxTitleLength:
		r.addf("title must be at most %d characters", MaxTitleLength)
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		r.addf("description must be at most %d characters", MaxDescriptionLength)
	}

	if len(t.TagIDs) > MaxTagsPerTask {
		r.addf("a task can have at most %d tags", MaxTagsPerTask)
	}
	seen := make(map[string]bool, len(t.TagIDs))
	for _, id := range t.TagIDs {
		if seen[id] {
			r.addf("tag %q is listed twice", id)
		}
		seen[id] = true
	}

	if _, ok := ParsePriority(string(t.Priority)); !ok {
		r.addf("priority must be low, medium or high")
	}
	if !t.DueDate.Valid() {
		r.addf("due date %q must be YYYY-MM-DD", t.DueDate)
	}
	if !ValidTimeOfDay(t.DueTime) {
		r.addf("due time %q must be HH:MM", t.DueTime)
	}

	rt, ok := ParseRecurrenceType(string(t.RecurrenceType))
	if !ok {
		r.addf("unknown recurrence type %q", t.RecurrenceType)
	}
	if t.IsRecurring {
		if t.DueDate.IsZero() {
			r.addf("a recurring task needs a due date")
		}
		if rt == RecurrenceNone {
			r.addf("a recurring task needs a recurrence type")
		}
	}
	for _, w := range t.Weekdays() {
		if w < 0 || w > 6 {
			r.addf("weekday %d is out of range 0-6", w)
		}
	}

	return r
}

// ValidateCategory checks c against the existing categories. A category whose
// ID is already present is treated as an update and does not count against the limit.
func ValidateCategory(c Category, existing []Category) ValidationResult {
	r := newResult()
	validateLabel(&r, "category", c.ID, c.Name, c.Color, MaxCategoryNameLength)

	isNew := true
	for _, e := range existing {
		if e.ID == c.ID {
			isNew = false
			continue
		}
		if strings.EqualFold(strings.TrimSpace(e.Name), strings.TrimSpace(c.Name)) {
			r.addf("a category named %q already exists", e.Name)
		}
	}
	if isNew && len(existing) >= MaxCategories {
		r.addf("at most %d categories are allowed", MaxCategories)
	}
	return r
}

// ValidateTag checks t against the existing tags.
func ValidateTag(t Tag, existing []Tag) ValidationResult {
	r := newResult()
	validateLabel(&r, "tag", t.ID, t.Name, t.Color, MaxTagNameLength)

	isNew := true
	for _, e := range existing {
		if e.ID == t.ID {
			isNew = false
			continue
		}
		if strings.EqualFold(strings.TrimSpace(e.Name), strings.TrimSpace(t.Name)) {
			r.addf("a tag named %q already exists", e.Name)
		}
	}
	if isNew && len(existing) >= MaxTags {
		r.addf("at most %d tags are allowed", MaxTags)
	}
	return r
}

func validateLabel(r *ValidationResult, kind, id, name, color string, maxName int) {
	if id == "" {
		r.addf("%s id is required", kind)
	}
	switch n := utf8.RuneCountInString(strings.TrimSpace(name)); {
	case n == 0:
		r.addf("%s name is required", kind)
	case n > maxName:
		r.addf("%s name must be at most %d characters", kind, maxName)
	}
	if !colorPattern.MatchString(color) {
		r.addf("%s color %q must be a 6-digit hex color like #4285F4", kind, color)
	}
}

package filter

import (
	"slices"
	"strings"

	"github.com/stefanpenner/planner/pkg/task"
)

// Lookup resolves category and tag ids to their records.
type Lookup struct {
	categories map[string]task.Category
	tags       map[string]task.Tag
}

// NewLookup indexes the reference tables.
func NewLookup(categories []task.Category, tags []task.Tag) Lookup {
	l := Lookup{
		categories: make(map[string]task.Category, len(categories)),
		tags:       make(map[string]task.Tag, len(tags)),
	}
	for _, c := range categories {
		l.categories[c.ID] = c
	}
	for _, t := range tags {
		l.tags[t.ID] = t
	}
	return l
}

// Category returns the category with the given id.
func (l Lookup) Category(id string) (task.Category, bool) {
	c, ok := l.categories[id]
	return c, ok
}

// Tag returns the tag with the given id.
func (l Lookup) Tag(id string) (task.Tag, bool) {
	t, ok := l.tags[id]
	return t, ok
}

// CategoryName returns the display name of a category, or "" if it is unknown.
func (l Lookup) CategoryName(id string) string {
	return l.categories[id].Name
}

// TagNames resolves tag ids in order, skipping unknown ones.
func (l Lookup) TagNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := l.tags[id]; ok {
			names = append(names, t.Name)
		}
	}
	return names
}

// tagKey is the sort key for a task's tags: resolved names, sorted, comma-joined.
func (l Lookup) tagKey(ids []string) string {
	names := l.TagNames(ids)
	for i, n := range names {
		names[i] = strings.ToLower(n)
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}

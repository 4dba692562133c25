package tui

import (
	"fmt"
	"slices"

	"github.com/stefanpenner/planner/pkg/task"
)

// Row is one task line in the list. Expanded is per-row view state and
// survives in-place replacements; Fresh marks rows touched by the latest patch.
type Row struct {
	Task     task.Task
	Expanded bool
	Fresh    bool
}

// ListView holds the rows on screen in display order. It implements
// reconcile.Renderer.
type ListView struct {
	rows []*Row
}

// NewListView creates an empty list.
func NewListView() *ListView {
	return &ListView{}
}

// Add appends a row for t.
func (v *ListView) Add(t task.Task) error {
	if v.IndexOf(t.ID) >= 0 {
		return fmt.Errorf("row %s already exists", t.ID)
	}
	v.rows = append(v.rows, &Row{Task: t, Fresh: true})
	return nil
}

// Replace updates the row for t.ID in place.
func (v *ListView) Replace(t task.Task) error {
	i := v.IndexOf(t.ID)
	if i < 0 {
		return fmt.Errorf("no row %s", t.ID)
	}
	v.rows[i].Task = t
	v.rows[i].Fresh = true
	return nil
}

// Remove drops the row for id.
func (v *ListView) Remove(id string) error {
	i := v.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("no row %s", id)
	}
	v.rows = slices.Delete(v.rows, i, i+1)
	return nil
}

// Reset empties the list.
func (v *ListView) Reset() error {
	v.rows = nil
	return nil
}

// ClearFresh unmarks every row.
func (v *ListView) ClearFresh() {
	for _, r := range v.rows {
		r.Fresh = false
	}
}

// Len returns the number of rows.
func (v *ListView) Len() int {
	return len(v.rows)
}

// At returns the row at display position i, or nil.
func (v *ListView) At(i int) *Row {
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	return v.rows[i]
}

// IndexOf returns the display position of id, or -1.
func (v *ListView) IndexOf(id string) int {
	return slices.IndexFunc(v.rows, func(r *Row) bool { return r.Task.ID == id })
}

// IDs returns the task ids in display order.
func (v *ListView) IDs() []string {
	ids := make([]string, len(v.rows))
	for i, r := range v.rows {
		ids[i] = r.Task.ID
	}
	return ids
}

package store

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/stefanpenner/planner/pkg/task"
)

// ExportVersion is written into every export document.
const ExportVersion = 1

// Export is the JSON document written by `planner export`.
type Export struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Tasks      []task.Task     `json:"tasks"`
	Categories []task.Category `json:"categories"`
	Tags       []task.Tag      `json:"tags"`
}

// Export snapshots the store.
func (s *Store) Export() Export {
	d := s.Data()
	return Export{
		Version:    ExportVersion,
		ExportedAt: s.now(),
		Tasks:      d.Tasks,
		Categories: d.Categories,
		Tags:       d.Tags,
	}
}

// WriteExport encodes the store as indented JSON.
func (s *Store) WriteExport(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Export())
}

// ReadExport decodes an export document.
func ReadExport(r io.Reader) (Export, error) {
	var e Export
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Export{}, fmt.Errorf("decoding export: %w", err)
	}
	if e.Version > ExportVersion {
		return Export{}, fmt.Errorf("export version %d is newer than supported version %d", e.Version, ExportVersion)
	}
	return e, nil
}

// Import replaces every collection with the contents of e. Every record is
// validated first; if any fails, nothing is written.
func (s *Store) Import(e Export) error {
	d := Data{Tasks: task.CloneTasks(e.Tasks), Categories: e.Categories, Tags: e.Tags}
	normalize(&d)
	if err := checkData(&d); err != nil {
		return err
	}
	return s.commit(func(out *Data) error {
		*out = d
		return nil
	})
}

// checkData validates a whole data set, including references between records.
func checkData(d *Data) error {
	var seenCats []task.Category
	for _, c := range d.Categories {
		if err := task.ValidateCategory(c, seenCats).Err(); err != nil {
			return fmt.Errorf("category %q: %w", c.ID, err)
		}
		if containsID(seenCats, c.ID, func(c task.Category) string { return c.ID }) {
			return fmt.Errorf("category %q appears twice", c.ID)
		}
		seenCats = append(seenCats, c)
	}

	var seenTags []task.Tag
	for _, t := range d.Tags {
		if err := task.ValidateTag(t, seenTags).Err(); err != nil {
			return fmt.Errorf("tag %q: %w", t.ID, err)
		}
		if containsID(seenTags, t.ID, func(t task.Tag) string { return t.ID }) {
			return fmt.Errorf("tag %q appears twice", t.ID)
		}
		seenTags = append(seenTags, t)
	}

	ids := make(map[string]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("task %q has no id", t.Title)
		}
		if ids[t.ID] {
			return fmt.Errorf("task %q appears twice", t.ID)
		}
		ids[t.ID] = true
		if err := checkTask(t, d); err != nil {
			return fmt.Errorf("task %q: %w", t.ID, err)
		}
	}
	return nil
}

func containsID[T any](items []T, id string, key func(T) string) bool {
	for _, it := range items {
		if key(it) == id {
			return true
		}
	}
	return false
}

package store

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/stefanpenner/planner/pkg/task"
)

// AddCategory creates a category. Its id is derived from the name.
func (s *Store) AddCategory(name, color string) (task.Category, error) {
	var out task.Category
	err := s.commit(func(d *Data) error {
		c := task.Category{
			ID: uniqueSlug(name, "category", func(id string) bool {
				return slices.ContainsFunc(d.Categories, func(c task.Category) bool { return c.ID == id })
			}),
			Name:  strings.TrimSpace(name),
			Color: color,
		}
		if err := task.ValidateCategory(c, d.Categories).Err(); err != nil {
			return err
		}
		d.Categories = append(d.Categories, c)
		out = c
		return nil
	})
	return out, err
}

// UpdateCategory renames or recolors a category.
func (s *Store) UpdateCategory(id string, p task.CategoryPatch) (task.Category, error) {
	var out task.Category
	err := s.commit(func(d *Data) error {
		i := slices.IndexFunc(d.Categories, func(c task.Category) bool { return c.ID == id })
		if i < 0 {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		c := p.Apply(d.Categories[i])
		c.Name = strings.TrimSpace(c.Name)
		if err := task.ValidateCategory(c, d.Categories).Err(); err != nil {
			return err
		}
		d.Categories[i] = c
		out = c
		return nil
	})
	return out, err
}

// DeleteCategory removes a category. It fails with ErrInUse while any task
// belongs to it.
func (s *Store) DeleteCategory(id string) error {
	return s.commit(func(d *Data) error {
		i := slices.IndexFunc(d.Categories, func(c task.Category) bool { return c.ID == id })
		if i < 0 {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		n := 0
		for _, t := range d.Tasks {
			if t.CategoryID == id {
				n++
			}
		}
		if n > 0 {
			return fmt.Errorf("category %s has %d tasks: %w", id, n, ErrInUse)
		}
		d.Categories = slices.Delete(d.Categories, i, i+1)
		return nil
	})
}

// AddTag creates a tag. Its id is derived from the name.
func (s *Store) AddTag(name, color string) (task.Tag, error) {
	var out task.Tag
	err := s.commit(func(d *Data) error {
		t := task.Tag{
			ID: uniqueSlug(name, "tag", func(id string) bool {
				return slices.ContainsFunc(d.Tags, func(t task.Tag) bool { return t.ID == id })
			}),
			Name:  strings.TrimSpace(name),
			Color: color,
		}
		if err := task.ValidateTag(t, d.Tags).Err(); err != nil {
			return err
		}
		d.Tags = append(d.Tags, t)
		out = t
		return nil
	})
	return out, err
}

// UpdateTag renames or recolors a tag.
func (s *Store) UpdateTag(id string, p task.TagPatch) (task.Tag, error) {
	var out task.Tag
	err := s.commit(func(d *Data) error {
		i := slices.IndexFunc(d.Tags, func(t task.Tag) bool { return t.ID == id })
		if i < 0 {
			return fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
		t := p.Apply(d.Tags[i])
		t.Name = strings.TrimSpace(t.Name)
		if err := task.ValidateTag(t, d.Tags).Err(); err != nil {
			return err
		}
		d.Tags[i] = t
		out = t
		return nil
	})
	return out, err
}

// DeleteTag removes a tag. It fails with ErrInUse while any task carries it.
func (s *Store) DeleteTag(id string) error {
	return s.commit(func(d *Data) error {
		i := slices.IndexFunc(d.Tags, func(t task.Tag) bool { return t.ID == id })
		if i < 0 {
			return fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
		n := 0
		for _, t := range d.Tasks {
			if t.HasTag(id) {
				n++
			}
		}
		if n > 0 {
			return fmt.Errorf("tag %s is on %d tasks: %w", id, n, ErrInUse)
		}
		d.Tags = slices.Delete(d.Tags, i, i+1)
		return nil
	})
}

// Slugify lowercases name and joins its letters and digits with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// uniqueSlug returns the slug of name, suffixed with -2, -3, ... until
// taken reports it free.
func uniqueSlug(name, fallback string, taken func(string) bool) string {
	base := Slugify(name)
	if base == "" {
		base = fallback
	}
	id := base
	for n := 2; taken(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

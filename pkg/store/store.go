package store

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stefanpenner/planner/pkg/recurrence"
	"github.com/stefanpenner/planner/pkg/task"
)

// Store owns the planner's collections. Readers get copies; every write is
// validated, saved through the backend, and only then made visible.
type Store struct {
	backend Backend
	data    Data
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides uuid.NewString for task ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open creates the backend of the given kind inside dir and loads it.
func Open(dir, kind string, opts ...Option) (*Store, error) {
	var (
		b   Backend
		err error
	)
	switch kind {
	case BackendFile, "":
		b, err = NewFileBackend(dir)
	case BackendSQLite:
		b, err = NewSQLiteBackend(filepath.Join(dir, "planner.db"))
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", kind, BackendFile, BackendSQLite)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", kind, err)
	}
	s, err := New(b, opts...)
	if err != nil {
		b.Close()
		return nil, err
	}
	return s, nil
}

// New loads a Store from b. An empty backend is seeded with the default
// categories, and a scheduling pass runs so overdue recurring tasks have
// their next occurrence.
func New(b Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: b,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	if _, err := s.ScheduleRecurrences(s.now()); err != nil {
		return nil, err
	}
	return s, nil
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Now returns the store's clock reading.
func (s *Store) Now() time.Time { return s.now() }

// Reload replaces the in-memory collections with what the backend holds.
func (s *Store) Reload() error {
	d, found, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}
	normalize(&d)
	if !found {
		d.Categories = task.DefaultCategories()
		if err := s.backend.Save(d); err != nil {
			return fmt.Errorf("seeding data: %w", err)
		}
	}
	s.data = d
	return nil
}

func normalize(d *Data) {
	d.Tasks = nonNil(d.Tasks)
	d.Categories = nonNil(d.Categories)
	d.Tags = nonNil(d.Tags)
	for i := range d.Tasks {
		t := &d.Tasks[i]
		t.TagIDs = nonNil(t.TagIDs)
		if t.RecurrenceType == "" {
			t.RecurrenceType = task.RecurrenceNone
		}
	}
}

// Data returns a copy of everything in the store.
func (s *Store) Data() Data { return s.data.Clone() }

// Tasks returns a copy of all tasks in insertion order.
func (s *Store) Tasks() []task.Task { return task.CloneTasks(s.data.Tasks) }

// Categories returns a copy of all categories.
func (s *Store) Categories() []task.Category { return slices.Clone(s.data.Categories) }

// Tags returns a copy of all tags.
func (s *Store) Tags() []task.Tag { return slices.Clone(s.data.Tags) }

// Task looks up a task by id.
func (s *Store) Task(id string) (task.Task, bool) {
	i := indexTask(s.data.Tasks, id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.data.Tasks[i].Clone(), true
}

// Category looks up a category by id.
func (s *Store) Category(id string) (task.Category, bool) {
	i := slices.IndexFunc(s.data.Categories, func(c task.Category) bool { return c.ID == id })
	if i < 0 {
		return task.Category{}, false
	}
	return s.data.Categories[i], true
}

// Tag looks up a tag by id.
func (s *Store) Tag(id string) (task.Tag, bool) {
	i := slices.IndexFunc(s.data.Tags, func(t task.Tag) bool { return t.ID == id })
	if i < 0 {
		return task.Tag{}, false
	}
	return s.data.Tags[i], true
}

func indexTask(tasks []task.Task, id string) int {
	return slices.IndexFunc(tasks, func(t task.Task) bool { return t.ID == id })
}

// commit applies fn to a copy of the data and saves it. Nothing changes in
// memory unless the save succeeds.
func (s *Store) commit(fn func(d *Data) error) error {
	d := s.data.Clone()
	if err := fn(&d); err != nil {
		return err
	}
	if err := s.backend.Save(d); err != nil {
		return fmt.Errorf("saving data: %w", err)
	}
	s.data = d
	return nil
}

// AddTask creates a root task. The id, creation time and completion state
// are assigned by the store; missing category, priority and recurrence type
// get their defaults.
func (s *Store) AddTask(t task.Task) (task.Task, error) {
	t = t.Clone()
	t.ID = s.newID()
	t.Title = strings.TrimSpace(t.Title)
	t.CreatedAt = s.now()
	t.Completed = false
	t.CompletedAt = nil
	t.ParentRecurringID = ""
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if t.RecurrenceType == "" {
		t.RecurrenceType = task.RecurrenceNone
	}
	if !t.IsRecurring {
		t.RecurrenceType = task.RecurrenceNone
		t.RecurrenceData = nil
	}
	t.TagIDs = nonNil(t.TagIDs)

	err := s.commit(func(d *Data) error {
		if t.CategoryID == "" {
			if len(d.Categories) == 0 {
				d.Categories = append(d.Categories, task.DefaultCategories()[0])
			}
			t.CategoryID = defaultCategory(d.Categories)
		}
		if err := checkTask(t, d); err != nil {
			return err
		}
		d.Tasks = append(d.Tasks, t)
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return t.Clone(), nil
}

// defaultCategory picks the category for a task added without one. Callers
// reseed the default category when none are left.
func defaultCategory(categories []task.Category) string {
	for _, c := range categories {
		if c.ID == task.DefaultCategoryID {
			return c.ID
		}
	}
	if len(categories) > 0 {
		return categories[0].ID
	}
	return task.DefaultCategoryID
}

// checkTask validates t on its own and against the categories and tags in d.
func checkTask(t task.Task, d *Data) error {
	r := task.ValidateTask(t)
	if !slices.ContainsFunc(d.Categories, func(c task.Category) bool { return c.ID == t.CategoryID }) {
		r.Valid = false
		r.Errors = append(r.Errors, fmt.Sprintf("unknown category %q", t.CategoryID))
	}
	for _, id := range t.TagIDs {
		if !slices.ContainsFunc(d.Tags, func(tg task.Tag) bool { return tg.ID == id }) {
			r.Valid = false
			r.Errors = append(r.Errors, fmt.Sprintf("unknown tag %q", id))
		}
	}
	return r.Err()
}

// UpdateTask applies p to the task with the given id.
func (s *Store) UpdateTask(id string, p task.TaskPatch) (task.Task, error) {
	var out task.Task
	err := s.commit(func(d *Data) error {
		i := indexTask(d.Tasks, id)
		if i < 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		if p.Title != nil {
			title := strings.TrimSpace(*p.Title)
			p.Title = &title
		}
		updated := p.Apply(d.Tasks[i])
		if err := checkTask(updated, d); err != nil {
			return err
		}
		d.Tasks[i] = updated
		out = updated
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return out.Clone(), nil
}

// SetCompleted marks a task done or not done. Completing records the time;
// reopening clears it. A scheduling pass follows, so finishing a recurring
// task produces its next occurrence.
func (s *Store) SetCompleted(id string, done bool) (task.Task, error) {
	now := s.now()
	var out task.Task
	err := s.commit(func(d *Data) error {
		i := indexTask(d.Tasks, id)
		if i < 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		t := &d.Tasks[i]
		if t.Completed != done {
			t.Completed = done
			if done {
				at := now
				t.CompletedAt = &at
			} else {
				t.CompletedAt = nil
			}
		}
		out = t.Clone()
		d.Tasks = append(d.Tasks, s.scheduler().Generate(d.Tasks, now)...)
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return out, nil
}

// ToggleComplete flips the completion state of a task.
func (s *Store) ToggleComplete(id string) (task.Task, error) {
	t, ok := s.Task(id)
	if !ok {
		return task.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return s.SetCompleted(id, !t.Completed)
}

// DeleteTask removes a task. Occurrences generated from it are kept.
func (s *Store) DeleteTask(id string) error {
	return s.commit(func(d *Data) error {
		i := indexTask(d.Tasks, id)
		if i < 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		d.Tasks = slices.Delete(d.Tasks, i, i+1)
		return nil
	})
}

func (s *Store) scheduler() recurrence.Scheduler {
	return recurrence.Scheduler{NewID: s.newID}
}

// ScheduleRecurrences appends the next occurrence of every recurring task
// that is due for one and returns the new tasks. Running it again without
// other changes adds nothing.
func (s *Store) ScheduleRecurrences(now time.Time) ([]task.Task, error) {
	generated := s.scheduler().Generate(s.data.Tasks, now)
	if len(generated) == 0 {
		return nil, nil
	}
	err := s.commit(func(d *Data) error {
		d.Tasks = append(d.Tasks, generated...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task.CloneTasks(generated), nil
}

package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/planner/pkg/task"
)

// FileBackend stores one markdown file per task under tasks/, plus
// categories.yaml and tags.yaml. The layout is friendly to git and to
// editing by hand.
type FileBackend struct {
	Root string // e.g., ~/.local/share/planner
}

// NewFileBackend creates a FileBackend rooted at the given directory.
// It creates the directory structure if it doesn't exist.
func NewFileBackend(root string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Join(root, "tasks"), 0755); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}
	return &FileBackend{Root: root}, nil
}

// TasksDir returns the path to the tasks directory.
func (b *FileBackend) TasksDir() string {
	return filepath.Join(b.Root, "tasks")
}

// CategoriesPath returns the path to categories.yaml.
func (b *FileBackend) CategoriesPath() string {
	return filepath.Join(b.Root, "categories.yaml")
}

// TagsPath returns the path to tags.yaml.
func (b *FileBackend) TagsPath() string {
	return filepath.Join(b.Root, "tags.yaml")
}

func (b *FileBackend) Path() string { return b.Root }

func (b *FileBackend) Close() error { return nil }

// Load reads every task file and both label files. Tasks come back ordered by
// creation time. Files that fail to parse are reported as errors rather than
// skipped, so a bad hand edit is never silently dropped on the next save.
func (b *FileBackend) Load() (Data, bool, error) {
	var d Data

	found, err := readYAML(b.CategoriesPath(), &d.Categories)
	if err != nil {
		return Data{}, false, err
	}
	if _, err := readYAML(b.TagsPath(), &d.Tags); err != nil {
		return Data{}, false, err
	}

	entries, err := os.ReadDir(b.TasksDir())
	if err != nil && !os.IsNotExist(err) {
		return Data{}, false, fmt.Errorf("reading tasks directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		path := filepath.Join(b.TasksDir(), entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return Data{}, false, fmt.Errorf("reading task %s: %w", entry.Name(), err)
		}
		t, err := ParseTask(string(data))
		if err != nil {
			return Data{}, false, fmt.Errorf("parsing task %s: %w", entry.Name(), err)
		}
		if t.ID == "" {
			t.ID = strings.TrimSuffix(entry.Name(), ".md")
		}
		d.Tasks = append(d.Tasks, t)
		found = true
	}
	slices.SortStableFunc(d.Tasks, func(a, b task.Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return d, found, nil
}

// Save writes changed files and removes task files whose task is gone.
// Unchanged files are left untouched so watchers and git see only real edits.
func (b *FileBackend) Save(d Data) error {
	keep := make(map[string]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		if !validFileID(t.ID) {
			return fmt.Errorf("task id %q cannot be used as a file name", t.ID)
		}
		content, err := SerializeTask(t)
		if err != nil {
			return fmt.Errorf("serializing task %s: %w", t.ID, err)
		}
		name := t.ID + ".md"
		keep[name] = true
		if err := writeIfChanged(filepath.Join(b.TasksDir(), name), []byte(content)); err != nil {
			return fmt.Errorf("writing task %s: %w", t.ID, err)
		}
	}

	entries, err := os.ReadDir(b.TasksDir())
	if err != nil {
		return fmt.Errorf("reading tasks directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" || keep[entry.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(b.TasksDir(), entry.Name())); err != nil {
			return fmt.Errorf("removing task file %s: %w", entry.Name(), err)
		}
	}

	if err := writeYAML(b.CategoriesPath(), nonNil(d.Categories)); err != nil {
		return err
	}
	return writeYAML(b.TagsPath(), nonNil(d.Tags))
}

func validFileID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func readYAML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", filepath.Base(path), err)
	}
	if err := writeIfChanged(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeIfChanged(path string, data []byte) error {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return nil
	}
	return os.WriteFile(path, data, 0644)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

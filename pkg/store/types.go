package store

import (
	"errors"
	"slices"

	"github.com/stefanpenner/planner/pkg/task"
)

var (
	// ErrNotFound is returned when a task, category or tag id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInUse is returned when deleting a category or tag that tasks still reference.
	ErrInUse = errors.New("in use")
)

// Data is everything the planner persists.
type Data struct {
	Tasks      []task.Task     `json:"tasks"`
	Categories []task.Category `json:"categories"`
	Tags       []task.Tag      `json:"tags"`
}

// Clone returns a deep copy.
func (d Data) Clone() Data {
	return Data{
		Tasks:      task.CloneTasks(d.Tasks),
		Categories: slices.Clone(d.Categories),
		Tags:       slices.Clone(d.Tags),
	}
}

// Backend persists Data.
type Backend interface {
	// Load returns the saved data. found is false when nothing has been saved yet.
	Load() (data Data, found bool, err error)
	// Save replaces the saved data.
	Save(Data) error
	// Path is the file or directory to watch for outside changes.
	Path() string
	Close() error
}

// Backend kinds accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/planner/pkg/task"
)

var testNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), BackendFile, WithClock(func() time.Time { return testNow }), WithIDGenerator(seqIDs()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func TestNewStoreSeedsCategories(t *testing.T) {
	s := setupTestStore(t)

	cats := s.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "personal", cats[0].ID)
	assert.Equal(t, "work", cats[1].ID)
	assert.Empty(t, s.Tasks())
	assert.Empty(t, s.Tags())

	b := s.Backend().(*FileBackend)
	_, err := os.Stat(b.CategoriesPath())
	assert.NoError(t, err)
}

func TestSeedOnlyOnce(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, BackendFile)
	require.NoError(t, err)
	require.NoError(t, s.DeleteCategory("work"))

	again, err := Open(dir, BackendFile)
	require.NoError(t, err)
	require.Len(t, again.Categories(), 1)
	assert.Equal(t, "personal", again.Categories()[0].ID)
}

func TestAddTask(t *testing.T) {
	s := setupTestStore(t)

	added, err := s.AddTask(task.Task{Title: "  Buy milk  ", Completed: true, ID: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", added.ID)
	assert.Equal(t, "Buy milk", added.Title)
	assert.Equal(t, task.DefaultCategoryID, added.CategoryID)
	assert.Equal(t, task.PriorityMedium, added.Priority)
	assert.Equal(t, task.RecurrenceNone, added.RecurrenceType)
	assert.Equal(t, []string{}, added.TagIDs)
	assert.False(t, added.Completed)
	assert.Equal(t, testNow, added.CreatedAt)

	got, ok := s.Task("id-1")
	require.True(t, ok)
	assert.Equal(t, added, got)

	// File should exist
	_, err = os.Stat(filepath.Join(s.Backend().(*FileBackend).TasksDir(), "id-1.md"))
	assert.NoError(t, err)
}

func TestAddTaskValidation(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.AddTag("home", "#00AA00")
	require.NoError(t, err)

	tests := []struct {
		name string
		task task.Task
		want string
	}{
		{"empty title", task.Task{Title: "   "}, "title is required"},
		{"unknown category", task.Task{Title: "x", CategoryID: "nope"}, `unknown category "nope"`},
		{"unknown tag", task.Task{Title: "x", TagIDs: []string{"home", "away"}}, `unknown tag "away"`},
		{"recurring without date", task.Task{Title: "x", IsRecurring: true, RecurrenceType: task.RecurrenceDaily}, "needs a due date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddTask(tt.task)
			var verr *task.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.False(t, verr.Result.Valid)
			assert.ErrorContains(t, err, tt.want)
		})
	}
	assert.Empty(t, s.Tasks())
}

func TestUpdateTask(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.AddTag("home", "#00AA00")
	require.NoError(t, err)
	added, err := s.AddTask(task.Task{Title: "Clean", DueDate: "2026-10-20"})
	require.NoError(t, err)

	updated, err := s.UpdateTask(added.ID, task.TaskPatch{
		Title:    ptr(" Clean kitchen "),
		TagIDs:   &[]string{"home"},
		Priority: ptr(task.PriorityHigh),
		DueDate:  ptr(task.Date("")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Clean kitchen", updated.Title)
	assert.Equal(t, []string{"home"}, updated.TagIDs)
	assert.Equal(t, task.PriorityHigh, updated.Priority)
	assert.True(t, updated.DueDate.IsZero())
	assert.Equal(t, added.CreatedAt, updated.CreatedAt)

	// An invalid patch leaves the task alone.
	_, err = s.UpdateTask(added.ID, task.TaskPatch{TagIDs: &[]string{"a", "b", "c", "d"}})
	require.Error(t, err)
	got, _ := s.Task(added.ID)
	assert.Equal(t, "Clean kitchen", got.Title)
	assert.Equal(t, []string{"home"}, got.TagIDs)

	_, err = s.UpdateTask("missing", task.TaskPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetCompleted(t *testing.T) {
	s := setupTestStore(t)
	added, err := s.AddTask(task.Task{Title: "Write report"})
	require.NoError(t, err)

	done, err := s.ToggleComplete(added.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, testNow, *done.CompletedAt)

	reopened, err := s.ToggleComplete(added.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)

	_, err = s.ToggleComplete("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletingRecurringTaskSchedulesOnce(t *testing.T) {
	s := setupTestStore(t)
	root, err := s.AddTask(task.Task{
		Title:          "Water plants",
		DueDate:        "2026-10-12",
		IsRecurring:    true,
		RecurrenceType: task.RecurrenceDaily,
	})
	require.NoError(t, err)
	// Open and overdue already generates the next day's occurrence.
	gen, err := s.ScheduleRecurrences(testNow)
	require.NoError(t, err)
	require.Len(t, gen, 1)
	assert.Equal(t, task.Date("2026-10-13"), gen[0].DueDate)
	assert.Equal(t, root.ID, gen[0].ParentRecurringID)

	_, err = s.SetCompleted(root.ID, true)
	require.NoError(t, err)
	again, err := s.ScheduleRecurrences(testNow)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, s.Tasks(), 2)
}

func TestScheduleOnLoad(t *testing.T) {
	dir := t.TempDir()
	clock := WithClock(func() time.Time { return testNow })

	s, err := Open(dir, BackendFile, clock, WithIDGenerator(seqIDs()))
	require.NoError(t, err)
	// Created with a future due date, so nothing is generated yet.
	_, err = s.AddTask(task.Task{
		Title:          "Standup",
		DueDate:        "2026-10-15",
		IsRecurring:    true,
		RecurrenceType: task.RecurrenceWeekly,
		RecurrenceData: &task.RecurrenceData{Weekdays: []int{1, 4}},
	})
	require.NoError(t, err)
	assert.Len(t, s.Tasks(), 1)

	later := WithClock(func() time.Time { return testNow.AddDate(0, 0, 3) })
	reopened, err := Open(dir, BackendFile, later, WithIDGenerator(func() string { return "gen" }))
	require.NoError(t, err)
	tasks := reopened.Tasks()
	require.Len(t, tasks, 2)
	// Thursday 15th with Mon/Thu selected moves to Monday the 19th.
	assert.Equal(t, task.Date("2026-10-19"), tasks[1].DueDate)
	assert.Equal(t, "gen", tasks[1].ID)
}

func TestDeleteTask(t *testing.T) {
	s := setupTestStore(t)
	added, err := s.AddTask(task.Task{Title: "Temp"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(added.ID))
	_, ok := s.Task(added.ID)
	assert.False(t, ok)

	_, err = os.Stat(filepath.Join(s.Backend().(*FileBackend).TasksDir(), added.ID+".md"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, s.DeleteTask(added.ID), ErrNotFound)
}

func TestCategories(t *testing.T) {
	s := setupTestStore(t)

	c, err := s.AddCategory("Side Projects!", "#123abc")
	require.NoError(t, err)
	assert.Equal(t, "side-projects", c.ID)
	assert.Equal(t, "Side Projects!", c.Name)

	_, err = s.AddCategory("side projects!", "#123abc")
	assert.ErrorContains(t, err, "already exists")

	_, err = s.AddCategory("Hobby", "blue")
	assert.ErrorContains(t, err, "hex color")

	renamed, err := s.UpdateCategory(c.ID, task.CategoryPatch{Name: ptr("Side")})
	require.NoError(t, err)
	assert.Equal(t, "Side", renamed.Name)
	assert.Equal(t, c.ID, renamed.ID)

	_, err = s.AddTask(task.Task{Title: "Ship", CategoryID: c.ID})
	require.NoError(t, err)
	err = s.DeleteCategory(c.ID)
	assert.ErrorIs(t, err, ErrInUse)

	assert.ErrorIs(t, s.DeleteCategory("missing"), ErrNotFound)
}

func TestCategoryLimit(t *testing.T) {
	s := setupTestStore(t)
	for i := len(s.Categories()); i < task.MaxCategories; i++ {
		_, err := s.AddCategory(fmt.Sprintf("cat %d", i), "#000000")
		require.NoError(t, err)
	}
	_, err := s.AddCategory("one too many", "#000000")
	assert.ErrorContains(t, err, "at most 20 categories")
}

func TestTags(t *testing.T) {
	s := setupTestStore(t)

	tag, err := s.AddTag("Home", "#00AA00")
	require.NoError(t, err)
	assert.Equal(t, "home", tag.ID)

	// Same slug, different name: the id gets a suffix.
	other, err := s.AddTag("home!", "#00AA00")
	require.NoError(t, err)
	assert.Equal(t, "home-2", other.ID)

	added, err := s.AddTask(task.Task{Title: "Mop", TagIDs: []string{tag.ID}})
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteTag(tag.ID), ErrInUse)

	_, err = s.UpdateTask(added.ID, task.TaskPatch{TagIDs: &[]string{}})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTag(tag.ID))
	_, ok := s.Tag(tag.ID)
	assert.False(t, ok)

	recolored, err := s.UpdateTag(other.ID, task.TagPatch{Color: ptr("#FFFFFF")})
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", recolored.Color)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "side-projects", Slugify("  Side   Projects! "))
	assert.Equal(t, "q3-2026", Slugify("Q3/2026"))
	assert.Equal(t, "", Slugify("!!!"))
}

type failingBackend struct {
	Backend
	fail bool
}

func (b *failingBackend) Save(d Data) error {
	if b.fail {
		return errors.New("disk full")
	}
	return b.Backend.Save(d)
}

func TestSaveFailureRollsBack(t *testing.T) {
	fb, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	b := &failingBackend{Backend: fb}
	s, err := New(b, WithIDGenerator(seqIDs()))
	require.NoError(t, err)

	b.fail = true
	_, err = s.AddTask(task.Task{Title: "Lost"})
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, s.Tasks())
}

func TestReloadSeesOutsideEdits(t *testing.T) {
	s := setupTestStore(t)
	added, err := s.AddTask(task.Task{Title: "Original"})
	require.NoError(t, err)

	b := s.Backend().(*FileBackend)
	path := filepath.Join(b.TasksDir(), added.ID+".md")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := bytes.Replace(data, []byte("title: Original"), []byte("title: Edited"), 1)
	require.NoError(t, os.WriteFile(path, edited, 0644))

	require.NoError(t, s.Reload())
	got, _ := s.Task(added.ID)
	assert.Equal(t, "Edited", got.Title)
}

func TestSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, BackendSQLite, WithClock(func() time.Time { return testNow }), WithIDGenerator(seqIDs()))
	require.NoError(t, err)

	_, err = s.AddTag("urgent", "#FF0000")
	require.NoError(t, err)
	added, err := s.AddTask(task.Task{
		Title:       "Call bank",
		Description: "ask about fees",
		TagIDs:      []string{"urgent"},
		DueDate:     "2026-10-15",
		DueTime:     "10:00",
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(dir, BackendSQLite)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Task(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Call bank", got.Title)
	assert.Equal(t, "ask about fees", got.Description)
	assert.Equal(t, []string{"urgent"}, got.TagIDs)
	assert.Equal(t, task.Date("2026-10-15"), got.DueDate)
	assert.True(t, got.CreatedAt.Equal(testNow))
	assert.Len(t, reopened.Categories(), 2)
	assert.Equal(t, filepath.Join(dir, "planner.db"), reopened.Backend().Path())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(t.TempDir(), "postgres")
	assert.ErrorContains(t, err, "unknown backend")
}

func TestExportImport(t *testing.T) {
	src := setupTestStore(t)
	_, err := src.AddTag("home", "#00AA00")
	require.NoError(t, err)
	_, err = src.AddTask(task.Task{Title: "One", TagIDs: []string{"home"}})
	require.NoError(t, err)
	_, err = src.AddTask(task.Task{Title: "Two", Priority: task.PriorityLow})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.WriteExport(&buf))
	assert.Contains(t, buf.String(), `"categoryId": "personal"`)
	assert.Contains(t, buf.String(), `"version": 1`)

	doc, err := ReadExport(&buf)
	require.NoError(t, err)

	dst := setupTestStore(t)
	require.NoError(t, dst.Import(doc))
	assert.Equal(t, src.Tasks(), dst.Tasks())
	assert.Equal(t, src.Tags(), dst.Tags())
	assert.Equal(t, src.Categories(), dst.Categories())
}

func TestImportIsAtomic(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.AddTask(task.Task{Title: "Keep me"})
	require.NoError(t, err)

	doc := Export{
		Version:    ExportVersion,
		Categories: task.DefaultCategories(),
		Tasks: []task.Task{
			{ID: "a", Title: "fine", CategoryID: "personal", Priority: task.PriorityLow},
			{ID: "b", Title: "bad", CategoryID: "ghost", Priority: task.PriorityLow},
		},
	}
	err = s.Import(doc)
	assert.ErrorContains(t, err, `unknown category "ghost"`)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Keep me", tasks[0].Title)

	doc.Tasks[1].CategoryID = "personal"
	doc.Tasks[1].ID = "a"
	assert.ErrorContains(t, s.Import(doc), "appears twice")
}

func TestReadExportRejectsNewerVersion(t *testing.T) {
	_, err := ReadExport(bytes.NewBufferString(`{"version": 99}`))
	assert.ErrorContains(t, err, "newer than supported")
}

func TestAddTaskReseedsDefaultCategory(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.DeleteCategory("personal"))
	require.NoError(t, s.DeleteCategory("work"))
	require.Empty(t, s.Categories())

	added, err := s.AddTask(task.Task{Title: "Orphan"})
	require.NoError(t, err)
	assert.Equal(t, task.DefaultCategoryID, added.CategoryID)

	require.Len(t, s.Categories(), 1)
	assert.Equal(t, task.DefaultCategoryID, s.Categories()[0].ID)
}

func TestDescriptionSurvivesReload(t *testing.T) {
	s := setupTestStore(t)
	descriptions := []string{
		"\nstarts with blank line",
		"ends with spaces  ",
		"two trailing newlines\n\n",
	}
	var ids []string
	for _, d := range descriptions {
		added, err := s.AddTask(task.Task{Title: "Notes", Description: d})
		require.NoError(t, err)
		ids = append(ids, added.ID)
	}

	require.NoError(t, s.Reload())
	for i, id := range ids {
		got, ok := s.Task(id)
		require.True(t, ok)
		assert.Equal(t, descriptions[i], got.Description)
	}
}

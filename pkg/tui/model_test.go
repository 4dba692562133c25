package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/planner/pkg/config"
	"github.com/stefanpenner/planner/pkg/filter"
	"github.com/stefanpenner/planner/pkg/store"
	"github.com/stefanpenner/planner/pkg/task"
)

var testNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func setupModel(t *testing.T, titles ...string) (Model, *store.Store) {
	t.Helper()
	n := 0
	s, err := store.Open(t.TempDir(), store.BackendFile,
		store.WithClock(func() time.Time { return testNow }),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for _, title := range titles {
		_, err := s.AddTask(task.Task{Title: title})
		require.NoError(t, err)
	}

	cfg := config.DefaultConfig()
	return NewModel(s, cfg, s.Backend().Path()), s
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = send(t, m, msg)
	}
	return m
}

func TestNewModelListsPendingTasks(t *testing.T) {
	m, _ := setupModel(t, "Buy milk", "Write report")
	assert.Equal(t, 2, m.list.Len())
	assert.Equal(t, filter.StatusAll, m.state.Status)
}

func TestAddTaskFromInput(t *testing.T) {
	m, s := setupModel(t)

	m = press(t, m, "a")
	assert.Equal(t, inputAdd, m.inputMode)

	m = press(t, m, "P", "a", "y", " ", "r", "e", "n", "t", "enter")
	assert.Equal(t, inputNone, m.inputMode)

	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "Pay rent", s.Tasks()[0].Title)
	require.Equal(t, 1, m.list.Len())
	assert.Equal(t, "Pay rent", m.list.At(m.cursor).Task.Title)
}

func TestAddTaskInheritsCategoryFilter(t *testing.T) {
	m, s := setupModel(t)
	m = press(t, m, "c")
	require.Equal(t, task.DefaultCategoryID, m.state.CategoryID)

	m = press(t, m, "c")
	work := m.state.CategoryID
	require.NotEmpty(t, work)

	m = press(t, m, "a", "x", "enter")
	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, work, s.Tasks()[0].CategoryID)
	assert.Equal(t, 1, m.list.Len())
}

func TestEscCancelsInput(t *testing.T) {
	m, s := setupModel(t)
	m = press(t, m, "a", "x", "esc")
	assert.Equal(t, inputNone, m.inputMode)
	assert.Empty(t, s.Tasks())
}

func TestToggleCompleteHidesTask(t *testing.T) {
	m, s := setupModel(t, "Buy milk")

	m = press(t, m, " ")

	got, ok := s.Task("id-1")
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.Equal(t, 0, m.list.Len(), "completed tasks are hidden under the default status")

	m = press(t, m, "f", "F")
	assert.Equal(t, filter.StatusAll, m.state.Status)
}

func TestStatusFilterCycles(t *testing.T) {
	m, _ := setupModel(t, "Buy milk")

	m = press(t, m, "f")
	assert.Equal(t, filter.StatusAll.Next(1), m.state.Status)

	m = press(t, m, "F", "F")
	assert.Equal(t, filter.StatusAll.Next(-1), m.state.Status)
}

func TestPriorityCycle(t *testing.T) {
	m, s := setupModel(t, "Buy milk")
	m = press(t, m, "p")

	got, _ := s.Task("id-1")
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, task.PriorityHigh, m.list.At(0).Task.Priority)
}

func TestExpandSurvivesEdit(t *testing.T) {
	m, _ := setupModel(t, "Buy milk")
	m = press(t, m, "enter")
	require.True(t, m.list.At(0).Expanded)

	m = press(t, m, "p")
	assert.True(t, m.list.At(0).Expanded, "in-place replace keeps expansion")
}

func TestDeleteConfirm(t *testing.T) {
	m, s := setupModel(t, "Buy milk", "Write report")

	m = press(t, m, "d")
	assert.True(t, m.showDeleteConfirm)
	m = press(t, m, "n")
	assert.False(t, m.showDeleteConfirm)
	assert.Len(t, s.Tasks(), 2)

	target := m.list.At(m.cursor).Task.ID
	m = press(t, m, "d", "y")
	assert.Len(t, s.Tasks(), 1)
	assert.Equal(t, -1, m.list.IndexOf(target))
}

func TestSearchIsDebounced(t *testing.T) {
	m, _ := setupModel(t, "Buy milk", "Write report")

	m = press(t, m, "/")
	require.True(t, m.isSearching)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("mil")})
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.state.Search, "filter waits for the debounce")
	assert.Equal(t, 2, m.list.Len())

	stale := m.searchSeq
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})

	m, _ = send(t, m, searchMsg{seq: stale})
	assert.Equal(t, "", m.state.Search, "superseded keystroke is ignored")

	m, _ = send(t, m, searchMsg{seq: m.searchSeq})
	assert.Equal(t, "milk", m.state.Search)
	require.Equal(t, 1, m.list.Len())
	assert.Equal(t, "Buy milk", m.list.At(0).Task.Title)

	m = press(t, m, "esc")
	assert.False(t, m.isSearching)
	assert.Equal(t, "", m.state.Search)
	assert.Equal(t, 2, m.list.Len())
}

func TestSearchWithoutDebounce(t *testing.T) {
	m, _ := setupModel(t, "Buy milk", "Write report")
	m.searchDebounce = 0

	m = press(t, m, "/", "r", "e", "p")
	assert.Equal(t, "rep", m.state.Search)
	assert.Equal(t, 1, m.list.Len())
}

func TestSortChangeRebuildsInOrder(t *testing.T) {
	m, s := setupModel(t, "banana", "apple", "cherry")

	for m.state.SortField != filter.SortTitle {
		m = press(t, m, "o")
	}
	if m.state.Direction != filter.Asc {
		m = press(t, m, "O")
	}

	want := filter.Apply(s.Tasks(), m.state, s.Categories(), s.Tags(), s.Now())
	var ids []string
	for _, tk := range want {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, ids, m.list.IDs())
	assert.Equal(t, "apple", m.list.At(0).Task.Title)
}

func TestClearFilters(t *testing.T) {
	m, _ := setupModel(t, "Buy milk")
	m = press(t, m, "f", "c", "t")
	m = press(t, m, "x")
	assert.False(t, m.state.IsNarrowed())
	assert.Equal(t, 1, m.list.Len())
}

func TestFileChangedReloads(t *testing.T) {
	m, s := setupModel(t, "Buy milk")

	// A second handle on the same directory stands in for an outside edit.
	other, err := store.Open(s.Backend().Path(), store.BackendFile,
		store.WithClock(func() time.Time { return testNow }),
		store.WithIDGenerator(func() string { return "outside" }),
	)
	require.NoError(t, err)
	_, err = other.AddTask(task.Task{Title: "From elsewhere"})
	require.NoError(t, err)

	m, _ = send(t, m, FileChangedMsg{})
	assert.Equal(t, 2, m.list.Len())
	assert.GreaterOrEqual(t, m.list.IndexOf("outside"), 0)
}

func TestViewRendersTasks(t *testing.T) {
	m, _ := setupModel(t, "Buy milk")
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	out := m.View()
	assert.Contains(t, out, "Planner")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "status: all")

	m = press(t, m, "?")
	assert.True(t, strings.Contains(m.View(), "Keyboard Shortcuts"))
}

func TestViewEmptyStates(t *testing.T) {
	m, _ := setupModel(t)
	assert.Contains(t, m.View(), "No tasks yet")

	m = press(t, m, "f")
	assert.Contains(t, m.View(), "No tasks match")
}

func TestCycleID(t *testing.T) {
	ids := []string{"a", "b"}
	assert.Equal(t, "a", cycleID("", ids))
	assert.Equal(t, "b", cycleID("a", ids))
	assert.Equal(t, "", cycleID("b", ids))
	assert.Equal(t, "", cycleID("gone", ids))
	assert.Equal(t, "", cycleID("", nil))
}

func TestHighlightMatch(t *testing.T) {
	plain := lipgloss.NewStyle()
	tests := []struct {
		name  string
		title string
		query string
	}{
		{"ascii", "Buy milk", "MIL"},
		{"no match", "Buy milk", "bread"},
		// The Kelvin sign lowercases to a one-byte "k".
		{"query shrinks when lowercased", "Call Bok", "\u212A"},
		{"title shrinks when lowercased", "\u212Aelvin scale", "elvin"},
		{"empty query", "Buy milk", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out string
			require.NotPanics(t, func() {
				out = highlightMatch(tt.title, tt.query, plain, plain)
			})
			assert.Equal(t, tt.title, out)
		})
	}
}

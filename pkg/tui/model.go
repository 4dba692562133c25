package tui

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stefanpenner/planner/pkg/config"
	"github.com/stefanpenner/planner/pkg/filter"
	"github.com/stefanpenner/planner/pkg/reconcile"
	"github.com/stefanpenner/planner/pkg/store"
	gsync "github.com/stefanpenner/planner/pkg/sync"
	"github.com/stefanpenner/planner/pkg/task"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

// EditorFinishedMsg is sent when $EDITOR returns.
type EditorFinishedMsg struct {
	Err error
}

// searchMsg fires when the search debounce for keystroke seq expires.
type searchMsg struct {
	seq int
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputRename
)

// Model is the Bubble Tea model for the planner TUI.
type Model struct {
	store   *store.Store
	dataDir string
	keys    KeyMap
	width   int
	height  int

	// Filter pass and rendered rows
	state      filter.State
	list       *ListView
	reconciler *reconcile.Reconciler
	lookup     filter.Lookup
	stats      listStats

	cursor       int
	focusedPane  int // 0 = list, 1 = details
	detailScroll int

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteTarget      string

	// Input mode (add / rename)
	inputMode inputMode
	textInput textinput.Model
	renameID  string

	// Inline description editing
	isEditing  bool
	descEditor textarea.Model
	editTaskID string

	// Search state. searchInput is what has been typed; state.Search is what
	// the list is filtered by once the debounce expires.
	isSearching    bool
	searchInput    string
	searchSeq      int
	searchDebounce time.Duration

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

type listStats struct {
	total   int
	open    int
	overdue int
}

// NewModel creates a new TUI model and renders the initial list.
func NewModel(s *store.Store, cfg *config.Config, dataDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "task title"
	ti.CharLimit = task.MaxTitleLength

	list := NewListView()
	m := Model{
		store:          s,
		dataDir:        dataDir,
		keys:           DefaultKeyMap(),
		state:          cfg.FilterState(),
		list:           list,
		reconciler:     reconcile.NewReconciler(list),
		textInput:      ti,
		searchDebounce: cfg.SearchDebounce,
	}
	m.refresh(true)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(m.detailWidth() - 2)
		if m.isEditing {
			m.sizeEditor()
		}
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.setStatus("Sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("Synced successfully")
			m.reload()
		}
		return m, nil

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.setStatus("Editor error: " + msg.Err.Error())
		}
		m.reload()
		return m, nil

	case searchMsg:
		if msg.seq == m.searchSeq {
			m.applySearch()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Update text input if in input mode
	if m.inputMode != inputNone {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	// Update textarea if in edit mode
	if m.isEditing {
		var cmd tea.Cmd
		m.descEditor, cmd = m.descEditor.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Input mode handling
	if m.inputMode != inputNone {
		return m.handleInputMode(msg)
	}

	// Inline edit mode handling
	if m.isEditing {
		return m.handleEditMode(msg)
	}

	// Search input mode handling
	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// Delete confirmation
	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			if err := m.store.DeleteTask(m.deleteTarget); err != nil {
				m.setStatus("Delete failed: " + err.Error())
			} else {
				m.setStatus("Deleted")
				m.refresh(false)
			}
			m.showDeleteConfirm = false
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	// Normal mode
	row := m.list.At(m.cursor)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == 1 {
			if m.detailScroll > 0 {
				m.detailScroll--
			}
		} else if m.cursor > 0 {
			m.cursor--
			m.detailScroll = 0
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == 1 {
			m.detailScroll++
		} else if m.cursor < m.list.Len()-1 {
			m.cursor++
			m.detailScroll = 0
		}

	case key.Matches(msg, m.keys.Enter):
		if row != nil {
			row.Expanded = !row.Expanded
		}

	case key.Matches(msg, m.keys.Space):
		if row != nil {
			t, err := m.store.ToggleComplete(row.Task.ID)
			if err != nil {
				m.setStatus("Error: " + err.Error())
				break
			}
			if t.Completed {
				m.setStatus("Completed: " + t.Title)
			} else {
				m.setStatus("Reopened: " + t.Title)
			}
			m.refresh(false)
		}

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = (m.focusedPane + 1) % 2

	case key.Matches(msg, m.keys.Add):
		m.inputMode = inputAdd
		m.textInput.Reset()
		m.textInput.Focus()
		m.textInput.Placeholder = "new task title"
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Rename):
		if row != nil {
			m.inputMode = inputRename
			m.renameID = row.Task.ID
			m.textInput.Reset()
			m.textInput.SetValue(row.Task.Title)
			m.textInput.Focus()
			m.textInput.Placeholder = "new title"
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.InlineEdit):
		if row != nil {
			m.enterEditMode(row.Task)
			return m, textarea.Blink
		}

	case key.Matches(msg, m.keys.ExternalEdit):
		if row != nil {
			return m, m.openEditor(row.Task)
		}

	case key.Matches(msg, m.keys.Delete):
		if row != nil {
			m.deleteTarget = row.Task.ID
			m.showDeleteConfirm = true
		}

	case key.Matches(msg, m.keys.Priority):
		if row != nil {
			next := row.Task.Priority.Next()
			if _, err := m.store.UpdateTask(row.Task.ID, task.TaskPatch{Priority: &next}); err != nil {
				m.setStatus("Error: " + err.Error())
				break
			}
			m.setStatus(row.Task.Title + " → " + string(next))
			m.refresh(false)
		}

	case key.Matches(msg, m.keys.NextStatus):
		m.state.Status = m.state.Status.Next(1)
		m.refresh(false)

	case key.Matches(msg, m.keys.PrevStatus):
		m.state.Status = m.state.Status.Next(-1)
		m.refresh(false)

	case key.Matches(msg, m.keys.CategoryFilter):
		var ids []string
		for _, c := range m.store.Categories() {
			ids = append(ids, c.ID)
		}
		m.state.CategoryID = cycleID(m.state.CategoryID, ids)
		m.refresh(false)

	case key.Matches(msg, m.keys.TagFilter):
		var ids []string
		for _, t := range m.store.Tags() {
			ids = append(ids, t.ID)
		}
		m.state.TagID = cycleID(m.state.TagID, ids)
		m.refresh(false)

	case key.Matches(msg, m.keys.SortField):
		// Added rows only ever append, so a new order needs a full rebuild.
		m.state.SortField = m.state.SortField.Next()
		m.refresh(true)

	case key.Matches(msg, m.keys.SortDirection):
		m.state.Direction = m.state.Direction.Toggle()
		m.refresh(true)

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchInput = m.state.Search

	case key.Matches(msg, m.keys.ClearFilters):
		m.state.Status = filter.StatusAll
		m.state.CategoryID = ""
		m.state.TagID = ""
		m.state.Search = ""
		m.searchInput = ""
		m.refresh(false)

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Sync):
		m.setStatus("Syncing...")
		return m, m.doSync()

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// handleInputMode handles key messages while adding or renaming a task.
func (m Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = inputNone
		return m, nil

	case tea.KeyEnter:
		title := strings.TrimSpace(m.textInput.Value())
		mode := m.inputMode
		m.inputMode = inputNone
		if title == "" {
			return m, nil
		}
		switch mode {
		case inputAdd:
			m.addTask(title)
		case inputRename:
			if _, err := m.store.UpdateTask(m.renameID, task.TaskPatch{Title: &title}); err != nil {
				m.setStatus("Error: " + err.Error())
			} else {
				m.setStatus("Renamed to: " + title)
				m.refresh(false)
			}
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

// addTask creates a task in the active category and tag filters so it shows
// up in the current view.
func (m *Model) addTask(title string) {
	t := task.Task{Title: title, CategoryID: m.state.CategoryID}
	if m.state.TagID != "" {
		t.TagIDs = []string{m.state.TagID}
	}
	added, err := m.store.AddTask(t)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.setStatus("Added: " + added.Title)
	m.refresh(false)
	if i := m.list.IndexOf(added.ID); i >= 0 {
		m.cursor = i
	}
}

// handleEditMode handles key messages while inline editing.
func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		// Save and exit
		m.saveInlineEdit()
		m.isEditing = false
		m.descEditor.Blur()
		m.refresh(false)
		return m, nil

	case msg.Type == tea.KeyCtrlS:
		// Save but stay in edit mode
		m.saveInlineEdit()
		m.refresh(false)
		return m, nil

	case msg.Type == tea.KeyCtrlC:
		// Cancel without saving
		m.isEditing = false
		m.descEditor.Blur()
		m.setStatus("Edit cancelled")
		return m, nil

	default:
		var cmd tea.Cmd
		m.descEditor, cmd = m.descEditor.Update(msg)
		return m, cmd
	}
}

// handleSearchInput handles key messages while typing in the search bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Exit search and clear filter
		m.isSearching = false
		m.searchInput = ""
		m.searchSeq++
		m.applySearch()
		return m, nil

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Exit search input and apply right away
		m.isSearching = false
		m.searchSeq++
		m.applySearch()
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchInput) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchInput)
			m.searchInput = m.searchInput[:len(m.searchInput)-size]
		}
		return m, m.debounceSearch()

	case tea.KeySpace:
		m.searchInput += " "
		return m, m.debounceSearch()

	default:
		if msg.Type == tea.KeyRunes {
			m.searchInput += string(msg.Runes)
			return m, m.debounceSearch()
		}
		return m, nil
	}
}

// debounceSearch schedules a filter pass for the current keystroke. Earlier
// pending passes are superseded by the sequence number.
func (m *Model) debounceSearch() tea.Cmd {
	m.searchSeq++
	if m.searchDebounce <= 0 {
		m.applySearch()
		return nil
	}
	seq := m.searchSeq
	return tea.Tick(m.searchDebounce, func(time.Time) tea.Msg {
		return searchMsg{seq: seq}
	})
}

func (m *Model) applySearch() {
	if m.state.Search == m.searchInput {
		return
	}
	m.state.Search = m.searchInput
	m.refresh(false)
}

// enterEditMode sets up the textarea for inline editing of a task description.
func (m *Model) enterEditMode(t task.Task) {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = task.MaxDescriptionLength
	ta.SetValue(t.Description)
	ta.Focus()

	m.isEditing = true
	m.descEditor = ta
	m.editTaskID = t.ID
	m.focusedPane = 1
	m.sizeEditor()
}

func (m *Model) sizeEditor() {
	width := m.detailWidth()
	height := m.height - 5 - 4
	if height < 3 {
		height = 3
	}
	m.descEditor.SetWidth(width)
	m.descEditor.SetHeight(height)
}

// saveInlineEdit saves the textarea content as the task description.
func (m *Model) saveInlineEdit() {
	desc := m.descEditor.Value()
	if _, err := m.store.UpdateTask(m.editTaskID, task.TaskPatch{Description: &desc}); err != nil {
		m.setStatus("Save error: " + err.Error())
		return
	}
	m.setStatus("Saved")
}

// reload re-reads the backend, runs a scheduling pass and refreshes the list.
func (m *Model) reload() {
	if err := m.store.Reload(); err != nil {
		log.Printf("reload: %v", err)
		m.setStatus("Load error: " + err.Error())
		return
	}
	generated, err := m.store.ScheduleRecurrences(m.store.Now())
	if err != nil {
		log.Printf("scheduling recurrences: %v", err)
		m.setStatus("Scheduling error: " + err.Error())
	} else if len(generated) > 0 {
		log.Printf("scheduled %d recurring occurrences", len(generated))
	}
	m.refresh(false)
}

// refresh runs a filter pass and reconciles the list with its result. With
// rebuild set the list is cleared and rendered in sorted order.
func (m *Model) refresh(rebuild bool) {
	categories, tags := m.store.Categories(), m.store.Tags()
	m.lookup = filter.NewLookup(categories, tags)

	now := m.store.Now()
	all := m.store.Tasks()
	visible := filter.Apply(all, m.state, categories, tags, now)
	m.stats = computeStats(all, now)

	var selected string
	if row := m.list.At(m.cursor); row != nil {
		selected = row.Task.ID
	}

	m.list.ClearFresh()
	if rebuild {
		if err := m.reconciler.Rebuild(visible); err != nil {
			log.Printf("rebuilding list: %v", err)
			m.setStatus("Render error: " + err.Error())
		}
		m.list.ClearFresh()
	} else {
		res, err := m.reconciler.Sync(visible)
		if res.FellBack {
			log.Printf("list patch failed, rebuilt from scratch: %v", res.Cause)
		}
		if err != nil {
			log.Printf("rebuilding list: %v", err)
			m.setStatus("Render error: " + err.Error())
		}
	}

	if i := m.list.IndexOf(selected); i >= 0 {
		m.cursor = i
	}
	if m.cursor >= m.list.Len() {
		m.cursor = m.list.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func computeStats(all []task.Task, now time.Time) listStats {
	today := task.DateOf(now)
	var s listStats
	for _, t := range all {
		s.total++
		if !t.Completed {
			s.open++
		}
		if t.IsOverdue(today) {
			s.overdue++
		}
	}
	return s
}

// cycleID steps through "" followed by ids.
func cycleID(current string, ids []string) string {
	if current == "" {
		if len(ids) == 0 {
			return ""
		}
		return ids[0]
	}
	for i, id := range ids {
		if id == current {
			if i+1 < len(ids) {
				return ids[i+1]
			}
			return ""
		}
	}
	return ""
}

func (m Model) detailWidth() int {
	w := m.width - m.width/2 - 1
	if w < 20 {
		w = 20
	}
	return w
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

// openEditor opens the task's markdown file in $EDITOR. Only the file
// backend keeps one file per task.
func (m *Model) openEditor(t task.Task) tea.Cmd {
	fb, ok := m.store.Backend().(*store.FileBackend)
	if !ok {
		m.setStatus("$EDITOR needs the file backend")
		return nil
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	c := exec.Command(editor, filepath.Join(fb.TasksDir(), t.ID+".md"))
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

func (m Model) doSync() tea.Cmd {
	dir := m.dataDir
	return func() tea.Msg {
		var out bytes.Buffer
		err := gsync.SyncRepo(context.Background(), dir, &out)
		log.Printf("git sync:\n%s", out.String())
		return SyncDoneMsg{Err: err}
	}
}

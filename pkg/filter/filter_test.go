package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/planner/pkg/task"
)

var now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

var (
	categories = []task.Category{
		{ID: "personal", Name: "Personal", Color: "#4285F4"},
		{ID: "work", Name: "Work", Color: "#E05252"},
	}
	tags = []task.Tag{
		{ID: "urgent", Name: "Urgent", Color: "#E05252"},
		{ID: "home", Name: "home", Color: "#25A065"},
		{ID: "errand", Name: "Errand", Color: "#E5C07B"},
	}
)

func mk(id string, opts ...func(*task.Task)) task.Task {
	t := task.Task{
		ID:             id,
		Title:          id,
		CategoryID:     "personal",
		Priority:       task.PriorityMedium,
		RecurrenceType: task.RecurrenceNone,
		CreatedAt:      now.Add(-time.Hour),
	}
	for _, o := range opts {
		o(&t)
	}
	return t
}

func completed(daysAgo int) func(*task.Task) {
	return func(t *task.Task) {
		t.Completed = true
		at := now.AddDate(0, 0, -daysAgo)
		t.CompletedAt = &at
	}
}

func due(d task.Date) func(*task.Task) { return func(t *task.Task) { t.DueDate = d } }

func category(id string) func(*task.Task) { return func(t *task.Task) { t.CategoryID = id } }

func tagged(ids ...string) func(*task.Task) { return func(t *task.Task) { t.TagIDs = ids } }

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func apply(tasks []task.Task, mutate func(*State)) []task.Task {
	s := DefaultState()
	s.SortField = SortTitle
	s.Direction = Asc
	if mutate != nil {
		mutate(&s)
	}
	return Apply(tasks, s, categories, tags, now)
}

func TestAllHidesCompleted(t *testing.T) {
	tasks := []task.Task{
		mk("A", category("x")),
		mk("B", category("x"), completed(1)),
	}
	assert.Equal(t, []string{"A"}, ids(apply(tasks, nil)))
}

func TestDefaultHideAppliesToEveryStatusButCompleted(t *testing.T) {
	tasks := []task.Task{
		mk("pending-high", func(t *task.Task) { t.Priority = task.PriorityHigh; t.DueDate = task.DateOf(now) }),
		mk("done-high", completed(1), func(t *task.Task) { t.Priority = task.PriorityHigh; t.DueDate = task.DateOf(now) }),
		mk("done-recurring", completed(1), func(t *task.Task) {
			t.IsRecurring = true
			t.RecurrenceType = task.RecurrenceDaily
			t.DueDate = "2026-10-10"
		}),
		mk("done-overdue", completed(1), due("2026-10-01")),
	}
	for _, st := range Statuses {
		if st == StatusCompleted {
			continue
		}
		t.Run(string(st), func(t *testing.T) {
			for _, got := range apply(tasks, func(s *State) { s.Status = st }) {
				assert.False(t, got.Completed, "status %s surfaced %s", st, got.ID)
			}
		})
	}

	got := apply(tasks, func(s *State) { s.Status = "bogus" })
	assert.Equal(t, []string{"pending-high"}, ids(got))
}

func TestCompletedRetentionWindow(t *testing.T) {
	tests := []struct {
		name      string
		daysAgo   int
		retention int
		want      bool
	}{
		{"completed 40 days ago, 30 day window", 40, 30, false},
		{"completed 10 days ago, 30 day window", 10, 30, true},
		{"exactly on the cutoff", 30, 30, true},
		{"zero window keeps everything", 400, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []task.Task{mk("done", completed(tt.daysAgo)), mk("pending")}
			got := apply(tasks, func(s *State) {
				s.Status = StatusCompleted
				s.RetentionDays = tt.retention
			})
			if tt.want {
				assert.Equal(t, []string{"done"}, ids(got))
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestCompletedWithoutCompletedAtUsesCreatedAt(t *testing.T) {
	old := mk("old", func(t *task.Task) {
		t.Completed = true
		t.CreatedAt = now.AddDate(0, 0, -60)
	})
	got := apply([]task.Task{old}, func(s *State) { s.Status = StatusCompleted })
	assert.Empty(t, got)
}

func TestDateStatuses(t *testing.T) {
	tasks := []task.Task{
		mk("yesterday", due("2026-10-13")),
		mk("today", due("2026-10-14")),
		mk("tomorrow", due("2026-10-15")),
		mk("in-seven-days", due("2026-10-21")),
		mk("in-eight-days", due("2026-10-22")),
		mk("undated"),
	}
	tests := []struct {
		status Status
		want   []string
	}{
		{StatusToday, []string{"today"}},
		{StatusUpcoming, []string{"in-seven-days", "tomorrow"}},
		{StatusOverdue, []string{"yesterday"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := apply(tasks, func(s *State) { s.Status = tt.status })
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestTodayUsesTheCalendarDayOfNowsLocation(t *testing.T) {
	// 23:30 on the 14th in UTC-5 is already the 15th in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2026, 10, 14, 23, 30, 0, 0, loc)
	tasks := []task.Task{mk("a", due("2026-10-14")), mk("b", due("2026-10-15"))}

	s := DefaultState()
	s.Status = StatusToday
	got := Apply(tasks, s, categories, tags, late)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestPriorityAndRecurringStatuses(t *testing.T) {
	tasks := []task.Task{
		mk("low", func(t *task.Task) { t.Priority = task.PriorityLow }),
		mk("high", func(t *task.Task) { t.Priority = task.PriorityHigh }),
		mk("repeat", func(t *task.Task) {
			t.IsRecurring = true
			t.RecurrenceType = task.RecurrenceWeekly
			t.DueDate = "2026-10-20"
		}),
	}
	assert.Equal(t, []string{"high"}, ids(apply(tasks, func(s *State) { s.Status = StatusHigh })))
	assert.Equal(t, []string{"low"}, ids(apply(tasks, func(s *State) { s.Status = StatusLow })))
	assert.Equal(t, []string{"repeat"}, ids(apply(tasks, func(s *State) { s.Status = StatusMedium })))
	assert.Equal(t, []string{"repeat"}, ids(apply(tasks, func(s *State) { s.Status = StatusRecurring })))
}

func TestCategoryAndTagIntersect(t *testing.T) {
	tasks := []task.Task{
		mk("work-urgent", category("work"), tagged("urgent")),
		mk("work-home", category("work"), tagged("home")),
		mk("personal-urgent", category("personal"), tagged("urgent", "home")),
		mk("work-urgent-done", category("work"), tagged("urgent"), completed(1)),
		mk("work-multi", category("work"), tagged("errand", "urgent")),
	}

	got := apply(tasks, func(s *State) {
		s.CategoryID = "work"
		s.TagID = "urgent"
	})

	var want []string
	for _, tk := range tasks {
		if !tk.Completed && tk.CategoryID == "work" && tk.HasTag("urgent") {
			want = append(want, tk.ID)
		}
	}
	assert.ElementsMatch(t, want, ids(got))
	assert.Equal(t, []string{"work-multi", "work-urgent"}, ids(got))
}

func TestSearchMatchesResolvedNames(t *testing.T) {
	tasks := []task.Task{
		mk("by-title", func(t *task.Task) { t.Title = "Buy MILK" }),
		mk("by-description", func(t *task.Task) { t.Description = "remember the milk" }),
		mk("by-category", category("work"), func(t *task.Task) { t.Title = "Quarterly" }),
		mk("by-tag", tagged("home"), func(t *task.Task) { t.Title = "Fix sink" }),
		mk("no-match", func(t *task.Task) { t.Title = "Walk dog" }),
		mk("dangling-tag", tagged("deleted"), func(t *task.Task) { t.Title = "Other" }),
	}

	assert.Equal(t, []string{"by-title", "by-description"}, ids(applyUnsorted(tasks, "milk")))
	assert.Equal(t, []string{"by-category"}, ids(applyUnsorted(tasks, "WORK")))
	assert.Equal(t, []string{"by-tag"}, ids(applyUnsorted(tasks, "Hom")))
	assert.Empty(t, applyUnsorted(tasks, "deleted"))
	assert.Len(t, applyUnsorted(tasks, ""), len(tasks))
}

func applyUnsorted(tasks []task.Task, term string) []task.Task {
	// Equal creation times keep input order under the stable sort.
	s := DefaultState()
	s.Search = term
	s.SortField = SortCreatedAt
	return Apply(tasks, s, categories, tags, now)
}

func TestSortFields(t *testing.T) {
	a := mk("a", func(t *task.Task) {
		t.Title = "alpha"
		t.CategoryID = "work"
		t.Priority = task.PriorityLow
		t.TagIDs = []string{"urgent"}
		t.DueDate = "2026-10-20"
		t.CreatedAt = now.Add(-3 * time.Hour)
	})
	b := mk("b", func(t *task.Task) {
		t.Title = "Bravo"
		t.CategoryID = "personal"
		t.Priority = task.PriorityHigh
		t.TagIDs = []string{"errand", "home"}
		t.CreatedAt = now.Add(-1 * time.Hour)
	})
	c := mk("c", func(t *task.Task) {
		t.Title = "charlie"
		t.CategoryID = "missing"
		t.Priority = task.PriorityMedium
		t.DueDate = "2026-10-15"
		t.CreatedAt = now.Add(-2 * time.Hour)
	})
	tasks := []task.Task{a, b, c}

	tests := []struct {
		field SortField
		want  []string
	}{
		{SortTitle, []string{"a", "b", "c"}},
		{SortCategory, []string{"c", "b", "a"}},
		{SortPriority, []string{"a", "c", "b"}},
		{SortTags, []string{"c", "b", "a"}},
		{SortDueDate, []string{"b", "c", "a"}},
		{SortCreatedAt, []string{"a", "c", "b"}},
		{SortField("nonsense"), []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			asc := apply(tasks, func(s *State) { s.SortField = tt.field; s.Direction = Asc })
			desc := apply(tasks, func(s *State) { s.SortField = tt.field; s.Direction = Desc })
			assert.Equal(t, tt.want, ids(asc))

			reversed := ids(desc)
			for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
				reversed[i], reversed[j] = reversed[j], reversed[i]
			}
			assert.Equal(t, ids(asc), reversed)
		})
	}
}

func TestSortByStatusPutsPendingFirst(t *testing.T) {
	tasks := []task.Task{mk("done", completed(1)), mk("open")}
	got := apply(tasks, func(s *State) {
		s.Status = StatusCompleted
		s.SortField = SortStatus
	})
	require.Equal(t, []string{"done"}, ids(got))

	l := NewLookup(nil, nil)
	cmp := Comparator(SortStatus, l, time.UTC)
	assert.Equal(t, -1, cmp(tasks[1], tasks[0]))
}

func TestSortIsStableForTies(t *testing.T) {
	tasks := []task.Task{mk("1"), mk("2"), mk("3")}
	for _, dir := range []Direction{Asc, Desc} {
		got := apply(tasks, func(s *State) { s.SortField = SortPriority; s.Direction = dir })
		assert.Equal(t, []string{"1", "2", "3"}, ids(got))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	tasks := []task.Task{mk("b", tagged("home")), mk("a")}
	got := apply(tasks, nil)
	require.Equal(t, []string{"a", "b"}, ids(got))
	got[1].TagIDs[0] = "changed"

	assert.Equal(t, "b", tasks[0].ID)
	assert.Equal(t, "home", tasks[0].TagIDs[0])
}

func TestStateHelpers(t *testing.T) {
	st, ok := ParseStatus("overdue")
	assert.True(t, ok)
	assert.Equal(t, StatusOverdue, st)

	st, ok = ParseStatus("nope")
	assert.False(t, ok)
	assert.Equal(t, StatusAll, st)

	f, ok := ParseSortField("bogus")
	assert.False(t, ok)
	assert.Equal(t, SortCreatedAt, f)

	assert.Equal(t, StatusCompleted, StatusAll.Next(-1))
	assert.Equal(t, StatusToday, StatusAll.Next(1))
	assert.Equal(t, SortCreatedAt, SortStatus.Next())
	assert.Equal(t, Asc, Desc.Toggle())

	assert.False(t, DefaultState().IsNarrowed())
}

package filter

// Status is the primary narrowing applied to the task list.
type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusRecurring Status = "recurring"
	StatusToday     Status = "today"
	StatusUpcoming  Status = "upcoming"
	StatusOverdue   Status = "overdue"
	StatusLow       Status = "low"
	StatusMedium    Status = "medium"
	StatusHigh      Status = "high"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusAll, StatusToday, StatusUpcoming, StatusOverdue, StatusRecurring,
	StatusHigh, StatusMedium, StatusLow, StatusCompleted,
}

// ParseStatus maps s onto a Status. Unknown values return StatusAll and false,
// since an unrecognized status narrows nothing.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return StatusAll, false
}

// Next returns the status after s in display order, wrapping around.
func (s Status) Next(delta int) Status {
	idx := 0
	for i, st := range Statuses {
		if st == s {
			idx = i
			break
		}
	}
	n := len(Statuses)
	return Statuses[((idx+delta)%n+n)%n]
}

// SortField selects the sort key.
type SortField string

const (
	SortTitle     SortField = "title"
	SortCategory  SortField = "category"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
	SortTags      SortField = "tags"
	SortDueDate   SortField = "dueDate"
	SortCreatedAt SortField = "createdAt"
)

// SortFields lists every sort field in display order.
var SortFields = []SortField{
	SortCreatedAt, SortDueDate, SortPriority, SortTitle, SortCategory, SortTags, SortStatus,
}

// ParseSortField maps s onto a SortField. Unknown values fall back to
// SortCreatedAt and false.
func ParseSortField(s string) (SortField, bool) {
	for _, f := range SortFields {
		if string(f) == s {
			return f, true
		}
	}
	return SortCreatedAt, false
}

// Next returns the field after f in display order, wrapping around.
func (f SortField) Next() SortField {
	for i, sf := range SortFields {
		if sf == f {
			return SortFields[(i+1)%len(SortFields)]
		}
	}
	return SortFields[0]
}

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps s onto a Direction. Anything but "desc" is ascending.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	default:
		return Asc, false
	}
}

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// DefaultRetentionDays is how long completed tasks stay visible under StatusCompleted.
const DefaultRetentionDays = 30

// State is the full set of filter and sort settings for one pass.
type State struct {
	Status        Status    `json:"statusFilter"`
	CategoryID    string    `json:"categoryFilter,omitempty"`
	TagID         string    `json:"tagFilter,omitempty"`
	Search        string    `json:"searchTerm,omitempty"`
	SortField     SortField `json:"sortField"`
	Direction     Direction `json:"sortDirection"`
	RetentionDays int       `json:"completedRetentionDays"`
}

// DefaultState shows every pending task, newest first.
func DefaultState() State {
	return State{
		Status:        StatusAll,
		SortField:     SortCreatedAt,
		Direction:     Desc,
		RetentionDays: DefaultRetentionDays,
	}
}

// IsNarrowed reports whether any predicate beyond the default hide rule is active.
func (s State) IsNarrowed() bool {
	return (s.Status != StatusAll && s.Status != "") || s.CategoryID != "" || s.TagID != "" || s.Search != ""
}

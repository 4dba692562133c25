package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/planner/pkg/task"
)

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorFreshBg     = lipgloss.Color("#1F3326")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	OverdueCountStyle = lipgloss.NewStyle().
				Foreground(ColorRed)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Filter bar styles
var (
	ActiveFilterStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite).
				Background(ColorPurple).
				Padding(0, 1)

	InactiveFilterStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Padding(0, 1)
)

// List row styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	FreshStyle = lipgloss.NewStyle().
			Background(ColorFreshBg)

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	IncompleteStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	OverdueStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	DueStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	DetailStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Priority styles
var (
	PriorityHighStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorRed)

	PriorityMediumStyle = lipgloss.NewStyle().
				Foreground(ColorYellow)

	PriorityLowStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
		Foreground(ColorPurple).
		Bold(true)
)

// Search styles
var (
	SearchBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	SearchPendingStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	SearchCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	SearchMatchStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorYellow)
)

// Icons
const (
	IconComplete   = "✓"
	IconIncomplete = "○"
	IconRecurring  = "↻"
	IconExpanded   = "▼"
	IconCollapsed  = "▶"
)

func priorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return PriorityHighStyle
	case task.PriorityMedium:
		return PriorityMediumStyle
	default:
		return PriorityLowStyle
	}
}

// labelStyle colors a category or tag with its own hex color.
func labelStyle(color string) lipgloss.Style {
	if color == "" {
		return DetailStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

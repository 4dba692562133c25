package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/planner/pkg/filter"
	"github.com/stefanpenner/planner/pkg/task"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}

	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")

	b.WriteString(m.renderFilterBar(w))
	b.WriteString("\n")

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2

	// Search bar takes a line if active
	searchActive := m.isSearching || m.state.Search != "" || m.searchInput != ""
	if searchActive {
		headerLines++
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}

	contentHeight := h - headerLines - footerLines

	leftWidth := w / 2
	rightWidth := w - leftWidth - 1
	if leftWidth < 20 {
		leftWidth = 20
	}
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftPanel := m.renderListPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sepColor := ColorGrayDim
	if m.focusedPane == 1 || m.isEditing {
		sepColor = ColorPurple
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Planner")

	stats := HeaderCountStyle.Render(fmt.Sprintf("%d shown · %d open · %d total", m.list.Len(), m.stats.open, m.stats.total))
	if m.stats.overdue > 0 {
		stats = OverdueCountStyle.Render(fmt.Sprintf("%d overdue", m.stats.overdue)) + HeaderCountStyle.Render(" · ") + stats
	}

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderFilterBar(width int) string {
	var parts []string

	status := m.state.Status
	if status == "" {
		status = filter.StatusAll
	}
	parts = append(parts, filterChip("status", string(status), status != filter.StatusAll))

	category := "any"
	if m.state.CategoryID != "" {
		category = m.lookup.CategoryName(m.state.CategoryID)
		if category == "" {
			category = m.state.CategoryID
		}
	}
	parts = append(parts, filterChip("category", category, m.state.CategoryID != ""))

	tag := "any"
	if m.state.TagID != "" {
		tag = m.state.TagID
		if t, ok := m.lookup.Tag(m.state.TagID); ok {
			tag = t.Name
		}
	}
	parts = append(parts, filterChip("tag", tag, m.state.TagID != ""))

	arrow := "↑"
	if m.state.Direction == filter.Desc {
		arrow = "↓"
	}
	sort := InactiveFilterStyle.Render("sort " + string(m.state.SortField) + " " + arrow)

	left := strings.Join(parts, "")
	gap := width - lipgloss.Width(left) - lipgloss.Width(sort)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + sort
}

func filterChip(label, value string, active bool) string {
	if active {
		return ActiveFilterStyle.Render(label + ": " + value)
	}
	return InactiveFilterStyle.Render(label + ": " + value)
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchInput)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.searchInput != m.state.Search {
		countStr = SearchPendingStyle.Render(" searching…")
	} else if m.state.Search != "" {
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", m.list.Len()))
	}

	left := prefix + query + cursor
	padWidth := width - lipgloss.Width(left) - lipgloss.Width(countStr)
	if padWidth < 1 {
		padWidth = 1
	}

	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderListPanel(width, height int) string {
	// Rows may span two lines when expanded, so lay out every line first and
	// window around the cursor afterwards.
	var lines []string
	cursorLine := 0

	if m.list.Len() == 0 {
		if m.state.IsNarrowed() {
			lines = append(lines, FooterStyle.Render("No tasks match. Press 'x' to clear filters."))
		} else {
			lines = append(lines, FooterStyle.Render("No tasks yet. Press 'a' to add one."))
		}
	}

	today := task.DateOf(m.store.Now())
	for i := 0; i < m.list.Len(); i++ {
		row := m.list.At(i)
		if i == m.cursor {
			cursorLine = len(lines)
		}

		if m.inputMode == inputRename && row.Task.ID == m.renameID {
			lines = append(lines, InputPromptStyle.Render("✎ ")+m.textInput.View())
			continue
		}

		lines = append(lines, m.renderRow(row, i == m.cursor, today, width))
		if row.Expanded {
			lines = append(lines, m.renderRowDetails(row.Task, width))
		}
	}

	if m.inputMode == inputAdd {
		cursorLine = len(lines)
		lines = append(lines, InputPromptStyle.Render("> ")+m.textInput.View())
	}

	if len(lines) > height {
		start := cursorLine - height/2
		if start < 0 {
			start = 0
		}
		if start+height > len(lines) {
			start = len(lines) - height
		}
		lines = lines[start : start+height]
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderRow(row *Row, selected bool, today task.Date, width int) string {
	t := row.Task

	expandIcon := IconCollapsed
	if row.Expanded {
		expandIcon = IconExpanded
	}

	var statusIcon string
	if t.Completed {
		statusIcon = CompleteStyle.Render(IconComplete)
	} else {
		statusIcon = IncompleteStyle.Render(IconIncomplete)
	}

	prio := priorityStyle(t.Priority).Render(priorityMarker(t.Priority))

	title := t.Title
	if m.state.Search != "" && !selected {
		title = highlightMatch(title, m.state.Search, SearchMatchStyle, lipgloss.NewStyle())
	}

	line := expandIcon + " " + statusIcon + " " + prio + " " + title
	if t.IsRecurring {
		line += " " + DetailStyle.Render(IconRecurring)
	}

	due := ""
	if !t.DueDate.IsZero() {
		label := t.DueDate.String()
		if t.DueTime != "" {
			label += " " + t.DueTime
		}
		if t.IsOverdue(today) {
			due = OverdueStyle.Render(label)
		} else {
			due = DueStyle.Render(label)
		}
	}

	gap := width - lipgloss.Width(line) - lipgloss.Width(due)
	if gap < 1 {
		gap = 1
	}
	line += strings.Repeat(" ", gap) + due

	switch {
	case selected:
		return SelectedStyle.Render(line)
	case row.Fresh:
		return FreshStyle.Render(line)
	}
	return line
}

func (m Model) renderRowDetails(t task.Task, width int) string {
	var parts []string
	if c, ok := m.lookup.Category(t.CategoryID); ok {
		parts = append(parts, labelStyle(c.Color).Render(c.Name))
	}
	for _, id := range t.TagIDs {
		if tag, ok := m.lookup.Tag(id); ok {
			parts = append(parts, labelStyle(tag.Color).Render("#"+tag.Name))
		}
	}
	if desc, _, _ := strings.Cut(t.Description, "\n"); desc != "" {
		parts = append(parts, DetailStyle.Render(desc))
	}
	line := "    " + strings.Join(parts, DetailStyle.Render(" · "))
	if lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

func priorityMarker(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "!!!"
	case task.PriorityMedium:
		return "!! "
	default:
		return "!  "
	}
}

func (m Model) renderDetailPanel(width, height int) string {
	row := m.list.At(m.cursor)
	if row == nil {
		return FooterStyle.Render(" Select a task to view details")
	}
	t := row.Task

	// Reserve last line for the data location
	bodyHeight := height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	pathLine := lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(m.store.Backend().Path()))

	header := m.renderTaskHeader(t)

	if m.isEditing {
		rendered := strings.TrimRight(m.renderMarkdown(header), "\n ")
		lines := strings.Split(rendered, "\n")
		lines = append(lines, strings.Split(m.descEditor.View(), "\n")...)
		if len(lines) > bodyHeight {
			lines = lines[:bodyHeight]
		}
		for len(lines) < bodyHeight {
			lines = append(lines, "")
		}
		lines = append(lines, pathLine)
		return strings.Join(lines, "\n")
	}

	md := header
	if t.Description != "" {
		md += t.Description + "\n"
	}
	rendered := strings.TrimRight(m.renderMarkdown(md), "\n ")
	lines := strings.Split(rendered, "\n")

	scroll := m.detailScroll
	if scroll > len(lines)-1 {
		scroll = len(lines) - 1
	}
	if scroll < 0 {
		scroll = 0
	}
	lines = lines[scroll:]

	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}
	lines = append(lines, pathLine)

	return strings.Join(lines, "\n")
}

func (m Model) renderMarkdown(md string) string {
	if m.glamourRenderer == nil {
		return md
	}
	out, err := m.glamourRenderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// renderTaskHeader builds the markdown header (title and metadata) for a task.
func (m Model) renderTaskHeader(t task.Task) string {
	var md strings.Builder

	md.WriteString("# " + t.Title + "\n\n")

	state := "open"
	if t.Completed {
		state = "done"
		if t.CompletedAt != nil {
			state += " " + t.CompletedAt.Local().Format("2006-01-02 15:04")
		}
	}
	meta := []string{
		"**Status:** " + state,
		"**Priority:** " + string(t.Priority),
	}
	if name := m.lookup.CategoryName(t.CategoryID); name != "" {
		meta = append(meta, "**Category:** "+name)
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if names := m.lookup.TagNames(t.TagIDs); len(names) > 0 {
		md.WriteString("- **Tags:** " + strings.Join(names, ", ") + "\n")
	}
	if !t.DueDate.IsZero() {
		due := t.DueDate.String()
		if t.DueTime != "" {
			due += " " + t.DueTime
		}
		md.WriteString("- **Due:** " + due + "\n")
	}
	if t.IsRecurring {
		repeat := string(t.RecurrenceType)
		if days := t.Weekdays(); len(days) > 0 {
			var names []string
			for _, d := range days {
				names = append(names, time.Weekday(d).String()[:3])
			}
			repeat += " (" + strings.Join(names, ", ") + ")"
		}
		md.WriteString("- **Repeats:** " + repeat + "\n")
	}
	if !t.IsRoot() {
		md.WriteString("- **Occurrence of:** " + t.ParentRecurringID + "\n")
	}
	md.WriteString("- **Created:** " + t.CreatedAt.Local().Format("2006-01-02 15:04") + "\n\n")

	return md.String()
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	switch {
	case m.inputMode != inputNone:
		help = "enter confirm  esc cancel"
	case m.isEditing:
		help = "esc save & exit  ctrl+s save  ctrl+c cancel"
	case m.isSearching:
		help = "type to search  enter/↓ keep filter  esc clear"
	case m.focusedPane == 1:
		help = "↑↓ scroll details  tab list  e edit  E $EDITOR  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	title := m.deleteTarget
	if t, ok := m.store.Task(m.deleteTarget); ok {
		title = t.Title
	}

	b.WriteString(ModalTitleStyle.Render("Delete Task"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s'?\n\n", title))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// highlightMatch styles the first case-insensitive match of query in name
// with matchStyle and the rest with rowStyle.
func highlightMatch(name, query string, matchStyle, rowStyle lipgloss.Style) string {
	lower := strings.ToLower(name)
	lowerQuery := strings.ToLower(query)
	idx := strings.Index(lower, lowerQuery)
	// Offsets in lower only map onto name when lowercasing kept byte lengths.
	if idx < 0 || lowerQuery == "" || len(lower) != len(name) || len(lowerQuery) != len(query) {
		return rowStyle.Render(name)
	}
	end := idx + len(lowerQuery)
	before := name[:idx]
	match := name[idx:end]
	after := name[end:]

	var result string
	if before != "" {
		result += rowStyle.Render(before)
	}
	result += matchStyle.Render(match)
	if after != "" {
		result += rowStyle.Render(after)
	}
	return result
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}

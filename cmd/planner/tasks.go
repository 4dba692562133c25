package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/planner/pkg/config"
	"github.com/stefanpenner/planner/pkg/filter"
	"github.com/stefanpenner/planner/pkg/store"
	"github.com/stefanpenner/planner/pkg/task"
)

func (a *app) listCmd() *cobra.Command {
	var status, category, tag, search, sortField, direction string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  `List tasks the way the UI shows them. Completed tasks are hidden unless --status completed is given.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, cfg *config.Config) error {
				state := cfg.FilterState()
				if status != "" {
					st, ok := filter.ParseStatus(status)
					if !ok {
						return fmt.Errorf("invalid status %q", status)
					}
					state.Status = st
				}
				if sortField != "" {
					f, ok := filter.ParseSortField(sortField)
					if !ok {
						return fmt.Errorf("invalid sort field %q", sortField)
					}
					state.SortField = f
				}
				if direction != "" {
					d, ok := filter.ParseDirection(direction)
					if !ok {
						return fmt.Errorf("invalid direction %q (use asc or desc)", direction)
					}
					state.Direction = d
				}
				state.CategoryID = category
				state.TagID = tag
				state.Search = search

				tasks := filter.Apply(s.Tasks(), state, s.Categories(), s.Tags(), s.Now())
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), tasks)
				}
				if len(tasks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
					return nil
				}
				lookup := filter.NewLookup(s.Categories(), s.Tags())
				today := task.DateOf(s.Now())
				for _, t := range tasks {
					printTaskLine(cmd.OutOrStdout(), t, lookup, today)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "status filter: "+joinStatuses())
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "tag id")
	cmd.Flags().StringVarP(&search, "search", "q", "", "search term (title, description, category, tags)")
	cmd.Flags().StringVar(&sortField, "sort", "", "sort field")
	cmd.Flags().StringVar(&direction, "direction", "", "sort direction: asc or desc")
	return cmd
}

func joinStatuses() string {
	names := make([]string, len(filter.Statuses))
	for i, s := range filter.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				t, ok := s.Task(args[0])
				if !ok {
					return fmt.Errorf("task %s: %w", args[0], store.ErrNotFound)
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), t)
				}
				printTaskDetails(cmd.OutOrStdout(), t, filter.NewLookup(s.Categories(), s.Tags()))
				return nil
			})
		},
	}
}

// taskFlags are the editable task fields shared by add and edit.
type taskFlags struct {
	title       string
	description string
	category    string
	tags        []string
	priority    string
	due         string
	dueTime     string
	repeat      string
	weekdays    []int
}

func (f *taskFlags) register(cmd *cobra.Command, withTitle bool) {
	fs := cmd.Flags()
	if withTitle {
		fs.StringVar(&f.title, "title", "", "new title")
	}
	fs.StringVarP(&f.description, "description", "d", "", "description (markdown)")
	fs.StringVarP(&f.category, "category", "c", "", "category id")
	fs.StringSliceVarP(&f.tags, "tags", "t", nil, "comma separated tag ids (max 3)")
	fs.StringVarP(&f.priority, "priority", "p", "", "low, medium or high")
	fs.StringVar(&f.due, "due", "", "due date YYYY-MM-DD")
	fs.StringVar(&f.dueTime, "time", "", "due time HH:MM")
	fs.StringVarP(&f.repeat, "repeat", "r", "", "none, daily, weekly, monthly or yearly")
	fs.IntSliceVar(&f.weekdays, "weekdays", nil, "weekly repeat days, 0=Sunday..6=Saturday")
}

// patch builds a TaskPatch from the flags the user actually set.
func (f *taskFlags) patch(cmd *cobra.Command) (task.TaskPatch, error) {
	var p task.TaskPatch
	changed := cmd.Flags().Changed

	if changed("title") {
		p.Title = &f.title
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("category") {
		p.CategoryID = &f.category
	}
	if changed("tags") {
		tags := f.tags
		if tags == nil {
			tags = []string{}
		}
		p.TagIDs = &tags
	}
	if changed("priority") {
		pr, ok := task.ParsePriority(f.priority)
		if !ok {
			return p, fmt.Errorf("invalid priority %q (use low, medium or high)", f.priority)
		}
		p.Priority = &pr
	}
	if changed("due") {
		var due task.Date
		if f.due != "" {
			d, err := task.ParseDate(f.due)
			if err != nil {
				return p, err
			}
			due = d
		}
		p.DueDate = &due
	}
	if changed("time") {
		p.DueTime = &f.dueTime
	}
	if changed("repeat") {
		rt, ok := task.ParseRecurrenceType(f.repeat)
		if !ok {
			return p, fmt.Errorf("invalid repeat %q", f.repeat)
		}
		recurring := rt != task.RecurrenceNone
		p.RecurrenceType = &rt
		p.IsRecurring = &recurring
	}
	if changed("weekdays") {
		p.RecurrenceData = &task.RecurrenceData{Weekdays: f.weekdays}
	}
	return p, nil
}

func (a *app) addCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			p.Title = &title

			return a.withStore(func(s *store.Store, _ *config.Config) error {
				t, err := s.AddTask(p.Apply(task.Task{}))
				if err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created: %s (%s)\n", t.Title, t.ID)
				return nil
			})
		},
	}
	f.register(cmd, false)
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long:  `Change fields of a task. Only the flags given are applied; pass an empty value to --due or --time to clear them.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to change")
			}
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				t, err := s.UpdateTask(args[0], p)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s\n", t.Title)
				return nil
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

// completeCmd builds `complete` (done=true) or `reopen` (done=false).
func (a *app) completeCmd(done bool) *cobra.Command {
	use, short, verb := "complete <id>", "Mark a task done", "Completed"
	if !done {
		use, short, verb = "reopen <id>", "Mark a task not done", "Reopened"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				t, err := s.SetCompleted(args[0], done)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, t.Title)
				return nil
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				if err := s.DeleteTask(args[0]); err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", args[0])
				return nil
			})
		},
	}
}

func (a *app) scheduleCmd() *cobra.Command {
	var on string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create the next occurrence of due recurring tasks",
		Long:  `Create the next occurrence of due recurring tasks. Opening the data directory already does this for today; --on runs the pass as of another day.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				now := s.Now()
				if on != "" {
					d, err := task.ParseDate(on)
					if err != nil {
						return err
					}
					now, _ = d.In(now.Location())
				}
				generated, err := s.ScheduleRecurrences(now)
				if err != nil {
					return err
				}
				if a.jsonOut {
					if generated == nil {
						generated = []task.Task{}
					}
					return outputJSON(cmd.OutOrStdout(), generated)
				}
				if len(generated) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to schedule.")
					return nil
				}
				for _, t := range generated {
					fmt.Fprintf(cmd.OutOrStdout(), "Scheduled: %s on %s (%s)\n", t.Title, t.DueDate, t.ID)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "run the pass as of this date (YYYY-MM-DD)")
	return cmd
}

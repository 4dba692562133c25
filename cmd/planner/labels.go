package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/planner/pkg/config"
	"github.com/stefanpenner/planner/pkg/store"
	"github.com/stefanpenner/planner/pkg/task"
)

// label is the common shape of categories and tags for printing.
type label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Tasks int    `json:"tasks"`
}

// labelOps binds the generic label subcommands to categories or tags.
type labelOps struct {
	kind         string
	defaultColor string
	list         func(s *store.Store) []label
	add          func(s *store.Store, name, color string) (label, error)
	update       func(s *store.Store, id string, name, color *string) (label, error)
	remove       func(s *store.Store, id string) error
}

func (a *app) categoryCmd() *cobra.Command {
	return a.labelCmd(labelOps{
		kind:         "category",
		defaultColor: "#4285F4",
		list: func(s *store.Store) []label {
			var out []label
			for _, c := range s.Categories() {
				n := 0
				for _, t := range s.Tasks() {
					if t.CategoryID == c.ID {
						n++
					}
				}
				out = append(out, label{ID: c.ID, Name: c.Name, Color: c.Color, Tasks: n})
			}
			return out
		},
		add: func(s *store.Store, name, color string) (label, error) {
			c, err := s.AddCategory(name, color)
			return label{ID: c.ID, Name: c.Name, Color: c.Color}, err
		},
		update: func(s *store.Store, id string, name, color *string) (label, error) {
			c, err := s.UpdateCategory(id, task.CategoryPatch{Name: name, Color: color})
			return label{ID: c.ID, Name: c.Name, Color: c.Color}, err
		},
		remove: func(s *store.Store, id string) error { return s.DeleteCategory(id) },
	})
}

func (a *app) tagCmd() *cobra.Command {
	return a.labelCmd(labelOps{
		kind:         "tag",
		defaultColor: "#56B6C2",
		list: func(s *store.Store) []label {
			var out []label
			for _, tg := range s.Tags() {
				n := 0
				for _, t := range s.Tasks() {
					if t.HasTag(tg.ID) {
						n++
					}
				}
				out = append(out, label{ID: tg.ID, Name: tg.Name, Color: tg.Color, Tasks: n})
			}
			return out
		},
		add: func(s *store.Store, name, color string) (label, error) {
			t, err := s.AddTag(name, color)
			return label{ID: t.ID, Name: t.Name, Color: t.Color}, err
		},
		update: func(s *store.Store, id string, name, color *string) (label, error) {
			t, err := s.UpdateTag(id, task.TagPatch{Name: name, Color: color})
			return label{ID: t.ID, Name: t.Name, Color: t.Color}, err
		},
		remove: func(s *store.Store, id string) error { return s.DeleteTag(id) },
	})
}

func (a *app) labelCmd(ops labelOps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   ops.kind,
		Short: "Manage " + ops.kind + " labels",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + ops.kind + " labels with their task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				labels := ops.list(s)
				if a.jsonOut {
					if labels == nil {
						labels = []label{}
					}
					return outputJSON(cmd.OutOrStdout(), labels)
				}
				if len(labels) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s labels.\n", ops.kind)
					return nil
				}
				for _, l := range labels {
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-24s %s  %d tasks\n", l.ID, l.Name, l.Color, l.Tasks)
				}
				return nil
			})
		},
	}

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a " + ops.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				l, err := ops.add(s, args[0], color)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), l)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s (%s)\n", ops.kind, l.Name, l.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&color, "color", ops.defaultColor, "hex color, e.g. #7D56F4")

	var newName, newColor string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a " + ops.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name, col *string
			if cmd.Flags().Changed("name") {
				name = &newName
			}
			if cmd.Flags().Changed("color") {
				col = &newColor
			}
			if name == nil && col == nil {
				return fmt.Errorf("nothing to change (use --name or --color)")
			}
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				l, err := ops.update(s, args[0], name, col)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), l)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", ops.kind, l.Name)
				return nil
			})
		},
	}
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().StringVar(&newColor, "color", "", "new hex color")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an unused " + ops.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				if err := ops.remove(s, args[0]); err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", ops.kind, args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, edit, del)
	return cmd
}

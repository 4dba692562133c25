package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/planner/pkg/config"
	"github.com/stefanpenner/planner/pkg/store"
	gsync "github.com/stefanpenner/planner/pkg/sync"
)

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks, categories and tags as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				if output == "" || output == "-" {
					return s.WriteExport(cmd.OutOrStdout())
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := s.WriteExport(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a JSON export",
		Long:  `Replace all tasks, categories and tags with the contents of an export file. The import is all or nothing: an invalid file leaves the data untouched.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			e, err := store.ReadExport(f)
			if err != nil {
				return err
			}
			return a.withStore(func(s *store.Store, _ *config.Config) error {
				if err := s.Import(e); err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), map[string]int{
						"tasks":      len(e.Tasks),
						"categories": len(e.Categories),
						"tags":       len(e.Tags),
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks, %d categories, %d tags\n", len(e.Tasks), len(e.Categories), len(e.Tags))
				return nil
			})
		},
	}
}

func (a *app) initCmd() *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up the data directory as a git repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.dataDir()
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			if err := config.WriteDefault(config.Path(dir)); err != nil {
				return err
			}
			return gsync.InitRepo(cmd.Context(), dir, remote, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "git remote URL for sync")
	return cmd
}

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Commit local changes and sync with the git remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gsync.SyncRepo(cmd.Context(), a.dataDir(), cmd.OutOrStdout())
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(a.dataDir())
				if err != nil {
					return err
				}
				if a.jsonOut {
					return outputJSON(cmd.OutOrStdout(), cfg)
				}
				return outputYAML(cmd.OutOrStdout(), cfg)
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default config.yaml if none exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir := a.dataDir()
				if err := os.MkdirAll(dir, 0755); err != nil {
					return err
				}
				path := config.Path(dir)
				if err := config.WriteDefault(path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
	)
	return cmd
}

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/planner/pkg/config"
	"github.com/stefanpenner/planner/pkg/store"
	"github.com/stefanpenner/planner/pkg/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the global flags shared by every subcommand.
type app struct {
	dir     string
	jsonOut bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Personal task planner",
		Long:          `Planner keeps tasks, categories and tags as plain files (or SQLite) and shows them in a terminal UI. Run without a subcommand to open the UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}
	root.PersistentFlags().StringVar(&a.dir, "dir", "", "data directory (default $PLANNER_DIR or the OS data dir)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.addCmd(),
		a.editCmd(),
		a.completeCmd(true),
		a.completeCmd(false),
		a.deleteCmd(),
		a.scheduleCmd(),
		a.categoryCmd(),
		a.tagCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.initCmd(),
		a.syncCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) dataDir() string {
	return config.ResolveDataDir(a.dir)
}

// open loads the configuration and store for the data directory.
func (a *app) open() (*store.Store, *config.Config, error) {
	dir := a.dataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(dir, cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

// withStore opens the store, runs fn and closes the store again.
func (a *app) withStore(fn func(s *store.Store, cfg *config.Config) error) error {
	s, cfg, err := a.open()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s, cfg)
}

func (a *app) runTUI() error {
	dir := a.dataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The terminal belongs to the UI, so log lines go to a file.
	f, err := tea.LogToFile(filepath.Join(dir, "planner.log"), "planner")
	if err != nil {
		log.SetOutput(io.Discard)
	} else {
		defer f.Close()
	}

	return a.withStore(func(s *store.Store, cfg *config.Config) error {
		m := tui.NewModel(s, cfg, dir)
		p := tea.NewProgram(m, tea.WithAltScreen())

		cleanup, err := tui.StartWatcher(dir, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file watcher failed: %v\n", err)
		} else {
			defer cleanup()
		}

		_, err = p.Run()
		return err
	})
}

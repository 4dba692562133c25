package tui

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchedSuffixes are the files whose changes trigger a reload.
var watchedSuffixes = []string{".md", ".yaml", ".db"}

// StartWatcher watches the data directory for changes and sends FileChangedMsg.
func StartWatcher(root string, program *tea.Program) (func(), error) {
	return startWatcher(root, 200*time.Millisecond, func() { program.Send(FileChangedMsg{}) })
}

func startWatcher(root string, debounce time.Duration, notify func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Walk and add all directories
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			// Skip hidden dirs (like .git)
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// If a new directory was created, watch it too
				if event.Op&fsnotify.Create != 0 {
					info, err := os.Stat(event.Name)
					if err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
						watcher.Add(event.Name)
					}
				}

				if !isWatchedFile(event.Name) {
					continue
				}

				// Debounce: wait after the last change
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, notify)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watcher: %v", err)

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}

	return cleanup, nil
}

func isWatchedFile(name string) bool {
	for _, suffix := range watchedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

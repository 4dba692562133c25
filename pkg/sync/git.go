// Package sync keeps the data directory in a git repository and syncs it
// with a remote.
package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ignored lists files that stay out of the repository.
const ignored = "planner.log\nplanner.db-journal\n"

// InitRepo makes the data directory a git repository if it is not one yet
// and, when remote is set, points origin at it.
func InitRepo(ctx context.Context, dir, remote string, out io.Writer) error {
	git := gitCmd(ctx, dir, out)

	if !IsRepo(dir) {
		if err := git("init").Run(); err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(ignored), 0644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
		fmt.Fprintf(out, "Initialized repository in %s\n", dir)
	}

	if remote == "" {
		fmt.Fprintln(out, "No remote specified. Use --remote <url> to set one.")
		return nil
	}

	// Remove existing origin first (ignore error if doesn't exist)
	git("remote", "remove", "origin").Run()

	if err := git("remote", "add", "origin", remote).Run(); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	fmt.Fprintf(out, "Remote set to: %s\n", remote)
	return nil
}

// IsRepo reports whether dir has a .git directory.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// SyncRepo synchronizes the data directory with the remote.
// Strategy: commit local changes, rebase, fallback to merge, push.
func SyncRepo(ctx context.Context, dir string, out io.Writer) error {
	if !IsRepo(dir) {
		return fmt.Errorf("not a git repository. Run 'planner init' first")
	}
	git := gitCmd(ctx, dir, out)

	// 1. Stage and commit any uncommitted local changes
	fmt.Fprintln(out, "Staging changes...")
	if err := git("add", "-A").Run(); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}
	if err := git("diff", "--cached", "--quiet").Run(); err != nil {
		msg := "sync " + time.Now().Format("2006-01-02 15:04:05")
		if err := git("commit", "-m", msg).Run(); err != nil {
			return fmt.Errorf("committing changes: %w", err)
		}
	}

	// 2. Try pull --rebase
	fmt.Fprintln(out, "Pulling...")
	if err := git("pull", "--rebase").Run(); err != nil {
		// 3. Rebase failed, abort and try merge
		fmt.Fprintln(out, "Rebase failed, trying merge...")
		git("rebase", "--abort").Run()

		if err := git("pull", "--no-rebase").Run(); err != nil {
			// 4. Merge also failed, abort and report
			git("merge", "--abort").Run()
			return fmt.Errorf("sync failed: could not rebase or merge. Resolve conflicts manually")
		}
	}

	// 5. Push
	fmt.Fprintln(out, "Pushing...")
	if err := git("push").Run(); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Fprintln(out, "Sync complete.")
	return nil
}

func gitCmd(ctx context.Context, dir string, out io.Writer) func(args ...string) *exec.Cmd {
	return func(args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
		cmd.Stdout = out
		cmd.Stderr = out
		return cmd
	}
}

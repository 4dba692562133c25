package reconcile

import (
	"fmt"

	"github.com/stefanpenner/planner/pkg/task"
)

// Renderer is the live view a patch is applied to.
type Renderer interface {
	// Add appends a row for t at the end of the view.
	Add(t task.Task) error
	// Replace swaps the content of the row for t.ID in place.
	Replace(t task.Task) error
	// Remove drops the row for id.
	Remove(id string) error
	// Reset empties the view.
	Reset() error
}

// Apply pushes p into r: removals first, then in-place replacements, then
// additions. Added rows go to the end of the view regardless of their
// position in the sorted list.
func Apply(r Renderer, p Patch) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("renderer panic: %v", v)
		}
	}()

	for _, id := range p.RemovedIDs {
		if err := r.Remove(id); err != nil {
			return fmt.Errorf("removing %s: %w", id, err)
		}
	}
	for _, t := range p.Modified {
		if err := r.Replace(t); err != nil {
			return fmt.Errorf("replacing %s: %w", t.ID, err)
		}
	}
	for _, t := range p.Added {
		if err := r.Add(t); err != nil {
			return fmt.Errorf("adding %s: %w", t.ID, err)
		}
	}
	return nil
}

// Result describes one Sync.
type Result struct {
	// Patch is what was applied. After a fallback it adds every current task.
	Patch Patch
	// FellBack is set when the incremental patch failed and the view was
	// rebuilt from scratch.
	FellBack bool
	// Cause is the failure that forced the fallback.
	Cause error
}

// Reconciler keeps a Renderer in step with successive task lists.
type Reconciler struct {
	renderer Renderer
	snapshot Snapshot
	// stale is set when a rebuild failed and the view's contents are unknown.
	stale bool
}

// NewReconciler returns a Reconciler for r, which is assumed to start empty.
func NewReconciler(r Renderer) *Reconciler {
	return &Reconciler{renderer: r, snapshot: Snapshot{}}
}

// Snapshot returns what the reconciler believes is on screen.
func (rc *Reconciler) Snapshot() Snapshot {
	return rc.snapshot
}

// Sync brings the view in line with curr. If diffing or applying fails, the
// partial work is discarded and the view is rebuilt from curr once. An error
// is returned only when that rebuild also fails.
func (rc *Reconciler) Sync(curr []task.Task) (Result, error) {
	if rc.stale {
		return rc.fallback(curr, fmt.Errorf("view out of step after failed rebuild"))
	}

	p, err := safeDiff(rc.snapshot, curr)
	if err == nil {
		err = Apply(rc.renderer, p)
	}
	if err != nil {
		return rc.fallback(curr, err)
	}
	rc.snapshot = SnapshotOf(curr)
	return Result{Patch: p}, nil
}

// Rebuild clears the view and renders curr from scratch, in order.
func (rc *Reconciler) Rebuild(curr []task.Task) error {
	rc.snapshot = Snapshot{}
	rc.stale = true

	if err := rc.renderer.Reset(); err != nil {
		return fmt.Errorf("resetting view: %w", err)
	}
	p := Diff(Snapshot{}, curr)
	if err := Apply(rc.renderer, p); err != nil {
		return err
	}
	rc.snapshot = SnapshotOf(curr)
	rc.stale = false
	return nil
}

func (rc *Reconciler) fallback(curr []task.Task, cause error) (Result, error) {
	res := Result{FellBack: true, Cause: cause}
	if err := rc.safeRebuild(curr); err != nil {
		return res, fmt.Errorf("rebuilding view after %v: %w", cause, err)
	}
	res.Patch = Diff(Snapshot{}, curr)
	return res, nil
}

func (rc *Reconciler) safeRebuild(curr []task.Task) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("renderer panic: %v", v)
		}
	}()
	return rc.Rebuild(curr)
}

func safeDiff(prev Snapshot, curr []task.Task) (p Patch, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("diff panic: %v", v)
		}
	}()
	return Diff(prev, curr), nil
}

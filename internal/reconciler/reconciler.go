// Package reconciler overlays provisional task statuses while the
// authoritative update round-trips to the backend.
//
// Each task key moves through Idle -> Pending -> Settling -> Idle, or
// Pending -> Idle when the update fails. A newer change on the same key
// supersedes the older one: its settle timer is stopped and any late result
// from the older request is ignored.
package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/mantenix/internal/constants"
	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/events"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/notifier"
)

// Updater performs the authoritative status update against the task's source.
type Updater interface {
	UpdateStatus(ctx context.Context, task models.UnifiedTask, status models.Status) error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(ctx context.Context, task models.UnifiedTask, status models.Status) error

func (f UpdaterFunc) UpdateStatus(ctx context.Context, task models.UnifiedTask, status models.Status) error {
	return f(ctx, task, status)
}

// Timer is the part of *time.Timer the reconciler needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type State int

const (
	StateIdle State = iota
	StatePending
	StateSettling
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSettling:
		return "settling"
	default:
		return "idle"
	}
}

type Options struct {
	// SettleDelay is how long a confirmed status stays overlaid. Defaults to 2s.
	SettleDelay time.Duration
	Notifier    notifier.Notifier
	Bus         *events.EventBus
	AfterFunc   AfterFunc
	Now         func() time.Time
}

type entry struct {
	status models.Status
	gen    uint64
	state  State
	timer  Timer
}

type Reconciler struct {
	updater Updater
	opts    Options

	mu      sync.Mutex
	entries map[string]*entry
	seq     uint64
	closed  bool
}

func New(updater Updater, opts Options) *Reconciler {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = constants.DefaultSettleDelay
	}
	if opts.Notifier == nil {
		opts.Notifier = notifier.Nop{}
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Reconciler{
		updater: updater,
		opts:    opts,
		entries: make(map[string]*entry),
	}
}

// ChangeStatus overlays status on task immediately, then performs exactly one
// backend update. It blocks until that update returns; callers that must stay
// responsive run it on their own goroutine.
func (r *Reconciler) ChangeStatus(ctx context.Context, task models.UnifiedTask, status models.Status) error {
	return r.ChangeStatusThen(ctx, task, status, nil)
}

// ChangeStatusThen is ChangeStatus with a hook that runs once the backend
// confirms the change and the request is still the latest for the task.
// It runs before the settle timer is armed, with the reconciler locked, so it
// must not call back into the reconciler.
func (r *Reconciler) ChangeStatusThen(ctx context.Context, task models.UnifiedTask, status models.Status, confirmed func()) error {
	if !status.IsValid() {
		return apperrors.Validation("change status", "unknown status %q", status)
	}
	key := task.Key()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return fmt.Errorf("change status %s: reconciler closed", key)
	}
	r.seq++
	gen := r.seq
	if prev := r.entries[key]; prev != nil && prev.timer != nil {
		prev.timer.Stop()
	}
	r.entries[key] = &entry{status: status, gen: gen, state: StatePending}
	r.mu.Unlock()

	logger.Debug("Optimistic status", "task", key, "status", status, "gen", gen)
	r.opts.Bus.Publish(events.TopicStatus, events.StatusOptimisticEvent{
		Key: key, Status: status, Generation: gen, Timestamp: r.opts.Now(),
	})

	err := r.updater.UpdateStatus(ctx, task, status)

	r.mu.Lock()
	cur := r.entries[key]
	current := cur != nil && cur.gen == gen
	if err != nil {
		if current {
			delete(r.entries, key)
		}
		r.mu.Unlock()

		logger.Warn("Status update failed", "task", key, "status", status, "superseded", !current, "error", err)
		r.opts.Notifier.Failure(constants.MsgTaskUpdateFailed, err)
		r.opts.Bus.Publish(events.TopicStatus, events.StatusRolledBackEvent{
			Key: key, Status: status, Generation: gen, Err: err, Timestamp: r.opts.Now(),
		})
		return fmt.Errorf("update status of %s: %w", key, err)
	}
	if current {
		if confirmed != nil {
			confirmed()
		}
		if r.closed {
			delete(r.entries, key)
		} else {
			cur.state = StateSettling
			cur.timer = r.opts.AfterFunc(r.opts.SettleDelay, func() { r.settle(key, gen) })
		}
	}
	r.mu.Unlock()

	r.opts.Notifier.Success(constants.MsgTaskUpdated)
	r.opts.Bus.Publish(events.TopicStatus, events.StatusConfirmedEvent{
		Key: key, Status: status, Generation: gen, Timestamp: r.opts.Now(),
	})
	return nil
}

func (r *Reconciler) settle(key string, gen uint64) {
	r.mu.Lock()
	cur := r.entries[key]
	if cur == nil || cur.gen != gen {
		r.mu.Unlock()
		return
	}
	delete(r.entries, key)
	r.mu.Unlock()

	r.opts.Bus.Publish(events.TopicStatus, events.StatusSettledEvent{
		Key: key, Generation: gen, Timestamp: r.opts.Now(),
	})
}

// Status returns the overlaid status for task, or its last known status.
func (r *Reconciler) Status(task models.UnifiedTask) models.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[task.Key()]; ok {
		return e.status
	}
	return task.Status
}

// State reports where key is in its lifecycle.
func (r *Reconciler) State(key string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		return e.state
	}
	return StateIdle
}

// Pending reports whether key has an overlay entry.
func (r *Reconciler) Pending(key string) bool {
	return r.State(key) != StateIdle
}

// Len returns the number of overlay entries.
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Apply returns a copy of tasks with overlaid statuses substituted.
func (r *Reconciler) Apply(tasks []models.UnifiedTask) []models.UnifiedTask {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.UnifiedTask, len(tasks))
	copy(out, tasks)
	if len(r.entries) == 0 {
		return out
	}
	for i := range out {
		if e, ok := r.entries[out[i].Key()]; ok {
			out[i].Status = e.status
		}
	}
	return out
}

// Close stops all settle timers and clears the overlay.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for key, e := range r.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(r.entries, key)
	}
}

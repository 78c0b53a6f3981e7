package reconciler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/events"
	"github.com/julianstephens/mantenix/internal/models"
)

type fakeTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *fakeTimer) fire() {
	if !t.stopped {
		t.fn()
	}
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: f, delay: d}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *recordingNotifier) Success(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, text)
}

func (n *recordingNotifier) Failure(text string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, text)
}

func regularTask(id string, status models.Status) models.UnifiedTask {
	return models.UnifiedTask{
		ID:     models.ID(id),
		Origin: models.OriginRegular,
		Title:  "Fix pump",
		Status: status,
	}
}

func TestChangeStatusSuccess(t *testing.T) {
	clock := &fakeClock{}
	notes := &recordingNotifier{}
	calls := 0
	r := New(UpdaterFunc(func(ctx context.Context, task models.UnifiedTask, status models.Status) error {
		calls++
		if status != models.StatusCompleted {
			t.Errorf("updater got status %q, want completed", status)
		}
		return nil
	}), Options{Notifier: notes, AfterFunc: clock.AfterFunc})

	task := regularTask("7", models.StatusPending)
	if err := r.ChangeStatus(context.Background(), task, models.StatusCompleted); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("updater called %d times, want 1", calls)
	}
	if got := r.Status(task); got != models.StatusCompleted {
		t.Errorf("Status() = %q during settle window, want completed", got)
	}
	if got := r.State(task.Key()); got != StateSettling {
		t.Errorf("State() = %v, want settling", got)
	}

	timer := clock.last()
	if timer == nil {
		t.Fatal("no settle timer scheduled")
	}
	if timer.delay != constants.DefaultSettleDelay {
		t.Errorf("settle delay = %v, want %v", timer.delay, constants.DefaultSettleDelay)
	}
	timer.fire()

	if r.Pending(task.Key()) {
		t.Error("entry still present after settle")
	}
	if got := r.Status(task); got != models.StatusPending {
		t.Errorf("Status() after settle = %q, want underlying pending", got)
	}
	if len(notes.success) != 1 || notes.success[0] != constants.MsgTaskUpdated {
		t.Errorf("success notifications = %v", notes.success)
	}
}

func TestChangeStatusOverlayVisibleDuringRequest(t *testing.T) {
	var r *Reconciler
	task := regularTask("3", models.StatusPending)
	r = New(UpdaterFunc(func(ctx context.Context, ut models.UnifiedTask, status models.Status) error {
		if got := r.Status(ut); got != models.StatusInProgress {
			t.Errorf("Status() while in flight = %q, want in_progress", got)
		}
		if got := r.State(ut.Key()); got != StatePending {
			t.Errorf("State() while in flight = %v, want pending", got)
		}
		return nil
	}), Options{AfterFunc: (&fakeClock{}).AfterFunc})

	if err := r.ChangeStatus(context.Background(), task, models.StatusInProgress); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
}

func TestChangeStatusFailureRollsBack(t *testing.T) {
	clock := &fakeClock{}
	notes := &recordingNotifier{}
	boom := errors.New("status 500")
	r := New(UpdaterFunc(func(context.Context, models.UnifiedTask, models.Status) error {
		return boom
	}), Options{Notifier: notes, AfterFunc: clock.AfterFunc})

	task := regularTask("7", models.StatusPending)
	err := r.ChangeStatus(context.Background(), task, models.StatusCompleted)
	if !errors.Is(err, boom) {
		t.Fatalf("ChangeStatus() error = %v, want wrapping %v", err, boom)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after failure, want 0", r.Len())
	}
	if got := r.Status(task); got != models.StatusPending {
		t.Errorf("Status() = %q, want pending", got)
	}
	if clock.last() != nil {
		t.Error("settle timer scheduled for failed update")
	}
	if len(notes.failures) != 1 || notes.failures[0] != constants.MsgTaskUpdateFailed {
		t.Errorf("failure notifications = %v", notes.failures)
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	r := New(UpdaterFunc(func(context.Context, models.UnifiedTask, models.Status) error {
		t.Error("updater called for invalid status")
		return nil
	}), Options{})

	if err := r.ChangeStatus(context.Background(), regularTask("1", models.StatusPending), "archived"); err == nil {
		t.Fatal("expected validation error")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestLastRequestWins(t *testing.T) {
	clock := &fakeClock{}
	task := regularTask("9", models.StatusPending)

	release := make(chan error)
	started := make(chan struct{})
	first := true
	var mu sync.Mutex
	r := New(UpdaterFunc(func(ctx context.Context, ut models.UnifiedTask, status models.Status) error {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		if isFirst {
			close(started)
			return <-release
		}
		return nil
	}), Options{AfterFunc: clock.AfterFunc})

	done := make(chan error, 1)
	go func() {
		done <- r.ChangeStatus(context.Background(), task, models.StatusInProgress)
	}()
	<-started

	if err := r.ChangeStatus(context.Background(), task, models.StatusCompleted); err != nil {
		t.Fatalf("second ChangeStatus() error = %v", err)
	}
	second := clock.last()

	release <- errors.New("late failure")
	if err := <-done; err == nil {
		t.Fatal("first ChangeStatus() should report its failure")
	}

	if got := r.Status(task); got != models.StatusCompleted {
		t.Errorf("Status() = %q, stale failure must not roll back newer overlay", got)
	}
	if got := r.State(task.Key()); got != StateSettling {
		t.Errorf("State() = %v, want settling", got)
	}

	second.fire()
	if r.Len() != 0 {
		t.Errorf("Len() = %d after settle, want 0", r.Len())
	}
}

func TestNewChangeCancelsSettleTimer(t *testing.T) {
	clock := &fakeClock{}
	task := regularTask("4", models.StatusPending)
	r := New(UpdaterFunc(func(context.Context, models.UnifiedTask, models.Status) error {
		return nil
	}), Options{AfterFunc: clock.AfterFunc, SettleDelay: 50 * time.Millisecond})

	if err := r.ChangeStatus(context.Background(), task, models.StatusInProgress); err != nil {
		t.Fatal(err)
	}
	firstTimer := clock.last()

	if err := r.ChangeStatus(context.Background(), task, models.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	if !firstTimer.stopped {
		t.Error("first settle timer was not stopped")
	}

	// A timer that already fired before Stop must still not clear the newer entry.
	firstTimer.fn()
	if got := r.Status(task); got != models.StatusCompleted {
		t.Errorf("Status() = %q, stale timer cleared newer entry", got)
	}

	clock.last().fire()
	if r.Pending(task.Key()) {
		t.Error("entry still present after latest settle")
	}
}

func TestApply(t *testing.T) {
	clock := &fakeClock{}
	r := New(UpdaterFunc(func(context.Context, models.UnifiedTask, models.Status) error {
		return nil
	}), Options{AfterFunc: clock.AfterFunc})

	a := regularTask("1", models.StatusPending)
	b := models.UnifiedTask{ID: "1", Origin: models.OriginAgenda, Status: models.StatusPending}
	if err := r.ChangeStatus(context.Background(), a, models.StatusCancelled); err != nil {
		t.Fatal(err)
	}

	tasks := []models.UnifiedTask{a, b}
	out := r.Apply(tasks)
	if out[0].Status != models.StatusCancelled {
		t.Errorf("overlaid status = %q, want cancelled", out[0].Status)
	}
	if out[1].Status != models.StatusPending {
		t.Errorf("agenda task with same id got %q, keys must include origin", out[1].Status)
	}
	if tasks[0].Status != models.StatusPending {
		t.Error("Apply() mutated its input")
	}
}

func TestEventsPublished(t *testing.T) {
	clock := &fakeClock{}
	bus := events.NewEventBus()
	defer bus.Close()
	ch := bus.Subscribe(events.TopicStatus, 10)

	r := New(UpdaterFunc(func(context.Context, models.UnifiedTask, models.Status) error {
		return nil
	}), Options{AfterFunc: clock.AfterFunc, Bus: bus})

	task := regularTask("5", models.StatusPending)
	if err := r.ChangeStatus(context.Background(), task, models.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	clock.last().fire()

	want := []string{
		events.EventTypeStatusOptimistic,
		events.EventTypeStatusConfirmed,
		events.EventTypeStatusSettled,
	}
	for _, typ := range want {
		select {
		case ev := <-ch:
			if ev.EventType() != typ {
				t.Errorf("event = %s, want %s", ev.EventType(), typ)
			}
			if ev.TaskKey() != task.Key() {
				t.Errorf("event key = %s, want %s", ev.TaskKey(), task.Key())
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", typ)
		}
	}
}

func TestClose(t *testing.T) {
	clock := &fakeClock{}
	r := New(UpdaterFunc(func(context.Context, models.UnifiedTask, models.Status) error {
		return nil
	}), Options{AfterFunc: clock.AfterFunc})

	task := regularTask("2", models.StatusPending)
	if err := r.ChangeStatus(context.Background(), task, models.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	r.Close()

	if !clock.last().stopped {
		t.Error("Close() did not stop settle timer")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Close, want 0", r.Len())
	}
	if err := r.ChangeStatus(context.Background(), task, models.StatusPending); err == nil {
		t.Error("ChangeStatus() after Close should fail")
	}
}

func TestRealTimerSettles(t *testing.T) {
	r := New(UpdaterFunc(func(context.Context, models.UnifiedTask, models.Status) error {
		return nil
	}), Options{SettleDelay: 10 * time.Millisecond})
	defer r.Close()

	task := regularTask("8", models.StatusPending)
	if err := r.ChangeStatus(context.Background(), task, models.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for r.Pending(task.Key()) {
		if time.Now().After(deadline) {
			t.Fatal("entry was never settled")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Package notifier delivers the transient success/failure messages that follow
// every mutation.
package notifier

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/mantenix/internal/logger"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 5000 * time.Millisecond

type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notifier announces the outcome of user actions.
type Notifier interface {
	Success(text string)
	Failure(text string, err error)
}

// Toast is a single queued notification.
type Toast struct {
	Level     Level
	Text      string
	CreatedAt time.Time
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Render formats the toast for a terminal.
func (t Toast) Render() string {
	if t.Level == LevelError {
		return failureStyle.Render("✗ " + t.Text)
	}
	return successStyle.Render("✓ " + t.Text)
}

func failureText(text string, err error) string {
	if err == nil {
		return text
	}
	return fmt.Sprintf("%s: %v", text, err)
}

// Terminal writes each notification as one styled line.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (n *Terminal) Success(text string) {
	n.write(Toast{Level: LevelSuccess, Text: text})
}

func (n *Terminal) Failure(text string, err error) {
	logger.Warn(text, "error", err)
	n.write(Toast{Level: LevelError, Text: failureText(text, err)})
}

func (n *Terminal) write(t Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, t.Render())
}

// Queue keeps recent toasts for a view that renders them on its own schedule.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	ttl    time.Duration
	now    func() time.Time
}

func NewQueue() *Queue {
	return &Queue{ttl: ToastDuration, now: time.Now}
}

func (q *Queue) Success(text string) {
	q.push(Toast{Level: LevelSuccess, Text: text})
}

func (q *Queue) Failure(text string, err error) {
	logger.Warn(text, "error", err)
	q.push(Toast{Level: LevelError, Text: failureText(text, err)})
}

func (q *Queue) push(t Toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	t.CreatedAt = q.now()
	q.toasts = append(q.toasts, t)
}

// Active drops expired toasts and returns the rest, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := q.now().Add(-q.ttl)
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if t.CreatedAt.After(cutoff) {
			kept = append(kept, t)
		}
	}
	q.toasts = kept

	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// Log only records notifications in the log file.
type Log struct{}

func (Log) Success(text string)            { logger.Info(text) }
func (Log) Failure(text string, err error) { logger.Warn(text, "error", err) }

// Nop discards notifications.
type Nop struct{}

func (Nop) Success(string)        {}
func (Nop) Failure(string, error) {}

// Package validation checks user input before any request is sent and audits
// the unified task set for suspect backend data.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"

	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/utils"
)

// IssueType classifies a finding.
type IssueType string

const (
	IssueMissingField     IssueType = "missing_field"
	IssueInvalidFormat    IssueType = "invalid_format"
	IssueUnknownStatus    IssueType = "unknown_status"
	IssueUnknownPriority  IssueType = "unknown_priority"
	IssueDuplicateTask    IssueType = "duplicate_task"
	IssueDueBeforeCreated IssueType = "due_before_created"
	IssueMissingCompleted IssueType = "missing_completed_at"
)

type Issue struct {
	Type    IssueType
	Field   string
	Message string
	// TaskKeys lists the tasks involved, for audit findings.
	TaskKeys []string
}

type Result struct {
	Issues []Issue
}

func (r *Result) add(typ IssueType, field, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Type: typ, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// FormatReport renders the findings grouped by type.
func (r *Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}

	byType := map[IssueType][]Issue{}
	var types []string
	for _, is := range r.Issues {
		if _, ok := byType[is.Type]; !ok {
			types = append(types, string(is.Type))
		}
		byType[is.Type] = append(byType[is.Type], is)
	}
	sort.Strings(types)

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d issue(s):\n", len(r.Issues))
	for _, typ := range types {
		fmt.Fprintf(&b, "\n%s:\n", strings.ReplaceAll(typ, "_", " "))
		for _, is := range byType[IssueType(typ)] {
			fmt.Fprintf(&b, "  - %s\n", is.Message)
		}
	}
	return b.String()
}

// Err returns nil when there are no issues, or a validation error naming the
// first one.
func (r *Result) Err(op string) error {
	if !r.HasIssues() {
		return nil
	}
	first := r.Issues[0]
	if len(r.Issues) == 1 {
		return apperrors.Validation(op, "%s", first.Message)
	}
	return apperrors.Validation(op, "%s (and %d more)", first.Message, len(r.Issues)-1)
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-.]{5,19}$`)

// Contact checks the contact form fields.
func Contact(c models.Contact) *Result {
	r := &Result{}
	if strings.TrimSpace(c.Name) == "" {
		r.add(IssueMissingField, "name", "name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			r.add(IssueInvalidFormat, "email", "email %q is not a valid address", c.Email)
		}
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		r.add(IssueInvalidFormat, "phone", "phone %q is not a valid number", c.Phone)
	}
	return r
}

// Reminder checks the reminder form fields. Due dates are read in loc.
func Reminder(rem models.Reminder, loc *time.Location) *Result {
	r := &Result{}
	if strings.TrimSpace(rem.Title) == "" {
		r.add(IssueMissingField, "title", "title is required")
	}
	if strings.TrimSpace(rem.DueDate) == "" {
		r.add(IssueMissingField, "dueDate", "due date is required")
	} else if _, ok := utils.ParseTimestamp(rem.DueDate, loc); !ok {
		r.add(IssueInvalidFormat, "dueDate", "due date %q is not a date or timestamp", rem.DueDate)
	}
	if rem.Priority != "" && !models.Priority(rem.Priority).IsValid() {
		r.add(IssueUnknownPriority, "priority", "priority %q is not one of low, medium, high, urgent", rem.Priority)
	}
	return r
}

// NewTask checks the fields of a task about to be created. Due dates are read
// in loc.
func NewTask(origin models.Origin, title string, priority models.Priority, due string, loc *time.Location) *Result {
	r := &Result{}
	if !origin.IsValid() {
		r.add(IssueInvalidFormat, "origin", "task origin %q is unknown", origin)
	}
	if strings.TrimSpace(title) == "" {
		r.add(IssueMissingField, "title", "title is required")
	}
	if priority != "" && !priority.IsValid() {
		r.add(IssueUnknownPriority, "priority", "priority %q is not one of low, medium, high, urgent", priority)
	}
	if strings.TrimSpace(due) != "" {
		if _, ok := utils.ParseTimestamp(due, loc); !ok {
			r.add(IssueInvalidFormat, "dueDate", "due date %q is not a date or timestamp", due)
		}
	}
	return r
}

// StatusChange checks a requested status change on task.
func StatusChange(task models.UnifiedTask, status models.Status) *Result {
	r := &Result{}
	if task.ID == "" {
		r.add(IssueMissingField, "id", "task has no id")
	}
	if !task.Origin.IsValid() {
		r.add(IssueInvalidFormat, "origin", "task origin %q is unknown", task.Origin)
	}
	if !status.IsValid() {
		r.add(IssueUnknownStatus, "status", "status %q is not one of %s", status, statusList())
	}
	return r
}

func statusList() string {
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Tasks audits an adapted task set for values the normalization tables did
// not recognize and for inconsistent records.
func Tasks(tasks []models.UnifiedTask) *Result {
	r := &Result{}
	seen := map[string]bool{}

	for _, t := range tasks {
		key := t.Key()
		if seen[key] {
			r.Issues = append(r.Issues, Issue{
				Type:     IssueDuplicateTask,
				Message:  fmt.Sprintf("%s %q appears more than once", key, t.Title),
				TaskKeys: []string{key},
			})
			continue
		}
		seen[key] = true

		if !t.Status.IsValid() {
			r.Issues = append(r.Issues, Issue{
				Type:     IssueUnknownStatus,
				Field:    "status",
				Message:  fmt.Sprintf("%s %q has unrecognized status %q", key, t.Title, t.Status),
				TaskKeys: []string{key},
			})
		}
		if !t.Priority.IsValid() {
			r.Issues = append(r.Issues, Issue{
				Type:     IssueUnknownPriority,
				Field:    "priority",
				Message:  fmt.Sprintf("%s %q has unrecognized priority %q", key, t.Title, t.Priority),
				TaskKeys: []string{key},
			})
		}
		if t.DueDate != nil && !t.CreatedAt.IsZero() && t.DueDate.Before(t.CreatedAt.Add(-24*time.Hour)) {
			r.Issues = append(r.Issues, Issue{
				Type:     IssueDueBeforeCreated,
				Field:    "dueDate",
				Message:  fmt.Sprintf("%s %q is due %s, before it was created", key, t.Title, t.DueDate.Format(time.DateOnly)),
				TaskKeys: []string{key},
			})
		}
		if t.Status == models.StatusCompleted && t.CompletedAt == nil {
			r.Issues = append(r.Issues, Issue{
				Type:     IssueMissingCompleted,
				Field:    "completedAt",
				Message:  fmt.Sprintf("%s %q is completed but has no completion time", key, t.Title),
				TaskKeys: []string{key},
			})
		}
	}
	return r
}

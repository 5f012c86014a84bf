package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrEmptyTitle      = errors.New("model: task title is required")
	ErrDueDateRange    = errors.New("model: due date out of range")
)

type Priority int16

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// Priorities lists the known levels from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Label is the display name of p. Unknown levels display as Low.
func (p Priority) Label() string {
	switch p {
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Low"
	}
}

func (p Priority) String() string { return p.Label() }

// Next cycles Low -> Medium -> High -> Low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Step moves delta levels along Priorities, stopping at Low and High. An
// unknown level steps from Low downward or from High upward.
func (p Priority) Step(delta int) Priority {
	idx := -1
	for i, known := range Priorities {
		if known == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			idx = 0
		} else {
			idx = len(Priorities) - 1
		}
		delta = 0
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(Priorities) {
		idx = len(Priorities) - 1
	}
	return Priorities[idx]
}

func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low", "l", "0":
		return PriorityLow, nil
	case "medium", "med", "m", "1":
		return PriorityMedium, nil
	case "high", "h", "2":
		return PriorityHigh, nil
	default:
		return PriorityLow, fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
}

type Task struct {
	ID          string
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    Priority
	CreatedAt   time.Time
	IsCompleted bool
}

func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

func (t Task) WithTitle(title string) Task {
	t.Title = title
	return t
}

func (t Task) WithDescription(desc *string) Task {
	t.Description = cloneString(desc)
	return t
}

func (t Task) WithDueDate(due *time.Time) Task {
	t.DueDate = cloneTime(due)
	return t
}

func (t Task) WithPriority(p Priority) Task {
	t.Priority = p
	return t
}

func (t Task) WithCompleted(done bool) Task {
	t.IsCompleted = done
	return t
}

// SameContent reports whether the mutable fields of t and o match.
func (t Task) SameContent(o Task) bool {
	if t.Title != o.Title || t.Priority != o.Priority || t.IsCompleted != o.IsCompleted {
		return false
	}
	if (t.Description == nil) != (o.Description == nil) {
		return false
	}
	if t.Description != nil && *t.Description != *o.Description {
		return false
	}
	if (t.DueDate == nil) != (o.DueDate == nil) {
		return false
	}
	return t.DueDate == nil || t.DueDate.Equal(*o.DueDate)
}

// ValidateTitle trims title and rejects it when nothing is left.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	return trimmed, nil
}

// ValidateDueDate accepts nil or a due date in years 1 through 9999.
func ValidateDueDate(due *time.Time) error {
	if due == nil {
		return nil
	}
	if y := due.UTC().Year(); y < 1 || y > 9999 {
		return fmt.Errorf("%w: %s", ErrDueDateRange, due.UTC().Format(time.RFC3339))
	}
	return nil
}

// Less orders by priority descending, then due date ascending with
// undated tasks last, then creation order.
func Less(a, b Task) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return true
	case a.DueDate == nil && b.DueDate != nil:
		return false
	case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
		return a.DueDate.Before(*b.DueDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return Less(tasks[i], tasks[j]) })
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

package storage

import (
	"time"

	"github.com/sandeepkv93/todo/internal/model"
)

type NewTask struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    model.Priority
}

// TaskFilter restricts FetchTasks. A nil Completed returns every task.
type TaskFilter struct {
	Completed *bool
}

func AllTasks() TaskFilter { return TaskFilter{} }

func CompletedTasks(done bool) TaskFilter {
	return TaskFilter{Completed: &done}
}

func (f TaskFilter) Matches(t model.Task) bool {
	return f.Completed == nil || *f.Completed == t.IsCompleted
}

// Clock supplies creation timestamps.
type Clock func() time.Time

// storedTime is the precision both stores keep: UTC, whole microseconds.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func storedTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	out := storedTime(*v)
	return &out
}

// monotonicStamp returns now, or one microsecond after last when the clock
// has not moved past it.
func monotonicStamp(now, last time.Time) time.Time {
	now = storedTime(now)
	if !last.IsZero() && !now.After(last) {
		return last.Add(time.Microsecond)
	}
	return now
}

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/todo/internal/model"
)

// MemoryStore keeps tasks in a map. It honors the same ordering and error
// contract as SQLiteStore and backs presenter tests.
type MemoryStore struct {
	mu          sync.Mutex
	tasks       map[string]model.Task
	now         Clock
	lastCreated time.Time
	// FetchErr, when set, is returned (wrapped in ErrFetch) by FetchTasks.
	FetchErr error
	// SaveErr, when set, is returned (wrapped in ErrSave) by every write.
	SaveErr error
	Writes  int
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{tasks: make(map[string]model.Task), now: clock}
}

func (s *MemoryStore) CreateTask(_ context.Context, in NewTask) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return model.Task{}, wrapSave(s.SaveErr)
	}
	if err := model.ValidateDueDate(in.DueDate); err != nil {
		return model.Task{}, wrapSave(err)
	}
	created := monotonicStamp(s.now(), s.lastCreated)
	task := model.Task{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Priority:  in.Priority,
		CreatedAt: created,
	}.WithDescription(in.Description).WithDueDate(storedTimePtr(in.DueDate))
	s.tasks[task.ID] = task
	s.lastCreated = created
	s.Writes++
	return task, nil
}

func (s *MemoryStore) GetTask(_ context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return copyTask(task), nil
}

func (s *MemoryStore) FetchTasks(_ context.Context, filter TaskFilter) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FetchErr != nil {
		return nil, wrapFetch(s.FetchErr)
	}
	out := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.Matches(task) {
			out = append(out, copyTask(task))
		}
	}
	model.SortTasks(out)
	return out, nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, in model.Task) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return false, wrapSave(s.SaveErr)
	}
	if err := model.ValidateDueDate(in.DueDate); err != nil {
		return false, wrapSave(err)
	}
	current, ok := s.tasks[in.ID]
	if !ok {
		return false, ErrNotFound
	}
	in = in.WithDueDate(storedTimePtr(in.DueDate))
	if current.SameContent(in) {
		return false, nil
	}
	next := current.
		WithTitle(in.Title).
		WithDescription(in.Description).
		WithDueDate(storedTimePtr(in.DueDate)).
		WithPriority(in.Priority).
		WithCompleted(in.IsCompleted)
	s.tasks[in.ID] = next
	s.Writes++
	return true, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return wrapSave(s.SaveErr)
	}
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	s.Writes++
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func copyTask(t model.Task) model.Task {
	return t.WithDescription(t.Description).WithDueDate(t.DueDate)
}

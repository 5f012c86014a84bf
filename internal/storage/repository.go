package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/todo/internal/model"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrInit     = errors.New("storage: initialize")
	ErrSave     = errors.New("storage: save")
	ErrFetch    = errors.New("storage: fetch")
)

// Store is the only gateway to durable task state.
type Store interface {
	CreateTask(ctx context.Context, in NewTask) (model.Task, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	FetchTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	// UpdateTask replaces the mutable fields of the stored task. It reports
	// false without writing when nothing differs.
	UpdateTask(ctx context.Context, in model.Task) (bool, error)
	DeleteTask(ctx context.Context, id string) error
	Close() error
}

func wrapSave(err error) error { return fmt.Errorf("%w: %w", ErrSave, err) }

func wrapFetch(err error) error { return fmt.Errorf("%w: %w", ErrFetch, err) }

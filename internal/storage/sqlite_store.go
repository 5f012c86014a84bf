package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/model"
)

type Options struct {
	// Path of the SQLite file. ":memory:" keeps everything in process.
	Path   string
	Logger *zap.Logger
	Clock  Clock
}

// SQLiteStore serializes every call behind mu and a single connection.
type SQLiteStore struct {
	mu          sync.Mutex
	db          *sql.DB
	log         *zap.Logger
	now         Clock
	lastCreated time.Time
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB, opts Options) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil db", ErrInit)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("%w: enable foreign keys: %w", ErrInit, err)
	}
	s := &SQLiteStore{db: db, log: opts.Logger, now: opts.Clock}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	var last sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(created_at) FROM tasks`).Scan(&last); err != nil {
		return nil, fmt.Errorf("%w: read last created_at: %w", ErrInit, err)
	}
	if last.Valid {
		s.lastCreated = fromUnixMicro(last.Int64)
	}
	return s, nil
}

// Open creates the database file if needed, migrates it and returns a ready
// store. Any failure wraps ErrInit.
func Open(ctx context.Context, opts Options) (*SQLiteStore, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrInit)
	}
	if opts.Path != ":memory:" {
		if dir := filepath.Dir(opts.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("%w: create data dir: %w", ErrInit, err)
			}
		}
	}
	db, err := sql.Open("sqlite3", opts.Path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrInit, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite: %w", ErrInit, err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	store, err := NewSQLiteStore(db, opts)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	version, _ := SchemaVersion(db)
	store.log.Info("task store opened", zap.String("path", opts.Path), zap.Int("schema_version", version))
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateTask(ctx context.Context, in NewTask) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := model.ValidateDueDate(in.DueDate); err != nil {
		return model.Task{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	created := monotonicStamp(s.now(), s.lastCreated)
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		CreatedAt:   created,
		Priority:    in.Priority,
		IsCompleted: false,
	}.WithDescription(in.Description).WithDueDate(storedTimePtr(in.DueDate))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, due_at, priority, created_at, is_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, nullString(task.Description), nullTime(task.DueDate),
		int64(task.Priority), created.UnixMicro(), boolInt(task.IsCompleted),
	)
	if err != nil {
		s.log.Error("create task failed", zap.Error(err))
		return model.Task{}, fmt.Errorf("%w: insert task: %w", ErrSave, err)
	}
	s.lastCreated = created
	s.log.Debug("task created", zap.String("id", task.ID), zap.Stringer("priority", task.Priority))
	return task, nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, due_at, priority, created_at, is_completed
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("%w: get task: %w", ErrFetch, err)
	}
	return task, nil
}

func (s *SQLiteStore) FetchTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.fetch(ctx, filter)
	if err != nil {
		s.log.Warn("fetch tasks failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return out, nil
}

func (s *SQLiteStore) fetch(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := `SELECT id, title, description, due_at, priority, created_at, is_completed FROM tasks`
	args := make([]any, 0, 1)
	if filter.Completed != nil {
		query += ` WHERE is_completed = ?`
		args = append(args, boolInt(*filter.Completed))
	}
	query += ` ORDER BY priority DESC, due_at IS NULL ASC, due_at ASC, created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, in model.Task) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := model.ValidateDueDate(in.DueDate); err != nil {
		return false, fmt.Errorf("%w: %w", ErrSave, err)
	}
	desc, due := nullString(in.Description), nullTime(in.DueDate)
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, due_at = ?, priority = ?, is_completed = ?
		WHERE id = ? AND NOT (
			title IS ? AND description IS ? AND due_at IS ? AND priority IS ? AND is_completed IS ?
		)`,
		in.Title, desc, due, int64(in.Priority), boolInt(in.IsCompleted),
		in.ID,
		in.Title, desc, due, int64(in.Priority), boolInt(in.IsCompleted),
	)
	if err != nil {
		s.log.Error("update task failed", zap.String("id", in.ID), zap.Error(err))
		return false, fmt.Errorf("%w: update task: %w", ErrSave, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: update task: %w", ErrSave, err)
	}
	if affected > 0 {
		s.log.Debug("task updated", zap.String("id", in.ID))
		return true, nil
	}
	exists, err := s.exists(ctx, in.ID)
	if err != nil {
		return false, fmt.Errorf("%w: update task: %w", ErrSave, err)
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		s.log.Error("delete task failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("%w: delete task: %w", ErrSave, err)
	}
	if err := checkRowsAffected(res, "delete task"); err != nil {
		return err
	}
	s.log.Debug("task deleted", zap.String("id", id))
	return nil
}

func (s *SQLiteStore) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return storedTime(*v).UnixMicro()
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromUnixMicro(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var desc sql.NullString
	var due sql.NullInt64
	var priority int64
	var created int64
	var completed int
	if err := s.Scan(&out.ID, &out.Title, &desc, &due, &priority, &created, &completed); err != nil {
		return model.Task{}, err
	}
	if desc.Valid {
		text := desc.String
		out.Description = &text
	}
	if due.Valid {
		dueAt := fromUnixMicro(due.Int64)
		out.DueDate = &dueAt
	}
	out.Priority = model.Priority(priority)
	out.CreatedAt = fromUnixMicro(created)
	out.IsCompleted = completed == 1
	return out, nil
}

// checkRowsAffected maps zero rows to ErrNotFound and a driver failure to ErrSave.
func checkRowsAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSave, op, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

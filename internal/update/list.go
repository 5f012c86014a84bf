package update

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case m.Keys.Add, "n":
		m.openEditor(nil)
	case m.Keys.Edit, "e":
		if task, ok := m.selectedTask(); ok {
			m.openEditor(&task)
		}
	case m.Keys.Toggle, "c":
		m.toggleSelected()
	case m.Keys.Delete:
		if task, ok := m.selectedTask(); ok {
			m.PendingDelete = &task
			m.Status = StatusBar{Text: fmt.Sprintf("delete %q? y/n", task.Title)}
		}
	case m.Keys.Priority:
		if task, ok := m.selectedTask(); ok {
			m.setPriority(task, task.Priority.Next())
		}
	case m.Keys.Filter:
		m.setFilter(nextFilter(m.Filter))
	case m.Keys.Fold:
		m.toggleSectionFold()
	}
	return m
}

func (m Model) handleDeleteConfirmKey(msg tea.KeyMsg) Model {
	pending := m.PendingDelete
	m.PendingDelete = nil
	switch msg.String() {
	case "y", "Y":
		m.deleteTask(*pending)
	default:
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}

func (m *Model) openEditor(existing *model.Task) {
	if existing != nil {
		ctx, cancel := m.storeContext()
		fresh, err := m.store.GetTask(ctx, existing.ID)
		cancel()
		if err != nil {
			m.reportStoreError("open task", err)
			m.reload()
			return
		}
		existing = &fresh
	}
	m.Editor = newEditor(existing, m.loc)
	m.CurrentScreen = ScreenEditor
}

func (m *Model) closeEditor() {
	m.Editor = EditorState{}
	m.CurrentScreen = ScreenList
}

// saveDraft routes the editor result through the store and re-queries.
func (m *Model) saveDraft(msg EditorSavedMsg) {
	m.closeEditor()
	ctx, cancel := m.storeContext()
	defer cancel()

	if msg.Existing == nil {
		task, err := m.store.CreateTask(ctx, storage.NewTask{
			Title:       msg.Draft.Title,
			Description: msg.Draft.Description,
			DueDate:     msg.Draft.DueDate,
			Priority:    msg.Draft.Priority,
		})
		if err != nil {
			m.reportStoreError("create task", err)
			m.reload()
			return
		}
		m.SelectedTaskID = task.ID
		m.Status = StatusBar{Text: fmt.Sprintf("task created: %s", task.Title)}
		m.reload()
		return
	}

	next := msg.Existing.
		WithTitle(msg.Draft.Title).
		WithDescription(msg.Draft.Description).
		WithDueDate(msg.Draft.DueDate).
		WithPriority(msg.Draft.Priority)
	changed, err := m.store.UpdateTask(ctx, next)
	switch {
	case err != nil:
		m.reportStoreError("update task", err)
	case changed:
		m.SelectedTaskID = next.ID
		m.Status = StatusBar{Text: fmt.Sprintf("task updated: %s", next.Title)}
	default:
		m.SelectedTaskID = next.ID
		m.Status = StatusBar{Text: "no changes"}
	}
	m.reload()
}

func (m *Model) toggleSelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	ctx, cancel := m.storeContext()
	defer cancel()
	next := task.WithCompleted(!task.IsCompleted)
	if _, err := m.store.UpdateTask(ctx, next); err != nil {
		m.reportStoreError("toggle task", err)
	} else if next.IsCompleted {
		m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", task.Title)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", task.Title)}
	}
	m.reload()
}

func (m *Model) setPriority(task model.Task, p model.Priority) {
	ctx, cancel := m.storeContext()
	defer cancel()
	if _, err := m.store.UpdateTask(ctx, task.WithPriority(p)); err != nil {
		m.reportStoreError("set priority", err)
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("priority %s: %s", p.Label(), task.Title)}
	}
	m.reload()
}

func (m *Model) deleteTask(task model.Task) {
	ctx, cancel := m.storeContext()
	defer cancel()
	err := m.store.DeleteTask(ctx, task.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		m.Status = StatusBar{Text: fmt.Sprintf("already deleted: %s", task.Title)}
	case err != nil:
		m.reportStoreError("delete task", err)
	default:
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Title)}
	}
	if m.SelectedTaskID == task.ID {
		m.SelectedTaskID = ""
	}
	m.reload()
}

func (m *Model) setFilter(f config.Filter) {
	m.Filter = f
	m.Status = StatusBar{Text: fmt.Sprintf("showing %s tasks", f)}
	m.reload()
	m.saveUIState()
}

func (m *Model) toggleSectionFold() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	section := task.Priority.Label()
	m.Collapsed[section] = !m.Collapsed[section]
	if m.Collapsed[section] {
		m.Status = StatusBar{Text: fmt.Sprintf("%s folded", section)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("%s unfolded", section)}
	}
	m.clampCursor()
	m.saveUIState()
}

// reload replaces the rows with a fresh query; rows are never patched in place.
func (m *Model) reload() {
	ctx, cancel := m.storeContext()
	defer cancel()
	tasks, err := m.store.FetchTasks(ctx, filterFor(m.Filter))
	if err != nil {
		m.Tasks = nil
		m.LoadError = err
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("load tasks: %v", err), IsError: true}
		m.log.Warn("reload tasks failed", zap.Error(err))
		m.clampCursor()
		return
	}
	if m.LoadError != nil {
		m.Status = StatusBar{Text: "tasks reloaded"}
	}
	m.LoadError = nil
	m.Tasks = tasks
	m.restoreSelection()
}

// VisibleTasks is the display order: priority sections High, Medium, Low
// in store order, skipping folded sections.
func (m Model) VisibleTasks() []model.Task {
	out := make([]model.Task, 0, len(m.Tasks))
	for _, section := range views.Sections {
		if m.Collapsed[section] {
			continue
		}
		for _, task := range m.Tasks {
			if task.Priority.Label() == section {
				out = append(out, task)
			}
		}
	}
	return out
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.VisibleTasks()
	if len(visible) == 0 || m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.Cursor += delta
	m.clampCursor()
}

func (m *Model) restoreSelection() {
	if m.SelectedTaskID != "" {
		for i, task := range m.VisibleTasks() {
			if task.ID == m.SelectedTaskID {
				m.Cursor = i
				return
			}
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	visible := m.VisibleTasks()
	if m.Cursor >= len(visible) {
		m.Cursor = len(visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if len(visible) == 0 {
		m.SelectedTaskID = ""
		return
	}
	m.SelectedTaskID = visible[m.Cursor].ID
}

func (m *Model) reportStoreError(op string, err error) {
	m.LastError = err
	text := fmt.Sprintf("%s: %v", op, err)
	if errors.Is(err, storage.ErrNotFound) {
		text = fmt.Sprintf("%s: task no longer exists", op)
	}
	m.Status = StatusBar{Text: text, IsError: true}
	m.log.Warn("store call failed", zap.String("op", op), zap.Error(err))
}

func (m Model) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func filterFor(f config.Filter) storage.TaskFilter {
	switch f {
	case config.FilterOpen:
		return storage.CompletedTasks(false)
	case config.FilterDone:
		return storage.CompletedTasks(true)
	default:
		return storage.AllTasks()
	}
}

func nextFilter(f config.Filter) config.Filter {
	switch f {
	case config.FilterAll:
		return config.FilterOpen
	case config.FilterOpen:
		return config.FilterDone
	default:
		return config.FilterAll
	}
}

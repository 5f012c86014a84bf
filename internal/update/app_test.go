package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
)

var baseTime = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func newTestStore() *storage.MemoryStore {
	tick := baseTime
	return storage.NewMemoryStore(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})
}

func testConfig(t *testing.T) config.RuntimeConfig {
	t.Helper()
	cfg := config.DefaultRuntimeConfig()
	cfg.UIStatePath = filepath.Join(t.TempDir(), "ui.yaml")
	return cfg
}

func newTestModel(t *testing.T, store storage.Store) Model {
	t.Helper()
	return NewModel(store, testConfig(t), nil, WithLocation(time.UTC))
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func seed(t *testing.T, store storage.Store, title string, p model.Priority, due *time.Time) model.Task {
	t.Helper()
	task, err := store.CreateTask(context.Background(), storage.NewTask{Title: title, Priority: p, DueDate: due})
	if err != nil {
		t.Fatalf("seed %q: %v", title, err)
	}
	return task
}

func ptrTime(v time.Time) *time.Time { return &v }

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func storedTasks(t *testing.T, store storage.Store) []model.Task {
	t.Helper()
	tasks, err := store.FetchTasks(context.Background(), storage.AllTasks())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	return tasks
}

func TestNewModelLoadsTasksInStoreOrder(t *testing.T) {
	store := newTestStore()
	seed(t, store, "A", model.PriorityHigh, ptrTime(baseTime.Add(24*time.Hour)))
	seed(t, store, "B", model.PriorityHigh, ptrTime(baseTime.Add(-24*time.Hour)))
	seed(t, store, "C", model.PriorityLow, nil)

	m := newTestModel(t, store)
	if m.CurrentScreen != ScreenList || m.Filter != config.FilterAll {
		t.Fatalf("unexpected defaults: screen=%q filter=%q", m.CurrentScreen, m.Filter)
	}
	if got := strings.Join(titles(m.Tasks), ","); got != "B,A,C" {
		t.Fatalf("expected B,A,C, got %s", got)
	}
	if m.Cursor != 0 || m.SelectedTaskID != m.Tasks[0].ID {
		t.Fatalf("expected first row selected, got cursor=%d id=%q", m.Cursor, m.SelectedTaskID)
	}
}

func TestToggleCompletionRoutesThroughStoreAndReloads(t *testing.T) {
	store := newTestStore()
	task := seed(t, store, "pay rent", model.PriorityMedium, nil)
	m := newTestModel(t, store)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	got, err := store.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsCompleted {
		t.Fatal("expected task completed in store")
	}
	if !m.Tasks[0].IsCompleted {
		t.Fatal("expected presenter rows refreshed from store")
	}
	if m.Status.Text != "completed: pay rent" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m, _ = press(t, m, runes("c"))
	if m.Tasks[0].IsCompleted {
		t.Fatal("expected task reopened")
	}
}

func TestToggleUnderOpenFilterDropsRow(t *testing.T) {
	store := newTestStore()
	seed(t, store, "first", model.PriorityHigh, nil)
	seed(t, store, "second", model.PriorityLow, nil)
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("f"))
	if m.Filter != config.FilterOpen {
		t.Fatalf("expected open filter, got %q", m.Filter)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got := strings.Join(titles(m.Tasks), ","); got != "second" {
		t.Fatalf("expected only second left, got %s", got)
	}
	if m.SelectedTaskID != m.Tasks[0].ID {
		t.Fatalf("expected selection to move to remaining row")
	}

	m, _ = press(t, m, runes("f"))
	if m.Filter != config.FilterDone || strings.Join(titles(m.Tasks), ",") != "first" {
		t.Fatalf("unexpected done view: %q %v", m.Filter, titles(m.Tasks))
	}
	m, _ = press(t, m, runes("f"))
	if m.Filter != config.FilterAll || len(m.Tasks) != 2 {
		t.Fatalf("unexpected all view: %q %v", m.Filter, titles(m.Tasks))
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	store := newTestStore()
	seed(t, store, "keep", model.PriorityHigh, nil)
	drop := seed(t, store, "drop", model.PriorityLow, nil)
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, runes("d"))
	if m.PendingDelete == nil || m.PendingDelete.ID != drop.ID {
		t.Fatalf("expected pending delete for drop, got %+v", m.PendingDelete)
	}
	m, _ = press(t, m, runes("n"))
	if m.PendingDelete != nil || len(storedTasks(t, store)) != 2 {
		t.Fatal("expected delete cancelled")
	}

	m, _ = press(t, m, runes("d"))
	m, _ = press(t, m, runes("y"))
	if got := strings.Join(titles(storedTasks(t, store)), ","); got != "keep" {
		t.Fatalf("expected drop deleted, store has %s", got)
	}
	if got := strings.Join(titles(m.Tasks), ","); got != "keep" {
		t.Fatalf("expected rows reloaded, got %s", got)
	}
	if m.Cursor != 0 || m.SelectedTaskID != m.Tasks[0].ID {
		t.Fatalf("expected cursor clamped to remaining row")
	}
}

func TestDeleteOfAlreadyDeletedTaskIsBenign(t *testing.T) {
	store := newTestStore()
	task := seed(t, store, "ghost", model.PriorityLow, nil)
	m := newTestModel(t, store)

	if err := store.DeleteTask(context.Background(), task.ID); err != nil {
		t.Fatalf("delete behind presenter: %v", err)
	}
	m, _ = press(t, m, runes("d"))
	m, _ = press(t, m, runes("y"))
	if m.Status.IsError || m.Status.Text != "already deleted: ghost" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if len(m.Tasks) != 0 {
		t.Fatalf("expected empty rows after reload, got %v", titles(m.Tasks))
	}
}

func TestEditorCreatesTask(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("a"))
	if m.CurrentScreen != ScreenEditor || !m.Editor.Active || m.Editor.Heading() != "New task" {
		t.Fatalf("expected new-task editor, got screen=%q", m.CurrentScreen)
	}
	m, _ = press(t, m, runes("Write report"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runes("see **notes**"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runes("2026-03-01 09:00"))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected save command, editor error: %q", m.Editor.Err)
	}
	saved, ok := cmd().(EditorSavedMsg)
	if !ok {
		t.Fatal("expected EditorSavedMsg")
	}
	if saved.Existing != nil {
		t.Fatal("expected new task draft")
	}
	m, _ = press(t, m, saved)

	tasks := storedTasks(t, store)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 stored task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Write report" || got.Priority != model.PriorityHigh || got.DescriptionText() != "see **notes**" {
		t.Fatalf("unexpected stored task: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", got.DueDate)
	}
	if m.CurrentScreen != ScreenList || m.SelectedTaskID != got.ID {
		t.Fatalf("expected list with new task selected, screen=%q selected=%q", m.CurrentScreen, m.SelectedTaskID)
	}
}

func TestEditorRejectsBlankTitle(t *testing.T) {
	store := newTestStore()
	existing := seed(t, store, "first draft", model.PriorityLow, nil)
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("   "))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected save to be blocked")
	}
	if m.Editor.Err != emptyTitleMessage || !m.Editor.Active {
		t.Fatalf("expected validation message, got %q", m.Editor.Err)
	}
	if store.Writes != 1 {
		t.Fatalf("expected no store writes beyond seed, got %d", store.Writes)
	}

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(EditorCancelledMsg); !ok {
		t.Fatal("expected cancel message")
	}
	m, _ = press(t, m, EditorCancelledMsg{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Editor.titleInput.SetValue(" \t ")
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected blank edit to be blocked")
	}
	got, err := store.GetTask(context.Background(), existing.ID)
	if err != nil || got.Title != "first draft" {
		t.Fatalf("expected task untouched, got %+v err=%v", got, err)
	}
}

func TestEditorRejectsMalformedDueDate(t *testing.T) {
	m := newTestModel(t, newTestStore())
	m, _ = press(t, m, runes("a"))
	m.Editor.titleInput.SetValue("ok")
	m.Editor.dueInput.SetValue("next tuesday")
	_, err := m.Editor.Draft()
	if !errors.Is(err, ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || !strings.Contains(m.Editor.Err, "due date") {
		t.Fatalf("expected due date error, got %q", m.Editor.Err)
	}
}

func TestEditorUpdatesExistingTask(t *testing.T) {
	store := newTestStore()
	task := seed(t, store, "draft", model.PriorityLow, ptrTime(baseTime.Add(48*time.Hour)))
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("e"))
	if m.Editor.Heading() != "Edit task" || m.Editor.TitleValue() != "draft" {
		t.Fatalf("expected prefilled editor, got %q %q", m.Editor.Heading(), m.Editor.TitleValue())
	}
	if m.Editor.DueValue() != "2026-02-11 12:00" {
		t.Fatalf("unexpected prefilled due: %q", m.Editor.DueValue())
	}
	m.Editor.titleInput.SetValue("final")
	m.Editor.dueInput.SetValue("")
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = press(t, m, cmd())

	got, err := store.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "final" || got.DueDate != nil {
		t.Fatalf("unexpected update result: %+v", got)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Fatal("created_at must not change on edit")
	}
	if m.Status.Text != "task updated: final" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestEditorSaveWithoutChangesIsNoop(t *testing.T) {
	store := newTestStore()
	seed(t, store, "same", model.PriorityMedium, nil)
	m := newTestModel(t, store)
	writes := store.Writes

	for i := 0; i < 2; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		var cmd tea.Cmd
		m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
		m, _ = press(t, m, cmd())
		if m.Status.Text != "no changes" {
			t.Fatalf("unexpected status: %+v", m.Status)
		}
	}
	if store.Writes != writes {
		t.Fatalf("expected no writes, got %d", store.Writes-writes)
	}
}

func TestPriorityCycleResortsRows(t *testing.T) {
	store := newTestStore()
	seed(t, store, "high", model.PriorityHigh, nil)
	low := seed(t, store, "low", model.PriorityLow, nil)
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, runes("p"))
	m, _ = press(t, m, runes("p"))
	got, _ := store.GetTask(context.Background(), low.ID)
	if got.Priority != model.PriorityHigh {
		t.Fatalf("expected high priority, got %v", got.Priority)
	}
	if m.SelectedTaskID != low.ID {
		t.Fatal("expected selection to follow the edited task")
	}
}

func TestFetchFailureShowsErrorAndEmptyRows(t *testing.T) {
	store := newTestStore()
	seed(t, store, "hidden", model.PriorityLow, nil)
	store.FetchErr = errors.New("disk unplugged")

	m := newTestModel(t, store)
	if len(m.Tasks) != 0 || m.LoadError == nil || !errors.Is(m.LoadError, storage.ErrFetch) {
		t.Fatalf("expected fetch failure surfaced, got rows=%d err=%v", len(m.Tasks), m.LoadError)
	}
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}

	store.FetchErr = nil
	m, _ = press(t, m, ReloadTasksMsg{})
	if len(m.Tasks) != 1 || m.LoadError != nil {
		t.Fatalf("expected recovery on reload, got rows=%d err=%v", len(m.Tasks), m.LoadError)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	store := newTestStore()
	seed(t, store, "stuck", model.PriorityLow, nil)
	m := newTestModel(t, store)
	store.SaveErr = errors.New("read-only filesystem")

	m, _ = press(t, m, runes("c"))
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "read-only filesystem") {
		t.Fatalf("expected save error status, got %+v", m.Status)
	}
	if !errors.Is(m.LastError, storage.ErrSave) {
		t.Fatalf("expected ErrSave, got %v", m.LastError)
	}
}

func TestFoldHidesSectionFromCursor(t *testing.T) {
	store := newTestStore()
	seed(t, store, "h1", model.PriorityHigh, nil)
	seed(t, store, "h2", model.PriorityHigh, nil)
	seed(t, store, "l1", model.PriorityLow, nil)
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("z"))
	if !m.Collapsed["High"] {
		t.Fatal("expected High folded")
	}
	visible := m.VisibleTasks()
	if len(visible) != 1 || visible[0].Title != "l1" || m.SelectedTaskID != visible[0].ID {
		t.Fatalf("unexpected visible rows: %v", titles(visible))
	}
	if !strings.Contains(m.View(), "High (2, folded)") {
		t.Fatalf("expected folded section in view")
	}
}

func TestPaletteCommands(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m, _ = press(t, m, runes("add buy milk !high"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Palette.Active {
		t.Fatal("expected palette closed after execute")
	}
	tasks := storedTasks(t, store)
	if len(tasks) != 1 || tasks[0].Title != "buy milk" || tasks[0].Priority != model.PriorityHigh {
		t.Fatalf("unexpected palette add: %+v", tasks)
	}
	if m.Status.Text != "task created: buy milk" || len(m.Tasks) != 1 {
		t.Fatalf("unexpected status/rows: %+v %d", m.Status, len(m.Tasks))
	}

	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, runes("done"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !storedTasks(t, store)[0].IsCompleted {
		t.Fatal("expected palette done to complete task")
	}

	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, runes("show open"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Filter != config.FilterOpen || len(m.Tasks) != 0 {
		t.Fatalf("expected open filter with no rows, got %q %d", m.Filter, len(m.Tasks))
	}

	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, runes("delete"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "no task selected") {
		t.Fatalf("expected no selection error, got %+v", m.Status)
	}

	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, runes("bogus"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
}

func TestUIStatePersistsAcrossModels(t *testing.T) {
	store := newTestStore()
	seed(t, store, "h", model.PriorityHigh, nil)
	cfg := testConfig(t)

	m := NewModel(store, cfg, nil, WithLocation(time.UTC))
	m, _ = press(t, m, runes("z"))
	m, _ = press(t, m, runes("f"))
	if _, err := os.Stat(cfg.UIStatePath); err != nil {
		t.Fatalf("expected ui state file: %v", err)
	}

	restored := NewModel(store, cfg, nil, WithLocation(time.UTC))
	if restored.Filter != config.FilterOpen || !restored.Collapsed["High"] {
		t.Fatalf("expected restored ui state, got filter=%q collapsed=%v", restored.Filter, restored.Collapsed)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := newTestModel(t, newTestStore())
	next, cmd := press(t, m, runes("q"))
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestTypingQInEditorDoesNotQuit(t *testing.T) {
	m := newTestModel(t, newTestStore())
	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("q"))
	if m.Quitting || m.Editor.TitleValue() != "q" {
		t.Fatalf("expected q typed into title, quitting=%v title=%q", m.Quitting, m.Editor.TitleValue())
	}
}

func TestInformationalStatusClearsOnlyForLatestSeq(t *testing.T) {
	store := newTestStore()
	seed(t, store, "water plants", model.PriorityLow, nil)
	m := newTestModel(t, store)

	m, cmd := press(t, m, runes("c"))
	if cmd == nil {
		t.Fatal("expected a clear-status timer after a status change")
	}
	first := m.statusSeq

	m, _ = press(t, m, runes("c"))
	if m.statusSeq == first {
		t.Fatal("expected a new status sequence")
	}
	m, _ = press(t, m, ClearStatusMsg{Seq: first})
	if m.Status.Text != "reopened: water plants" {
		t.Fatalf("stale clear must not wipe newer status, got %+v", m.Status)
	}
	m, _ = press(t, m, ClearStatusMsg{Seq: m.statusSeq})
	if m.Status.Text != "" {
		t.Fatalf("expected status cleared, got %+v", m.Status)
	}
}

func TestErrorStatusIsNotAutoCleared(t *testing.T) {
	store := newTestStore()
	seed(t, store, "stuck", model.PriorityLow, nil)
	m := newTestModel(t, store)
	store.SaveErr = errors.New("read-only filesystem")

	m, _ = press(t, m, runes("c"))
	m, _ = press(t, m, ClearStatusMsg{Seq: m.statusSeq})
	if !m.Status.IsError {
		t.Fatalf("expected error status kept, got %+v", m.Status)
	}
}

func TestFailedFetchSchedulesSingleRetry(t *testing.T) {
	store := newTestStore()
	seed(t, store, "later", model.PriorityLow, nil)
	store.FetchErr = errors.New("locked")

	m := newTestModel(t, store)
	if m.Init() == nil || !m.retryPending {
		t.Fatal("expected Init to schedule a reload retry")
	}
	m, _ = press(t, m, runes("j"))
	if !m.retryPending {
		t.Fatal("expected retry to stay pending")
	}

	m, cmd := press(t, m, ReloadTasksMsg{})
	if cmd == nil || !m.retryPending {
		t.Fatal("expected a new retry after another failed fetch")
	}

	store.FetchErr = nil
	m, _ = press(t, m, ReloadTasksMsg{})
	if m.retryPending || m.LoadError != nil || len(m.Tasks) != 1 {
		t.Fatalf("expected recovery, pending=%v err=%v rows=%d", m.retryPending, m.LoadError, len(m.Tasks))
	}
	if m.Status.IsError || m.Status.Text != "tasks reloaded" {
		t.Fatalf("expected error status replaced, got %+v", m.Status)
	}
	if newTestModel(t, store).Init() != nil {
		t.Fatal("expected no retry when the first load succeeds")
	}
}

func TestPaletteForwardsInputCommands(t *testing.T) {
	m := newTestModel(t, newTestStore())
	m, cmd := m.openPalette()
	if cmd == nil {
		t.Fatal("expected focus command from palette input")
	}
	m, _ = m.handlePaletteKey(runes("shw"))
	m, cmd = m.handlePaletteKey(tea.KeyMsg{Type: tea.KeyLeft})
	if cmd == nil {
		t.Fatal("expected cursor command after moving within palette input")
	}
	if m.Palette.Input != "shw" {
		t.Fatalf("unexpected palette input: %q", m.Palette.Input)
	}
}

func TestViewContainsRowsAndDetails(t *testing.T) {
	store := newTestStore()
	seed(t, store, "Call plumber", model.PriorityMedium, ptrTime(time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)))
	m := newTestModel(t, store)
	m, _ = press(t, m, runes("?"))

	out := m.View()
	for _, want := range []string{"filter: all", "Medium (1):", "Call plumber", "Feb 10, 2026 08:30", "details:", "help:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view: %q", want, out)
		}
	}
}

func TestCorruptUIStateFallsBackToDefaults(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.UIStatePath, []byte("filter: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}
	m := NewModel(newTestStore(), cfg, nil, WithLocation(time.UTC))
	if m.Filter != config.FilterAll || len(m.Collapsed) != 0 {
		t.Fatalf("expected defaults, got filter=%q collapsed=%v", m.Filter, m.Collapsed)
	}
}

func TestEditorDueDateYearBounds(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	m, _ = press(t, m, runes("a"))
	m.Editor.titleInput.SetValue("ancient")
	m.Editor.dueInput.SetValue("0000-06-01")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || !strings.Contains(m.Editor.Err, "due date") {
		t.Fatalf("expected year 0 rejected, got %q", m.Editor.Err)
	}

	m.Editor.titleInput.SetValue("far future")
	m.Editor.dueInput.SetValue("2300-01-01")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected save command, editor error: %q", m.Editor.Err)
	}
	m, _ = press(t, m, cmd())

	tasks := storedTasks(t, store)
	if len(tasks) != 1 || tasks[0].DueDate == nil || !tasks[0].DueDate.Equal(time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected stored tasks: %+v", tasks)
	}
	if !strings.Contains(m.View(), "Jan 1, 2300 00:00") {
		t.Fatal("expected far due date rendered")
	}
}

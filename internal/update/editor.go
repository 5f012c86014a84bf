package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/views"
)

var ErrInvalidDueDate = errors.New("update: invalid due date")

const emptyTitleMessage = "please enter a task title"

var dueInputLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

type EditorField int

const (
	FieldTitle EditorField = iota
	FieldDescription
	FieldPriority
	FieldDue
)

const editorFieldCount = 4

// Draft is the validated editor input handed back to the list.
type Draft struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    model.Priority
}

// EditorSavedMsg carries a validated draft. Existing is nil for a new task.
type EditorSavedMsg struct {
	Draft    Draft
	Existing *model.Task
}

type EditorCancelledMsg struct{}

type EditorState struct {
	Active   bool
	Existing *model.Task
	Focus    EditorField
	Priority model.Priority
	Err      string

	loc        *time.Location
	titleInput textinput.Model
	descArea   textarea.Model
	dueInput   textinput.Model
}

func newEditor(existing *model.Task, loc *time.Location) EditorState {
	e := EditorState{
		Active:   true,
		Priority: model.PriorityLow,
		loc:      loc,
	}

	e.titleInput = textinput.New()
	e.titleInput.Prompt = "> "
	e.titleInput.Placeholder = "Task title"
	e.titleInput.CharLimit = 256
	e.titleInput.Width = 48

	e.descArea = textarea.New()
	e.descArea.SetWidth(52)
	e.descArea.SetHeight(5)
	e.descArea.ShowLineNumbers = false
	e.descArea.Placeholder = "Description (markdown)"

	e.dueInput = textinput.New()
	e.dueInput.Prompt = "> "
	e.dueInput.Placeholder = "empty for no due date"
	e.dueInput.CharLimit = 16
	e.dueInput.Width = 20

	if existing != nil {
		task := *existing
		e.Existing = &task
		e.Priority = task.Priority
		e.titleInput.SetValue(task.Title)
		e.descArea.SetValue(task.DescriptionText())
		if task.DueDate != nil {
			e.dueInput.SetValue(task.DueDate.In(e.location()).Format(dueInputLayouts[0]))
		}
	}
	e.focusField(FieldTitle)
	return e
}

func (e EditorState) Heading() string {
	if e.Existing != nil {
		return "Edit task"
	}
	return "New task"
}

func (e EditorState) TitleValue() string { return e.titleInput.Value() }

func (e EditorState) DescriptionValue() string { return e.descArea.Value() }

func (e EditorState) DueValue() string { return e.dueInput.Value() }

// Draft validates the inputs. The only business rule is a non-blank title;
// an unparsable due date is reported the same way.
func (e EditorState) Draft() (Draft, error) {
	title, err := model.ValidateTitle(e.titleInput.Value())
	if err != nil {
		return Draft{}, err
	}
	due, err := parseDueInput(e.dueInput.Value(), e.location())
	if err != nil {
		return Draft{}, err
	}
	var desc *string
	if text := strings.TrimSpace(e.descArea.Value()); text != "" {
		desc = &text
	}
	return Draft{Title: title, Description: desc, DueDate: due, Priority: e.Priority}, nil
}

func (e EditorState) Update(msg tea.KeyMsg) (EditorState, tea.Cmd) {
	switch msg.String() {
	case "esc":
		e.Active = false
		return e, func() tea.Msg { return EditorCancelledMsg{} }
	case "ctrl+s":
		draft, err := e.Draft()
		if err != nil {
			e.Err = editorErrorText(err)
			return e, nil
		}
		e.Err = ""
		e.Active = false
		existing := e.Existing
		return e, func() tea.Msg { return EditorSavedMsg{Draft: draft, Existing: existing} }
	case "tab":
		e.focusField((e.Focus + 1) % editorFieldCount)
		return e, nil
	case "shift+tab":
		e.focusField((e.Focus + editorFieldCount - 1) % editorFieldCount)
		return e, nil
	}

	var cmd tea.Cmd
	switch e.Focus {
	case FieldTitle:
		if msg.String() == "enter" {
			e.focusField(FieldDescription)
			return e, nil
		}
		e.titleInput, cmd = e.titleInput.Update(msg)
	case FieldDescription:
		e.descArea, cmd = e.descArea.Update(msg)
	case FieldPriority:
		switch msg.String() {
		case "left", "h":
			e.Priority = e.Priority.Step(-1)
		case "right", "l":
			e.Priority = e.Priority.Step(1)
		case "0", "1", "2":
			p, _ := model.ParsePriority(msg.String())
			e.Priority = p
		}
	case FieldDue:
		e.dueInput, cmd = e.dueInput.Update(msg)
	}
	return e, cmd
}

func (e EditorState) View() string {
	return views.RenderEditorPanel(views.EditorPanelData{
		Heading:         e.Heading(),
		TitleView:       e.titleInput.View(),
		DescriptionView: e.descArea.View(),
		Priority:        e.Priority.Label(),
		PriorityFocused: e.Focus == FieldPriority,
		DueView:         e.dueInput.View(),
		ErrorText:       e.Err,
	})
}

func (e *EditorState) focusField(field EditorField) {
	e.Focus = field
	e.titleInput.Blur()
	e.descArea.Blur()
	e.dueInput.Blur()
	switch field {
	case FieldTitle:
		e.titleInput.Focus()
	case FieldDescription:
		e.descArea.Focus()
	case FieldDue:
		e.dueInput.Focus()
	}
}

func (e EditorState) location() *time.Location {
	if e.loc == nil {
		return time.Local
	}
	return e.loc
}

// parseDueInput accepts "YYYY-MM-DD HH:MM" or a bare date, which means the
// start of that day. Blank input means no due date.
func parseDueInput(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dueInputLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err != nil {
			continue
		}
		if err := model.ValidateDueDate(&t); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDueDate, err)
		}
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, raw)
}

func editorErrorText(err error) string {
	switch {
	case errors.Is(err, model.ErrEmptyTitle):
		return emptyTitleMessage
	case errors.Is(err, ErrInvalidDueDate):
		return "due date must look like 2026-02-09 or 2026-02-09 17:30"
	default:
		return err.Error()
	}
}

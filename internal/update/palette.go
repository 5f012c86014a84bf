package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todo/internal/commands"
	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) openPalette() (Model, tea.Cmd) {
	m.Palette.Active = true
	m.Palette.Input = ""
	cmd := m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active"}
	return m, cmd
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			ctx, cancel := m.storeContext()
			defer cancel()
			task, err := m.store.CreateTask(ctx, storage.NewTask{Title: a.Title, Priority: a.Priority})
			if err != nil {
				return commands.Result{}, err
			}
			m.SelectedTaskID = task.ID
			m.reload()
			return commands.Result{Message: fmt.Sprintf("task created: %s", task.Title)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			f, ok := config.ParseFilter(s.Filter)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown filter %s", s.Filter)}
			}
			m.setFilter(f)
			return commands.Result{Message: fmt.Sprintf("showing %s tasks", f)}, nil
		},
		Done: func() (commands.Result, error) {
			if _, ok := m.selectedTask(); !ok {
				return commands.Result{}, errNoSelection
			}
			m.toggleSelected()
			return commands.Result{Message: m.Status.Text}, statusError(m.Status)
		},
		Delete: func() (commands.Result, error) {
			task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, errNoSelection
			}
			m.deleteTask(task)
			return commands.Result{Message: m.Status.Text}, statusError(m.Status)
		},
		Priority: func(p commands.PriorityArgs) (commands.Result, error) {
			task, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, errNoSelection
			}
			m.setPriority(task, p.Level)
			return commands.Result{Message: m.Status.Text}, statusError(m.Status)
		},
	})
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	return m
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

var errNoSelection = &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}

// statusError turns an error status set by a list action into an error so
// the palette reports it instead of overwriting it.
func statusError(s StatusBar) error {
	if !s.IsError {
		return nil
	}
	return errors.New(s.Text)
}

package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) rowData(task model.Task) views.TaskRowData {
	return views.TaskRowData{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.DescriptionText(),
		DueText:     views.FormatDueDate(task.DueDate, m.loc),
		Priority:    task.Priority.Label(),
		Completed:   task.IsCompleted,
	}
}

func (m Model) header() string {
	open := 0
	for _, task := range m.Tasks {
		if !task.IsCompleted {
			open++
		}
	}
	return fmt.Sprintf("todo | screen: %s | filter: %s | %d shown, %d open", m.CurrentScreen, m.Filter, len(m.Tasks), open)
}

func (m Model) statusLine() string {
	if m.Status.Text == "" {
		return ""
	}
	if m.Status.IsError {
		return fmt.Sprintf("status: error: %s", m.Status.Text)
	}
	return fmt.Sprintf("status: %s", m.Status.Text)
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

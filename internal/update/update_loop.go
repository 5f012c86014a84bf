package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.retryPending {
		return retryReload()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	prevStatus := m.Status
	next, cmd := m.update(msg)
	next.syncDetail()

	cmds := []tea.Cmd{cmd}
	if next.Status != prevStatus {
		next.statusSeq++
		if next.Status.Text != "" && !next.Status.IsError {
			cmds = append(cmds, clearStatusAfter(next.statusSeq))
		}
	}
	if next.LoadError != nil && !next.retryPending && !next.Quitting {
		next.retryPending = true
		cmds = append(cmds, retryReload())
	}
	return next, tea.Batch(cmds...)
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return ClearStatusMsg{Seq: seq} })
}

func retryReload() tea.Cmd {
	return tea.Tick(reloadRetryPeriod, func(time.Time) tea.Msg { return ReloadTasksMsg{} })
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m.quit()
		}
		if m.CurrentScreen == ScreenEditor && m.Editor.Active {
			var cmd tea.Cmd
			m.Editor, cmd = m.Editor.Update(typed)
			return m, cmd
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.PendingDelete != nil {
			return m.handleDeleteConfirmKey(typed), nil
		}

		switch typed.String() {
		case "/":
			return m.openPalette()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			return m.quit()
		}
		return m.handleListKey(typed), nil
	case tea.WindowSizeMsg:
		m.width = typed.Width
		if typed.Height > 12 {
			m.detailViewport.Height = typed.Height - 12
		}
		return m, nil
	case EditorSavedMsg:
		m.saveDraft(typed)
		return m, nil
	case EditorCancelledMsg:
		m.closeEditor()
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case ReloadTasksMsg:
		m.retryPending = false
		m.reload()
		return m, nil
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq && !m.Status.IsError {
			m.Status = StatusBar{}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.Quitting = true
	m.saveUIState()
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentScreen {
	case ScreenEditor:
		leftPane = m.Editor.View()
		rightPane = m.renderHelpIfVisible()
	default:
		leftPane = m.renderListView()
		rightPane = joinNonEmpty(m.renderCommandPalette(), m.renderDetailPane(), m.renderHelpIfVisible())
	}
	return views.RenderApp(views.AppData{
		Header:     m.header(),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: m.statusLine(),
		Footer: fmt.Sprintf("keys: %s add | enter edit | space done | %s delete | %s filter | / cmd | %s help | %s quit",
			m.Keys.Add, m.Keys.Delete, m.Keys.Filter, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderListView() string {
	rows := make([]views.TaskRowData, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		rows = append(rows, m.rowData(task))
	}
	errText := ""
	if m.LoadError != nil {
		errText = m.LoadError.Error()
	}
	return views.RenderListPanel(views.ListPanelData{
		FilterLabel: string(m.Filter),
		Rows:        rows,
		SelectedID:  m.SelectedTaskID,
		Collapsed:   m.Collapsed,
		ErrorText:   errText,
	})
}

func (m Model) renderDetailPane() string {
	task, ok := m.selectedTask()
	if !ok {
		return views.RenderDetailPanel(views.DetailPanelData{})
	}
	return views.RenderDetailPanel(views.DetailPanelData{
		ID:              task.ID,
		Title:           task.Title,
		Priority:        task.Priority.Label(),
		DueText:         views.FormatDueDate(task.DueDate, m.loc),
		CreatedText:     task.CreatedAt.In(m.loc).Format(views.DueDateLayout),
		Completed:       task.IsCompleted,
		DescriptionView: m.detailViewport.View(),
	})
}

// syncDetail re-renders the markdown description only when the selected
// task or its text changed.
func (m *Model) syncDetail() {
	task, ok := m.selectedTask()
	if !ok {
		m.detailKey = ""
		m.detailViewport.SetContent("")
		return
	}
	desc := task.DescriptionText()
	key := task.ID + "\x00" + desc
	if key == m.detailKey {
		return
	}
	m.detailKey = key
	if strings.TrimSpace(desc) == "" {
		m.detailViewport.SetContent("(no description)")
	} else {
		m.detailViewport.SetContent(views.RenderMarkdown(desc))
	}
	m.detailViewport.GotoTop()
}
